package topic

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
)

type fakeHandle struct {
	id     string
	fail   bool
	mu     sync.Mutex
	events []model.Event
}

func newFakeHandle() *fakeHandle { return &fakeHandle{id: uuid.NewString()} }

func (h *fakeHandle) SessionID() string { return h.id }

func (h *fakeHandle) Send(ev model.Event) error {
	if h.fail {
		return errors.New("channel down")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
	return nil
}

func (h *fakeHandle) Close(string) {}

func TestRouter_JoinIsIdempotent(t *testing.T) {
	req := require.New(t)
	r := NewRouter()
	h := newFakeHandle()

	r.Join("g1", h)
	r.Join("g1", h)

	req.Equal(1, r.Subscribers("g1"))
}

func TestRouter_LeaveIsIdempotent(t *testing.T) {
	req := require.New(t)
	r := NewRouter()
	h := newFakeHandle()

	r.Join("g1", h)
	r.Leave("g1", h)
	r.Leave("g1", h)
	r.Leave("never-joined", h)

	req.Equal(0, r.Subscribers("g1"))
}

func TestRouter_BroadcastReachesAllSubscribers(t *testing.T) {
	req := require.New(t)
	r := NewRouter()

	a, b, c := newFakeHandle(), newFakeHandle(), newFakeHandle()
	r.Join("g1", a)
	r.Join("g1", b)
	r.Join("g1", c)

	delivered := r.Broadcast("g1", model.Event{Name: model.EventGroupMessage})
	req.Equal(3, delivered)
	req.Len(a.events, 1)
	req.Len(b.events, 1)
	req.Len(c.events, 1)
}

func TestRouter_BroadcastSkipsDepartedAndFailed(t *testing.T) {
	req := require.New(t)
	r := NewRouter()

	stays := newFakeHandle()
	left := newFakeHandle()
	broken := newFakeHandle()
	broken.fail = true

	r.Join("g1", stays)
	r.Join("g1", left)
	r.Join("g1", broken)
	r.Leave("g1", left)

	delivered := r.Broadcast("g1", model.Event{Name: model.EventGroupMessage})
	req.Equal(1, delivered)
	req.Len(stays.events, 1)
	req.Empty(left.events)
}

func TestRouter_BroadcastToEmptyTopic(t *testing.T) {
	require.Equal(t, 0, NewRouter().Broadcast("nobody-home", model.Event{Name: model.EventGroupMessage}))
}

func TestRouter_LeaveAllClearsEveryMembership(t *testing.T) {
	req := require.New(t)
	r := NewRouter()
	h := newFakeHandle()
	other := newFakeHandle()

	r.Join("g1", h)
	r.Join("g2", h)
	r.Join("g2", other)

	r.LeaveAll(h)

	req.Equal(0, r.Subscribers("g1"))
	req.Equal(1, r.Subscribers("g2"))
}
