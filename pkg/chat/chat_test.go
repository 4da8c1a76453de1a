package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/registry"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/snowflake"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/store"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/topic"
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

func (h *fakeHandle) byName(name model.EventName) []model.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []model.Event
	for _, ev := range h.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

// brokenStore injects a failure on message writes.
type brokenStore struct {
	*store.Memory
	saveErr error
}

func (s *brokenStore) SaveMessage(ctx context.Context, msg *model.Message) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.Memory.SaveMessage(ctx, msg)
}

type fixture struct {
	store    *store.Memory
	reg      *registry.Registry
	topics   *topic.Router
	messages *MessageRouter
	groups   *GroupFanout
	typing   *TypingSignal
}

func newFixture() *fixture {
	st := store.NewMemory()
	reg := registry.New()
	topics := topic.NewRouter()
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return &fixture{
		store:    st,
		reg:      reg,
		topics:   topics,
		messages: NewMessageRouter(st, reg, topics, node, nil),
		groups:   NewGroupFanout(st, topics, node, nil),
		typing:   NewTypingSignal(reg),
	}
}
