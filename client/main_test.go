package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/clientsync"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
)

// Pushed frames arrive on the websocket read loop while the stdin loop may be
// switching conversations. Both paths go through the session mutex, so a
// frame lands either in the old store or the new one, never in a torn state.
func TestSession_ConcurrentPushAndConversationSwitch(t *testing.T) {
	req := require.New(t)

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]model.Message{})
	}))
	defer gateway.Close()

	s := &session{
		userID:      "alice",
		gatewayAddr: gateway.URL,
		out:         io.Discard,
		store:       clientsync.NewStore(clientsync.Conversation{SelfID: "alice"}),
	}

	frame, err := json.Marshal(model.Event{
		Name: model.EventNewMessage,
		Data: model.Message{ID: 1, SenderID: "bob", ReceiverID: "alice",
			Content: model.Content{Text: "hi"}, CreatedAt: time.Now().UTC()},
	})
	req.NoError(err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.applyFrame(frame)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			peer := "bob"
			if i%2 == 1 {
				peer = "carol"
			}
			if err := s.openDirect(peer); err != nil {
				t.Error(err)
				return
			}
		}
	}()
	wg.Wait()

	// The frame dedupes by id within the store it landed in, and the carol
	// conversation filters it out entirely.
	s.mu.Lock()
	defer s.mu.Unlock()
	req.LessOrEqual(s.store.Len(), 1)
}

func TestSession_ApplyFrameIgnoresMalformedPayload(t *testing.T) {
	req := require.New(t)

	s := &session{
		userID: "alice",
		out:    io.Discard,
		store:  clientsync.NewStore(clientsync.Conversation{SelfID: "alice", PeerID: "bob"}),
	}

	s.applyFrame([]byte(`{"event":"newMessage","data":"not a message"}`))
	req.Zero(s.store.Len())
}
