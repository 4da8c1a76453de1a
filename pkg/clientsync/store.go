// Package clientsync reconciles a client's view of one active conversation:
// locally optimistic sends, server-confirmed responses, and asynchronously
// pushed events merge into a single deduplicated, createdAt-ordered message
// list. The canonical state is an id-keyed map; display order is derived at
// read time, never from arrival order.
package clientsync

import (
	"bytes"
	"encoding/json"
	"sort"
	"sync"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
)

// Conversation identifies what the client currently has open: a direct peer
// or a group, never both.
type Conversation struct {
	SelfID  string
	PeerID  string
	GroupID string
}

// Direct reports whether the conversation is a direct one.
func (c Conversation) Direct() bool { return c.GroupID == "" }

// Store holds the reconciled state for one active conversation. Selecting a
// new conversation means constructing a new Store and loading history into
// it; stale pushes for the old conversation no longer match the filter.
type Store struct {
	mu     sync.Mutex
	conv   Conversation
	byID   map[int64]*model.Message
	typing map[string]bool
}

func NewStore(conv Conversation) *Store {
	return &Store{
		conv:   conv,
		byID:   make(map[int64]*model.Message),
		typing: make(map[string]bool),
	}
}

// LoadHistory replaces all message state with the fetched history. Typing
// indicators survive a reload; they are transport state, not history.
func (s *Store) LoadHistory(msgs []model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[int64]*model.Message, len(msgs))
	for i := range msgs {
		cp := msgs[i]
		s.byID[cp.ID] = &cp
	}
}

// Insert merges one message. An id already present is a no-op (the server
// echo of an optimistic append); a new id is added. Returns whether the
// message was accepted for this conversation.
func (s *Store) Insert(msg model.Message) bool {
	if !s.matches(&msg) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[msg.ID]; exists {
		return true
	}
	cp := msg
	s.byID[cp.ID] = &cp
	return true
}

// Mutate overwrites the mutable fields of an existing message in place. If
// the id is unknown (conversation switched away and back) the event is
// ignored; the next history fetch reflects the true state. The edited flag is
// monotonic and never reverts.
func (s *Store) Mutate(msg model.Message) bool {
	if !s.matches(&msg) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[msg.ID]
	if !ok {
		return false
	}
	current.Content.Text = msg.Content.Text
	current.Edited = current.Edited || msg.Edited
	current.Likes = append([]string(nil), msg.Likes...)
	return true
}

// matches filters pushed events to the active conversation: a direct message
// must involve exactly the (self, peer) pair in either direction, a group
// message must carry the active groupId.
func (s *Store) matches(msg *model.Message) bool {
	if s.conv.Direct() {
		if msg.GroupID != "" {
			return false
		}
		a, b := msg.SenderID, msg.ReceiverID
		return (a == s.conv.SelfID && b == s.conv.PeerID) ||
			(a == s.conv.PeerID && b == s.conv.SelfID)
	}
	return msg.GroupID == s.conv.GroupID
}

// Messages returns the conversation ordered by createdAt ascending, with the
// time-ordered message ID as tiebreak so the order is stable across fetches.
func (s *Store) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Message, 0, len(s.byID))
	for _, msg := range s.byID {
		out = append(out, *msg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len reports how many messages the store currently holds.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// SetTyping records whether userID is currently typing.
func (s *Store) SetTyping(userID string, typing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if typing {
		s.typing[userID] = true
	} else {
		delete(s.typing, userID)
	}
}

// PeerTyping reports whether userID is currently typing.
func (s *Store) PeerTyping(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing[userID]
}

// ApplyRaw decodes one push-channel frame and applies it. The server may fold
// several queued events into a single frame, so a frame holds one or more
// envelopes. Unknown or non-matching events are ignored. Returns the last
// event name for callers that want to react (e.g. redraw).
func (s *Store) ApplyRaw(frame []byte) (model.EventName, error) {
	var last model.EventName
	dec := json.NewDecoder(bytes.NewReader(frame))
	for dec.More() {
		var envelope struct {
			Name model.EventName `json:"event"`
			Data json.RawMessage `json:"data"`
		}
		if err := dec.Decode(&envelope); err != nil {
			return last, err
		}
		if err := s.apply(envelope.Name, envelope.Data); err != nil {
			return envelope.Name, err
		}
		last = envelope.Name
	}
	return last, nil
}

func (s *Store) apply(name model.EventName, data json.RawMessage) error {
	switch name {
	case model.EventNewMessage:
		var msg model.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return err
		}
		s.Insert(msg)
	case model.EventGroupMessage:
		var payload model.GroupMessagePayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		s.Insert(payload.Message)
	case model.EventEdited, model.EventLiked:
		var msg model.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return err
		}
		s.Mutate(msg)
	case model.EventTyping, model.EventStopTyping:
		var payload model.TypingPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return err
		}
		s.SetTyping(payload.UserID, name == model.EventTyping)
	}
	return nil
}
