package store

import (
	"context"
	"sync"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
	"github.com/samber/lo"
)

// Memory is a map-backed Store. It returns copies so callers never alias
// stored state.
type Memory struct {
	mu       sync.RWMutex
	messages map[int64]*model.Message
	byConv   map[string][]int64
	groups   map[string]*model.Group
}

func NewMemory() *Memory {
	return &Memory{
		messages: make(map[int64]*model.Message),
		byConv:   make(map[string][]int64),
		groups:   make(map[string]*model.Group),
	}
}

func (s *Memory) SaveMessage(_ context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := cloneMessage(msg)
	if _, exists := s.messages[cp.ID]; !exists {
		key := ConversationKey(cp)
		s.byConv[key] = append(s.byConv[key], cp.ID)
	}
	s.messages[cp.ID] = cp
	return nil
}

func (s *Memory) GetMessage(_ context.Context, id int64) (*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneMessage(msg), nil
}

func (s *Memory) UpdateMessage(_ context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[msg.ID]; !ok {
		return ErrNotFound
	}
	s.messages[msg.ID] = cloneMessage(msg)
	return nil
}

func (s *Memory) DirectHistory(_ context.Context, userA, userB string) ([]model.Message, error) {
	return s.history(DirectKey(userA, userB)), nil
}

func (s *Memory) GroupHistory(_ context.Context, groupID string) ([]model.Message, error) {
	return s.history("group:" + groupID), nil
}

func (s *Memory) history(key string) []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := make([]model.Message, 0, len(s.byConv[key]))
	for _, id := range s.byConv[key] {
		msgs = append(msgs, *cloneMessage(s.messages[id]))
	}
	sortByCreatedAt(msgs)
	return msgs
}

func (s *Memory) SaveGroup(_ context.Context, g *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = cloneGroup(g)
	return nil
}

func (s *Memory) GetGroup(_ context.Context, id string) (*model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneGroup(g), nil
}

func (s *Memory) UpdateGroup(_ context.Context, g *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[g.ID]; !ok {
		return ErrNotFound
	}
	s.groups[g.ID] = cloneGroup(g)
	return nil
}

func (s *Memory) DeleteGroup(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[id]; !ok {
		return ErrNotFound
	}
	delete(s.groups, id)
	return nil
}

func (s *Memory) GroupsFor(_ context.Context, userID string) ([]model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Group
	for _, g := range s.groups {
		if g.HasMember(userID) {
			out = append(out, *cloneGroup(g))
		}
	}
	return out, nil
}

func cloneMessage(msg *model.Message) *model.Message {
	cp := *msg
	cp.Likes = lo.Uniq(append([]string(nil), msg.Likes...))
	return &cp
}

func cloneGroup(g *model.Group) *model.Group {
	cp := *g
	cp.Members = append([]string(nil), g.Members...)
	return &cp
}
