package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
)

func TestDirectKey_OrderIndependent(t *testing.T) {
	req := require.New(t)
	req.Equal(DirectKey("alice", "bob"), DirectKey("bob", "alice"))
	req.Equal("dm:alice:bob", DirectKey("bob", "alice"))
}

func TestMemory_DirectHistoryIsOrderedAndIsolated(t *testing.T) {
	req := require.New(t)
	s := NewMemory()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	req.NoError(s.SaveMessage(ctx, &model.Message{ID: 2, SenderID: "bob", ReceiverID: "alice", CreatedAt: base.Add(time.Second)}))
	req.NoError(s.SaveMessage(ctx, &model.Message{ID: 1, SenderID: "alice", ReceiverID: "bob", CreatedAt: base}))
	req.NoError(s.SaveMessage(ctx, &model.Message{ID: 3, SenderID: "alice", ReceiverID: "carol", CreatedAt: base}))

	history, err := s.DirectHistory(ctx, "bob", "alice")
	req.NoError(err)
	req.Len(history, 2)
	req.Equal(int64(1), history[0].ID)
	req.Equal(int64(2), history[1].ID)
}

func TestMemory_UpdateMissingMessage(t *testing.T) {
	req := require.New(t)
	s := NewMemory()

	err := s.UpdateMessage(context.Background(), &model.Message{ID: 42})
	req.ErrorIs(err, ErrNotFound)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	req := require.New(t)
	s := NewMemory()
	ctx := context.Background()

	msg := &model.Message{ID: 1, SenderID: "alice", ReceiverID: "bob", Likes: []string{"bob"}}
	req.NoError(s.SaveMessage(ctx, msg))

	got, err := s.GetMessage(ctx, 1)
	req.NoError(err)
	got.Likes[0] = "mallory"

	again, err := s.GetMessage(ctx, 1)
	req.NoError(err)
	req.Equal([]string{"bob"}, again.Likes)
}

func TestMemory_GroupLifecycle(t *testing.T) {
	req := require.New(t)
	s := NewMemory()
	ctx := context.Background()

	g := &model.Group{ID: "g1", Name: "team", Members: []string{"alice", "bob"}, Admin: "alice"}
	req.NoError(s.SaveGroup(ctx, g))

	groups, err := s.GroupsFor(ctx, "bob")
	req.NoError(err)
	req.Len(groups, 1)

	req.NoError(s.DeleteGroup(ctx, "g1"))
	_, err = s.GetGroup(ctx, "g1")
	req.ErrorIs(err, ErrNotFound)

	req.ErrorIs(s.DeleteGroup(ctx, "g1"), ErrNotFound)
}
