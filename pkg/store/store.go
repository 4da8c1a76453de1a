// Package store defines the storage collaborator boundary for messages and
// groups, with a ScyllaDB implementation for deployment and an in-memory
// implementation for tests and local development.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
)

// ErrNotFound is returned when a message or group does not exist.
var ErrNotFound = errors.New("not found")

// Store is the persistence port consumed by the routing core. Histories are
// returned ordered by creation time ascending. Implementations must be safe
// for concurrent use.
type Store interface {
	SaveMessage(ctx context.Context, msg *model.Message) error
	GetMessage(ctx context.Context, id int64) (*model.Message, error)
	UpdateMessage(ctx context.Context, msg *model.Message) error
	DirectHistory(ctx context.Context, userA, userB string) ([]model.Message, error)
	GroupHistory(ctx context.Context, groupID string) ([]model.Message, error)

	SaveGroup(ctx context.Context, g *model.Group) error
	GetGroup(ctx context.Context, id string) (*model.Group, error)
	UpdateGroup(ctx context.Context, g *model.Group) error
	DeleteGroup(ctx context.Context, id string) error
	GroupsFor(ctx context.Context, userID string) ([]model.Group, error)
}

// ConversationKey derives the partition key for a message. Direct messages
// share one key regardless of direction; group messages key on the group.
func ConversationKey(msg *model.Message) string {
	if msg.GroupID != "" {
		return "group:" + msg.GroupID
	}
	return DirectKey(msg.SenderID, msg.ReceiverID)
}

// DirectKey builds the order-independent key for a pair of users.
func DirectKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return strings.Join([]string{"dm", a, b}, ":")
}

func sortByCreatedAt(msgs []model.Message) {
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID < msgs[j].ID
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
}
