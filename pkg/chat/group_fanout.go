package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/feed"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/snowflake"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/store"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/topic"
)

// GroupFanout persists group messages and broadcasts them to the group's
// topic subscribers, and owns group lifecycle operations. Fan-out targets the
// set of peers who currently have the group open, not the member list: topic
// subscription is view-driven and independent of login presence.
type GroupFanout struct {
	store  store.Store
	topics *topic.Router
	ids    *snowflake.Node
	feed   *feed.Publisher
}

func NewGroupFanout(st store.Store, topics *topic.Router, ids *snowflake.Node, pub *feed.Publisher) *GroupFanout {
	return &GroupFanout{store: st, topics: topics, ids: ids, feed: pub}
}

// CreateGroup creates a group with members = memberIDs ∪ {creatorID} and the
// creator as admin.
func (g *GroupFanout) CreateGroup(ctx context.Context, name string, memberIDs []string, creatorID, avatarURL string) (*model.Group, error) {
	members := lo.Uniq(append(append([]string(nil), memberIDs...), creatorID))
	if name == "" || len(members) < 2 {
		return nil, fmt.Errorf("%w: a group needs a name and at least two members", ErrValidation)
	}

	group := &model.Group{
		ID:        uuid.NewString(),
		Name:      name,
		Members:   members,
		Admin:     creatorID,
		AvatarURL: avatarURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := g.store.SaveGroup(ctx, group); err != nil {
		return nil, wrapStore(err)
	}
	return group, nil
}

// UpdateGroup changes name and/or avatar. Any member may update metadata;
// only delete is restricted to the admin.
func (g *GroupFanout) UpdateGroup(ctx context.Context, groupID, requesterID string, name, avatarURL *string) (*model.Group, error) {
	group, err := g.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, wrapStore(err)
	}
	if !group.HasMember(requesterID) {
		return nil, fmt.Errorf("%w: only members may update a group", ErrUnauthorized)
	}

	if name != nil {
		if *name == "" {
			return nil, fmt.Errorf("%w: group name cannot be empty", ErrValidation)
		}
		group.Name = *name
	}
	if avatarURL != nil {
		group.AvatarURL = *avatarURL
	}

	if err := g.store.UpdateGroup(ctx, group); err != nil {
		return nil, wrapStore(err)
	}
	return group, nil
}

// DeleteGroup removes the group. Admin only.
func (g *GroupFanout) DeleteGroup(ctx context.Context, groupID, requesterID string) error {
	group, err := g.store.GetGroup(ctx, groupID)
	if err != nil {
		return wrapStore(err)
	}
	if group.Admin != requesterID {
		return fmt.Errorf("%w: only the admin may delete a group", ErrUnauthorized)
	}
	return wrapStore(g.store.DeleteGroup(ctx, groupID))
}

// LeaveGroup removes the requester from the member list. Leaving a group the
// requester is not in is a no-op.
func (g *GroupFanout) LeaveGroup(ctx context.Context, groupID, requesterID string) error {
	group, err := g.store.GetGroup(ctx, groupID)
	if err != nil {
		return wrapStore(err)
	}
	if !group.HasMember(requesterID) {
		return nil
	}

	group.Members = lo.Without(group.Members, requesterID)
	return wrapStore(g.store.UpdateGroup(ctx, group))
}

// SendGroupMessage persists the message and broadcasts it to every connection
// subscribed to the group's topic.
func (g *GroupFanout) SendGroupMessage(ctx context.Context, groupID, senderID string, content model.Content) (*model.Message, error) {
	if content.Empty() {
		return nil, fmt.Errorf("%w: message content is empty", ErrValidation)
	}

	group, err := g.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, wrapStore(err)
	}
	if !group.HasMember(senderID) {
		return nil, fmt.Errorf("%w: only members may post to a group", ErrUnauthorized)
	}

	id := g.ids.Generate()
	msg := &model.Message{
		ID:        id,
		SenderID:  senderID,
		GroupID:   groupID,
		Content:   content,
		CreatedAt: snowflake.Timestamp(id).UTC(),
		Likes:     []string{},
	}
	if err := g.store.SaveMessage(ctx, msg); err != nil {
		return nil, wrapStore(err)
	}

	ev := model.Event{
		Name: model.EventGroupMessage,
		Data: model.GroupMessagePayload{GroupID: groupID, Message: *msg},
	}
	g.topics.Broadcast(groupID, ev)
	g.feed.Publish(ctx, ev)

	return msg, nil
}

// GroupHistory returns the group's messages ordered by creation time.
// History is member-only: a user removed from the group loses access to it,
// including messages sent after the removal.
func (g *GroupFanout) GroupHistory(ctx context.Context, groupID, requesterID string) ([]model.Message, error) {
	group, err := g.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, wrapStore(err)
	}
	if !group.HasMember(requesterID) {
		return nil, fmt.Errorf("%w: only members may read a group's history", ErrUnauthorized)
	}
	msgs, err := g.store.GroupHistory(ctx, groupID)
	if err != nil {
		return nil, wrapStore(err)
	}
	return msgs, nil
}

// GroupsFor lists the groups userID belongs to.
func (g *GroupFanout) GroupsFor(ctx context.Context, userID string) ([]model.Group, error) {
	groups, err := g.store.GroupsFor(ctx, userID)
	if err != nil {
		return nil, wrapStore(err)
	}
	return groups, nil
}
