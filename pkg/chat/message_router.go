// Package chat implements the routing core: direct message delivery, group
// fan-out, message mutation, and typing relay. Every operation persists first
// and then pushes best-effort; push failures are logged and swallowed because
// the receiver's next history fetch is the durability fallback.
package chat

import (
	"context"
	"fmt"
	"log"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/feed"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/registry"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/snowflake"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/store"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/topic"
)

// MessageRouter routes direct messages and applies edit/like mutations.
type MessageRouter struct {
	store  store.Store
	reg    *registry.Registry
	topics *topic.Router
	ids    *snowflake.Node
	feed   *feed.Publisher
}

func NewMessageRouter(st store.Store, reg *registry.Registry, topics *topic.Router, ids *snowflake.Node, pub *feed.Publisher) *MessageRouter {
	return &MessageRouter{store: st, reg: reg, topics: topics, ids: ids, feed: pub}
}

// SendDirect persists the message, then pushes it to the receiver's live
// channel if one exists. The persisted message is always returned to the
// caller, push or no push, for optimistic reconciliation.
func (r *MessageRouter) SendDirect(ctx context.Context, senderID, receiverID string, content model.Content) (*model.Message, error) {
	if senderID == "" || receiverID == "" {
		return nil, fmt.Errorf("%w: sender and receiver are required", ErrValidation)
	}
	if content.Empty() {
		return nil, fmt.Errorf("%w: message content is empty", ErrValidation)
	}

	id := r.ids.Generate()
	msg := &model.Message{
		ID:         id,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  snowflake.Timestamp(id).UTC(),
		Likes:      []string{},
	}
	if err := r.store.SaveMessage(ctx, msg); err != nil {
		return nil, wrapStore(err)
	}

	ev := model.Event{Name: model.EventNewMessage, Data: *msg}
	if h, ok := r.reg.Lookup(receiverID); ok {
		if err := h.Send(ev); err != nil {
			log.Printf("router: dropped newMessage push to %s: %v", receiverID, err)
		}
	}
	r.feed.Publish(ctx, ev)

	return msg, nil
}

// Edit replaces the text of a message. Only the original sender may edit;
// the edited flag is monotonic and never reverts.
func (r *MessageRouter) Edit(ctx context.Context, messageID int64, requesterID, newText string) (*model.Message, error) {
	if newText == "" {
		return nil, fmt.Errorf("%w: edited text is empty", ErrValidation)
	}

	msg, err := r.store.GetMessage(ctx, messageID)
	if err != nil {
		return nil, wrapStore(err)
	}
	if msg.SenderID != requesterID {
		return nil, fmt.Errorf("%w: only the sender may edit a message", ErrUnauthorized)
	}

	msg.Content.Text = newText
	msg.Edited = true
	if err := r.store.UpdateMessage(ctx, msg); err != nil {
		return nil, wrapStore(err)
	}

	r.pushMutation(ctx, model.EventEdited, msg)
	return msg, nil
}

// ToggleLike adds userID to the likes set, or removes it if already present.
func (r *MessageRouter) ToggleLike(ctx context.Context, messageID int64, userID string) (*model.Message, error) {
	msg, err := r.store.GetMessage(ctx, messageID)
	if err != nil {
		return nil, wrapStore(err)
	}

	if msg.LikedBy(userID) {
		likes := msg.Likes[:0]
		for _, id := range msg.Likes {
			if id != userID {
				likes = append(likes, id)
			}
		}
		msg.Likes = likes
	} else {
		msg.Likes = append(msg.Likes, userID)
	}

	if err := r.store.UpdateMessage(ctx, msg); err != nil {
		return nil, wrapStore(err)
	}

	r.pushMutation(ctx, model.EventLiked, msg)
	return msg, nil
}

// pushMutation re-pushes a mutated message: to the direct receiver's channel
// for direct messages, or through the group's topic for group messages (a
// group message has no single receiver to look up).
func (r *MessageRouter) pushMutation(ctx context.Context, name model.EventName, msg *model.Message) {
	ev := model.Event{Name: name, Data: *msg}

	if msg.GroupID != "" {
		r.topics.Broadcast(msg.GroupID, ev)
	} else if h, ok := r.reg.Lookup(msg.ReceiverID); ok {
		if err := h.Send(ev); err != nil {
			log.Printf("router: dropped %s push to %s: %v", name, msg.ReceiverID, err)
		}
	}
	r.feed.Publish(ctx, ev)
}

// DirectHistory returns the (userA, userB) conversation ordered by creation
// time ascending.
func (r *MessageRouter) DirectHistory(ctx context.Context, userA, userB string) ([]model.Message, error) {
	msgs, err := r.store.DirectHistory(ctx, userA, userB)
	if err != nil {
		return nil, wrapStore(err)
	}
	return msgs, nil
}
