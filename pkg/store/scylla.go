package store

import (
	"context"
	"errors"

	"github.com/gocql/gocql"
	"github.com/samber/lo"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/db"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
)

// Scylla implements Store on top of ScyllaDB. Messages partition by
// conversation key with the snowflake ID as clustering column, so history
// reads come back already ordered. A small index table maps a message ID back
// to its partition for point lookups.
type Scylla struct {
	session *db.Session
}

func NewScylla(session *db.Session) *Scylla {
	return &Scylla{session: session}
}

func (s *Scylla) SaveMessage(ctx context.Context, msg *model.Message) error {
	conv := ConversationKey(msg)

	q := `INSERT INTO messages (conversation, id, sender_id, receiver_id, group_id, text, image_url, audio_url, edited, likes, created_at)
	      VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if err := s.session.Query(q,
		conv, msg.ID, msg.SenderID, msg.ReceiverID, msg.GroupID,
		msg.Content.Text, msg.Content.ImageURL, msg.Content.AudioURL,
		msg.Edited, msg.Likes, msg.CreatedAt,
	).WithContext(ctx).Exec(); err != nil {
		return err
	}

	return s.session.Query(`INSERT INTO message_index (id, conversation) VALUES (?, ?)`,
		msg.ID, conv).WithContext(ctx).Exec()
}

func (s *Scylla) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	var conv string
	err := s.session.Query(`SELECT conversation FROM message_index WHERE id = ?`, id).
		WithContext(ctx).Scan(&conv)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	msg := &model.Message{}
	err = s.session.Query(`SELECT id, sender_id, receiver_id, group_id, text, image_url, audio_url, edited, likes, created_at
	                       FROM messages WHERE conversation = ? AND id = ?`, conv, id).
		WithContext(ctx).Scan(
		&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.GroupID,
		&msg.Content.Text, &msg.Content.ImageURL, &msg.Content.AudioURL,
		&msg.Edited, &msg.Likes, &msg.CreatedAt,
	)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Scylla) UpdateMessage(ctx context.Context, msg *model.Message) error {
	conv := ConversationKey(msg)
	return s.session.Query(`UPDATE messages SET text = ?, edited = ?, likes = ? WHERE conversation = ? AND id = ?`,
		msg.Content.Text, msg.Edited, msg.Likes, conv, msg.ID).
		WithContext(ctx).Exec()
}

func (s *Scylla) DirectHistory(ctx context.Context, userA, userB string) ([]model.Message, error) {
	return s.history(ctx, DirectKey(userA, userB))
}

func (s *Scylla) GroupHistory(ctx context.Context, groupID string) ([]model.Message, error) {
	return s.history(ctx, "group:"+groupID)
}

func (s *Scylla) history(ctx context.Context, conv string) ([]model.Message, error) {
	iter := s.session.Query(`SELECT id, sender_id, receiver_id, group_id, text, image_url, audio_url, edited, likes, created_at
	                         FROM messages WHERE conversation = ?`, conv).
		WithContext(ctx).Iter()

	var msgs []model.Message
	var msg model.Message
	for iter.Scan(
		&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.GroupID,
		&msg.Content.Text, &msg.Content.ImageURL, &msg.Content.AudioURL,
		&msg.Edited, &msg.Likes, &msg.CreatedAt,
	) {
		msgs = append(msgs, msg)
		msg = model.Message{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	sortByCreatedAt(msgs)
	return msgs, nil
}

func (s *Scylla) SaveGroup(ctx context.Context, g *model.Group) error {
	q := `INSERT INTO groups (id, name, members, admin, avatar_url, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	if err := s.session.Query(q, g.ID, g.Name, g.Members, g.Admin, g.AvatarURL, g.CreatedAt).
		WithContext(ctx).Exec(); err != nil {
		return err
	}
	for _, member := range g.Members {
		if err := s.session.Query(`INSERT INTO groups_by_user (user_id, group_id) VALUES (?, ?)`,
			member, g.ID).WithContext(ctx).Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scylla) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	g := &model.Group{}
	err := s.session.Query(`SELECT id, name, members, admin, avatar_url, created_at FROM groups WHERE id = ?`, id).
		WithContext(ctx).Scan(&g.ID, &g.Name, &g.Members, &g.Admin, &g.AvatarURL, &g.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Scylla) UpdateGroup(ctx context.Context, g *model.Group) error {
	prev, err := s.GetGroup(ctx, g.ID)
	if err != nil {
		return err
	}

	if err := s.SaveGroup(ctx, g); err != nil {
		return err
	}

	// Drop index rows for members no longer in the group.
	removed, _ := lo.Difference(prev.Members, g.Members)
	for _, member := range removed {
		if err := s.session.Query(`DELETE FROM groups_by_user WHERE user_id = ? AND group_id = ?`,
			member, g.ID).WithContext(ctx).Exec(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scylla) DeleteGroup(ctx context.Context, id string) error {
	g, err := s.GetGroup(ctx, id)
	if err != nil {
		return err
	}
	for _, member := range g.Members {
		if err := s.session.Query(`DELETE FROM groups_by_user WHERE user_id = ? AND group_id = ?`,
			member, id).WithContext(ctx).Exec(); err != nil {
			return err
		}
	}
	return s.session.Query(`DELETE FROM groups WHERE id = ?`, id).WithContext(ctx).Exec()
}

func (s *Scylla) GroupsFor(ctx context.Context, userID string) ([]model.Group, error) {
	iter := s.session.Query(`SELECT group_id FROM groups_by_user WHERE user_id = ?`, userID).
		WithContext(ctx).Iter()

	var ids []string
	var id string
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	groups := make([]model.Group, 0, len(ids))
	for _, gid := range ids {
		g, err := s.GetGroup(ctx, gid)
		if errors.Is(err, ErrNotFound) {
			continue // index row outlived the group row
		}
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, nil
}
