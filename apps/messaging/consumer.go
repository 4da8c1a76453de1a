package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/db"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
)

// Consumer drains the chat event feed and maintains the derived conversation
// index: recency rows for both participants of a direct message plus an
// unread counter for the recipient. The feed is best-effort, so the index is
// eventually consistent with history; it never feeds back into routing.
type Consumer struct {
	reader *kafka.Reader
	db     *db.Session
}

func NewConsumer(brokers []string, topic string, groupID string, session *db.Session) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	return &Consumer{reader: r, db: session}
}

func (c *Consumer) Consume(ctx context.Context) {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("error reading event: %v. Retrying in 1s...", err)
			time.Sleep(1 * time.Second)
			continue
		}

		var envelope struct {
			Name model.EventName `json:"event"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(m.Value, &envelope); err != nil {
			log.Printf("failed to unmarshal event: %v", err)
			continue
		}

		// Only new direct messages move the conversation index. Mutations
		// keep their original recency and group activity is listed through
		// the groups surface instead.
		if envelope.Name != model.EventNewMessage {
			continue
		}

		var msg model.Message
		if err := json.Unmarshal(envelope.Data, &msg); err != nil {
			log.Printf("failed to unmarshal message event: %v", err)
			continue
		}
		if msg.GroupID != "" || msg.ReceiverID == "" {
			continue
		}

		c.indexDirect(ctx, &msg)
	}
}

func (c *Consumer) indexDirect(ctx context.Context, msg *model.Message) {
	for _, pair := range [][2]string{
		{msg.SenderID, msg.ReceiverID},
		{msg.ReceiverID, msg.SenderID},
	} {
		q := `INSERT INTO user_conversations (user_id, other_user_id, last_updated) VALUES (?, ?, ?)`
		if err := c.db.Query(q, pair[0], pair[1], msg.CreatedAt).WithContext(ctx).Exec(); err != nil {
			log.Printf("failed to update conversation for %s: %v", pair[0], err)
		}
	}

	q := `UPDATE conversation_counters SET unread_count = unread_count + 1 WHERE user_id = ? AND other_user_id = ?`
	if err := c.db.Query(q, msg.ReceiverID, msg.SenderID).WithContext(ctx).Exec(); err != nil {
		log.Printf("failed to increment unread count for %s: %v", msg.ReceiverID, err)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
