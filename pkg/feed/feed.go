// Package feed publishes routed chat events to Kafka as a best-effort change
// feed. Persistence always commits before a publish; consumers build derived
// data (conversation index, unread counters) and never the source of truth.
package feed

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/model"
)

// Publisher writes event envelopes to a Kafka topic. A nil Publisher is a
// valid no-op, used by tests and memory-store deployments.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish emits ev. Failures are logged and swallowed: the feed carries
// derived data only, so a miss costs an index update, not a message.
func (p *Publisher) Publish(ctx context.Context, ev model.Event) {
	if p == nil {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("feed: failed to marshal %s event: %v", ev.Name, err)
		return
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Value: payload,
		Time:  time.Now(),
	})
	if err != nil {
		log.Printf("feed: failed to publish %s event: %v", ev.Name, err)
	}
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
