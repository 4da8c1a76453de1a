package main

import (
	"context"
	"log"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/config"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/db"
)

func main() {
	cfg := config.MustLoad()

	session, err := db.NewSession(cfg.ScyllaHosts, cfg.ScyllaKeyspace)
	if err != nil {
		log.Fatalf("failed to connect to ScyllaDB: %v", err)
	}
	defer session.Close()

	consumer := NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, "messaging-service-group", session)
	defer consumer.Close()

	log.Println("Starting chat event consumer...")
	consumer.Consume(context.Background())
}
