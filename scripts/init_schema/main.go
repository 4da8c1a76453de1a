// Command init_schema creates the chat keyspace and tables. In production
// schema changes belong to a migration tool; this covers local setups.
package main

import (
	"log"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/config"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/db"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS messages (
		conversation text,
		id bigint,
		sender_id text,
		receiver_id text,
		group_id text,
		text text,
		image_url text,
		audio_url text,
		edited boolean,
		likes set<text>,
		created_at timestamp,
		PRIMARY KEY (conversation, id)
	) WITH CLUSTERING ORDER BY (id ASC)`,

	`CREATE TABLE IF NOT EXISTS message_index (
		id bigint PRIMARY KEY,
		conversation text
	)`,

	`CREATE TABLE IF NOT EXISTS groups (
		id text PRIMARY KEY,
		name text,
		members set<text>,
		admin text,
		avatar_url text,
		created_at timestamp
	)`,

	`CREATE TABLE IF NOT EXISTS groups_by_user (
		user_id text,
		group_id text,
		PRIMARY KEY (user_id, group_id)
	)`,

	`CREATE TABLE IF NOT EXISTS user_conversations (
		user_id text,
		other_user_id text,
		last_updated timestamp,
		PRIMARY KEY (user_id, other_user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS conversation_counters (
		user_id text,
		other_user_id text,
		unread_count counter,
		PRIMARY KEY (user_id, other_user_id)
	)`,
}

func main() {
	cfg := config.MustLoad()

	sysSession, err := db.NewSession(cfg.ScyllaHosts, "system")
	if err != nil {
		log.Fatalf("failed to connect to ScyllaDB system keyspace: %v", err)
	}
	err = sysSession.Query(`CREATE KEYSPACE IF NOT EXISTS ` + cfg.ScyllaKeyspace +
		` WITH REPLICATION = { 'class' : 'SimpleStrategy', 'replication_factor' : 1 }`).Exec()
	sysSession.Close()
	if err != nil {
		log.Fatalf("failed to create keyspace: %v", err)
	}

	session, err := db.NewSession(cfg.ScyllaHosts, cfg.ScyllaKeyspace)
	if err != nil {
		log.Fatalf("failed to connect to ScyllaDB: %v", err)
	}
	defer session.Close()

	for _, stmt := range ddl {
		if err := session.Query(stmt).Exec(); err != nil {
			log.Fatalf("failed to apply schema: %v\n%s", err, stmt)
		}
	}
	log.Println("schema ready")
}
