package main

import (
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/auth"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/chat"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/config"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/db"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/feed"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/registry"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/snowflake"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/store"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/topic"
)

func main() {
	cfg := config.MustLoad()

	if f, err := cfg.OpenLogFile(); err != nil {
		log.Fatalf("error opening log file: %v", err)
	} else if f != nil {
		defer f.Close()
	}

	node, err := snowflake.NewNode(cfg.SnowflakeNode)
	if err != nil {
		log.Fatalf("failed to initialize snowflake node: %v", err)
	}

	var st store.Store
	var pub *feed.Publisher
	if cfg.Store == "memory" {
		st = store.NewMemory()
	} else {
		session, err := db.NewSession(cfg.ScyllaHosts, cfg.ScyllaKeyspace)
		if err != nil {
			log.Fatalf("failed to connect to ScyllaDB: %v", err)
		}
		defer session.Close()
		st = store.NewScylla(session)

		pub = feed.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer pub.Close()
	}

	var rdb *redis.Client
	if cfg.Store != "memory" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
	}

	reg := registry.New()
	presence := registry.NewPresence(reg, rdb)
	topics := topic.NewRouter()

	messages := chat.NewMessageRouter(st, reg, topics, node, pub)
	groups := chat.NewGroupFanout(st, topics, node, pub)
	typing := chat.NewTypingSignal(reg)

	a := auth.New(cfg.JWTSecret)
	gateway := NewGateway(a, presence, topics, typing)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gateway.serveWs)
	newRestAPI(messages, groups).routes(mux, a)

	log.Printf("Gateway Service Starting on %s...", cfg.GatewayAddr)
	if err := http.ListenAndServe(cfg.GatewayAddr, mux); err != nil {
		log.Fatal(err)
	}
}
