package main

import (
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/auth"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/config"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/db"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/httpx"
)

func main() {
	cfg := config.MustLoad()

	session, err := db.NewSession(cfg.ScyllaHosts, cfg.ScyllaKeyspace)
	if err != nil {
		log.Fatalf("failed to connect to ScyllaDB: %v", err)
	}
	defer session.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	a := auth.New(cfg.JWTSecret)

	mux := http.NewServeMux()

	// Public endpoint
	mux.Handle("/login", httpx.CORS(http.HandlerFunc(LoginHandler(a))))

	// Protected endpoints
	mux.Handle("/users/online", httpx.CORS(a.Middleware(OnlineUsersHandler(rdb))))
	mux.Handle("/conversations", httpx.CORS(a.Middleware(ConversationsHandler(session))))
	mux.Handle("/conversations/read", httpx.CORS(a.Middleware(ReadHandler(session))))

	log.Printf("API Service Starting on %s...", cfg.APIAddr)
	if err := http.ListenAndServe(cfg.APIAddr, mux); err != nil {
		log.Fatal(err)
	}
}
