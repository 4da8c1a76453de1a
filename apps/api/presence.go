package main

import (
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/httpx"
)

const onlineSetKey = "chat:online"

// OnlineUsersHandler serves the presence roster from the Redis mirror the
// gateway maintains on every register/unregister.
func OnlineUsersHandler(rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := rdb.SMembers(r.Context(), onlineSetKey).Result()
		if err != nil {
			log.Printf("failed to fetch online users: %v", err)
			http.Error(w, "Failed to fetch presence", http.StatusInternalServerError)
			return
		}

		httpx.WriteJSON(w, users)
	}
}
