package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/auth"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/db"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/httpx"
)

type Conversation struct {
	PeerID      string    `json:"peerId"`
	LastUpdated time.Time `json:"lastUpdated"`
	UnreadCount int64     `json:"unreadCount"`
}

// ConversationsHandler lists the caller's direct conversations by recency
// with unread counts, from the index the messaging consumer maintains.
func ConversationsHandler(session *db.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		iter := session.Query(`SELECT other_user_id, last_updated FROM user_conversations WHERE user_id = ?`, userID).
			WithContext(r.Context()).Iter()

		var conversations []Conversation
		var c Conversation
		for iter.Scan(&c.PeerID, &c.LastUpdated) {
			var count int64
			if err := session.Query(`SELECT unread_count FROM conversation_counters WHERE user_id = ? AND other_user_id = ?`,
				userID, c.PeerID).WithContext(r.Context()).Scan(&count); err == nil {
				c.UnreadCount = count
			}
			conversations = append(conversations, c)
			c = Conversation{}
		}

		if err := iter.Close(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		httpx.WriteJSON(w, conversations)
	}
}

type ReadRequest struct {
	PeerID string `json:"peerId"`
}

// ReadHandler resets the unread counter for one conversation. Counter rows
// cannot be set in Scylla; deleting the row is the reset.
func ReadHandler(session *db.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		userID := auth.UserID(r.Context())
		if userID == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req ReadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		err := session.Query(`DELETE FROM conversation_counters WHERE user_id = ? AND other_user_id = ?`,
			userID, req.PeerID).WithContext(r.Context()).Exec()
		if err != nil {
			http.Error(w, "Failed to reset unread count", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
