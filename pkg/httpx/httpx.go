// Package httpx carries the small HTTP plumbing shared by the gateway and
// api services: CORS, JSON responses, and the error-to-status mapping for the
// chat error taxonomy.
package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/chat"
)

// CORS allows cross-origin requests. Permissive for development, matching
// the deployment this service targets.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if r.Method == "OPTIONS" {
			return
		}

		next.ServeHTTP(w, r)
	})
}

// WriteJSON writes v as a JSON response body.
func WriteJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("httpx: failed to encode response: %v", err)
	}
}

// WriteError maps a service error onto an HTTP status. The caller of a
// failed operation always sees an explicit failure notice.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, chat.ErrUnauthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, chat.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("httpx: internal error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
