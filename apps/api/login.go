package main

import (
	"encoding/json"
	"net/http"

	"github.com/anushkaaa19/Chatterbox-sub000/pkg/auth"
	"github.com/anushkaaa19/Chatterbox-sub000/pkg/httpx"
)

type LoginRequest struct {
	UserID string `json:"userId"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// LoginHandler issues the JWT credential presented at connect time. User
// verification belongs to the external identity collaborator; this service
// only binds an identity to a token.
func LoginHandler(a *auth.Auth) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.UserID == "" {
			http.Error(w, "userId is required", http.StatusBadRequest)
			return
		}

		token, err := a.GenerateToken(req.UserID)
		if err != nil {
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		httpx.WriteJSON(w, LoginResponse{Token: token})
	}
}
