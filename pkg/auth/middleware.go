package auth

import (
	"context"
	"net/http"
)

// Middleware validates the bearer token and stores the claims in the request
// context. Requests without a valid token are rejected.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		claims, err := a.ValidateToken(StripBearer(tokenString))
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated user from a request context, or "".
func UserID(ctx context.Context) string {
	claims, ok := ctx.Value(UserKey).(*Claims)
	if !ok {
		return ""
	}
	return claims.UserID
}
