package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"todo-auth-api/api"
)

type contextKey string

const userKey contextKey = "userID"

// WithUserID returns a context carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// UserIDFromContext returns the user id set by Middleware.
func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userKey).(int)
	return userID, ok
}

// Middleware gates a handler behind bearer token verification. A missing
// token is rejected with 401, a bad or expired one with 403; otherwise the
// embedded user id is attached to the request context and the request
// proceeds.
func (tm *TokenManager) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if header == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			rejectWith(w, http.StatusUnauthorized, "No token provided")
			return
		}

		userID, err := tm.Verify(parts[1])
		if err != nil {
			rejectWith(w, http.StatusForbidden, "Failed to authenticate token")
			return
		}

		next(w, r.WithContext(WithUserID(r.Context(), userID)))
	}
}

func rejectWith(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(api.MessageResponse{Message: message}); err != nil {
		log.Printf("ERROR: Failed to encode rejection response: %v", err)
	}
}
