package middleware

import (
	"context"
	"net/http"
	"strings"
)

// UserIDHeader carries the caller's identity, set by the upstream authenticating proxy.
const UserIDHeader = "X-User-Id"

type userIDKey struct{}

// identitySlot lets an outer middleware observe the user id authenticated further down the chain.
type identitySlot struct{ userID string }

type identitySlotKey struct{}

// RequireUser rejects requests without a user id and stores it in the request context.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			http.Error(w, "Missing "+UserIDHeader+" header", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	if slot, ok := ctx.Value(identitySlotKey{}).(*identitySlot); ok {
		slot.userID = userID
	}
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserID returns the user id stored by RequireUser or BearerAuth, or "" if there is none.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}
