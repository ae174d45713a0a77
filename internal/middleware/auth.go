package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// OwnerHeader carries the caller's person ID. Upstream infrastructure is
// expected to authenticate the user and set this header; the API trusts it.
const OwnerHeader = "X-Person-ID"

type ctxKey int

const ownerKey ctxKey = iota

// RequireOwner extracts the caller identity from the request headers and
// stores it in the request context. Requests without a valid person ID are
// rejected with 401 before reaching the handler.
func RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.Header.Get(OwnerHeader))
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"missing or invalid ` + OwnerHeader + ` header"}}`))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), id)))
	})
}

// WithOwnerID returns a context carrying the caller's person ID.
// Exported so handler tests can inject an identity without the middleware.
func WithOwnerID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerKey, id)
}

// OwnerID returns the caller's person ID stored by RequireOwner.
func OwnerID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ownerKey).(uuid.UUID)
	return id, ok
}
