package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

// identityKey is the context key for the verified request identity.
const identityKey = contextKey("identity")

// IdentityFromContext returns the identity attached by Middleware, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// Middleware gates requests on a valid bearer token. A missing or unverifiable
// token ends the request with 401; on success the resolved identity is
// attached to the request context for downstream handlers. Token validity is
// checked here and nowhere else.
func Middleware(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "No token provided")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w, "No token provided")
				return
			}

			identity, err := tokens.Verify(parts[1])
			if err != nil {
				unauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"msg": msg})
}
