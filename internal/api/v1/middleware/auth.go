package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"leadtracker/internal/log"
	"leadtracker/pkg/response"
)

// Claims is the payload of the bearer tokens issued to dashboard users.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type userIDKey struct{}

// UserIDFromContext returns the user authenticated by Authenticate.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// Authenticate accepts HS256 bearer tokens signed with secret and carrying a
// userId claim.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			if !strings.HasPrefix(auth, "Bearer ") {
				w.Header().Set("WWW-Authenticate", `Bearer realm="leadtracker"`)
				response.Error(w, http.StatusUnauthorized, "No token provided")
				return
			}

			var claims Claims
			_, err := jwt.ParseWithClaims(
				strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")),
				&claims,
				func(*jwt.Token) (any, error) { return secret, nil },
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			)
			if err != nil || claims.UserID == "" {
				log.Logger.Debug("rejected bearer token",
					zap.String("request_id", RequestIDFromContext(r.Context())),
					zap.Error(err),
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="leadtracker", error="invalid_token"`)
				response.Error(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, claims.UserID)))
		})
	}
}
