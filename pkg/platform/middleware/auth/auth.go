// Package auth gates routes on the caller's session token and role.
//
// The gate distinguishes two failure families deliberately: a request that
// carries no token at all is refused as forbidden, while a token that fails
// validation (bad signature, expired) is refused as unauthorized so clients
// know to re-authenticate.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	request "permit-gateway/pkg/platform/middleware/request"
)

// SessionClaims is the slice of the session token the middleware needs.
// UpstreamKey is the caller's upstream API key when the token carried one
// (opened from its sealed form by the validator); it is cleartext here and
// must never be logged.
type SessionClaims struct {
	UserID      int64
	Username    string
	Role        string
	UpstreamKey string
}

// SessionValidator validates an access token and returns its claims. A
// refresh token presented on a protected route must fail validation.
type SessionValidator interface {
	ValidateAccess(token string) (*SessionClaims, error)
}

// Context keys for the authenticated session.
type contextKeyUserID struct{}
type contextKeyUsername struct{}
type contextKeyRole struct{}
type contextKeyUpstreamKey struct{}

// GetUserID retrieves the authenticated account ID from the context.
func GetUserID(ctx context.Context) int64 {
	if id, ok := ctx.Value(contextKeyUserID{}).(int64); ok {
		return id
	}
	return 0
}

// GetUsername retrieves the authenticated login name from the context.
func GetUsername(ctx context.Context) string {
	if name, ok := ctx.Value(contextKeyUsername{}).(string); ok {
		return name
	}
	return ""
}

// GetRole retrieves the authenticated role from the context.
func GetRole(ctx context.Context) string {
	if role, ok := ctx.Value(contextKeyRole{}).(string); ok {
		return role
	}
	return ""
}

// GetUpstreamKey retrieves the token-carried upstream API key from the
// context. Empty when the session token carried none.
func GetUpstreamKey(ctx context.Context) string {
	if key, ok := ctx.Value(contextKeyUpstreamKey{}).(string); ok {
		return key
	}
	return ""
}

// WithSession injects session claims into a context. Useful for handler
// tests that don't run the middleware chain.
func WithSession(ctx context.Context, claims SessionClaims) context.Context {
	ctx = context.WithValue(ctx, contextKeyUserID{}, claims.UserID)
	ctx = context.WithValue(ctx, contextKeyUsername{}, claims.Username)
	ctx = context.WithValue(ctx, contextKeyRole{}, claims.Role)
	ctx = context.WithValue(ctx, contextKeyUpstreamKey{}, claims.UpstreamKey)
	return ctx
}

// RequireRoles validates the bearer token and checks the session role
// against the allowed set before passing the request on.
func RequireRoles(validator SessionValidator, logger *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := bearerToken(r)
			if !ok {
				logger.WarnContext(ctx, "request without credentials refused",
					slog.String("path", r.URL.Path),
					slog.String("request_id", request.GetRequestID(ctx)),
				)
				refuse(w, http.StatusForbidden, "forbidden", "credentials required")
				return
			}

			claims, err := validator.ValidateAccess(token)
			if err != nil {
				logger.WarnContext(ctx, "session token rejected",
					slog.Any("error", err),
					slog.String("path", r.URL.Path),
					slog.String("request_id", request.GetRequestID(ctx)),
				)
				refuse(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}

			if _, ok := allowed[claims.Role]; !ok {
				logger.WarnContext(ctx, "role refused for route",
					slog.String("role", claims.Role),
					slog.String("path", r.URL.Path),
					slog.String("request_id", request.GetRequestID(ctx)),
				)
				refuse(w, http.StatusForbidden, "forbidden", "role not permitted for this resource")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, *claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func refuse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":%q,"message":%q}`, code, message)
}
