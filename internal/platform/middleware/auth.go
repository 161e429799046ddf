package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	dErrors "docseva/pkg/domain-errors"
	"docseva/pkg/platform/httputil"
)

// Role names the two principal kinds the API distinguishes.
const (
	RoleCitizen = "citizen"
	RoleOfficer = "officer"
)

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*AuthClaims, error)
}

// AuthClaims is what the middleware needs from a validated token.
type AuthClaims struct {
	Subject string
	Role    string
}

type contextKeySubject struct{}
type contextKeyRole struct{}

// GetSubject retrieves the authenticated principal's id from the context.
func GetSubject(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeySubject{}).(string); ok {
		return v
	}
	return ""
}

// GetRole retrieves the authenticated principal's role from the context.
func GetRole(ctx context.Context) string {
	if v, ok := ctx.Value(contextKeyRole{}).(string); ok {
		return v
	}
	return ""
}

// WithPrincipal injects an authenticated subject and role into a context.
// Useful for handler tests that skip the full middleware chain.
func WithPrincipal(ctx context.Context, subject, role string) context.Context {
	ctx = context.WithValue(ctx, contextKeySubject{}, subject)
	return context.WithValue(ctx, contextKeyRole{}, role)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// claims in the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}
			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, claims.Subject, claims.Role)))
		})
	}
}

// RequireRole guards a route subtree to one role. Must run after RequireAuth.
func RequireRole(role string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if GetRole(ctx) != role {
				logger.WarnContext(ctx, "forbidden access - wrong role",
					"required_role", role,
					"request_id", GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
