package middleware

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/wesplit/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// EmailKey is the context key for storing the authenticated user's email.
	EmailKey contextKey = "email"
	// NameKey is the context key for storing the authenticated user's display name.
	NameKey contextKey = "name"
)

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// GetEmail extracts the user email from the context.
// Returns empty string if not found.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// GetName extracts the user display name from the context.
func GetName(ctx context.Context) string {
	name, _ := ctx.Value(NameKey).(string)
	return name
}

// WithClaims returns a context carrying the identity from validated claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, EmailKey, claims.Email)
	return context.WithValue(ctx, NameKey, claims.Name)
}

func authenticate(jwtManager *auth.JWTManager, header string) (*auth.Claims, error) {
	token, err := auth.BearerToken(header)
	if err != nil {
		return nil, err
	}
	return jwtManager.Validate(token)
}

// RequireAuth returns an interceptor that validates JWT tokens and requires authentication.
// Procedures listed in public are served without a token; a valid token on
// them still populates the context.
func RequireAuth(jwtManager *auth.JWTManager, public ...string) connect.UnaryInterceptorFunc {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			claims, err := authenticate(jwtManager, req.Header().Get("Authorization"))
			if err != nil {
				if open[req.Spec().Procedure] {
					return next(ctx, req)
				}
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}
			return next(WithClaims(ctx, claims), req)
		}
	}
}

// RequireAuthHTTP is the plain HTTP counterpart of RequireAuth, used for
// routes served outside Connect such as CSV exports.
func RequireAuthHTTP(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(jwtManager, r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
