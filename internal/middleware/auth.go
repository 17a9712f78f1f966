package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"convenz-admin/internal/apperr"
	"convenz-admin/internal/auth"
	"convenz-admin/internal/transport"
)

const APIKeyHeader = "X-API-Key"

var (
	ErrNoToken      = apperr.Unauthorized("No token provided")
	ErrInvalidToken = apperr.Unauthorized("Invalid token")
	ErrForbidden    = apperr.Forbidden("Forbidden: Access denied")
)

type claimsKey struct{}

func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// verify checks the bearer token on r and returns r with the claims attached.
func verify(r *http.Request, manager *auth.Manager) (*http.Request, error) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, ErrNoToken
	}
	claims, err := manager.Parse(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return r.WithContext(WithClaims(r.Context(), claims)), nil
}

// Authenticate rejects requests without a valid bearer token and attaches
// the decoded claims to the request context.
func Authenticate(manager *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authed, err := verify(r, manager)
			if err != nil {
				transport.WriteAppError(w, err, false)
				return
			}
			next.ServeHTTP(w, authed)
		})
	}
}

// RequireRoles must run after Authenticate.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || !hasRole(claims.Role, roles) {
				transport.WriteAppError(w, ErrForbidden, false)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOrAPIKey lets the consumer application through with the shared API
// key; everyone else needs a bearer token carrying one of roles.
func AdminOrAPIKey(apiKey string, manager *auth.Manager, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey != "" {
				if got := r.Header.Get(APIKeyHeader); got != "" &&
					subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) == 1 {
					next.ServeHTTP(w, r)
					return
				}
			}

			authed, err := verify(r, manager)
			if err != nil {
				transport.WriteAppError(w, err, false)
				return
			}
			claims, _ := ClaimsFromContext(authed.Context())
			if !hasRole(claims.Role, roles) {
				transport.WriteAppError(w, ErrForbidden, false)
				return
			}
			next.ServeHTTP(w, authed)
		})
	}
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
