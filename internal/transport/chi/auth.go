package chi

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/devcamper/internal/auth"
	"github.com/kailas-cloud/devcamper/internal/domain"
	logpkg "github.com/kailas-cloud/devcamper/internal/logger"
)

// tokenCookie is the cookie name accepted as an alternative to the Authorization header.
const tokenCookie = "token"

type principalKey struct{}

// ContextWithPrincipal stores the authenticated caller in ctx.
func ContextWithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller set by Authenticator.Require.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// Authenticator validates bearer tokens on protected routes.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator creates an Authenticator for HS256 tokens signed with secret.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Require rejects requests without a valid token and puts the principal in the context.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractToken(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		claims, err := auth.ValidateToken(raw, a.secret)
		if err != nil {
			logpkg.FromContext(r.Context()).Debug("token rejected", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		p := claims.Principal()
		ctx := ContextWithPrincipal(r.Context(), p)
		ctx = logpkg.With(ctx, zap.String("user_id", p.UserID), zap.String("role", string(p.Role)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken reads "Authorization: Bearer <t>" first, then the token cookie.
func extractToken(r *http.Request) string {
	const bearerPrefix = "Bearer "
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, bearerPrefix) {
		return strings.TrimSpace(h[len(bearerPrefix):])
	}
	if c, err := r.Cookie(tokenCookie); err == nil {
		return c.Value
	}
	return ""
}
