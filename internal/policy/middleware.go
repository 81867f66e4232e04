package policy

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/postify/postify/internal/platform/httpx"
	"github.com/postify/postify/internal/shared"
)

type identityContextKey struct{}

// ContextWithIdentity stores the resolved identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context. The second
// return value is false for unauthenticated requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}

// Middleware resolves the session identity and enforces permissions.
type Middleware struct {
	Logger *slog.Logger
}

// Authenticate loads the identity from the session into the request
// context, rejecting requests with no signed-in identity.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil || len(sess.Identity()) == 0 {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
			return
		}
		var id Identity
		if err := json.Unmarshal(sess.Identity(), &id); err != nil {
			if m.Logger != nil {
				m.Logger.Error("decode session identity", slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), id)))
	})
}

// Require guards a route with a permission check. Routes with no
// permission requirement simply omit this middleware.
func (m Middleware) Require(p Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "sign in required")
				return
			}
			if !id.CanAccess(p) {
				if m.Logger != nil {
					m.Logger.Warn("permission denied",
						slog.String("permission", string(p)),
						slog.String("email", id.Email),
					)
				}
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "missing permission: "+string(p))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
