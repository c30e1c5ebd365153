// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/huntclub/internal/app/system/apierr"
	"github.com/dalemusser/huntclub/internal/app/system/identity"
	"go.uber.org/zap"
)

// AuthUser is what we inject into r.Context() after verifying a bearer token.
type AuthUser struct {
	UID          string
	Email        string
	Name         string
	IsSuperAdmin bool
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the verified user in context and a found flag.
func CurrentUser(r *http.Request) (*AuthUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*AuthUser)
	return u, ok
}

// UserFetcher loads fresh user data for a verified token subject, so
// privilege changes (like a revoked super-admin flag) take effect on the
// next request rather than at next token refresh.
type UserFetcher interface {
	FetchUser(ctx context.Context, uid string) *AuthUser
}

// Middleware verifies bearer tokens against the identity provider and
// injects the resulting AuthUser into the request context.
type Middleware struct {
	verifier identity.Provider
	fetcher  UserFetcher
	log      *zap.Logger
}

// NewMiddleware constructs the auth middleware. fetcher may be nil, in which
// case the AuthUser is built from the token alone.
func NewMiddleware(verifier identity.Provider, fetcher UserFetcher, logger *zap.Logger) *Middleware {
	return &Middleware{verifier: verifier, fetcher: fetcher, log: logger}
}

// LoadBearerUser injects the user into context when a valid bearer token is
// present. Requests without a token (or with an invalid one) continue
// unauthenticated; route middleware decides what that means.
func (m *Middleware) LoadBearerUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		verified, err := m.verifier.VerifyToken(r.Context(), token)
		if err != nil {
			m.log.Debug("bearer token rejected", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		u := &AuthUser{UID: verified.UID, Email: verified.Email}
		if m.fetcher != nil {
			if fetched := m.fetcher.FetchUser(r.Context(), verified.UID); fetched != nil {
				u = fetched
			}
		}

		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), currentUserKey, u)))
	})
}

// RequireSignedIn rejects requests without a verified user in context.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			apierr.Write(w, apierr.Unauthenticated, "Authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSuperAdmin rejects requests unless the verified user is a super
// admin. Unauthenticated requests get UNAUTHENTICATED, not PERMISSION_DENIED,
// so callers can distinguish the two failure modes.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			apierr.Write(w, apierr.Unauthenticated, "Authentication required.")
			return
		}
		if !u.IsSuperAdmin {
			apierr.Write(w, apierr.PermissionDenied, "Super admin privileges required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithTestUser injects a user into the request context, bypassing token
// verification. Test helper only.
func WithTestUser(r *http.Request, u *AuthUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
