// internal/app/system/auth/auth_test.go
package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/huntclub/internal/app/system/auth"
	"github.com/dalemusser/huntclub/internal/app/system/identity"
)

// fetcher that marks a known uid as super admin.
type stubFetcher struct {
	admins map[string]bool
}

func (f *stubFetcher) FetchUser(ctx context.Context, uid string) *auth.AuthUser {
	return &auth.AuthUser{UID: uid, IsSuperAdmin: f.admins[uid]}
}

func captureUser(t *testing.T) (http.HandlerFunc, **auth.AuthUser) {
	t.Helper()
	var got *auth.AuthUser
	return func(w http.ResponseWriter, r *http.Request) {
		if u, ok := auth.CurrentUser(r); ok {
			got = u
		}
		w.WriteHeader(http.StatusOK)
	}, &got
}

func TestLoadBearerUser_ValidToken(t *testing.T) {
	idp := identity.NewDevProvider("test-secret")
	idp.AddAccount("hunter1", "hunter1@test.com", nil)
	token, err := idp.MintToken("hunter1", "hunter1@test.com")
	if err != nil {
		t.Fatalf("MintToken failed: %v", err)
	}

	next, got := captureUser(t)
	mw := auth.NewMiddleware(idp, nil, zap.NewNop())
	handler := mw.LoadBearerUser(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if *got == nil {
		t.Fatal("no user loaded from valid token")
	}
	if (*got).UID != "hunter1" || (*got).Email != "hunter1@test.com" {
		t.Errorf("loaded user = %+v", *got)
	}
}

func TestLoadBearerUser_FetcherOverridesTokenData(t *testing.T) {
	idp := identity.NewDevProvider("test-secret")
	idp.AddAccount("admin1", "admin@test.com", nil)
	token, err := idp.MintToken("admin1", "admin@test.com")
	if err != nil {
		t.Fatalf("MintToken failed: %v", err)
	}

	next, got := captureUser(t)
	mw := auth.NewMiddleware(idp, &stubFetcher{admins: map[string]bool{"admin1": true}}, zap.NewNop())
	handler := mw.LoadBearerUser(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if *got == nil || !(*got).IsSuperAdmin {
		t.Errorf("expected super-admin flag from fetcher, got %+v", *got)
	}
}

func TestLoadBearerUser_InvalidTokenContinuesUnauthenticated(t *testing.T) {
	idp := identity.NewDevProvider("test-secret")

	next, got := captureUser(t)
	mw := auth.NewMiddleware(idp, nil, zap.NewNop())
	handler := mw.LoadBearerUser(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, invalid token must not reject the request", rec.Code)
	}
	if *got != nil {
		t.Errorf("no user should be loaded, got %+v", *got)
	}
}

func TestLoadBearerUser_WrongSecretRejected(t *testing.T) {
	minter := identity.NewDevProvider("other-secret")
	minter.AddAccount("hunter1", "hunter1@test.com", nil)
	token, err := minter.MintToken("hunter1", "hunter1@test.com")
	if err != nil {
		t.Fatalf("MintToken failed: %v", err)
	}

	idp := identity.NewDevProvider("test-secret")
	next, got := captureUser(t)
	mw := auth.NewMiddleware(idp, nil, zap.NewNop())
	handler := mw.LoadBearerUser(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if *got != nil {
		t.Errorf("token signed with the wrong secret must not authenticate, got %+v", *got)
	}
}

func TestLoadBearerUser_NoHeader(t *testing.T) {
	idp := identity.NewDevProvider("test-secret")
	next, got := captureUser(t)
	mw := auth.NewMiddleware(idp, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	mw.LoadBearerUser(next).ServeHTTP(httptest.NewRecorder(), req)

	if *got != nil {
		t.Errorf("no header should mean no user, got %+v", *got)
	}
}

func TestRequireSignedIn(t *testing.T) {
	protected := auth.RequireSignedIn(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}

	req = auth.WithTestUser(httptest.NewRequest(http.MethodGet, "/", nil),
		&auth.AuthUser{UID: "hunter1"})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("signed-in status = %d, want 200", rec.Code)
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	protected := auth.RequireSuperAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Unauthenticated and merely-signed-in get different codes.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}

	req = auth.WithTestUser(httptest.NewRequest(http.MethodGet, "/", nil),
		&auth.AuthUser{UID: "hunter1"})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", rec.Code)
	}

	req = auth.WithTestUser(httptest.NewRequest(http.MethodGet, "/", nil),
		&auth.AuthUser{UID: "admin1", IsSuperAdmin: true})
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", rec.Code)
	}
}
