package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/huntclub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	UID          string
	Name         string
	Email        string
	IsSuperAdmin bool
}

// RegularUser returns a TestUser without special privileges.
func RegularUser(uid string) TestUser {
	return TestUser{
		UID:   uid,
		Name:  "Test Member",
		Email: uid + "@test.com",
	}
}

// SuperAdminUser returns a TestUser with the super-admin flag set.
func SuperAdminUser(uid string) TestUser {
	return TestUser{
		UID:          uid,
		Name:         "Test Super Admin",
		Email:        uid + "@test.com",
		IsSuperAdmin: true,
	}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses token verification and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.AuthUser{
		UID:          user.UID,
		Email:        user.Email,
		Name:         user.Name,
		IsSuperAdmin: user.IsSuperAdmin,
	})
}

// NewJSONRequest creates an HTTP request carrying a JSON body.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DecodeJSON unmarshals a response body into dst.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to parse response %q: %v", rec.Body.String(), err)
	}
}

// ErrorStatus extracts the callable-style error status code from a response.
func ErrorStatus(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Status string `json:"status"`
		} `json:"error"`
	}
	DecodeJSON(t, rec, &body)
	return body.Error.Status
}
