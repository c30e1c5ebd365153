package claimssync_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/dalemusser/huntclub/internal/app/features/claimssync"
	"github.com/dalemusser/huntclub/internal/app/system/apierr"
	"github.com/dalemusser/huntclub/internal/app/system/claims"
	"github.com/dalemusser/huntclub/internal/app/system/identity"
	"github.com/dalemusser/huntclub/internal/testutil"
	"go.uber.org/zap"
)

type stubMemberships struct {
	active map[string][]string
	reads  int
}

func (s *stubMemberships) ActiveClubIDs(_ context.Context, userID string) ([]string, error) {
	s.reads++
	return s.active[userID], nil
}

func (s *stubMemberships) UserIDs(_ context.Context) ([]string, error) {
	s.reads++
	ids := make([]string, 0, len(s.active))
	for uid := range s.active {
		ids = append(ids, uid)
	}
	sort.Strings(ids)
	return ids, nil
}

func newHandler(active map[string][]string, idp *identity.DevProvider) (*claimssync.Handler, *stubMemberships) {
	src := &stubMemberships{active: active}
	syncer := claims.NewSyncer(src, idp, zap.NewNop(), claims.ModeBestEffort)
	return claimssync.NewHandler(syncer, zap.NewNop()), src
}

func TestHandleSyncUser_Unauthenticated(t *testing.T) {
	idp := identity.NewDevProvider("secret")
	h, src := newHandler(map[string][]string{}, idp)

	req := testutil.NewJSONRequest(t, "POST", "/sync/user", nil)
	rec := httptest.NewRecorder()
	h.HandleSyncUser(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if got := testutil.ErrorStatus(t, rec); got != apierr.Unauthenticated {
		t.Errorf("error status: got %q, want %q", got, apierr.Unauthenticated)
	}
	if src.reads != 0 {
		t.Errorf("unauthenticated request must not touch the store, got %d reads", src.reads)
	}
}

func TestHandleSyncUser_NonAdminTargetingOther_Denied(t *testing.T) {
	idp := identity.NewDevProvider("secret")
	h, src := newHandler(map[string][]string{}, idp)

	req := testutil.NewJSONRequest(t, "POST", "/sync/user",
		map[string]string{"targetUserId": "bob"})
	req = testutil.WithUser(req, testutil.RegularUser("alice"))
	rec := httptest.NewRecorder()
	h.HandleSyncUser(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
	if got := testutil.ErrorStatus(t, rec); got != apierr.PermissionDenied {
		t.Errorf("error status: got %q, want %q", got, apierr.PermissionDenied)
	}
	if src.reads != 0 {
		t.Errorf("denied request must not touch the store, got %d reads", src.reads)
	}
}

func TestHandleSyncUser_Self(t *testing.T) {
	idp := identity.NewDevProvider("secret")
	idp.AddAccount("alice", "alice@test.com", nil)
	h, _ := newHandler(map[string][]string{"alice": {"club-a", "club-b"}}, idp)

	req := testutil.NewJSONRequest(t, "POST", "/sync/user", nil)
	req = testutil.WithUser(req, testutil.RegularUser("alice"))
	rec := httptest.NewRecorder()
	h.HandleSyncUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Success   bool   `json:"success"`
		UserID    string `json:"userId"`
		ClubCount int    `json:"clubCount"`
		Message   string `json:"message"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.UserID != "alice" {
		t.Errorf("userId: got %q, want alice", resp.UserID)
	}
	if resp.ClubCount != 2 {
		t.Errorf("clubCount: got %d, want 2", resp.ClubCount)
	}

	acct, err := idp.GetUser(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if ids := claims.ClubIDsFrom(acct.Claims); len(ids) != 2 {
		t.Errorf("claims clubIds: got %v, want 2 entries", ids)
	}
}

func TestHandleSyncUser_SuperAdminTargetingOther(t *testing.T) {
	idp := identity.NewDevProvider("secret")
	idp.AddAccount("bob", "bob@test.com", nil)
	h, _ := newHandler(map[string][]string{"bob": {"club-a"}}, idp)

	req := testutil.NewJSONRequest(t, "POST", "/sync/user",
		map[string]string{"targetUserId": "bob"})
	req = testutil.WithUser(req, testutil.SuperAdminUser("root"))
	rec := httptest.NewRecorder()
	h.HandleSyncUser(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		UserID    string `json:"userId"`
		ClubCount int    `json:"clubCount"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.UserID != "bob" || resp.ClubCount != 1 {
		t.Errorf("got userId=%q clubCount=%d, want bob/1", resp.UserID, resp.ClubCount)
	}
}

func TestHandleSyncAll_NonAdmin_Denied(t *testing.T) {
	idp := identity.NewDevProvider("secret")
	h, src := newHandler(map[string][]string{"alice": {"club-a"}}, idp)

	req := testutil.NewJSONRequest(t, "POST", "/sync/all", nil)
	req = testutil.WithUser(req, testutil.RegularUser("alice"))
	rec := httptest.NewRecorder()
	h.HandleSyncAll(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
	if got := testutil.ErrorStatus(t, rec); got != apierr.PermissionDenied {
		t.Errorf("error status: got %q, want %q", got, apierr.PermissionDenied)
	}
	if src.reads != 0 {
		t.Errorf("denied sync-all must not scan memberships, got %d reads", src.reads)
	}
}

func TestHandleSyncAll_Unauthenticated(t *testing.T) {
	idp := identity.NewDevProvider("secret")
	h, _ := newHandler(map[string][]string{}, idp)

	req := testutil.NewJSONRequest(t, "POST", "/sync/all", nil)
	rec := httptest.NewRecorder()
	h.HandleSyncAll(rec, req)

	if got := testutil.ErrorStatus(t, rec); got != apierr.Unauthenticated {
		t.Errorf("error status: got %q, want %q", got, apierr.Unauthenticated)
	}
}

func TestHandleSyncAll_SuperAdmin(t *testing.T) {
	idp := identity.NewDevProvider("secret")
	idp.AddAccount("alice", "alice@test.com", nil)
	idp.AddAccount("bob", "bob@test.com", nil)
	h, _ := newHandler(map[string][]string{
		"alice": {"club-a"},
		"bob":   {"club-a", "club-b"},
	}, idp)

	req := testutil.NewJSONRequest(t, "POST", "/sync/all", nil)
	req = testutil.WithUser(req, testutil.SuperAdminUser("root"))
	rec := httptest.NewRecorder()
	h.HandleSyncAll(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Success      bool `json:"success"`
		TotalUsers   int  `json:"totalUsers"`
		SuccessCount int  `json:"successCount"`
		ErrorCount   int  `json:"errorCount"`
		Results      []struct {
			UserID    string `json:"userId"`
			ClubCount int    `json:"clubCount"`
			Error     string `json:"error,omitempty"`
		} `json:"results"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	if !resp.Success || resp.TotalUsers != 2 || resp.SuccessCount != 2 || resp.ErrorCount != 0 {
		t.Errorf("unexpected aggregate: %+v", resp)
	}
	if len(resp.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(resp.Results))
	}
}
