// internal/app/features/clubs/handler_test.go
package clubs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/huntclub/internal/app/features/clubs"
	clubstore "github.com/dalemusser/huntclub/internal/app/store/clubs"
	membershipstore "github.com/dalemusser/huntclub/internal/app/store/memberships"
	userstore "github.com/dalemusser/huntclub/internal/app/store/users"
	"github.com/dalemusser/huntclub/internal/app/system/indexes"
	"github.com/dalemusser/huntclub/internal/domain/models"
	"github.com/dalemusser/huntclub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func notCalled(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected call to %s %s", r.Method, r.URL.Path)
	}
}

func newRouter(t *testing.T, db *mongo.Database) http.Handler {
	t.Helper()
	h := clubs.NewHandler(db, zap.NewNop())
	return clubs.Routes(h, notCalled(t), notCalled(t))
}

type clubResult struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Club    models.Club `json:"club"`
}

func TestHandleCreate_Unauthenticated(t *testing.T) {
	// No user on the request context; the handler must reject before
	// touching the database (nil here, so a touch would panic).
	router := newRouter(t, nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{"name": "North Ridge"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if got := testutil.ErrorStatus(t, rec); got != "UNAUTHENTICATED" {
		t.Errorf("error status = %q, want UNAUTHENTICATED", got)
	}
}

func TestHandleCreate_BlankName(t *testing.T) {
	router := newRouter(t, nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{"name": "   "})
	req = testutil.WithUser(req, testutil.RegularUser("u1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleCreate_WritesClubMembershipAndUserCache(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateUser(ctx, "owner1", "Owner One", "owner1@test.com")

	router := newRouter(t, db)
	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"name":             "North Ridge Hunting Club",
		"isPublic":         true,
		"requiresApproval": true,
	})
	req = testutil.WithUser(req, testutil.RegularUser("owner1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var res clubResult
	testutil.DecodeJSON(t, rec, &res)
	if !res.Success {
		t.Fatalf("create failed: %s", res.Error)
	}
	if res.Club.OwnerID != "owner1" {
		t.Errorf("club owner = %q, want owner1", res.Club.OwnerID)
	}
	if res.Club.MemberCount != 1 {
		t.Errorf("member count = %d, want 1", res.Club.MemberCount)
	}

	m, err := membershipstore.New(db).Get(ctx, res.Club.ID, "owner1")
	if err != nil {
		t.Fatalf("owner membership not created: %v", err)
	}
	if m.Role != models.RoleOwner {
		t.Errorf("owner membership role = %q, want owner", m.Role)
	}
	if !m.Claimed() {
		t.Errorf("owner membership not active+approved: %+v", m)
	}

	u, err := userstore.New(db).GetByID(ctx, "owner1")
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if u.ActiveClubID != res.Club.ID {
		t.Errorf("active club = %q, want %q", u.ActiveClubID, res.Club.ID)
	}
}

func TestHandleCreate_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	fx := testutil.NewFixtures(t, db)
	fx.CreateUser(ctx, "owner1", "Owner One", "owner1@test.com")
	fx.CreateClub(ctx, "North Ridge", "someone-else")

	router := newRouter(t, db)
	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{"name": "north ridge"})
	req = testutil.WithUser(req, testutil.RegularUser("owner1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var res clubResult
	testutil.DecodeJSON(t, rec, &res)
	if res.Success {
		t.Fatal("expected duplicate-name failure, got success")
	}
	if res.Error == "" {
		t.Error("expected a display error message")
	}
}

func TestHandleCreate_UserCacheFailureIsSurfaced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// No user document for the caller, so appending the club to the
	// cached club list fails after the club and membership are written.
	router := newRouter(t, db)
	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{"name": "North Ridge"})
	req = testutil.WithUser(req, testutil.RegularUser("ghost1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var res clubResult
	testutil.DecodeJSON(t, rec, &res)
	if res.Success {
		t.Fatal("expected failure result when the user cache write fails")
	}
	if res.Error == "" {
		t.Error("expected a display error message")
	}

	// The earlier writes are not rolled back: the club document and the
	// owner membership both remain.
	ms, err := membershipstore.New(db).ListByUser(ctx, "ghost1")
	if err != nil {
		t.Fatalf("list memberships: %v", err)
	}
	if len(ms) != 1 {
		t.Fatalf("memberships = %d, want 1 (owner membership survives)", len(ms))
	}
	if !ms[0].Claimed() {
		t.Errorf("owner membership not active+approved: %+v", ms[0])
	}
	if _, err := clubstore.New(db).GetByID(ctx, ms[0].ClubID); err != nil {
		t.Errorf("club document should survive the failure: %v", err)
	}
}

func TestHandleRemoveMember_ManagerRemovesMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	club := fx.CreateClub(ctx, "North Ridge", "owner1")
	fx.CreateActiveMembership(ctx, club.ID, "mgr1", models.RoleManager)
	fx.CreateActiveMembership(ctx, club.ID, "mem1", models.RoleMember)

	router := newRouter(t, db)
	req := testutil.NewJSONRequest(t, http.MethodDelete, "/"+club.ID+"/members/mem1", nil)
	req = testutil.WithUser(req, testutil.RegularUser("mgr1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var res clubResult
	testutil.DecodeJSON(t, rec, &res)
	if !res.Success {
		t.Fatalf("remove failed: %s", res.Error)
	}
	if _, err := membershipstore.New(db).Get(ctx, club.ID, "mem1"); err != membershipstore.ErrNotFound {
		t.Errorf("membership still present after removal (err=%v)", err)
	}
}

func TestHandleRemoveMember_MemberCanLeave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	club := fx.CreateClub(ctx, "North Ridge", "owner1")
	fx.CreateActiveMembership(ctx, club.ID, "mem1", models.RoleMember)

	router := newRouter(t, db)
	req := testutil.NewJSONRequest(t, http.MethodDelete, "/"+club.ID+"/members/mem1", nil)
	req = testutil.WithUser(req, testutil.RegularUser("mem1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var res clubResult
	testutil.DecodeJSON(t, rec, &res)
	if !res.Success {
		t.Fatalf("self-removal failed: %s", res.Error)
	}
}

func TestHandleRemoveMember_PlainMemberDenied(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	club := fx.CreateClub(ctx, "North Ridge", "owner1")
	fx.CreateActiveMembership(ctx, club.ID, "mem1", models.RoleMember)
	fx.CreateActiveMembership(ctx, club.ID, "mem2", models.RoleMember)

	router := newRouter(t, db)
	req := testutil.NewJSONRequest(t, http.MethodDelete, "/"+club.ID+"/members/mem2", nil)
	req = testutil.WithUser(req, testutil.RegularUser("mem1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if _, err := membershipstore.New(db).Get(ctx, club.ID, "mem2"); err != nil {
		t.Errorf("membership should survive a denied removal: %v", err)
	}
}

func TestHandleRemoveMember_MemberCountNotDecremented(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	club := fx.CreateClub(ctx, "North Ridge", "owner1")
	fx.CreateActiveMembership(ctx, club.ID, "owner1", models.RoleOwner)
	fx.CreateActiveMembership(ctx, club.ID, "mem1", models.RoleMember)
	if err := clubstore.New(db).IncrementMemberCount(ctx, club.ID); err != nil {
		t.Fatalf("increment member count: %v", err)
	}

	router := newRouter(t, db)
	req := testutil.NewJSONRequest(t, http.MethodDelete, "/"+club.ID+"/members/mem1", nil)
	req = testutil.WithUser(req, testutil.SuperAdminUser("admin1"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var res clubResult
	testutil.DecodeJSON(t, rec, &res)
	if !res.Success {
		t.Fatalf("remove failed: %s", res.Error)
	}

	got, err := clubstore.New(db).GetByID(ctx, club.ID)
	if err != nil {
		t.Fatalf("load club: %v", err)
	}
	if got.MemberCount != 2 {
		t.Errorf("member_count = %d after removal, want 2 (counter only goes up)", got.MemberCount)
	}
}
