package joinrequeststore_test

import (
	"errors"
	"testing"

	joinrequeststore "github.com/dalemusser/huntclub/internal/app/store/joinrequests"
	"github.com/dalemusser/huntclub/internal/domain/models"
	"github.com/dalemusser/huntclub/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := joinrequeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.ClubJoinRequest{
		UserID:  "hunter1",
		ClubID:  "club1",
		Message: "long-time bowhunter",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == "" {
		t.Error("expected ID to be assigned")
	}
	if created.Status != models.JoinRequestPending {
		t.Errorf("Status = %q, want pending", created.Status)
	}
}

func TestStore_HasPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := joinrequeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateJoinRequest(ctx, "club1", "hunter1")

	pending, err := store.HasPending(ctx, "hunter1", "club1")
	if err != nil {
		t.Fatalf("HasPending failed: %v", err)
	}
	if !pending {
		t.Error("expected pending request to be found")
	}

	pending, err = store.HasPending(ctx, "hunter1", "club2")
	if err != nil {
		t.Fatalf("HasPending failed: %v", err)
	}
	if pending {
		t.Error("no request exists for club2")
	}
}

func TestStore_HasPending_IgnoresReviewed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := joinrequeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := fixtures.CreateJoinRequest(ctx, "club1", "hunter1")
	if err := store.SetStatus(ctx, req.ID, models.JoinRequestRejected, "owner1", "no room"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	pending, err := store.HasPending(ctx, "hunter1", "club1")
	if err != nil {
		t.Fatalf("HasPending failed: %v", err)
	}
	if pending {
		t.Error("a rejected request should not count as pending; the user may reapply")
	}
}

func TestStore_SetStatus_ReviewerMetadata(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := joinrequeststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := fixtures.CreateJoinRequest(ctx, "club1", "hunter1")
	if err := store.SetStatus(ctx, req.ID, models.JoinRequestApproved, "owner1", "welcome"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	got, err := store.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.JoinRequestApproved {
		t.Errorf("Status = %q, want approved", got.Status)
	}
	if got.ReviewedBy != "owner1" || got.ReviewNote != "welcome" {
		t.Errorf("reviewer metadata = %q/%q", got.ReviewedBy, got.ReviewNote)
	}
	if got.ReviewedAt == nil || got.ReviewedAt.IsZero() {
		t.Error("expected ReviewedAt to be set")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := joinrequeststore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, "nope"); !errors.Is(err, joinrequeststore.ErrNotFound) {
		t.Fatalf("GetByID err = %v, want ErrNotFound", err)
	}
}
