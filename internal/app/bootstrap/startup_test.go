// internal/app/bootstrap/startup_test.go
package bootstrap

import (
	"testing"

	"go.uber.org/zap"

	"github.com/dalemusser/huntclub/internal/testutil"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureSuperAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateUser(ctx, "admin1", "Admin One", "admin@test.com")

	deps := DBDeps{MongoDatabase: db}
	if err := ensureSuperAdmin(ctx, deps, "Admin@Test.com", testLogger()); err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}

	var user struct {
		IsSuperAdmin bool `bson:"is_super_admin"`
	}
	if err := db.Collection("users").FindOne(ctx, map[string]any{"_id": "admin1"}).Decode(&user); err != nil {
		t.Fatalf("load user: %v", err)
	}
	if !user.IsSuperAdmin {
		t.Error("user was not promoted to super admin")
	}
}

func TestEnsureSuperAdmin_MissingUserIsNotFatal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := ensureSuperAdmin(ctx, deps, "nobody@test.com", testLogger()); err != nil {
		t.Fatalf("missing user should be tolerated: %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name    string
		cfg     AppConfig
		wantErr bool
	}{
		{
			name: "valid dev",
			cfg: AppConfig{
				MongoURI:         "mongodb://localhost:27017",
				IdentityProvider: "dev",
				DevTokenSecret:   "s3cret",
				ClaimsSyncMode:   "besteffort",
			},
		},
		{
			name: "valid firebase serialized",
			cfg: AppConfig{
				MongoURI:          "mongodb://localhost:27017",
				IdentityProvider:  "firebase",
				FirebaseProjectID: "huntclub-prod",
				ClaimsSyncMode:    "serialized",
			},
		},
		{
			name: "bad mongo uri",
			cfg: AppConfig{
				MongoURI:         "http://not-mongo",
				IdentityProvider: "dev",
				DevTokenSecret:   "s3cret",
				ClaimsSyncMode:   "besteffort",
			},
			wantErr: true,
		},
		{
			name: "firebase without project",
			cfg: AppConfig{
				MongoURI:         "mongodb://localhost:27017",
				IdentityProvider: "firebase",
				ClaimsSyncMode:   "besteffort",
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			cfg: AppConfig{
				MongoURI:         "mongodb://localhost:27017",
				IdentityProvider: "okta",
				ClaimsSyncMode:   "besteffort",
			},
			wantErr: true,
		},
		{
			name: "unknown sync mode",
			cfg: AppConfig{
				MongoURI:         "mongodb://localhost:27017",
				IdentityProvider: "dev",
				DevTokenSecret:   "s3cret",
				ClaimsSyncMode:   "eventually",
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfig(nil, tc.cfg, testLogger())
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
