// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dalemusser/huntclub/internal/app/system/claims"
	"github.com/dalemusser/huntclub/internal/app/system/identity"
)

// DBDeps holds database and backend dependencies for the app.
// Built once in ConnectDB and passed to the later lifecycle hooks.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Identity verifies bearer tokens and holds each user's custom claims.
	Identity identity.Provider

	// Syncer recomputes claims from membership documents. Shared by the
	// change-stream watcher and the on-demand sync endpoints.
	Syncer *claims.Syncer
}
