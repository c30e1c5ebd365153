// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	claimssyncfeature "github.com/dalemusser/huntclub/internal/app/features/claimssync"
	clubsfeature "github.com/dalemusser/huntclub/internal/app/features/clubs"
	healthfeature "github.com/dalemusser/huntclub/internal/app/features/health"
	invitesfeature "github.com/dalemusser/huntclub/internal/app/features/invites"
	joinrequestsfeature "github.com/dalemusser/huntclub/internal/app/features/joinrequests"
	userstore "github.com/dalemusser/huntclub/internal/app/store/users"
	"github.com/dalemusser/huntclub/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed.
//
// Every route runs behind the bearer-token middleware, which verifies the
// token against the identity provider and loads the user record so
// auth.CurrentUser works in handlers and policies. Verification failures do
// not reject the request here; each operation decides whether it requires a
// signed-in caller.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	mw := auth.NewMiddleware(deps.Identity, userstore.NewFetcher(deps.MongoDatabase), logger)

	r := chi.NewRouter()
	r.Use(mw.LoadBearerUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// On-demand claims reconciliation
	syncHandler := claimssyncfeature.NewHandler(deps.Syncer, logger)
	r.Mount("/sync", claimssyncfeature.Routes(syncHandler))

	// Membership lifecycle
	jrHandler := joinrequestsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/join-requests", joinrequestsfeature.Routes(jrHandler))

	invHandler := invitesfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/invites", invitesfeature.Routes(invHandler))

	clubsHandler := clubsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/clubs", clubsfeature.Routes(clubsHandler, jrHandler.HandleSubmit, invHandler.HandleCreate))

	return r, nil
}
