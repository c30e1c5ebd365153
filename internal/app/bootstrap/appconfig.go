// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging,
// CORS); AppConfig is everything specific to this service: the MongoDB
// connection, the identity provider backing token verification and claims
// writes, and the claims-sync behavior knobs.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Identity provider configuration.
	// "firebase" verifies tokens and writes custom claims through Firebase
	// Auth; "dev" uses an in-memory provider with locally minted JWTs.
	IdentityProvider        string
	FirebaseProjectID       string // Firebase project (identity_provider=firebase)
	FirebaseCredentialsFile string // Service-account key file; blank uses ADC
	DevTokenSecret          string // HS256 secret (identity_provider=dev)

	// Claims synchronization behavior
	ClaimsSyncMode   string // "besteffort" (default) or "serialized"
	WatchMemberships bool   // Run the membership change-stream watcher

	// Background jobs
	InviteExpiryInterval time.Duration // How often pending invites are swept

	// SuperAdmin bootstrap
	SuperAdminEmail string // Email promoted to super admin on startup
}
