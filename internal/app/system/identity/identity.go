// internal/app/system/identity/identity.go

// Package identity abstracts the external identity provider that issues
// bearer tokens and stores per-user custom claims.
//
// The claims bag attached to a token is an opaque map. This service owns
// exactly one key in it ("clubIds"); every other key belongs to someone else
// and must survive a claims write untouched. SetCustomClaims is a whole-bag
// replace, so callers are expected to read the current bag, merge, and write
// back.
package identity

import (
	"context"
	"errors"
)

// ClubIDsClaim is the one claims key this service owns.
const ClubIDsClaim = "clubIds"

// ErrUserNotFound is returned when the target user id has no corresponding
// identity account. Membership bookkeeping may legitimately outlive an auth
// account, so callers generally treat this as non-fatal.
var ErrUserNotFound = errors.New("identity: user not found")

// Account is the identity-provider view of a user.
type Account struct {
	UID    string
	Email  string
	Claims map[string]any
}

// Token is a verified bearer token.
type Token struct {
	UID    string
	Email  string
	Claims map[string]any
}

// Provider is the identity-provider client surface the service needs.
type Provider interface {
	// GetUser loads the account (including its current claims bag) for uid.
	// Returns ErrUserNotFound if the account does not exist.
	GetUser(ctx context.Context, uid string) (*Account, error)

	// SetCustomClaims replaces the entire claims bag for uid.
	SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error

	// VerifyToken validates a bearer token and returns its subject and claims.
	VerifyToken(ctx context.Context, token string) (*Token, error)
}
