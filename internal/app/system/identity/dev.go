// internal/app/system/identity/dev.go
package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// DevProvider is an in-process identity provider for local development and
// tests. Accounts and claims bags live in memory; bearer tokens are HS256
// JWTs signed with a shared secret.
//
// It is safe for concurrent use.
type DevProvider struct {
	secret []byte

	mu       sync.Mutex
	accounts map[string]*Account
}

// NewDevProvider creates a DevProvider that verifies tokens with secret.
func NewDevProvider(secret string) *DevProvider {
	return &DevProvider{
		secret:   []byte(secret),
		accounts: make(map[string]*Account),
	}
}

// AddAccount registers an account. Claims may be nil.
func (p *DevProvider) AddAccount(uid, email string, claims map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[uid] = &Account{UID: uid, Email: email, Claims: cloneClaims(claims)}
}

// DeleteAccount removes an account, simulating an auth account deletion that
// leaves membership documents behind.
func (p *DevProvider) DeleteAccount(uid string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.accounts, uid)
}

func (p *DevProvider) GetUser(ctx context.Context, uid string) (*Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	acct, ok := p.accounts[uid]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &Account{UID: acct.UID, Email: acct.Email, Claims: cloneClaims(acct.Claims)}, nil
}

func (p *DevProvider) SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	acct, ok := p.accounts[uid]
	if !ok {
		return ErrUserNotFound
	}
	acct.Claims = cloneClaims(claims)
	return nil
}

// VerifyToken parses an HS256 JWT and returns its subject and claims.
func (p *DevProvider) VerifyToken(ctx context.Context, token string) (*Token, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", parsed.Claims)
	}
	sub, _ := mc["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token missing sub claim")
	}
	email, _ := mc["email"].(string)
	return &Token{UID: sub, Email: email, Claims: map[string]any(mc)}, nil
}

// MintToken signs an HS256 JWT for uid. Test and dev tooling only.
func (p *DevProvider) MintToken(uid, email string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   uid,
		"email": email,
	})
	return t.SignedString(p.secret)
}

func cloneClaims(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
