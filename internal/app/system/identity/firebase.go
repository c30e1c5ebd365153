// internal/app/system/identity/firebase.go
package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// FirebaseProvider implements Provider against Firebase Authentication.
type FirebaseProvider struct {
	client *auth.Client
}

// NewFirebaseProvider initializes the Firebase Admin SDK for the given
// project. credentialsFile may be empty, in which case application default
// credentials are used.
func NewFirebaseProvider(ctx context.Context, projectID, credentialsFile string) (*FirebaseProvider, error) {
	cfg := &firebase.Config{ProjectID: projectID}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}
	return &FirebaseProvider{client: client}, nil
}

func (p *FirebaseProvider) GetUser(ctx context.Context, uid string) (*Account, error) {
	u, err := p.client.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &Account{
		UID:    u.UID,
		Email:  u.Email,
		Claims: u.CustomClaims,
	}, nil
}

func (p *FirebaseProvider) SetCustomClaims(ctx context.Context, uid string, claims map[string]any) error {
	if err := p.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		if auth.IsUserNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (p *FirebaseProvider) VerifyToken(ctx context.Context, token string) (*Token, error) {
	t, err := p.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}
	email, _ := t.Claims["email"].(string)
	return &Token{
		UID:    t.UID,
		Email:  email,
		Claims: t.Claims,
	}, nil
}
