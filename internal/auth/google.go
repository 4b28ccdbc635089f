package auth

import (
	"context"
	"fmt"

	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// GoogleIdentity is the verified (email, stable subject) pair the rest
// of the system treats as an opaque credential.
type GoogleIdentity struct {
	Email   string
	Subject string
}

// GoogleVerifier validates Google-issued ID tokens against the
// tokeninfo endpoint and checks they were minted for our client id.
type GoogleVerifier struct {
	clientID string
	svc      *oauth2api.Service
}

// NewGoogleVerifier builds a verifier for the given OAuth client id.
func NewGoogleVerifier(ctx context.Context, clientID string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, fmt.Errorf("google client id is required")
	}
	svc, err := oauth2api.NewService(ctx, option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("create oauth2 service: %w", err)
	}
	return &GoogleVerifier{clientID: clientID, svc: svc}, nil
}

// Verify checks the ID token with Google and returns the identity it
// asserts. Any failure collapses to ErrInvalidCredentials so callers
// cannot probe token internals.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (GoogleIdentity, error) {
	if idToken == "" {
		return GoogleIdentity{}, ErrInvalidCredentials
	}
	info, err := v.svc.Tokeninfo().IdToken(idToken).Context(ctx).Do()
	if err != nil {
		return GoogleIdentity{}, ErrInvalidCredentials
	}
	if info.Audience != v.clientID {
		return GoogleIdentity{}, ErrInvalidCredentials
	}
	if info.Email == "" || !info.VerifiedEmail {
		return GoogleIdentity{}, ErrInvalidCredentials
	}
	return GoogleIdentity{Email: info.Email, Subject: info.UserId}, nil
}
