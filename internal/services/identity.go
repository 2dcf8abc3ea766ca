package services

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// ExternalIdentity is what a federated identity provider vouches for.
type ExternalIdentity struct {
	Email string
	Name  string
}

// IdentityVerifier validates an ID token issued by an external provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*ExternalIdentity, error)
}

// GoogleVerifier validates Google ID tokens for one OAuth client.
type GoogleVerifier struct {
	clientID string
}

// NewGoogleVerifier creates a new GoogleVerifier.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*ExternalIdentity, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to validate google id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("google id token has no email claim")
	}
	name, _ := payload.Claims["name"].(string)

	return &ExternalIdentity{Email: email, Name: name}, nil
}
