// Package google verifies Google ID tokens for the identity-provider login
// paths. Verification is delegated to Google's published keys via OIDC
// discovery; this package only extracts the verified email claim.
package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	dErrors "permit-gateway/pkg/domain-errors"
)

const issuerURL = "https://accounts.google.com"

type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

// New discovers Google's OIDC configuration and pins the expected audience to
// our OAuth client id. Tokens minted for any other client are rejected.
func New(ctx context.Context, clientID string) (*Verifier, error) {
	if clientID == "" {
		return nil, errors.New("google client id is required")
	}
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, fmt.Errorf("init google oidc provider: %w", err)
	}
	return &Verifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// Disabled stands in when no Google client ID is configured: the login
// routes stay registered but every attempt is refused.
type Disabled struct{}

func (Disabled) VerifiedEmail(context.Context, string) (string, error) {
	return "", dErrors.New(dErrors.CodeUnavailable, "google sign-in is not configured")
}

// VerifiedEmail checks the token's signature, issuer, audience, and expiry,
// then returns the verified email claim. A token without a verified email is
// rejected even when structurally valid.
func (v *Verifier) VerifiedEmail(ctx context.Context, rawIDToken string) (string, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", fmt.Errorf("google id_token verification failed: %w", err)
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", fmt.Errorf("google id_token claims parse failed: %w", err)
	}
	if claims.Email == "" {
		return "", errors.New("google id_token missing email claim")
	}
	if !claims.EmailVerified {
		return "", errors.New("google id_token email not verified")
	}
	return claims.Email, nil
}
