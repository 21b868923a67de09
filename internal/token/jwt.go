// Package token is the session token codec: the only place that touches the
// signing secret, the signing algorithm, and the upstream-key cipher.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"permit-gateway/internal/auth/models"
	dErrors "permit-gateway/pkg/domain-errors"
)

// Claims are the JWT claims carried by both access and refresh tokens.
// Refresh distinguishes the two; a refresh token never grants route access
// and an access token is never accepted by the refresh endpoint.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Refresh  bool   `json:"refresh"`
	// UpstreamKey is the AES-GCM-sealed upstream access key, present only on
	// access tokens issued by the refresh flow.
	UpstreamKey string `json:"upstream_key,omitempty"`
	jwt.RegisteredClaims
}

// Codec issues and parses session tokens with an HMAC signature. Issuer and
// verifier are the same process, so symmetric signing is sufficient.
type Codec struct {
	signingKey []byte
	cipher     *keyCipher
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(signingKey, encryptionSecret, issuer string, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	kc, err := newKeyCipher(encryptionSecret)
	if err != nil {
		return nil, err
	}
	return &Codec{
		signingKey: []byte(signingKey),
		cipher:     kc,
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// IssuePair returns a short-lived access token and a long-lived refresh token
// for the identity. Neither carries an upstream key.
func (c *Codec) IssuePair(identity models.Identity) (string, string, error) {
	access, err := c.sign(identity, false, "", c.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err := c.sign(identity, true, "", c.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// IssueAccessWithKey returns an access token with the upstream key sealed into
// its claims, so downstream calls within the token's lifetime skip a second
// upstream round trip.
func (c *Codec) IssueAccessWithKey(identity models.Identity, upstreamKey string) (string, error) {
	sealed, err := c.cipher.seal(upstreamKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	return c.sign(identity, false, sealed, c.accessTTL)
}

func (c *Codec) sign(identity models.Identity, refresh bool, sealedKey string, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:      identity.ID,
		Username:    identity.Login,
		Role:        identity.Role.String(),
		Refresh:     refresh,
		UpstreamKey: sealedKey,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    c.issuer,
			Subject:   identity.Login,
			ID:        uuid.NewString(),
		},
	})
	signed, err := t.SignedString(c.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token")
	}
	return signed, nil
}

// Decode verifies signature and expiry. Expired tokens come back with a
// distinct message but the same unauthorized code; forged or malformed tokens
// fail closed.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, c.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return c.claimsOf(parsed)
}

// DecodeAllowExpired verifies the signature but tolerates an expired token.
// The refresh endpoint uses this to read subject and role off a structurally
// valid token; signature failure is still rejected unconditionally.
func (c *Codec) DecodeAllowExpired(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed, err := parser.ParseWithClaims(tokenString, &Claims{}, c.keyFunc)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return c.claimsOf(parsed)
}

// UpstreamKey opens the sealed upstream key carried by claims issued through
// IssueAccessWithKey. Claims without one return not found.
func (c *Codec) UpstreamKey(claims *Claims) (string, error) {
	if claims.UpstreamKey == "" {
		return "", dErrors.New(dErrors.CodeNotFound, "token carries no upstream key")
	}
	key, err := c.cipher.open(claims.UpstreamKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}
	return key, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, jwt.ErrTokenUnverifiable
	}
	return c.signingKey, nil
}

func (c *Codec) claimsOf(parsed *jwt.Token) (*Claims, error) {
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}
