// Package service exchanges primary credentials for signed session tokens.
// Credential verification is delegated entirely to the upstream tracker; this
// process holds no password store of its own.
package service

import (
	"context"
	"log/slog"

	"permit-gateway/internal/auth/models"
	"permit-gateway/internal/token"
	"permit-gateway/internal/tracker"
	dErrors "permit-gateway/pkg/domain-errors"
)

// Authenticator verifies a username/password pair upstream and returns the
// matching account with its current API key.
type Authenticator interface {
	AuthenticateAccount(ctx context.Context, username, password string) (*tracker.Account, error)
}

// Directory is the admin-lane slice of the tracker used for role resolution,
// account lookups, and key resolution.
type Directory interface {
	AccountByID(ctx context.Context, id int64) (*tracker.Account, error)
	AccountByEmail(ctx context.Context, email string) (*tracker.Account, error)
	ProjectMemberships(ctx context.Context, project string) ([]tracker.Membership, error)
}

// IDTokenVerifier validates a third-party identity-provider token and returns
// its verified email claim.
type IDTokenVerifier interface {
	VerifiedEmail(ctx context.Context, rawIDToken string) (string, error)
}

// Service is the credential exchanger. All paths end in the same place: a
// resolved Identity with exactly one role, and signed session tokens.
type Service struct {
	authenticator Authenticator
	directory     Directory
	verifier      IDTokenVerifier
	codec         *token.Codec
	resolver      *Resolver
	roleProject   string
	logger        *slog.Logger
}

func New(
	authenticator Authenticator,
	directory Directory,
	verifier IDTokenVerifier,
	codec *token.Codec,
	roleProject string,
	logger *slog.Logger,
) *Service {
	return &Service{
		authenticator: authenticator,
		directory:     directory,
		verifier:      verifier,
		codec:         codec,
		resolver:      NewResolver(directory),
		roleProject:   roleProject,
		logger:        logger,
	}
}

// Resolver exposes the access-key resolver built on the same directory.
func (s *Service) Resolver() *Resolver { return s.resolver }

// LoginWithPassword verifies the credential upstream, resolves the caller's
// role from the configured project's memberships, and issues a token pair.
// "no role" is an authorization outcome distinct from bad credentials: the
// password was right but the account has no membership in the role project.
func (s *Service) LoginWithPassword(ctx context.Context, username, password string) (*models.LoginResult, error) {
	account, err := s.authenticator.AuthenticateAccount(ctx, username, password)
	if err != nil {
		return nil, err
	}

	role, err := s.resolveRole(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	identity := identityOf(account, role)
	access, refresh, err := s.codec.IssuePair(identity)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "password login",
		"user_id", identity.ID,
		"role", identity.Role,
	)

	return &models.LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		Role:         identity.Role.String(),
		Username:     identity.Login,
		UserID:       identity.ID,
	}, nil
}

// LoginWithGoogle verifies the provider token, maps its verified email to an
// upstream account, then resolves the role the same way as password login.
// A well-formed token for an email with no upstream account is a provisioning
// gap, not a security failure, and is reported as such.
func (s *Service) LoginWithGoogle(ctx context.Context, rawIDToken string) (*models.LoginResult, error) {
	email, err := s.verifier.VerifiedEmail(ctx, rawIDToken)
	if err != nil {
		// A disabled or unreachable provider is an availability problem,
		// not a bad token.
		if dErrors.Is(err, dErrors.CodeUnavailable) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid provider token")
	}

	account, err := s.directory.AccountByEmail(ctx, email)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeNotProvisioned, "no account provisioned for this email")
		}
		return nil, err
	}

	role, err := s.resolveRole(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	identity := identityOf(account, role)
	access, refresh, err := s.codec.IssuePair(identity)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "provider login",
		"user_id", identity.ID,
		"role", identity.Role,
	)

	return &models.LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		Role:         identity.Role.String(),
		Username:     identity.Login,
		UserID:       identity.ID,
	}, nil
}

// Refresh exchanges a refresh token for a new access token carrying a freshly
// resolved upstream key. The decode tolerates claim expiry so the check below
// can report "refresh token expired" precisely, but the signature is enforced
// unconditionally and access tokens are rejected outright.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.RefreshResult, error) {
	claims, err := s.codec.DecodeAllowExpired(refreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.Refresh {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not a refresh token")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(nowFunc()) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "refresh token expired")
	}

	key, err := s.resolver.Resolve(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	identity := models.Identity{
		ID:    claims.UserID,
		Login: claims.Username,
		Role:  models.Role(claims.Role),
	}
	access, err := s.codec.IssueAccessWithKey(identity, key)
	if err != nil {
		return nil, err
	}
	return &models.RefreshResult{AccessToken: access}, nil
}

// resolveRole scans the role project's memberships for the account and
// applies the first-role-wins tie-break.
func (s *Service) resolveRole(ctx context.Context, accountID int64) (models.Role, error) {
	memberships, err := s.directory.ProjectMemberships(ctx, s.roleProject)
	if err != nil {
		return "", err
	}
	return firstRole(memberships, accountID)
}

func identityOf(account *tracker.Account, role models.Role) models.Identity {
	return models.Identity{
		ID:    account.ID,
		Login: account.Login,
		Name:  account.Name,
		Role:  role,
	}
}
