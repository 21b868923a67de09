package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"permit-gateway/internal/auth/models"
	"permit-gateway/internal/token"
	"permit-gateway/internal/tracker"
	dErrors "permit-gateway/pkg/domain-errors"
)

const roleProject = "licensing"

type ServiceSuite struct {
	suite.Suite

	ctrl          *gomock.Controller
	mockAuth      *MockAuthenticator
	mockDirectory *MockDirectory
	mockVerifier  *MockIDTokenVerifier
	codec         *token.Codec
	service       *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockAuth = NewMockAuthenticator(s.ctrl)
	s.mockDirectory = NewMockDirectory(s.ctrl)
	s.mockVerifier = NewMockIDTokenVerifier(s.ctrl)

	codec, err := token.NewCodec("test-signing-key", "test-encryption-secret", "permit-gateway", 15*time.Minute, 7*24*time.Hour)
	require.NoError(s.T(), err)
	s.codec = codec

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = New(s.mockAuth, s.mockDirectory, s.mockVerifier, codec, roleProject, logger)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) account() *tracker.Account {
	return &tracker.Account{ID: 7, Login: "u1", Name: "User One", Email: "u1@example.org", APIKey: "k-77"}
}

func (s *ServiceSuite) membership(accountID int64, roles ...string) tracker.Membership {
	m := tracker.Membership{Account: tracker.AccountRef{ID: accountID}}
	for i, r := range roles {
		m.Roles = append(m.Roles, tracker.RoleRef{ID: int64(i + 1), Name: r})
	}
	return m
}

func (s *ServiceSuite) TestLoginWithPassword() {
	s.T().Run("happy path - first membership role wins", func(t *testing.T) {
		s.mockAuth.EXPECT().AuthenticateAccount(gomock.Any(), "u1", "p1").Return(s.account(), nil)
		s.mockDirectory.EXPECT().ProjectMemberships(gomock.Any(), roleProject).Return([]tracker.Membership{
			s.membership(3, "Management"),
			s.membership(7, "Developer", "Director"),
		}, nil)

		result, err := s.service.LoginWithPassword(context.Background(), "u1", "p1")
		require.NoError(t, err)
		assert.Equal(t, "Developer", result.Role)
		assert.Equal(t, "u1", result.Username)
		assert.Equal(t, int64(7), result.UserID)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)

		claims, err := s.codec.Decode(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "Developer", claims.Role)
		assert.False(t, claims.Refresh)
	})

	s.T().Run("invalid credentials pass through unchanged", func(t *testing.T) {
		s.mockAuth.EXPECT().AuthenticateAccount(gomock.Any(), "u1", "bad").
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "invalid username or password"))

		result, err := s.service.LoginWithPassword(context.Background(), "u1", "bad")
		assert.Nil(t, result)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	s.T().Run("authenticated but no membership is no_role, not unauthorized", func(t *testing.T) {
		s.mockAuth.EXPECT().AuthenticateAccount(gomock.Any(), "u1", "p1").Return(s.account(), nil)
		s.mockDirectory.EXPECT().ProjectMemberships(gomock.Any(), roleProject).Return([]tracker.Membership{
			s.membership(3, "Management"),
		}, nil)

		result, err := s.service.LoginWithPassword(context.Background(), "u1", "p1")
		assert.Nil(t, result)
		assert.True(t, dErrors.Is(err, dErrors.CodeNoRole))
		assert.False(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	s.T().Run("membership with zero roles is no_role", func(t *testing.T) {
		s.mockAuth.EXPECT().AuthenticateAccount(gomock.Any(), "u1", "p1").Return(s.account(), nil)
		s.mockDirectory.EXPECT().ProjectMemberships(gomock.Any(), roleProject).Return([]tracker.Membership{
			s.membership(7),
		}, nil)

		_, err := s.service.LoginWithPassword(context.Background(), "u1", "p1")
		assert.True(t, dErrors.Is(err, dErrors.CodeNoRole))
	})

	s.T().Run("upstream unavailable surfaces as unavailable", func(t *testing.T) {
		s.mockAuth.EXPECT().AuthenticateAccount(gomock.Any(), "u1", "p1").
			Return(nil, dErrors.Wrap(errors.New("dial tcp"), dErrors.CodeUnavailable, "upstream tracker unavailable"))

		_, err := s.service.LoginWithPassword(context.Background(), "u1", "p1")
		assert.True(t, dErrors.Is(err, dErrors.CodeUnavailable))
	})
}

func (s *ServiceSuite) TestLoginWithGoogle() {
	s.T().Run("happy path", func(t *testing.T) {
		s.mockVerifier.EXPECT().VerifiedEmail(gomock.Any(), "raw-id-token").Return("u1@example.org", nil)
		s.mockDirectory.EXPECT().AccountByEmail(gomock.Any(), "u1@example.org").Return(s.account(), nil)
		s.mockDirectory.EXPECT().ProjectMemberships(gomock.Any(), roleProject).Return([]tracker.Membership{
			s.membership(7, "Owner"),
		}, nil)

		result, err := s.service.LoginWithGoogle(context.Background(), "raw-id-token")
		require.NoError(t, err)
		assert.Equal(t, "Owner", result.Role)
		assert.NotEmpty(t, result.AccessToken)
	})

	s.T().Run("invalid provider token", func(t *testing.T) {
		s.mockVerifier.EXPECT().VerifiedEmail(gomock.Any(), "bogus").Return("", errors.New("verification failed"))

		_, err := s.service.LoginWithGoogle(context.Background(), "bogus")
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
		assert.Equal(t, "invalid provider token", dErrors.MessageOf(err))
	})

	s.T().Run("valid token but unknown email is a provisioning gap", func(t *testing.T) {
		s.mockVerifier.EXPECT().VerifiedEmail(gomock.Any(), "raw-id-token").Return("new@example.org", nil)
		s.mockDirectory.EXPECT().AccountByEmail(gomock.Any(), "new@example.org").
			Return(nil, dErrors.New(dErrors.CodeNotFound, "no account for email"))

		_, err := s.service.LoginWithGoogle(context.Background(), "raw-id-token")
		assert.True(t, dErrors.Is(err, dErrors.CodeNotProvisioned))
		assert.False(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	s.T().Run("provisioned account without role is no_role", func(t *testing.T) {
		s.mockVerifier.EXPECT().VerifiedEmail(gomock.Any(), "raw-id-token").Return("u1@example.org", nil)
		s.mockDirectory.EXPECT().AccountByEmail(gomock.Any(), "u1@example.org").Return(s.account(), nil)
		s.mockDirectory.EXPECT().ProjectMemberships(gomock.Any(), roleProject).Return(nil, nil)

		_, err := s.service.LoginWithGoogle(context.Background(), "raw-id-token")
		assert.True(t, dErrors.Is(err, dErrors.CodeNoRole))
	})
}

func (s *ServiceSuite) TestRefresh() {
	identity := models.Identity{ID: 7, Login: "u1", Role: models.RoleOwner}

	s.T().Run("happy path - fresh key sealed into new access token", func(t *testing.T) {
		_, refresh, err := s.codec.IssuePair(identity)
		require.NoError(t, err)

		s.mockDirectory.EXPECT().AccountByID(gomock.Any(), int64(7)).Return(s.account(), nil)

		result, err := s.service.Refresh(context.Background(), refresh)
		require.NoError(t, err)

		claims, err := s.codec.Decode(result.AccessToken)
		require.NoError(t, err)
		assert.False(t, claims.Refresh)
		assert.Equal(t, "Owner", claims.Role)

		key, err := s.codec.UpstreamKey(claims)
		require.NoError(t, err)
		assert.Equal(t, "k-77", key)
	})

	s.T().Run("access token presented where refresh is required", func(t *testing.T) {
		access, _, err := s.codec.IssuePair(identity)
		require.NoError(t, err)

		_, err = s.service.Refresh(context.Background(), access)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
		assert.Equal(t, "not a refresh token", dErrors.MessageOf(err))
	})

	s.T().Run("expired refresh token rejected", func(t *testing.T) {
		expiredCodec, err := token.NewCodec("test-signing-key", "test-encryption-secret", "permit-gateway", time.Minute, -time.Minute)
		require.NoError(t, err)
		_, refresh, err := expiredCodec.IssuePair(identity)
		require.NoError(t, err)

		_, err = s.service.Refresh(context.Background(), refresh)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
		assert.Equal(t, "refresh token expired", dErrors.MessageOf(err))
	})

	s.T().Run("forged refresh token rejected", func(t *testing.T) {
		forgerCodec, err := token.NewCodec("attacker-key", "test-encryption-secret", "permit-gateway", time.Minute, time.Hour)
		require.NoError(t, err)
		_, refresh, err := forgerCodec.IssuePair(identity)
		require.NoError(t, err)

		_, err = s.service.Refresh(context.Background(), refresh)
		assert.True(t, dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	s.T().Run("subject without upstream key", func(t *testing.T) {
		_, refresh, err := s.codec.IssuePair(identity)
		require.NoError(t, err)

		account := s.account()
		account.APIKey = ""
		s.mockDirectory.EXPECT().AccountByID(gomock.Any(), int64(7)).Return(account, nil)

		_, err = s.service.Refresh(context.Background(), refresh)
		assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestResolver() {
	s.T().Run("resolves current key on demand", func(t *testing.T) {
		s.mockDirectory.EXPECT().AccountByID(gomock.Any(), int64(7)).Return(s.account(), nil)

		key, err := s.service.Resolver().Resolve(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "k-77", key)
	})

	s.T().Run("unknown subject", func(t *testing.T) {
		s.mockDirectory.EXPECT().AccountByID(gomock.Any(), int64(99)).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "upstream record not found"))

		_, err := s.service.Resolver().Resolve(context.Background(), 99)
		assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
	})
}

func Test_FirstRole_TieBreak(t *testing.T) {
	memberships := []tracker.Membership{
		{Account: tracker.AccountRef{ID: 3}, Roles: []tracker.RoleRef{{Name: "Director"}}},
		{Account: tracker.AccountRef{ID: 7}, Roles: []tracker.RoleRef{{Name: "FieldOfficer"}, {Name: "Director"}}},
	}

	role, err := firstRole(memberships, 7)
	require.NoError(t, err)
	// First role wins even when a later one is more privileged.
	assert.Equal(t, models.RoleFieldOfficer, role)

	_, err = firstRole(memberships, 42)
	assert.True(t, dErrors.Is(err, dErrors.CodeNoRole))
}
