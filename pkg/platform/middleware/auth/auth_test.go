package auth

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "permit-gateway/pkg/domain-errors"
	"permit-gateway/pkg/testutil"
)

type stubValidator struct {
	claims *SessionClaims
	err    error
}

func (v *stubValidator) ValidateAccess(string) (*SessionClaims, error) {
	return v.claims, v.err
}

func protected(t *testing.T, validator SessionValidator, roles ...string) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, GetRole(r.Context()))
	})
	return RequireRoles(validator, logger, roles...)(next)
}

func Test_RequireRoles_NoToken_Forbidden(t *testing.T) {
	handler := protected(t, &stubValidator{}, "owner")

	rr := testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodGet, "/licenses"))

	testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
}

func Test_RequireRoles_EmptyBearer_Forbidden(t *testing.T) {
	handler := protected(t, &stubValidator{}, "owner")

	req := testutil.NewRequest(t, http.MethodGet, "/licenses")
	req.Header.Set("Authorization", "Bearer ")
	rr := testutil.DoRequest(handler, req)

	testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
}

func Test_RequireRoles_InvalidToken_Unauthorized(t *testing.T) {
	validator := &stubValidator{err: dErrors.New(dErrors.CodeUnauthorized, "invalid token")}
	handler := protected(t, validator, "owner")

	req := testutil.NewRequest(t, http.MethodGet, "/licenses")
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := testutil.DoRequest(handler, req)

	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
}

func Test_RequireRoles_RoleNotAllowed_Forbidden(t *testing.T) {
	validator := &stubValidator{claims: &SessionClaims{UserID: 7, Username: "nimal", Role: "owner"}}
	handler := protected(t, validator, "management", "director")

	req := testutil.NewRequest(t, http.MethodGet, "/licenses/all")
	req.Header.Set("Authorization", "Bearer valid-token")
	rr := testutil.DoRequest(handler, req)

	testutil.AssertStatusAndError(t, rr, http.StatusForbidden, "forbidden")
}

func Test_RequireRoles_AllowedRole_PassesClaims(t *testing.T) {
	validator := &stubValidator{claims: &SessionClaims{UserID: 7, Username: "nimal", Role: "owner"}}
	handler := protected(t, validator, "owner", "management")

	req := testutil.NewRequest(t, http.MethodGet, "/licenses")
	req.Header.Set("Authorization", "Bearer valid-token")
	rr := testutil.DoRequest(handler, req)

	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, "owner", rr.Body.String(), "role should be readable downstream")
}

func Test_GetSession_Empty(t *testing.T) {
	req := testutil.NewRequest(t, http.MethodGet, "/")
	ctx := req.Context()

	require.Zero(t, GetUserID(ctx))
	require.Empty(t, GetUsername(ctx))
	require.Empty(t, GetRole(ctx))
}
