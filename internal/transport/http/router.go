package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"permit-gateway/internal/auth/models"
	"permit-gateway/internal/token"
	dErrors "permit-gateway/pkg/domain-errors"
	authmw "permit-gateway/pkg/platform/middleware/auth"
	requestmw "permit-gateway/pkg/platform/middleware/request"
)

// sessionValidator adapts the token codec to the middleware contract. A
// refresh token never passes here: protected routes accept access tokens
// only. When the token carries a sealed upstream key (refresh-issued access
// tokens do), it is opened here so record handlers can skip the per-request
// key resolution; a seal that fails to open means a tampered token and is
// rejected outright.
type sessionValidator struct {
	codec *token.Codec
}

func (v *sessionValidator) ValidateAccess(tokenString string) (*authmw.SessionClaims, error) {
	claims, err := v.codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Refresh {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not an access token")
	}

	session := &authmw.SessionClaims{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}
	if claims.UpstreamKey != "" {
		key, err := v.codec.UpstreamKey(claims)
		if err != nil {
			return nil, err
		}
		session.UpstreamKey = key
	}
	return session, nil
}

// HealthChecker reports readiness of a backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	Auth    *AuthHandler
	Records *RecordsHandler
	Codec   *token.Codec
	Health  HealthChecker // optional
	Logger  *slog.Logger
}

// NewRouter assembles the full HTTP surface. Role sets are declared here, at
// route registration, so the authorization matrix is readable in one place.
func NewRouter(deps RouterDeps) http.Handler {
	validator := &sessionValidator{codec: deps.Codec}
	guard := func(roles ...models.Role) func(http.Handler) http.Handler {
		names := make([]string, len(roles))
		for i, role := range roles {
			names[i] = string(role)
		}
		return authmw.RequireRoles(validator, deps.Logger, names...)
	}

	r := chi.NewRouter()
	r.Use(requestmw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", handleHealthz(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", deps.Auth.handleLogin)
		r.Post("/google-login", deps.Auth.handleGoogleLogin)
		r.Post("/mobile-google-login", deps.Auth.handleGoogleLogin)
		r.Post("/refresh-token", deps.Auth.handleRefreshToken)
		r.Post("/forgot-password", deps.Auth.handleForgotPassword)
		r.Post("/reset-password", deps.Auth.handleResetPassword)
		r.Post("/mobile-forgot-password", deps.Auth.handleMobileForgotPassword)
		r.Post("/mobile-verify-otp", deps.Auth.handleMobileVerifyOTP)
		r.Post("/mobile-reset-password", deps.Auth.handleMobileResetPassword)
	})

	r.Group(func(r chi.Router) {
		r.With(guard(models.RoleOwner)).
			Get("/licenses", deps.Records.handleOwnLicenses)
		r.With(guard(models.RoleManagement, models.RoleDirector, models.RoleEngineer)).
			Get("/licenses/all", deps.Records.handleAllLicenses)

		r.With(guard(models.RoleFieldOfficer, models.RoleLawOfficer)).
			Post("/complaints", deps.Records.handleFileComplaint)
		r.With(guard(models.RoleManagement, models.RoleDirector, models.RoleLawOfficer)).
			Get("/complaints", deps.Records.handleComplaints)

		r.With(guard(models.RoleOwner)).
			Post("/permits", deps.Records.handleApplyPermit)
		r.With(guard(models.RoleEngineer, models.RoleManagement)).
			Get("/permits/pending", deps.Records.handlePendingPermits)

		r.With(guard(models.RoleDirector)).
			Get("/officers", deps.Records.handleOfficers)
		r.With(guard(models.RoleDirector)).
			Post("/officers", deps.Records.handleProvisionOfficer)
	})

	return r
}

func handleHealthz(health HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health.Health(r.Context()); err != nil {
				writeError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "dependency unhealthy"))
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
