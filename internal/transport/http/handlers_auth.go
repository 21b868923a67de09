package httptransport

import (
	"context"
	"net/http"

	"permit-gateway/internal/auth/models"
	"permit-gateway/internal/platform/metrics"
	dErrors "permit-gateway/pkg/domain-errors"
)

// AuthService is the credential-exchange surface the handlers delegate to.
type AuthService interface {
	LoginWithPassword(ctx context.Context, username, password string) (*models.LoginResult, error)
	LoginWithGoogle(ctx context.Context, rawIDToken string) (*models.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*models.RefreshResult, error)
}

// RecoveryService covers the password-recovery flows.
type RecoveryService interface {
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, grant, newPassword string) error
	MobileForgotPassword(ctx context.Context, phone string) error
	MobileVerifyOTP(ctx context.Context, phone, candidate string) (string, error)
	MobileResetPassword(ctx context.Context, grant, newPassword string) error
}

type AuthHandler struct {
	auth     AuthService
	recovery RecoveryService
	metrics  *metrics.Metrics
}

func NewAuthHandler(auth AuthService, recovery RecoveryService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{auth: auth, recovery: recovery, metrics: m}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "username and password are required"))
		return
	}

	result, err := h.auth.LoginWithPassword(r.Context(), req.Username, req.Password)
	if err != nil {
		h.metrics.ObserveLogin("password", "failure")
		writeError(w, err)
		return
	}

	h.metrics.ObserveLogin("password", "success")
	writeJSON(w, http.StatusOK, result)
}

type googleLoginRequest struct {
	Token string `json:"token"`
}

// handleGoogleLogin serves both the web and mobile Google sign-in routes;
// the flows differ only in the client that calls them.
func (h *AuthHandler) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Token == "" {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "token is required"))
		return
	}

	result, err := h.auth.LoginWithGoogle(r.Context(), req.Token)
	if err != nil {
		h.metrics.ObserveLogin("google", "failure")
		writeError(w, err)
		return
	}

	h.metrics.ObserveLogin("google", "success")
	writeJSON(w, http.StatusOK, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.RefreshToken == "" {
		writeError(w, dErrors.New(dErrors.CodeInvalidInput, "refresh_token is required"))
		return
	}

	result, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.metrics.ObserveRefresh("failure")
		writeError(w, err)
		return
	}

	h.metrics.ObserveRefresh("success")
	writeJSON(w, http.StatusOK, result)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.recovery.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password reset link sent"})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.recovery.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	h.metrics.PasswordResets.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

type mobileForgotPasswordRequest struct {
	Phone string `json:"phone"`
}

func (h *AuthHandler) handleMobileForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req mobileForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.recovery.MobileForgotPassword(r.Context(), req.Phone); err != nil {
		writeError(w, err)
		return
	}
	h.metrics.CodesIssued.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "verification code sent"})
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

type verifyOTPResponse struct {
	ResetToken string `json:"reset_token"`
}

func (h *AuthHandler) handleMobileVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	grant, err := h.recovery.MobileVerifyOTP(r.Context(), req.Phone, req.OTP)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyOTPResponse{ResetToken: grant})
}

type mobileResetPasswordRequest struct {
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) handleMobileResetPassword(w http.ResponseWriter, r *http.Request) {
	var req mobileResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.recovery.MobileResetPassword(r.Context(), req.ResetToken, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	h.metrics.PasswordResets.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
