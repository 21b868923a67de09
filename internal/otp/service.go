// Package otp implements the password-recovery flows: emailed reset links for
// the web client and SMS one-time codes for the mobile client. Codes and
// reset grants live in the store with a TTL and are single-use.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"

	"permit-gateway/internal/notify"
	"permit-gateway/internal/tracker"
	dErrors "permit-gateway/pkg/domain-errors"
)

const (
	// DefaultCodeTTL bounds how long an SMS code stays verifiable.
	DefaultCodeTTL = 10 * time.Minute
	// DefaultGrantTTL bounds how long a reset grant stays redeemable.
	DefaultGrantTTL = time.Hour
)

// Store persists codes and reset grants. Consume operations are atomic
// read-and-delete so a value can be redeemed at most once.
type Store interface {
	SaveCode(ctx context.Context, subject, code string, ttl time.Duration) error
	Code(ctx context.Context, subject string) (string, error)
	ConsumeCode(ctx context.Context, subject string) (string, error)
	SaveGrant(ctx context.Context, grant, subject string, ttl time.Duration) error
	ConsumeGrant(ctx context.Context, grant string) (string, error)
}

// AccountDirectory is the administrative slice of the tracker client the
// recovery flows need: locating an account and rewriting its password.
type AccountDirectory interface {
	AccountByEmail(ctx context.Context, email string) (*tracker.Account, error)
	AccountByPhone(ctx context.Context, phone string) (*tracker.Account, error)
	UpdateAccountPassword(ctx context.Context, id int64, newPassword string) error
}

type Service struct {
	store    Store
	accounts AccountDirectory
	sms      notify.SMSSender
	email    notify.EmailSender
	resetURL string
	codeTTL  time.Duration
	grantTTL time.Duration
	logger   *slog.Logger
}

func New(store Store, accounts AccountDirectory, sms notify.SMSSender, email notify.EmailSender, resetURL string, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		accounts: accounts,
		sms:      sms,
		email:    email,
		resetURL: resetURL,
		codeTTL:  DefaultCodeTTL,
		grantTTL: DefaultGrantTTL,
		logger:   logger,
	}
}

// ForgotPassword looks up the account behind the email, stores a fresh reset
// grant and mails a link carrying it.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}

	account, err := s.accounts.AccountByEmail(ctx, email)
	if err != nil {
		return err
	}

	grant := uuid.NewString()
	subject := strconv.FormatInt(account.ID, 10)
	if err := s.store.SaveGrant(ctx, grant, subject, s.grantTTL); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "cache unavailable")
	}

	body := fmt.Sprintf("A password reset was requested for your account.\n\n"+
		"Follow this link to choose a new password:\n%s?token=%s\n\n"+
		"The link expires in %d minutes. If you did not request this, ignore this message.",
		s.resetURL, grant, int(s.grantTTL.Minutes()))
	if err := s.email.SendEmail(ctx, account.Email, "Password reset", body); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password reset link issued", slog.Int64("account_id", account.ID))
	return nil
}

// ResetPassword redeems a reset grant and writes the new password upstream.
// The grant is consumed before the upstream call, so a failed update requires
// requesting a fresh link.
func (s *Service) ResetPassword(ctx context.Context, grant, newPassword string) error {
	if grant == "" || newPassword == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "token and new password are required")
	}

	subject, err := s.store.ConsumeGrant(ctx, grant)
	if err != nil {
		return err
	}
	accountID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "malformed reset grant subject")
	}

	if err := s.accounts.UpdateAccountPassword(ctx, accountID, newPassword); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "password reset completed", slog.Int64("account_id", accountID))
	return nil
}

// MobileForgotPassword sends a one-time code to the phone number on record.
// A repeated request replaces any earlier code for the same number.
func (s *Service) MobileForgotPassword(ctx context.Context, phone string) error {
	if phone == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "phone number is required")
	}

	if _, err := s.accounts.AccountByPhone(ctx, phone); err != nil {
		return err
	}

	code, err := randomCode()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate code")
	}
	if err := s.store.SaveCode(ctx, phone, code, s.codeTTL); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "cache unavailable")
	}

	message := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
		code, int(s.codeTTL.Minutes()))
	if err := s.sms.SendSMS(ctx, phone, message); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "verification code issued", slog.String("phone", phone))
	return nil
}

// MobileVerifyOTP checks the submitted code against the stored one. A wrong
// guess leaves the stored code in place so the user can retry until the TTL
// runs out; a correct guess consumes it and returns a reset grant.
func (s *Service) MobileVerifyOTP(ctx context.Context, phone, candidate string) (string, error) {
	if phone == "" || candidate == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "phone number and code are required")
	}

	stored, err := s.store.Code(ctx, phone)
	if err != nil {
		return "", err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) != 1 {
		return "", dErrors.New(dErrors.CodeUnauthorized, "incorrect code")
	}
	if _, err := s.store.ConsumeCode(ctx, phone); err != nil {
		return "", err
	}

	account, err := s.accounts.AccountByPhone(ctx, phone)
	if err != nil {
		return "", err
	}

	grant := uuid.NewString()
	subject := strconv.FormatInt(account.ID, 10)
	if err := s.store.SaveGrant(ctx, grant, subject, s.grantTTL); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "cache unavailable")
	}

	s.logger.InfoContext(ctx, "verification code accepted", slog.Int64("account_id", account.ID))
	return grant, nil
}

// MobileResetPassword redeems a grant obtained through MobileVerifyOTP. The
// redemption path is shared with the emailed-link flow.
func (s *Service) MobileResetPassword(ctx context.Context, grant, newPassword string) error {
	return s.ResetPassword(ctx, grant, newPassword)
}

// randomCode draws a uniformly distributed six-digit code.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
