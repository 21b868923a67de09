// Package notify holds the outbound delivery channels for one-time codes and
// reset links. Both channels are external collaborators; the OTP flow treats
// a delivery failure as reportable but does not invalidate the stored code.
package notify

import "context"

// SMSSender delivers a short text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// EmailSender delivers a plain-text email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}
