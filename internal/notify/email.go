package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	dErrors "permit-gateway/pkg/domain-errors"
)

// SMTPSender delivers mail through a plain SMTP relay. The connection carries
// a deadline so a hung relay cannot hold a request indefinitely.
type SMTPSender struct {
	host    string
	addr    string
	from    string
	auth    smtp.Auth
	timeout time.Duration
}

func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		host:    host,
		addr:    host + ":" + port,
		from:    from,
		auth:    auth,
		timeout: 15 * time.Second,
	}
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "email delivery failed")
	}

	msg := fmt.Appendf(nil, "From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.from, to, subject, body)
	if err := s.send(to, msg); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "email delivery failed")
	}
	return nil
}

// send speaks the SMTP session by hand because smtp.SendMail offers no way
// to bound the connection lifetime.
func (s *SMTPSender) send(to string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", s.addr, s.timeout)
	if err != nil {
		return err
	}
	if err := conn.SetDeadline(time.Now().Add(s.timeout)); err != nil {
		conn.Close()
		return err
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
			return err
		}
	}
	if s.auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(s.auth); err != nil {
				return err
			}
		}
	}

	if err := client.Mail(s.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
