package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/xxsannx/pineus-tilu-booking/config"
)

// Sender delivers mail over plain SMTP. Delivery is best-effort everywhere it
// is used: callers log a failure and move on.
type Sender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSender(cfg config.SMTPConfig) *Sender {
	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &Sender{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

func (s *Sender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	headers := []string{
		fmt.Sprintf("From: Pineus Tilu <%s>", s.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}
	raw := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	return smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(raw))
}

// OTPBody renders the one-time passcode mail. The plaintext code appears here
// and nowhere else.
func OTPBody(code string, ttlMinutes int) string {
	return fmt.Sprintf(`<div style="font-family: Arial; padding: 10px;">
  <h2>Your Pineus Tilu Booking Code</h2>
  <p>Use the following code to verify your booking:</p>
  <h1 style="letter-spacing:4px;">%s</h1>
  <p>The code is valid for %d minutes.</p>
</div>`, code, ttlMinutes)
}

// VerifiedBody renders the booking-verified notice sent by the worker.
func VerifiedBody(bookingDate string) string {
	return fmt.Sprintf(`<div style="font-family: Arial; padding: 10px;">
  <h2>Booking Verified</h2>
  <p>Your booking for %s has been verified. See you at Pineus Tilu!</p>
</div>`, bookingDate)
}

// ExpiredBody renders the challenge-expired notice sent by the worker.
func ExpiredBody(bookingDate string) string {
	return fmt.Sprintf(`<div style="font-family: Arial; padding: 10px;">
  <h2>Booking Verification Expired</h2>
  <p>The verification window for your booking on %s has passed. Please create the booking again.</p>
</div>`, bookingDate)
}
