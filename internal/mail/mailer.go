package mail

import (
	"context"
	"fmt"

	"github.com/inlyne/inlyne-server/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email over SMTP. The three workflow emails it
// produces all carry a single action link back into the frontend.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg *config.Config) *Mailer {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	return &Mailer{dialer: d, from: cfg.MailFrom}
}

func (m *Mailer) SendSignupVerification(ctx context.Context, to, link string) error {
	email := buildVerificationEmail(link)
	return m.send(ctx, to, email)
}

func (m *Mailer) SendPasswordReset(ctx context.Context, to, link string) error {
	email := buildPasswordResetEmail(link)
	return m.send(ctx, to, email)
}

func (m *Mailer) SendSiteInvite(ctx context.Context, to, siteName, link string) error {
	email := buildSiteInviteEmail(siteName, link)
	return m.send(ctx, to, email)
}

func (m *Mailer) send(ctx context.Context, to string, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/plain", email.TextBody)
	msg.AddAlternative("text/html", email.HTMLBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
