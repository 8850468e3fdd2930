package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"people-graphql-api/internal/config"
	"strconv"
	"time"

	"github.com/domodwyer/mailyak/v3"
	"go.uber.org/zap"
)

// Mailer delivers OTP codes over SMTP.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	ttl      time.Duration
	timeout  time.Duration
	log      *zap.Logger
}

// New creates a Mailer from the SMTP and OTP configuration.
func New(cfg *config.Config, log *zap.Logger) *Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := time.Duration(cfg.SMTP.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Mailer{
		host:     cfg.SMTP.Host,
		port:     cfg.SMTP.Port,
		username: cfg.SMTP.User,
		password: cfg.SMTP.Password,
		from:     cfg.SMTP.From,
		fromName: cfg.SMTP.FromName,
		ttl:      time.Duration(cfg.OTP.TTLMinutes) * time.Minute,
		timeout:  timeout,
		log:      log,
	}
}

func (m *Mailer) newMessage() *mailyak.MailYak {
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return mailyak.New(net.JoinHostPort(m.host, strconv.Itoa(m.port)), auth)
}

// SendOTP emails code to the given address.
func (m *Mailer) SendOTP(ctx context.Context, email, code string) error {
	mail := m.newMessage()
	mail.To(email)
	mail.From(m.from)
	mail.FromName(m.fromName)
	mail.Subject("Your verification code")
	mail.Plain().Set(fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(m.ttl.Minutes())))
	mail.HTML().Set(fmt.Sprintf(`
		<h1>Email Verification</h1>
		<p>Your verification code is <strong>%s</strong>.</p>
		<p>It expires in %d minutes. If you did not request it, ignore this email.</p>
	`, code, int(m.ttl.Minutes())))

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- mail.Send()
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("failed to send otp email: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send otp email: %w", err)
		}
	}

	m.log.Info("OTP email sent",
		zap.String("email", email),
		zap.String("event", "otp_email_sent"),
	)
	return nil
}
