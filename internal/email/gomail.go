package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Config for the SMTP sender.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	OfficeTo string
}

type gomailService struct {
	dialer *gomail.Dialer
	cfg    Config
	logger zerolog.Logger
}

func NewGomailService(cfg Config, logger zerolog.Logger) Service {
	return &gomailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		cfg:    cfg,
		logger: logger.With().Str("component", "email").Logger(),
	}
}

func (s *gomailService) SendContactEnquiry(ctx context.Context, fromName, fromEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.OfficeTo)
	m.SetHeader("Reply-To", fromEmail)
	m.SetHeader("Subject", fmt.Sprintf("[Contact] %s", subject))
	m.SetBody("text/plain", fmt.Sprintf("From: %s <%s>\n\n%s", fromName, fromEmail, body))

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to send contact enquiry")
			return fmt.Errorf("failed to send contact enquiry: %w", err)
		}
		return nil
	}
}
