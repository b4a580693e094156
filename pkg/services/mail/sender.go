package mail

import (
	"context"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	gomail "gopkg.in/mail.v2"

	"github.com/de-tools/epic-report/pkg/services/config"
)

const defaultBody = "Please see the attached Jira report."

// Dialer delivers composed messages, *gomail.Dialer satisfies it
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Sender struct {
	cfg    config.SMTP
	dialer Dialer
}

func NewSender(cfg config.SMTP) *Sender {
	d := gomail.NewDialer(cfg.Server, cfg.Port, cfg.Username, cfg.Password)
	d.StartTLSPolicy = gomail.OpportunisticStartTLS
	return NewSenderWithDialer(cfg, d)
}

func NewSenderWithDialer(cfg config.SMTP, dialer Dialer) *Sender {
	return &Sender{cfg: cfg, dialer: dialer}
}

// Compose builds the report message with the file at attachment attached.
func (s *Sender) Compose(recipient, attachment string) (*gomail.Message, error) {
	if _, err := mail.ParseAddress(recipient); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", recipient, err)
	}
	if _, err := os.Stat(attachment); err != nil {
		return nil, fmt.Errorf("attachment not readable: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", recipient)
	m.SetHeader("Reply-To", s.cfg.ReplyTo)
	m.SetHeader("Subject", s.cfg.Subject)
	m.SetBody("text/plain", defaultBody)
	m.Attach(attachment,
		gomail.Rename(filepath.Base(attachment)),
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/octet-stream"}}),
	)
	return m, nil
}

func (s *Sender) Send(ctx context.Context, recipient, attachment string) error {
	logger := zerolog.Ctx(ctx).With().Str("recipient", recipient).Logger()
	logger.Info().Str("attachment", attachment).Msg("preparing to send email")

	m, err := s.Compose(recipient, attachment)
	if err != nil {
		s.trace(&logger, "compose", err)
		return err
	}
	s.trace(&logger, "compose", nil)
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.cfg.Debug > 0 {
		logger.Debug().
			Str("smtp_step", "dial").
			Str("server", s.cfg.Server).
			Int("port", s.cfg.Port).
			Bool("auth", s.cfg.Username != "").
			Msg("smtp")
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		s.trace(&logger, "send", err)
		logger.Error().Err(err).Msg("failed to send email")
		return fmt.Errorf("failed to send email to %s: %w", recipient, err)
	}
	s.trace(&logger, "send", nil)

	logger.Info().Msg("email sent successfully")
	return nil
}

// trace logs one step of the SMTP exchange when SMTP_DEBUG is set.
func (s *Sender) trace(logger *zerolog.Logger, step string, err error) {
	if s.cfg.Debug <= 0 {
		return
	}
	event := logger.Debug().Str("smtp_step", step)
	if err != nil {
		event = event.Err(err).Str("result", "error")
	} else {
		event = event.Str("result", "ok")
	}
	event.Msg("smtp")
}
