// Package console provides a development mailer.Sender that writes messages to
// the application log instead of delivering them.
package console

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/mailsender/pkg/mailer"
)

// Sender logs every email at info level and always succeeds.
type Sender struct {
	log *slog.Logger
}

// New creates a console sender writing to log.
func New(log *slog.Logger) *Sender {
	if log == nil {
		log = slog.Default()
	}
	return &Sender{log: log}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if err := email.Validate(); err != nil {
		return errors.Join(mailer.ErrSendFailed, err)
	}

	s.log.InfoContext(ctx, "email (not delivered)",
		slog.String("from", email.From),
		slog.String("to", email.To),
		slog.String("subject", email.Subject),
		slog.Int("body_size", len(email.Body)),
	)
	return nil
}
