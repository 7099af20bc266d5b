// Package mailservice sends mail on behalf of an authenticated sender and keeps
// the sender's history.
//
// A send is a unit of work: the message is handed to the transport first and
// the history record is written in a store transaction only after the
// transport accepted it. A transport failure leaves no record. A store failure
// after a successful handoff is reported to the caller and the record is rolled
// back, although the message has already left; no compensation is attempted.
//
// Errors are returned unmodified: ErrValidation, mailer.ErrSendFailed or
// sentmail.ErrPersistence, each joined with its cause.
package mailservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrymomot/mailsender/internal/sentmail"
	"github.com/dmitrymomot/mailsender/pkg/mailer"
)

// NewMailRequest is the user-supplied part of a message.
type NewMailRequest struct {
	Recipient string
	Subject   string
	Body      string
}

// Validate checks the request on its own, without a sender.
func (r NewMailRequest) Validate() error {
	if strings.TrimSpace(r.Recipient) == "" {
		return errors.Join(ErrValidation, ErrBlankRecipient)
	}
	return nil
}

// DefaultRecordTimeout bounds the history write that follows a successful send.
const DefaultRecordTimeout = 10 * time.Second

// Service couples a transport with the sent-mail store.
type Service struct {
	sender        mailer.Sender
	store         sentmail.TxStore
	recordTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithRecordTimeout sets how long the history write may take once the
// transport has accepted a message.
func WithRecordTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.recordTimeout = d
		}
	}
}

// New creates a Service.
func New(sender mailer.Sender, store sentmail.TxStore, opts ...Option) *Service {
	s := &Service{sender: sender, store: store, recordTimeout: DefaultRecordTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendMail delivers req from sender and records it.
func (s *Service) SendMail(ctx context.Context, sender string, req NewMailRequest) error {
	if strings.TrimSpace(sender) == "" {
		return errors.Join(ErrValidation, ErrBlankSender)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	email := &mailer.Email{
		From:    sender,
		To:      req.Recipient,
		Subject: req.Subject,
		Body:    req.Body,
	}
	if err := s.sender.Send(ctx, email); err != nil {
		return err
	}

	// The message is out. Cancelling the request must not lose its record.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.recordTimeout)
	defer cancel()

	return s.store.WithinTx(ctx, func(ctx context.Context, tx sentmail.Store) error {
		_, err := tx.Insert(ctx, sentmail.NewRecord{
			Sender:    sender,
			Recipient: req.Recipient,
			Subject:   req.Subject,
			Body:      req.Body,
		})
		return err
	})
}

// SentMailsForSender returns the sender's history in the order it was sent.
// A sender without history gets an empty slice.
func (s *Service) SentMailsForSender(ctx context.Context, sender string) ([]sentmail.Summary, error) {
	return s.store.FindBySender(ctx, sender)
}
