package mailer

import "strings"

// Email is a single plain-text message handed to a transport.
// Subject and Body are optional and are delivered exactly as given.
type Email struct {
	From    string // Envelope and header sender
	To      string // Single recipient
	Subject string
	Body    string // Plain text content
}

// Validate reports whether the email carries the addresses every transport needs.
func (e *Email) Validate() error {
	if e == nil || strings.TrimSpace(e.From) == "" {
		return ErrNoSender
	}
	if strings.TrimSpace(e.To) == "" {
		return ErrNoRecipient
	}
	return nil
}
