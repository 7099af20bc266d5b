package mailer

import "errors"

var (
	// ErrNoSender indicates the email has no origin address.
	ErrNoSender = errors.New("mailer: email must have a sender")

	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("mailer: email must have a recipient")

	// ErrSendFailed indicates the transport rejected the message or could not be reached.
	// Every Sender implementation in this module joins its cause with this error.
	ErrSendFailed = errors.New("mailer: failed to send email")
)
