package mailer

import "context"

// Sender hands a composed email to an outbound transport.
type Sender interface {
	// Send blocks until the transport accepted or rejected the message.
	// Failures are reported wrapped with ErrSendFailed and are never retried.
	Send(ctx context.Context, email *Email) error
}

// SenderFunc adapts a plain function to the Sender interface.
type SenderFunc func(ctx context.Context, email *Email) error

// Send implements Sender.
func (f SenderFunc) Send(ctx context.Context, email *Email) error {
	return f(ctx, email)
}
