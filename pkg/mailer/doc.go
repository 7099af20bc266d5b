// Package mailer defines the transport gateway used to hand outgoing mail to a
// remote submission endpoint.
//
// It holds an [Email] value, the [Sender] interface
// transports implement, and the sentinel errors shared by all of them.
// Provider adapters live in sub-packages:
//
//   - smtp: SMTP submission (STARTTLS, implicit TLS, PLAIN auth)
//   - resend: Resend HTTP API
//   - ses: Amazon SES v2
//   - console: writes messages to the application log (development)
//
// # Usage
//
//	sender, err := smtp.New(smtp.Config{Host: "localhost", Port: 1025})
//	if err != nil {
//		return err
//	}
//
//	err = sender.Send(ctx, &mailer.Email{
//		From:    "alice@example.com",
//		To:      "bob@example.com",
//		Subject: "Hello",
//		Body:    "Hi Bob",
//	})
//	if errors.Is(err, mailer.ErrSendFailed) {
//		// rejected or unreachable, nothing was retried
//	}
//
// # Custom Providers
//
// Implement [Sender] (or use [SenderFunc]) to plug in another transport.
// Implementations must block until the remote side accepted or rejected the
// message, join failures with [ErrSendFailed], and must not retry.
//
// # Metrics
//
// [Instrument] decorates any Sender with Prometheus counters and a latency
// histogram:
//
//	m := mailer.NewMetrics(prometheus.DefaultRegisterer)
//	sender = mailer.Instrument(sender, "smtp", m)
package mailer
