package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	gosmtp "github.com/emersion/go-smtp"

	"github.com/dmitrymomot/mailsender/pkg/mailer"
)

var (
	ErrMissingHost    = errors.New("smtp: missing host")
	ErrInvalidTLSMode = errors.New("smtp: invalid TLS mode")
	ErrHealthcheck    = errors.New("smtp: healthcheck failed")
)

// Sender implements mailer.Sender over SMTP submission.
// Each Send opens its own connection, so a Sender is safe for concurrent use.
type Sender struct {
	now    func() time.Time
	config Config
}

// New creates an SMTP sender.
func New(cfg Config) (*Sender, error) {
	if cfg.Host == "" {
		return nil, ErrMissingHost
	}
	switch cfg.TLSMode {
	case "":
		cfg.TLSMode = TLSNone
	case TLSNone, TLSStartTLS, TLSImplicit:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTLSMode, cfg.TLSMode)
	}
	if cfg.Port == 0 {
		cfg.Port = 25
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Sender{config: cfg, now: time.Now}, nil
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if err := email.Validate(); err != nil {
		return errors.Join(mailer.ErrSendFailed, err)
	}

	from, err := mail.ParseAddress(email.From)
	if err != nil {
		return errors.Join(mailer.ErrSendFailed, fmt.Errorf("smtp: parse sender: %w", err))
	}
	to, err := mail.ParseAddress(email.To)
	if err != nil {
		return errors.Join(mailer.ErrSendFailed, fmt.Errorf("smtp: parse recipient: %w", err))
	}

	msg, err := compose(from, to, email, s.now())
	if err != nil {
		return errors.Join(mailer.ErrSendFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	c, err := s.dial(ctx)
	if err != nil {
		return errors.Join(mailer.ErrSendFailed, err)
	}
	defer c.Close()

	if s.config.Username != "" {
		if err := c.Auth(sasl.NewPlainClient("", s.config.Username, s.config.Password)); err != nil {
			return errors.Join(mailer.ErrSendFailed, fmt.Errorf("smtp: auth: %w", err))
		}
	}

	if err := c.SendMail(from.Address, []string{to.Address}, bytes.NewReader(msg)); err != nil {
		return errors.Join(mailer.ErrSendFailed, fmt.Errorf("smtp: submit: %w", err))
	}

	// The server already accepted the message; a failed QUIT does not undo that.
	_ = c.Quit()

	return nil
}

// Healthcheck returns a closure that opens a connection, issues NOOP and quits.
func (s *Sender) Healthcheck() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()

		c, err := s.dial(ctx)
		if err != nil {
			return errors.Join(ErrHealthcheck, err)
		}
		defer c.Close()

		if err := c.Noop(); err != nil {
			return errors.Join(ErrHealthcheck, err)
		}
		return c.Quit()
	}
}

func (s *Sender) dial(ctx context.Context) (*gosmtp.Client, error) {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("smtp: dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	switch s.config.TLSMode {
	case TLSImplicit:
		return gosmtp.NewClient(tls.Client(conn, s.tlsConfig())), nil
	case TLSStartTLS:
		c, err := gosmtp.NewClientStartTLS(conn, s.tlsConfig())
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("smtp: starttls: %w", err)
		}
		return c, nil
	default:
		return gosmtp.NewClient(conn), nil
	}
}

func (s *Sender) tlsConfig() *tls.Config {
	return &tls.Config{
		ServerName:         s.config.Host,
		InsecureSkipVerify: s.config.InsecureSkipVerify, //nolint:gosec // opt-in for local relays
		MinVersion:         tls.VersionTLS12,
	}
}

// compose renders a single-part text/plain RFC 5322 message.
func compose(from, to *mail.Address, email *mailer.Email, now time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(now)
	h.SetAddressList("From", []*mail.Address{from})
	h.SetAddressList("To", []*mail.Address{to})
	h.SetSubject(email.Subject)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("smtp: generate message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("smtp: create message: %w", err)
	}
	if _, err := io.WriteString(w, email.Body); err != nil {
		return nil, fmt.Errorf("smtp: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("smtp: close message: %w", err)
	}
	return buf.Bytes(), nil
}
