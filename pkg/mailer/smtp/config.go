package smtp

import "time"

// TLS modes.
const (
	TLSNone     = "none"
	TLSStartTLS = "starttls"
	TLSImplicit = "tls"
)

// Config holds SMTP submission settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Host     string `env:"SMTP_HOST" envDefault:"localhost"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`

	// TLSMode is one of "none", "starttls" or "tls".
	TLSMode            string `env:"SMTP_TLS" envDefault:"none"`
	InsecureSkipVerify bool   `env:"SMTP_TLS_INSECURE_SKIP_VERIFY" envDefault:"false"`

	// Timeout bounds a whole submission: dial, handshake, and data transfer.
	Timeout time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`
	Port    int           `env:"SMTP_PORT" envDefault:"1025"`
}
