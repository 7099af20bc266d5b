// Package config loads the application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/mailsender/internal/auth"
	"github.com/dmitrymomot/mailsender/pkg/cookie"
	"github.com/dmitrymomot/mailsender/pkg/db"
	"github.com/dmitrymomot/mailsender/pkg/logger"
	"github.com/dmitrymomot/mailsender/pkg/mailer/resend"
	"github.com/dmitrymomot/mailsender/pkg/mailer/ses"
	"github.com/dmitrymomot/mailsender/pkg/mailer/smtp"
	"github.com/dmitrymomot/mailsender/pkg/oauth"
)

// Transports accepted by MAIL_TRANSPORT.
const (
	TransportSMTP    = "smtp"
	TransportResend  = "resend"
	TransportSES     = "ses"
	TransportConsole = "console"
)

var (
	ErrParse             = errors.New("config: failed to parse environment")
	ErrUnknownTransport  = errors.New("config: unknown mail transport")
	ErrAuthNotConfigured = errors.New("config: OIDC_CLIENT_ID and COOKIE_SECRET are required unless AUTH_DEV_SENDER is set")
)

// HTTP holds the server settings.
type HTTP struct {
	Addr              string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	RequestTimeout    time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Config is the complete application configuration.
type Config struct {
	HTTP   HTTP
	Log    logger.Config
	DB     db.Config
	Auth   auth.Config
	OIDC   oauth.OIDCConfig
	Cookie cookie.Config

	Transport string `env:"MAIL_TRANSPORT" envDefault:"smtp"`
	SMTP      smtp.Config
	Resend    resend.Config
	SES       ses.Config
}

// Load reads an optional .env file, parses the environment and validates the result.
// Variables already set in the environment win over .env entries.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Join(ErrParse, fmt.Errorf("load %s: %w", f, err))
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Join(ErrParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c Config) Validate() error {
	if !slices.Contains([]string{TransportSMTP, TransportResend, TransportSES, TransportConsole}, c.Transport) {
		return errors.Join(ErrUnknownTransport, fmt.Errorf("%q", c.Transport))
	}
	if c.Auth.DevSender == "" && (c.OIDC.ClientID == "" || c.Cookie.Secret == "") {
		return ErrAuthNotConfigured
	}
	return nil
}
