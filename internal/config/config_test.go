package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailsender/internal/config"
)

// These tests use t.Setenv and cannot run in parallel.

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_CONN_URL", "postgres://u:p@localhost:5432/mail")
	t.Setenv("AUTH_DEV_SENDER", "dev@example.com")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, 30*time.Second, cfg.HTTP.RequestTimeout)
	require.Equal(t, config.TransportSMTP, cfg.Transport)
	require.Equal(t, "localhost", cfg.SMTP.Host)
	require.Equal(t, 1025, cfg.SMTP.Port)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, "dev@example.com", cfg.Auth.DevSender)
	require.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	require.Equal(t, "postgres://u:p@localhost:5432/mail", cfg.DB.ConnectionString)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	t.Setenv("DATABASE_CONN_URL", "postgres://from-env")
	t.Setenv("AUTH_DEV_SENDER", "dev@example.com")

	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("DATABASE_CONN_URL=postgres://from-file\nMAIL_TRANSPORT=console\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("MAIL_TRANSPORT") })

	cfg, err := config.Load(dotenv)
	require.NoError(t, err)
	require.Equal(t, "postgres://from-env", cfg.DB.ConnectionString)
	require.Equal(t, config.TransportConsole, cfg.Transport)
}

func TestLoad_MissingDatabase(t *testing.T) {
	t.Setenv("DATABASE_CONN_URL", "")
	t.Setenv("AUTH_DEV_SENDER", "dev@example.com")
	require.NoError(t, os.Unsetenv("DATABASE_CONN_URL"))

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.ErrorIs(t, err, config.ErrParse)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	ok := config.Config{Transport: config.TransportSES}
	ok.Auth.DevSender = "dev@example.com"
	require.NoError(t, ok.Validate())

	bad := ok
	bad.Transport = "pigeon"
	require.ErrorIs(t, bad.Validate(), config.ErrUnknownTransport)

	noAuth := config.Config{Transport: config.TransportSMTP}
	require.ErrorIs(t, noAuth.Validate(), config.ErrAuthNotConfigured)

	noAuth.OIDC.ClientID = "mailsender"
	noAuth.Cookie.Secret = "0123456789abcdef0123456789abcdef"
	require.NoError(t, noAuth.Validate())
}
