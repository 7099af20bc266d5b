package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/mailsender/internal/auth"
	"github.com/dmitrymomot/mailsender/internal/config"
	"github.com/dmitrymomot/mailsender/internal/mailservice"
	"github.com/dmitrymomot/mailsender/internal/sentmail"
	"github.com/dmitrymomot/mailsender/internal/server"
	"github.com/dmitrymomot/mailsender/internal/web"
	"github.com/dmitrymomot/mailsender/middlewares"
	"github.com/dmitrymomot/mailsender/pkg/cookie"
	"github.com/dmitrymomot/mailsender/pkg/db"
	"github.com/dmitrymomot/mailsender/pkg/health"
	"github.com/dmitrymomot/mailsender/pkg/logger"
	"github.com/dmitrymomot/mailsender/pkg/mailer"
	"github.com/dmitrymomot/mailsender/pkg/mailer/console"
	"github.com/dmitrymomot/mailsender/pkg/mailer/resend"
	"github.com/dmitrymomot/mailsender/pkg/mailer/ses"
	"github.com/dmitrymomot/mailsender/pkg/mailer/smtp"
	"github.com/dmitrymomot/mailsender/pkg/oauth"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log, middlewares.RequestIDExtractor(), auth.SenderExtractor())
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	if err := db.Migrate(ctx, pool, sentmail.Migrations(), cfg.DB.MigrationsTable, log); err != nil {
		pool.Close()
		return err
	}

	checks := health.Checks{"postgres": db.Healthcheck(pool)}

	transport, err := newTransport(ctx, cfg, log, checks)
	if err != nil {
		pool.Close()
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	sender := mailer.Instrument(transport, cfg.Transport, mailer.NewMetrics(reg))

	deps := web.Deps{
		Log:            log,
		Mail:           mailservice.New(sender, sentmail.NewPostgresStore(pool)),
		Checks:         checks,
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		RequestTimeout: cfg.HTTP.RequestTimeout,
	}

	if cfg.Cookie.Secret == "" && cfg.Auth.DevSender != "" {
		log.Warn("COOKIE_SECRET not set, using a random secret for this process")
		cfg.Cookie.Secret = rand.Text() + rand.Text()
	}
	cookies, err := cookie.New(cfg.Cookie)
	if err != nil {
		pool.Close()
		return err
	}
	deps.Cookies = cookies

	if cfg.Auth.DevSender != "" {
		log.Warn("identity provider disabled, every request signs in as the dev sender",
			slog.String("sender", cfg.Auth.DevSender))
		deps.Resolver = auth.StaticSender(cfg.Auth.DevSender)
	} else {
		provider, err := oauth.NewOIDCProvider(cfg.OIDC)
		if err != nil {
			pool.Close()
			return err
		}
		h := auth.NewHandler(provider, cookies, log, cfg.Auth.SessionTTL)
		deps.Auth, deps.Resolver = h, h
	}

	srv := server.New(web.NewRouter(deps), log,
		server.WithAddr(cfg.HTTP.Addr),
		server.WithReadHeaderTimeout(cfg.HTTP.ReadHeaderTimeout),
		server.WithShutdownTimeout(cfg.HTTP.ShutdownTimeout),
		server.WithShutdownHook(db.Shutdown(pool)),
	)
	return srv.Run(ctx)
}

// newTransport builds the configured mail transport and registers its health check, if any.
func newTransport(ctx context.Context, cfg config.Config, log *slog.Logger, checks health.Checks) (mailer.Sender, error) {
	switch cfg.Transport {
	case config.TransportSMTP:
		s, err := smtp.New(cfg.SMTP)
		if err != nil {
			return nil, err
		}
		checks["smtp"] = s.Healthcheck()
		return s, nil
	case config.TransportResend:
		return resend.New(cfg.Resend)
	case config.TransportSES:
		return ses.New(ctx, cfg.SES)
	case config.TransportConsole:
		return console.New(log), nil
	default:
		return nil, errors.Join(config.ErrUnknownTransport, fmt.Errorf("%q", cfg.Transport))
	}
}
