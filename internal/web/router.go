// Package web serves the mail form, the sent-mail history and the operational endpoints.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/mailsender/internal/auth"
	"github.com/dmitrymomot/mailsender/internal/views"
	"github.com/dmitrymomot/mailsender/middlewares"
	"github.com/dmitrymomot/mailsender/pkg/cookie"
	"github.com/dmitrymomot/mailsender/pkg/health"
)

// maxFormBytes bounds the POST body.
const maxFormBytes = 1 << 20

// Deps are the collaborators of the router.
type Deps struct {
	Log  *slog.Logger
	Mail MailService

	// Resolver identifies the sender. Auth, when set, also serves the sign-in routes.
	Resolver auth.Resolver
	Auth     *auth.Handler

	// Cookies signs the CSRF cookie. Required.
	Cookies *cookie.Manager

	Checks  health.Checks
	Metrics http.Handler // nil disables /metrics

	RequestTimeout time.Duration
}

// NewRouter wires every route.
func NewRouter(d Deps) http.Handler {
	h := &handler{mail: d.Mail, log: d.Log}
	csrf := auth.CSRF(d.Cookies, d.Log)

	r := chi.NewRouter()
	r.Use(
		middlewares.RequestID(),
		middlewares.AccessLog(d.Log),
		middlewares.Recover(d.Log, middlewares.WithPanicHandler(func(w http.ResponseWriter, r *http.Request, _ *middlewares.PanicError) {
			h.render(w, r, http.StatusInternalServerError, views.ErrorPage("Unexpected error."))
		})),
	)

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(d.Checks, health.WithLogger(d.Log)))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	if d.Auth != nil {
		d.Auth.Routes(r)
	} else {
		// Without an identity provider there is nothing to sign in to or out of.
		r.Get(auth.LoginPath, redirectHome)
		r.With(csrf).Post(auth.LogoutPath, redirectLogoutSuccessful)
	}
	r.Get(auth.LogoutSuccessfulPath, h.logoutSuccessful)

	r.Group(func(r chi.Router) {
		r.Use(
			auth.RequireSender(d.Resolver, auth.LoginPath),
			chimw.RequestSize(maxFormBytes),
			csrf,
			middlewares.Timeout(d.RequestTimeout),
		)
		r.Get("/", h.index)
		r.Post("/", h.send)
	})

	return r
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

func redirectLogoutSuccessful(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, auth.LogoutSuccessfulPath, http.StatusFound)
}
