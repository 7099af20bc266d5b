package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/mailsender/pkg/cookie"
	"github.com/dmitrymomot/mailsender/pkg/oauth"
)

const (
	stateCookie   = "mailsender_oauth"
	sessionCookie = "mailsender_session"

	stateTTL = 10 * time.Minute
)

// Config configures sign-in.
type Config struct {
	// DevSender skips the identity provider and signs every request in as this address.
	DevSender  string        `env:"AUTH_DEV_SENDER"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"12h"`
}

// Paths used by the handler and by RequireSender.
const (
	LoginPath            = "/login"
	CallbackPath         = "/oauth/callback"
	LogoutPath           = "/logout"
	LogoutSuccessfulPath = "/logout-successful"
)

// Handler signs users in through an OAuth provider and keeps the verified
// email in an encrypted session cookie. It is also the Resolver for that cookie.
type Handler struct {
	provider oauth.Provider
	cookies  *cookie.Manager
	log      *slog.Logger
	now      func() time.Time
	ttl      time.Duration
}

// NewHandler creates a Handler.
func NewHandler(provider oauth.Provider, cookies *cookie.Manager, log *slog.Logger, ttl time.Duration) *Handler {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Handler{provider: provider, cookies: cookies, log: log, ttl: ttl, now: time.Now}
}

// Routes mounts the login, callback and logout endpoints.
// Logout is POST only and requires the CSRF token.
func (h *Handler) Routes(r chi.Router) {
	r.Get(LoginPath, h.login)
	r.Get(CallbackPath, h.callback)
	r.With(CSRF(h.cookies, h.log)).Post(LogoutPath, h.logout)
}

// Sender implements Resolver.
func (h *Handler) Sender(r *http.Request) (string, bool) {
	raw, err := h.cookies.GetEncrypted(r, sessionCookie)
	if err != nil {
		return "", false
	}

	exp, email, ok := strings.Cut(raw, "|")
	if !ok || email == "" {
		return "", false
	}
	unix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil || h.now().Unix() >= unix {
		return "", false
	}
	return email, true
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	state := rand.Text()
	verifier := oauth2.GenerateVerifier()

	if err := h.cookies.SetEncrypted(w, stateCookie, state+" "+verifier, int(stateTTL.Seconds())); err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	http.Redirect(w, r, h.provider.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)), http.StatusFound)
}

func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	raw, err := h.cookies.GetEncrypted(r, stateCookie)
	h.cookies.Delete(w, stateCookie)
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, errors.Join(ErrInvalidState, err))
		return
	}
	state, verifier, _ := strings.Cut(raw, " ")
	if subtle.ConstantTimeCompare([]byte(state), []byte(q.Get("state"))) != 1 {
		h.fail(w, r, http.StatusBadRequest, ErrInvalidState)
		return
	}

	if e := q.Get("error"); e != "" {
		h.fail(w, r, http.StatusUnauthorized, errors.Join(ErrProviderDenied, fmt.Errorf("%s: %s", e, q.Get("error_description"))))
		return
	}
	code := q.Get("code")
	if code == "" {
		h.fail(w, r, http.StatusBadRequest, ErrMissingCode)
		return
	}

	token, err := h.provider.Exchange(r.Context(), code, oauth2.VerifierOption(verifier))
	if err != nil {
		h.fail(w, r, http.StatusBadGateway, err)
		return
	}
	info, err := h.provider.FetchUserInfo(r.Context(), token)
	if errors.Is(err, oauth.ErrEmailNotVerified) {
		h.fail(w, r, http.StatusForbidden, err)
		return
	}
	if err != nil {
		h.fail(w, r, http.StatusBadGateway, err)
		return
	}

	value := strconv.FormatInt(h.now().Add(h.ttl).Unix(), 10) + "|" + info.Email
	if err := h.cookies.SetEncrypted(w, sessionCookie, value, int(h.ttl.Seconds())); err != nil {
		h.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	h.log.InfoContext(r.Context(), "user signed in",
		slog.String("provider", h.provider.Name()),
		slog.String("email", info.Email),
	)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Delete(w, sessionCookie)
	http.Redirect(w, r, LogoutSuccessfulPath, http.StatusFound)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	h.log.WarnContext(r.Context(), "sign-in failed",
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	http.Error(w, http.StatusText(status), status)
}

