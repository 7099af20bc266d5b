package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mailsender/pkg/cookie"
)

// CSRF token names. The token travels in the CSRFField form value or the
// CSRFHeader header and must match the signed CSRFCookie.
const (
	CSRFCookie = "mailsender_csrf"
	CSRFField  = "csrf_token"
	CSRFHeader = "X-CSRF-Token"
)

type csrfKey struct{}

// CSRF issues a per-browser token in a signed session cookie and rejects
// unsafe requests that do not echo it back with 403.
func CSRF(cookies *cookie.Manager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := cookies.GetSigned(r, CSRFCookie)
			issued := err != nil || token == ""
			if issued {
				token = rand.Text()
				cookies.SetSigned(w, CSRFCookie, token, 0)
			}

			if !safeMethod(r.Method) {
				got := r.Header.Get(CSRFHeader)
				if got == "" {
					if err := r.ParseForm(); err != nil {
						http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
						return
					}
					got = r.PostForm.Get(CSRFField)
				}
				if issued || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
					log.WarnContext(r.Context(), "csrf token mismatch",
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)
					http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfKey{}, token)))
		})
	}
}

// CSRFToken returns the token CSRF stored in ctx, or "".
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfKey{}).(string)
	return token
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
