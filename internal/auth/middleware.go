package auth

import (
	"net/http"
	"strings"
)

// Resolver maps a request to the mail sender address of the signed-in user.
type Resolver interface {
	Sender(r *http.Request) (string, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(r *http.Request) (string, bool)

// Sender implements Resolver.
func (f ResolverFunc) Sender(r *http.Request) (string, bool) { return f(r) }

// StaticSender resolves every request to the same address. Local development only.
func StaticSender(address string) Resolver {
	address = strings.TrimSpace(address)
	return ResolverFunc(func(*http.Request) (string, bool) {
		return address, address != ""
	})
}

// RequireSender puts the resolved sender into the request context.
// Unauthenticated requests are redirected to loginPath.
func RequireSender(resolver Resolver, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sender, ok := resolver.Sender(r)
			if !ok {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSender(r.Context(), sender)))
		})
	}
}
