package oauth

import (
	"context"

	"golang.org/x/oauth2"
)

// UserInfo is the identity returned by a provider after login.
type UserInfo struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// Provider runs the authorization code flow against an identity provider.
type Provider interface {
	Name() string

	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string

	// Exchange trades an authorization code for tokens. Options carry the
	// PKCE verifier.
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)

	// FetchUserInfo must return ErrEmailNotVerified for accounts whose email
	// the provider has not verified.
	FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error)
}
