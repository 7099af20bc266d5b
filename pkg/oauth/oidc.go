package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// OIDCProviderName identifies the OpenID Connect provider.
const OIDCProviderName = "oidc"

// OIDCConfig configures a generic OpenID Connect provider.
// With only IssuerURL set, endpoints follow the Keycloak realm layout
// ({issuer}/protocol/openid-connect/...). Explicit URLs take precedence.
type OIDCConfig struct {
	IssuerURL    string   `env:"OIDC_ISSUER_URL"` // e.g. http://localhost:8180/realms/mailsender
	ClientID     string   `env:"OIDC_CLIENT_ID"`
	ClientSecret string   `env:"OIDC_CLIENT_SECRET"`
	RedirectURL  string   `env:"OIDC_REDIRECT_URL" envDefault:"http://localhost:8080/oauth/callback"`
	AuthURL      string   `env:"OIDC_AUTH_URL"`
	TokenURL     string   `env:"OIDC_TOKEN_URL"`
	UserInfoURL  string   `env:"OIDC_USERINFO_URL"`
	Scopes       []string `env:"OIDC_SCOPES" envSeparator:","`
}

// OIDCDefaultScopes are requested when the config names none.
func OIDCDefaultScopes() []string {
	return []string{"openid", "email", "profile"}
}

// OIDCProvider implements Provider against any OpenID Connect server.
type OIDCProvider struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewOIDCProvider validates cfg and resolves the endpoints.
func NewOIDCProvider(cfg OIDCConfig, opts ...Option) (*OIDCProvider, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}

	issuer := strings.TrimRight(cfg.IssuerURL, "/")
	endpoint := func(explicit, suffix string) string {
		if explicit != "" {
			return explicit
		}
		if issuer == "" {
			return ""
		}
		return issuer + "/protocol/openid-connect/" + suffix
	}

	authURL := endpoint(cfg.AuthURL, "auth")
	tokenURL := endpoint(cfg.TokenURL, "token")
	userInfoURL := endpoint(cfg.UserInfoURL, "userinfo")
	if authURL == "" || tokenURL == "" || userInfoURL == "" {
		return nil, ErrMissingEndpoint
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = OIDCDefaultScopes()
	}

	return &OIDCProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		userInfoURL: userInfoURL,
		httpClient:  o.httpClient,
	}, nil
}

// Name implements Provider.
func (p *OIDCProvider) Name() string {
	return OIDCProviderName
}

// AuthCodeURL implements Provider.
func (p *OIDCProvider) AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string {
	return p.config.AuthCodeURL(state, opts...)
}

// Exchange implements Provider. The configured redirect URL is used.
func (p *OIDCProvider) Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	tok, err := p.config.Exchange(p.withHTTPClient(ctx), code, opts...)
	if err != nil {
		return nil, errors.Join(ErrExchangeFailed, err)
	}
	return tok, nil
}

// FetchUserInfo implements Provider. Accounts without a verified email are rejected.
func (p *OIDCProvider) FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	ctx = p.withHTTPClient(ctx)
	client := p.config.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errors.Join(ErrRequestFailed, fmt.Errorf("userinfo: status=%d body=%s", resp.StatusCode, body))
	}

	var claims oidcClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, errors.Join(ErrDecodeFailed, err)
	}
	if claims.Email == "" || !claims.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	name := claims.Name
	if name == "" {
		name = claims.PreferredUsername
	}
	return &UserInfo{
		ID:      claims.Subject,
		Email:   claims.Email,
		Name:    name,
		Picture: claims.Picture,
	}, nil
}

func (p *OIDCProvider) withHTTPClient(ctx context.Context) context.Context {
	if p.httpClient != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	}
	return ctx
}

// oidcClaims is the subset of standard userinfo claims we read.
type oidcClaims struct {
	Subject           string `json:"sub"`
	Email             string `json:"email"`
	EmailVerified     bool   `json:"email_verified"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	Picture           string `json:"picture"`
}
