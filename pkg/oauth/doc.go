// Package oauth signs users in with an OpenID Connect provider such as Keycloak.
//
// [OIDCProvider] runs the authorization code flow with golang.org/x/oauth2 and
// reads the standard userinfo claims. Only accounts with a verified email are
// accepted, since that email becomes the mail sender address.
package oauth
