package auth

import "errors"

var (
	ErrInvalidState   = errors.New("auth: invalid oauth state")
	ErrProviderDenied = errors.New("auth: identity provider returned an error")
	ErrMissingCode    = errors.New("auth: missing authorization code")
)
