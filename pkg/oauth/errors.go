package oauth

import "errors"

var (
	ErrMissingClientID = errors.New("oauth: missing client ID")
	ErrMissingEndpoint = errors.New("oauth: issuer URL or explicit endpoints required")

	// ErrEmailNotVerified rejects accounts whose email the provider has not verified.
	ErrEmailNotVerified = errors.New("oauth: email not verified")

	ErrExchangeFailed = errors.New("oauth: code exchange failed")
	ErrFetchFailed    = errors.New("oauth: failed to fetch from provider")
	ErrRequestFailed  = errors.New("oauth: request returned non-OK status")
	ErrDecodeFailed   = errors.New("oauth: failed to decode response")
)
