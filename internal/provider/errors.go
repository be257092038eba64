package provider

import "errors"

var (
	// ErrMalformedResponse is returned when the provider answers 2xx with a body
	// that is not the expected JSON document
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrMissingAccessToken is returned when a token response carries no access_token
	ErrMissingAccessToken = errors.New("token response has no access_token")

	// ErrUpstreamStatus is returned when the profile endpoint answers non-2xx.
	// Token endpoint failures are reported as *oauth2.RetrieveError instead.
	ErrUpstreamStatus = errors.New("provider returned an error status")
)
