// Package lookup calls the external phone validation API.
//
// Every failure mode (missing credential, transport error, non-2xx status,
// malformed body) is collapsed into domain.LookupFailure so callers only ever
// handle the two result variants.
package lookup

import (
	"context"
	"net/http"

	"github.com/dukerupert/numlookup/internal/domain"
)

// Validator validates a single phone number.
// Implementations issue at most one outbound request per call and never retry.
type Validator interface {
	Validate(ctx context.Context, phone string) domain.LookupResult
}

// Config holds the lookup API settings.
type Config struct {
	// APIKey is sent as the apikey query parameter. Empty is allowed and
	// produces a ConfigError failure on every call instead of a startup crash.
	APIKey string

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// Transport overrides the HTTP transport, e.g. to add tracing.
	Transport http.RoundTripper
}

// DefaultBaseURL is the public numlookupapi endpoint.
const DefaultBaseURL = "https://api.numlookupapi.com"
