package lookup

import (
	"fmt"

	"github.com/dukerupert/numlookup/internal/domain"
)

const opValidate = "lookup.validate"

// ErrCredentialNotConfigured is the ConfigError returned when no API key is set.
var ErrCredentialNotConfigured = &domain.Error{
	Code:    domain.ECONFIG,
	Op:      opValidate,
	Message: "credential not configured",
}

// networkError is a NetworkError: the request never produced a response.
func networkError(err error) error {
	return domain.WrapError(err, domain.ENETWORK, opValidate, "Could not reach the lookup service")
}

// responseError is a ResponseError: non-2xx status or an unparsable body.
func responseError(status int, err error) error {
	if err == nil {
		err = fmt.Errorf("unexpected status %d", status)
	}
	return domain.WrapError(err, domain.ERESPONSE, opValidate, "Error in the API response")
}
