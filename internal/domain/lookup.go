package domain

import (
	"encoding/json"
	"fmt"
)

// LookupResult is the outcome of a single phone validation.
// It is either a LookupSuccess or a LookupFailure; no other types implement it.
type LookupResult interface {
	isLookupResult()
}

// LookupSuccess carries the fields returned by the lookup API.
// Empty strings mean the API did not return the field.
type LookupSuccess struct {
	Phone               string `json:"phone"`
	CountryName         string `json:"country_name"`
	CountryPrefix       string `json:"country_prefix"`
	CountryCode         string `json:"country_code"`
	InternationalFormat string `json:"international_format"`
	LocalFormat         string `json:"local_format,omitempty"`
	LineType            string `json:"line_type,omitempty"`
	Valid               bool   `json:"valid"`
}

// LookupFailure is any lookup that did not produce a usable response.
type LookupFailure struct {
	// Message is safe to show to users. May be empty.
	Message string `json:"message"`

	// Code is the domain error code (ECONFIG, ENETWORK, ERESPONSE, ...).
	Code string `json:"code,omitempty"`
}

func (LookupSuccess) isLookupResult() {}
func (LookupFailure) isLookupResult() {}

// FailureFromError converts err into a LookupFailure using its domain code and
// user-facing message.
func FailureFromError(err error) LookupFailure {
	return LookupFailure{
		Code:    ErrorCode(err),
		Message: ErrorMessage(err),
	}
}

// Outcome labels a result for metrics and history ("success" or "failure").
func Outcome(r LookupResult) string {
	if _, ok := r.(LookupSuccess); ok {
		return "success"
	}
	return "failure"
}

type resultEnvelope struct {
	Status  string         `json:"status"`
	Success *LookupSuccess `json:"success,omitempty"`
	Failure *LookupFailure `json:"failure,omitempty"`
}

// MarshalLookupResult encodes r with an explicit status tag.
func MarshalLookupResult(r LookupResult) ([]byte, error) {
	env := resultEnvelope{Status: Outcome(r)}
	switch v := r.(type) {
	case LookupSuccess:
		env.Success = &v
	case LookupFailure:
		env.Failure = &v
	default:
		return nil, fmt.Errorf("unsupported lookup result %T", r)
	}
	return json.Marshal(env)
}

// UnmarshalLookupResult decodes a payload produced by MarshalLookupResult.
func UnmarshalLookupResult(data []byte) (LookupResult, error) {
	var env resultEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch {
	case env.Status == "success" && env.Success != nil:
		return *env.Success, nil
	case env.Status == "failure" && env.Failure != nil:
		return *env.Failure, nil
	default:
		return nil, fmt.Errorf("invalid lookup result status %q", env.Status)
	}
}
