package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", Outcome(LookupSuccess{Phone: "+34600000000"}))
	assert.Equal(t, "failure", Outcome(LookupFailure{Message: "boom"}))
}

func TestFailureFromError(t *testing.T) {
	f := FailureFromError(Errorf(ERESPONSE, "lookup.validate", "unexpected status %d", 500))
	assert.Equal(t, ERESPONSE, f.Code)
	assert.Equal(t, "unexpected status 500", f.Message)
}

func TestLookupResultEnvelope(t *testing.T) {
	t.Run("success keeps every field", func(t *testing.T) {
		in := LookupSuccess{
			Phone:               "+34600000000",
			CountryName:         "Spain",
			CountryPrefix:       "+34",
			CountryCode:         "ES",
			InternationalFormat: "+34 600 000 000",
			LineType:            "mobile",
			Valid:               true,
		}

		data, err := MarshalLookupResult(in)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"status":"success"`)

		out, err := UnmarshalLookupResult(data)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("failure", func(t *testing.T) {
		data, err := MarshalLookupResult(LookupFailure{Code: ENETWORK, Message: "network error"})
		require.NoError(t, err)

		out, err := UnmarshalLookupResult(data)
		require.NoError(t, err)
		assert.Equal(t, LookupFailure{Code: ENETWORK, Message: "network error"}, out)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := UnmarshalLookupResult([]byte(`{"status":"pending"}`))
		assert.Error(t, err)
	})
}
