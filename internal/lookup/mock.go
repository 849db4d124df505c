package lookup

import (
	"context"
	"sync"

	"github.com/dukerupert/numlookup/internal/domain"
)

// MockValidator is a test implementation of Validator.
type MockValidator struct {
	ValidateFunc func(ctx context.Context, phone string) domain.LookupResult

	mu    sync.Mutex
	calls []string
}

// Validate delegates to ValidateFunc or returns a generic failure.
func (m *MockValidator) Validate(ctx context.Context, phone string) domain.LookupResult {
	m.mu.Lock()
	m.calls = append(m.calls, phone)
	m.mu.Unlock()

	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, phone)
	}
	return domain.LookupFailure{Code: domain.ENETWORK, Message: "mock validator not configured"}
}

// Calls returns the phone numbers passed to Validate, in order.
func (m *MockValidator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
