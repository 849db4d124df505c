// Package events publishes lookup notifications for other services.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectLookupCompleted is published after every validation attempt.
const SubjectLookupCompleted = "numlookup.lookup.completed"

// LookupCompleted is the payload of SubjectLookupCompleted.
type LookupCompleted struct {
	SessionID   string    `json:"session_id,omitempty"`
	PageID      string    `json:"page_id,omitempty"`
	Phone       string    `json:"phone"`
	Outcome     string    `json:"outcome"`
	CountryCode string    `json:"country_code,omitempty"`
	Valid       bool      `json:"valid"`
	ErrorCode   string    `json:"error_code,omitempty"`
	MapUpdate   string    `json:"map_update"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher publishes lookup events.
type Publisher interface {
	PublishLookupCompleted(ctx context.Context, e LookupCompleted) error
	Close()
}

// NoopPublisher drops every event. Used when NATS_URL is empty.
type NoopPublisher struct{}

func (NoopPublisher) PublishLookupCompleted(context.Context, LookupCompleted) error { return nil }
func (NoopPublisher) Close()                                                       {}

// NATSPublisher publishes events on a NATS connection.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// Compile-time check to ensure NATSPublisher implements Publisher.
var _ Publisher = (*NATSPublisher)(nil)

// NewNATSPublisher connects to url.
func NewNATSPublisher(url string, logger *slog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("numlookup"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return &NATSPublisher{conn: conn, logger: logger}, nil
}

// PublishLookupCompleted encodes e as JSON and publishes it.
func (p *NATSPublisher) PublishLookupCompleted(ctx context.Context, e LookupCompleted) error {
	data, err := Encode(e)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(SubjectLookupCompleted, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", SubjectLookupCompleted, err)
	}
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("nats drain failed", "error", err)
	}
}

// Encode serializes e.
func Encode(e LookupCompleted) ([]byte, error) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode event: %w", err)
	}
	return data, nil
}
