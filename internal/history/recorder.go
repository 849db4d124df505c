package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/numlookup/internal/domain"
)

// RecorderConfig holds recorder settings.
type RecorderConfig struct {
	// QueueSize is the number of pending writes buffered before Submit drops.
	QueueSize int

	// WriteTimeout bounds a single store write.
	WriteTimeout time.Duration

	// DrainTimeout bounds how long Start keeps writing queued entries after
	// its context is cancelled.
	DrainTimeout time.Duration
}

// Recorder writes history entries in the background so persistence never
// delays the validation response.
type Recorder struct {
	store  Store
	policy Policy
	config RecorderConfig
	queue  chan Entry
	logger *slog.Logger

	// OnWrite, when set, is called after every store write.
	OnWrite func(outcome string, err error)
}

// NewRecorder creates a recorder. Call Start to begin writing.
func NewRecorder(store Store, policy Policy, config RecorderConfig, logger *slog.Logger) *Recorder {
	if config.QueueSize == 0 {
		config.QueueSize = 64
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 5 * time.Second
	}
	if config.DrainTimeout == 0 {
		config.DrainTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Recorder{
		store:  store,
		policy: policy,
		config: config,
		queue:  make(chan Entry, config.QueueSize),
		logger: logger,
	}
}

// Submit queues result for persistence if the policy allows it.
// It never blocks; it returns false when the entry was filtered or dropped.
func (r *Recorder) Submit(phone string, result domain.LookupResult) bool {
	if !r.policy.Allows(result) {
		return false
	}

	e := Entry{Phone: phone, Result: result, CreatedAt: time.Now().UTC()}
	select {
	case r.queue <- e:
		return true
	default:
		r.logger.Warn("history queue full, dropping entry", "phone", phone, "outcome", e.Outcome())
		return false
	}
}

// Start writes queued entries until ctx is cancelled, then drains what is left.
func (r *Recorder) Start(ctx context.Context) error {
	r.logger.Info("history recorder starting",
		"queue_size", r.config.QueueSize,
		"persist_failures", r.policy.PersistFailures,
	)

	for {
		select {
		case <-ctx.Done():
			r.drain()
			r.logger.Info("history recorder stopped")
			return nil
		case e := <-r.queue:
			r.write(context.Background(), e)
		}
	}
}

func (r *Recorder) drain() {
	deadline := time.Now().Add(r.config.DrainTimeout)
	for time.Now().Before(deadline) {
		select {
		case e := <-r.queue:
			r.write(context.Background(), e)
		default:
			return
		}
	}
}

func (r *Recorder) write(parent context.Context, e Entry) {
	ctx, cancel := context.WithTimeout(parent, r.config.WriteTimeout)
	defer cancel()

	err := r.store.Record(ctx, e)
	if err != nil {
		r.logger.Error("failed to record lookup", "error", err, "phone", e.Phone)
	}
	if r.OnWrite != nil {
		r.OnWrite(e.Outcome(), err)
	}
}
