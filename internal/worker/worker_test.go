package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 1
}

func TestWorker_RunOnce(t *testing.T) {
	sweeper := &countingSweeper{}
	var failed atomic.Int32
	failing := TaskFunc{TaskName: "failing", Fn: func(ctx context.Context) error {
		failed.Add(1)
		return errors.New("boom")
	}}

	w := NewWorker(Config{}, discardLogger(), SessionSweepTask(sweeper, discardLogger()), failing)
	w.RunOnce(context.Background())

	assert.Equal(t, int32(1), sweeper.calls.Load())
	assert.Equal(t, int32(1), failed.Load())
}

func TestWorker_StartRunsOnTickAndStops(t *testing.T) {
	sweeper := &countingSweeper{}
	w := NewWorker(Config{PollInterval: 5 * time.Millisecond}, discardLogger(), SessionSweepTask(sweeper, discardLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, func() bool { return sweeper.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestNewWorker_Defaults(t *testing.T) {
	w := NewWorker(Config{}, nil)
	assert.Equal(t, time.Minute, w.config.PollInterval)
	assert.Equal(t, 2, w.config.MaxConcurrency)
	assert.Contains(t, w.config.WorkerID, "worker-")
}
