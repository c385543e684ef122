package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sepri/internal/domain"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh(ctx context.Context) (*domain.RefreshStats, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &domain.RefreshStats{Remote: len(domain.Kinds)}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

func TestScheduler_RefreshesImmediatelyAndOnTick(t *testing.T) {
	r := &countingRefresher{}
	s := NewScheduler(r, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestScheduler_KeepsRunningAfterFailure(t *testing.T) {
	r := &countingRefresher{err: errors.New("boom")}
	s := NewScheduler(r, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := s.Start(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, r.calls.Load(), int32(2))
}
