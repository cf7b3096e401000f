package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdbravo/vencsync/internal/logger"
)

// countingDrainer is a stub Drainer that counts Drain invocations.
type countingDrainer struct {
	calls  atomic.Int64
	online atomic.Bool
}

func (c *countingDrainer) Drain(context.Context) error {
	c.calls.Add(1)
	return nil
}

func (c *countingDrainer) SetOnline(online bool) bool {
	was := c.online.Swap(online)
	return online && !was
}

func (c *countingDrainer) Online() bool { return c.online.Load() }

func waitForCalls(t *testing.T, d *countingDrainer, n int64) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for d.calls.Load() < n {
		select {
		case <-deadline:
			t.Fatalf("expected at least %d drain calls, got %d", n, d.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestDrainJob_DrainsPeriodically(t *testing.T) {
	d := &countingDrainer{}
	job := NewDrainJob(d, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	defer job.Stop()

	waitForCalls(t, d, 2)
}

func TestDrainJob_StopTerminatesGoroutine(t *testing.T) {
	d := &countingDrainer{}
	job := NewDrainJob(d, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	waitForCalls(t, d, 1)
	job.Stop()

	settled := d.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, d.calls.Load(), "no drains after Stop")
}

func TestDrainJob_StopWithoutStartIsNoop(t *testing.T) {
	job := NewDrainJob(&countingDrainer{}, logger.Nop())
	job.Stop()
	job.Stop()
}

func TestDrainJob_ContextCancellationStopsJob(t *testing.T) {
	d := &countingDrainer{}
	job := NewDrainJob(d, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx, 10*time.Millisecond)
	waitForCalls(t, d, 1)

	cancel()
	time.Sleep(30 * time.Millisecond)

	settled := d.calls.Load()
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, settled, d.calls.Load())

	job.Stop()
}

func TestDrainJob_RestartReplacesPreviousJob(t *testing.T) {
	d := &countingDrainer{}
	job := NewDrainJob(d, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)
	job.Start(context.Background(), 10*time.Millisecond)
	defer job.Stop()

	waitForCalls(t, d, 2)
}
