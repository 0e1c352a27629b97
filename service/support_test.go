package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionQueueRunsInOrder(t *testing.T) {
	q := NewActionQueue(4)
	q.Start(context.Background())
	defer q.Stop()

	var order []string
	first := q.Queue("first", func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	second := q.Queue("second", func(ctx context.Context) error {
		order = append(order, "second")
		return errors.New("reverted")
	})

	r1 := <-first
	r2 := <-second
	assert.True(t, r1.Success)
	assert.Equal(t, "first", r1.Name)
	assert.NotEmpty(t, r1.ID)
	assert.False(t, r2.Success)
	assert.Equal(t, "reverted", r2.ErrorMessage)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestActionQueueFull(t *testing.T) {
	// not started, so nothing drains the queue
	q := NewActionQueue(1)
	noop := func(ctx context.Context) error { return nil }

	require.NoError(t, q.QueueNoWait("a", noop))
	assert.ErrorIs(t, q.QueueNoWait("b", noop), ErrQueueFull)

	r := <-q.Queue("c", noop)
	assert.False(t, r.Success)
	assert.Equal(t, ErrQueueFull.Error(), r.ErrorMessage)
}

type countingRefresher struct {
	calls       atomic.Int32
	hadDeadline atomic.Bool
}

func (c *countingRefresher) Refresh(ctx context.Context) error {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); ok {
		c.hadDeadline.Store(true)
	}
	return nil
}

func TestPollerRefreshesOnInterval(t *testing.T) {
	target := &countingRefresher{}
	p := NewPoller(target, 10*time.Millisecond)
	p.Start(context.Background())

	require.Eventually(t, func() bool { return target.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	p.Stop()

	stopped := target.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, target.calls.Load())
	assert.False(t, target.hadDeadline.Load(), "reads must not be cut short by the poll interval")
}

func TestVotingWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	w := NewVotingWindow()
	w.now = func() time.Time { return now }

	assert.False(t, w.IsOpen())
	assert.Zero(t, w.Remaining())

	w.Update(now.Add(90 * time.Minute))
	assert.True(t, w.IsOpen())
	assert.Equal(t, 90*time.Minute, w.Remaining())

	w.Update(now.Add(-time.Second))
	assert.False(t, w.IsOpen())
	assert.Zero(t, w.Remaining())
}

func TestMetricsReset(t *testing.T) {
	mc := NewMetricsCollector()
	mc.RecordStart("vote")
	mc.RecordEnd("vote", 20*time.Millisecond, nil)
	mc.RecordEnd("unknown", time.Second, nil)

	got := mc.GetMetrics()
	require.Len(t, got, 1)
	assert.Equal(t, int64(20), got[0].ProcessingTime)

	mc.Reset()
	assert.Empty(t, mc.GetMetrics())
}
