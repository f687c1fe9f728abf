package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPoolSubmitRunsJob(t *testing.T) {
	p := New(Config{Workers: 2, QueueSize: 4})
	defer p.Close()

	var ran atomic.Bool
	err := p.Submit(context.Background(), JobFunc(func(ctx context.Context) error {
		ran.Store(true)
		return nil
	}))
	require.NoError(t, err)
	require.True(t, ran.Load())
}

func TestPoolSubmitPropagatesError(t *testing.T) {
	p := New(Config{Workers: 1, QueueSize: 1})
	defer p.Close()

	wantErr := errors.New("boom")
	err := p.Submit(context.Background(), JobFunc(func(ctx context.Context) error {
		return wantErr
	}))
	require.ErrorIs(t, err, wantErr)
}

func TestPoolSubmitRespectsContextCancellation(t *testing.T) {
	p := New(Config{Workers: 1, QueueSize: 1})
	defer p.Close()

	block := make(chan struct{})
	defer close(block)
	require.NoError(t, p.SubmitAsync(JobFunc(func(ctx context.Context) error {
		<-block
		return nil
	})))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := p.Submit(ctx, JobFunc(func(ctx context.Context) error { return nil }))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPoolSubmitAsyncRejectsWhenQueueFull(t *testing.T) {
	p := New(Config{Workers: 1, QueueSize: 1})
	defer p.Close()

	block := make(chan struct{})
	defer close(block)
	require.NoError(t, p.SubmitAsync(JobFunc(func(ctx context.Context) error { <-block; return nil })))
	// give the single worker a chance to dequeue the first job so the
	// buffered queue slot is actually free for the next submission.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, p.SubmitAsync(JobFunc(func(ctx context.Context) error { <-block; return nil })))

	err := p.SubmitAsync(JobFunc(func(ctx context.Context) error { return nil }))
	require.ErrorIs(t, err, ErrQueueFull)
}

func TestPoolCloseRejectsFurtherSubmits(t *testing.T) {
	p := New(Config{Workers: 1, QueueSize: 1})
	require.NoError(t, p.Close())

	err := p.Submit(context.Background(), JobFunc(func(ctx context.Context) error { return nil }))
	require.ErrorIs(t, err, ErrPoolClosed)
}
