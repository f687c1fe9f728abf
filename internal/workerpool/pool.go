// Package workerpool implements a bounded worker pool so a lookup session's
// continuations never spawn unbounded goroutines under load.
package workerpool

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

var (
	// ErrPoolClosed indicates the pool has been shut down.
	ErrPoolClosed = errors.New("workerpool: pool closed")
	// ErrQueueFull indicates the job queue is full.
	ErrQueueFull = errors.New("workerpool: queue is full")
)

// Job represents a unit of work to be executed.
type Job interface {
	Execute(ctx context.Context) error
}

// JobFunc adapts a plain function to the Job interface.
type JobFunc func(ctx context.Context) error

func (f JobFunc) Execute(ctx context.Context) error { return f(ctx) }

// Config configures a Pool.
type Config struct {
	// Workers is the number of worker goroutines. Zero selects
	// runtime.NumCPU() * 4.
	Workers int
	// QueueSize bounds how many jobs may wait to be picked up. Zero
	// selects Workers * 100.
	QueueSize int
	// PanicHandler, if set, is invoked with the recovered value when a
	// job panics. With or without it, the panic is converted to an error
	// result.
	PanicHandler func(interface{})
}

// Pool is a bounded worker pool.
type Pool struct {
	workers int
	queue   chan *jobWrapper
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	closed  atomic.Bool

	panicHandler func(interface{})

	jobsSubmitted atomic.Uint64
	jobsCompleted atomic.Uint64
	jobsRejected  atomic.Uint64
	jobsFailed    atomic.Uint64
}

type jobWrapper struct {
	job      Job
	ctx      context.Context
	resultCh chan error
}

// New starts a pool per cfg.
func New(cfg Config) *Pool {
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU() * 4
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = cfg.Workers * 100
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		workers:      cfg.Workers,
		queue:        make(chan *jobWrapper, cfg.QueueSize),
		ctx:          ctx,
		cancel:       cancel,
		panicHandler: cfg.PanicHandler,
	}

	p.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case wrapper, ok := <-p.queue:
			if !ok {
				return
			}
			p.executeJob(wrapper)
		}
	}
}

func (p *Pool) executeJob(wrapper *jobWrapper) {
	defer func() {
		if r := recover(); r != nil {
			if p.panicHandler != nil {
				p.panicHandler(r)
			}
			select {
			case wrapper.resultCh <- errors.New("workerpool: job panicked"):
			default:
			}
			p.jobsFailed.Add(1)
		}
	}()

	err := wrapper.job.Execute(wrapper.ctx)
	select {
	case wrapper.resultCh <- err:
	default:
	}
	if err != nil {
		p.jobsFailed.Add(1)
	} else {
		p.jobsCompleted.Add(1)
	}
}

// Submit queues job and blocks until it has run and returned, or ctx is
// canceled first.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}
	p.jobsSubmitted.Add(1)
	wrapper := &jobWrapper{job: job, ctx: ctx, resultCh: make(chan error, 1)}

	select {
	case p.queue <- wrapper:
		select {
		case err := <-wrapper.resultCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolClosed
	}
}

// SubmitAsync queues job without waiting for it to run. Callers that need
// the result should have job deliver it through a channel of their own
// (e.g. lookup.Session.LookupAsync's channel-of-one).
func (p *Pool) SubmitAsync(job Job) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}
	p.jobsSubmitted.Add(1)
	wrapper := &jobWrapper{job: job, ctx: p.ctx, resultCh: make(chan error, 1)}
	select {
	case p.queue <- wrapper:
		return nil
	default:
		p.jobsRejected.Add(1)
		return ErrQueueFull
	}
}

// Close stops accepting new jobs and waits for in-flight ones to finish.
func (p *Pool) Close() error {
	if p.closed.Swap(true) {
		return ErrPoolClosed
	}
	close(p.queue)
	p.wg.Wait()
	p.cancel()
	return nil
}

// Stats reports the pool's lifetime counters.
type Stats struct {
	Workers    int
	QueueDepth int
	Submitted  uint64
	Completed  uint64
	Rejected   uint64
	Failed     uint64
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:    p.workers,
		QueueDepth: len(p.queue),
		Submitted:  p.jobsSubmitted.Load(),
		Completed:  p.jobsCompleted.Load(),
		Rejected:   p.jobsRejected.Load(),
		Failed:     p.jobsFailed.Load(),
	}
}
