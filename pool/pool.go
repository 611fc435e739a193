// Package pool implements the persistent, process/Manager-lifetime worker
// pool shared by every pricing request: a fixed set of goroutines draining
// a shared job queue, constructed once and never recreated per request —
// recreating it per call is the bug pattern this package exists to avoid.
package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/bcdannyboy/voltrace/internal/obslog"
	"github.com/shirou/gopsutil/cpu"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// ErrQueueFull is returned by Submit when the pool's bounded queue has no
// room; Submit does not wait for room to free up.
var ErrQueueFull = errors.New("pool: submit queue is full")

// ErrClosed is returned by Submit after the pool has been shut down.
var ErrClosed = errors.New("pool: closed")

// Task is a unit of work that produces an owned grid.
type Task func(ctx context.Context) (*mat.Dense, error)

type job struct {
	ctx    context.Context
	task   Task
	future *Future
}

// Future is a single-value handle to a task's eventual result.
type Future struct {
	done chan struct{}
	val  *mat.Dense
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) deliver(val *mat.Dense, err error) {
	f.val, f.err = val, err
	close(f.done)
}

// Wait blocks until the task completes and returns its result.
func (f *Future) Wait() (*mat.Dense, error) {
	<-f.done
	return f.val, f.err
}

// queueFactor sizes the bounded submit queue relative to worker count,
// rather than a fixed magic constant independent of pool size.
const queueFactor = 8

// Pool is a fixed-size collection of worker goroutines draining a shared
// job queue. It is safe to Submit from any goroutine.
type Pool struct {
	queue    chan job
	closed   atomic.Bool
	nThreads int

	progress *mpb.Progress
	bar      *mpb.Bar
}

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithProgress attaches an mpb progress bar that advances once per
// completed task. Disabled by default; intended for batch/offline use,
// not the latency-sensitive Get path.
func WithProgress(total int) Option {
	return func(p *Pool) {
		p.progress = mpb.New(mpb.WithWidth(64))
		p.bar = p.progress.AddBar(int64(total),
			mpb.PrependDecorators(
				decor.Name("lattice"),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
			),
		)
	}
}

// New starts a pool with nThreads workers. nThreads <= 0 auto-sizes from
// the number of logical CPUs reported by gopsutil, falling back to
// runtime.GOMAXPROCS(0) if the sample fails.
func New(nThreads int, opts ...Option) *Pool {
	if nThreads <= 0 {
		nThreads = autoThreads()
	}
	p := &Pool{
		queue:    make(chan job, queueFactor*nThreads),
		nThreads: nThreads,
	}
	for _, opt := range opts {
		opt(p)
	}
	for i := 0; i < nThreads; i++ {
		go p.worker()
	}
	return p
}

func autoThreads() int {
	counts, err := cpu.Counts(true)
	if err != nil || counts <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return counts
}

func (p *Pool) worker() {
	for j := range p.queue {
		val, err := j.task(j.ctx)
		j.future.deliver(val, err)
		if p.bar != nil {
			p.bar.Increment()
		}
	}
}

// Submit enqueues task and returns a Future for its result. It never
// blocks: if the queue is full it returns ErrQueueFull immediately.
func (p *Pool) Submit(ctx context.Context, task Task) (*Future, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}
	f := newFuture()
	select {
	case p.queue <- job{ctx: ctx, task: task, future: f}:
		return f, nil
	default:
		obslog.L().Warn("pool: submit queue full", zap.Int("depth", len(p.queue)), zap.Int("threads", p.nThreads))
		return nil, fmt.Errorf("%w: depth %d", ErrQueueFull, len(p.queue))
	}
}

// WaitAll blocks until every future resolves and returns their results in
// the same order the futures were passed in, regardless of completion
// order — the ordering guarantee the Greeks driver depends on.
func WaitAll(futures ...*Future) ([]*mat.Dense, error) {
	out := make([]*mat.Dense, len(futures))
	var firstErr error
	for i, f := range futures {
		v, err := f.Wait()
		out[i] = v
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return out, firstErr
}

// Close stops accepting new work and signals workers to exit once the
// queue drains. It does not cancel in-flight tasks. Close is intended for
// process shutdown, not for use on the request path; callers must not
// Submit concurrently with Close.
func (p *Pool) Close() {
	p.closed.Store(true)
	close(p.queue)
	if p.progress != nil {
		p.progress.Wait()
	}
}

// Threads reports the number of worker goroutines.
func (p *Pool) Threads() int { return p.nThreads }
