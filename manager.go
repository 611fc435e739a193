// Package voltrace is the external orchestrator around the pricing core:
// it owns the worker pool and the result cache, builds the axis grids for
// a request, chooses between a cache hit and a cache miss, and on a miss
// delegates to the American Greeks driver and the European closed form in
// parallel before assembling the 24-grid bundle.
package voltrace

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/bcdannyboy/voltrace/bsm"
	"github.com/bcdannyboy/voltrace/cache"
	"github.com/bcdannyboy/voltrace/greeks"
	"github.com/bcdannyboy/voltrace/grid"
	"github.com/bcdannyboy/voltrace/internal/obslog"
	"github.com/bcdannyboy/voltrace/pool"
	"github.com/bcdannyboy/voltrace/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Manager is the long-lived owner of the worker pool and the result
// cache. Construct one per process (or per logical tenant); never
// construct a pool per request — see the design notes on pool lifetime.
type Manager struct {
	mu    sync.Mutex
	cache *cache.Cache
	pool  *pool.Pool
}

// Option configures a Manager at construction time.
type Option func(*managerConfig)

type managerConfig struct {
	threads       int
	progressTotal int
}

// WithThreads pins the worker pool to n threads instead of auto-sizing
// from the host's logical CPU count.
func WithThreads(n int) Option {
	return func(c *managerConfig) { c.threads = n }
}

// WithProgress attaches a progress bar to the worker pool, advancing once
// per completed lattice run. total should be the number of lattice runs
// the caller expects to submit over the Manager's lifetime (9 per
// American option kind per Get call that misses the cache; a cache hit
// submits none); intended for batch/offline pricing
// runs, not the latency-sensitive single-request path.
func WithProgress(total int) Option {
	return func(c *managerConfig) { c.progressTotal = total }
}

// NewManager constructs a Manager with a cache of the given capacity
// (clamped to at least 1) and a worker pool sized per opts (auto-sized by
// default).
func NewManager(capacity int, opts ...Option) *Manager {
	cfg := managerConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	var poolOpts []pool.Option
	if cfg.progressTotal > 0 {
		poolOpts = append(poolOpts, pool.WithProgress(cfg.progressTotal))
	}

	return &Manager{
		cache: cache.New(capacity),
		pool:  pool.New(cfg.threads, poolOpts...),
	}
}

// Close shuts down the worker pool. Safe to call once, after the Manager
// is no longer in use.
func (m *Manager) Close() {
	m.pool.Close()
}

// Get returns the 24-grid bundle for req, either from cache or freshly
// computed. The returned bundle is a borrow into the cache, valid until
// the next mutating call on this Manager; callers needing a longer-lived
// copy should call Bundle.Clone.
func (m *Manager) Get(ctx context.Context, req types.Request) (*types.Bundle, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	key := cache.NewKey(req)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cache.Contains(key) {
		b, err := m.cache.Get(key)
		if err != nil {
			// Unreachable given the Contains guard above, but keep the
			// cache's own error taxonomy intact rather than panicking.
			return nil, fmt.Errorf("voltrace: get: %w", err)
		}
		return b, nil
	}

	bundle, err := m.compute(ctx, req)
	if err != nil {
		if errors.Is(err, pool.ErrQueueFull) || errors.Is(err, pool.ErrClosed) {
			return nil, fmt.Errorf("%w: %v", ErrPoolExhausted, err)
		}
		return nil, err
	}

	m.cache.Insert(key, bundle)
	obslog.L().Debug("voltrace: cache miss computed", zap.Int("n_sigma", req.NSigma), zap.Int("n_strike", req.NStrike))
	return bundle, nil
}

func (m *Manager) compute(ctx context.Context, req types.Request) (*types.Bundle, error) {
	axes := grid.Build(req.NSigma, req.NStrike, req.SigmaLo, req.SigmaHi, req.StrikeLo, req.StrikeHi)

	bundle := &types.Bundle{NSigma: req.NSigma, NStrike: req.NStrike}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		gb, err := greeks.AmericanBundle(gctx, m.pool, types.AmericanCall, req.Spot, req.R, req.Q, req.Tau, axes.SigmaGrid, axes.StrikeGrid)
		if err != nil {
			return err
		}
		bundle.SetGreeksBundle(types.AmericanCall, gb)
		return nil
	})
	g.Go(func() error {
		gb, err := greeks.AmericanBundle(gctx, m.pool, types.AmericanPut, req.Spot, req.R, req.Q, req.Tau, axes.SigmaGrid, axes.StrikeGrid)
		if err != nil {
			return err
		}
		bundle.SetGreeksBundle(types.AmericanPut, gb)
		return nil
	})
	g.Go(func() error {
		gb := bsm.CallGreeks(req.Spot, req.R, req.Q, req.Tau, axes.SigmaGrid, axes.StrikeGrid)
		bundle.SetGreeksBundle(types.EuropeanCall, gb)
		return nil
	})
	g.Go(func() error {
		gb := bsm.PutGreeks(req.Spot, req.R, req.Q, req.Tau, axes.SigmaGrid, axes.StrikeGrid)
		bundle.SetGreeksBundle(types.EuropeanPut, gb)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func validate(req types.Request) error {
	if req.NSigma < 1 || req.NStrike < 1 {
		return fmt.Errorf("%w: n_sigma and n_strike must be >= 1", ErrInvalidArgument)
	}
	if !finite(req.Spot) || req.Spot <= 0 {
		return fmt.Errorf("%w: spot must be finite and positive", ErrInvalidArgument)
	}
	if !finite(req.R) || !finite(req.Q) || req.Q < 0 {
		return fmt.Errorf("%w: q must be finite and non-negative, r must be finite", ErrInvalidArgument)
	}
	if !finite(req.Tau) || req.Tau <= 0 {
		return fmt.Errorf("%w: tau must be finite and positive", ErrInvalidArgument)
	}
	if !finite(req.SigmaLo) || !finite(req.SigmaHi) || req.SigmaLo <= 0 || req.SigmaHi < req.SigmaLo {
		return fmt.Errorf("%w: sigma range invalid", ErrInvalidArgument)
	}
	if !finite(req.StrikeLo) || !finite(req.StrikeHi) || req.StrikeLo <= 0 || req.StrikeHi < req.StrikeLo {
		return fmt.Errorf("%w: strike range invalid", ErrInvalidArgument)
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
