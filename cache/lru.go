// Package cache implements the bounded LRU that stores result bundles
// keyed by a quantized parameter tuple. It is built on stdlib
// container/list plus a map, the closest fit in this pack's dependency
// surface to a doubly-linked-list-and-hashmap LRU (see DESIGN.md for why
// no third-party LRU library is wired instead).
package cache

import (
	"container/list"
	"errors"

	"github.com/bcdannyboy/voltrace/internal/obslog"
	"github.com/bcdannyboy/voltrace/types"
	"go.uber.org/zap"
)

// QuantizeScale fixes the precision of the cache key: 10^-6 absolute.
const QuantizeScale = 1e6

// ErrNotFound is returned by Get when the key is absent. Callers should
// check Contains first; this is never surfaced by the public API.
var ErrNotFound = errors.New("cache: key not found")

// Key is the quantized, comparable cache key. Two requests whose floating
// parameters differ by less than 10^-6 after scaling collide into the same
// key, by design.
type Key struct {
	NSigma, NStrike                                       int64
	Spot, R, Q, SigmaLo, SigmaHi, StrikeLo, StrikeHi, Tau int64
}

func quantize(x float64) int64 {
	return int64(x * QuantizeScale)
}

// NewKey builds the cache key for a request. Integer dimensions are
// carried through unscaled; floating parameters are truncated after
// scaling by QuantizeScale, matching Go's float-to-int conversion
// (truncation toward zero) with no separate math.Trunc call needed.
func NewKey(req types.Request) Key {
	return Key{
		NSigma:    int64(req.NSigma),
		NStrike:   int64(req.NStrike),
		Spot:      quantize(req.Spot),
		R:         quantize(req.R),
		Q:         quantize(req.Q),
		SigmaLo:   quantize(req.SigmaLo),
		SigmaHi:   quantize(req.SigmaHi),
		StrikeLo:  quantize(req.StrikeLo),
		StrikeHi:  quantize(req.StrikeHi),
		Tau:       quantize(req.Tau),
	}
}

type entry struct {
	key    Key
	bundle *types.Bundle
}

// Cache is a bounded, non-thread-safe LRU. It must be driven from a
// single coordinator goroutine; concurrent callers serialize access
// externally (the voltrace.Manager does this with its own mutex).
type Cache struct {
	capacity int
	order    *list.List
	items    map[Key]*list.Element
}

// New creates a cache with the given capacity, clamped to at least 1.
func New(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[Key]*list.Element, capacity),
	}
}

// Contains reports whether key is present, without affecting recency.
func (c *Cache) Contains(key Key) bool {
	_, ok := c.items[key]
	return ok
}

// Get returns a borrow into the stored bundle for key and marks it
// most-recently-used. The borrow is valid only until the next mutating
// call (Get that moves an element, or Insert) on this cache.
func (c *Cache) Get(key Key) (*types.Bundle, error) {
	el, ok := c.items[key]
	if !ok {
		return nil, ErrNotFound
	}
	c.order.MoveToFront(el)
	return el.Value.(*entry).bundle, nil
}

// Insert stores bundle under key, evicting the least-recently-used entry
// if the cache is at capacity. If key is already present, Insert replaces
// the existing bundle in place and marks it most-recently-used.
func (c *Cache) Insert(key Key, bundle *types.Bundle) {
	if el, ok := c.items[key]; ok {
		el.Value.(*entry).bundle = bundle
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			evicted := oldest.Value.(*entry).key
			c.order.Remove(oldest)
			delete(c.items, evicted)
			obslog.L().Debug("cache: evicted least-recently-used entry",
				zap.Int("capacity", c.capacity), zap.Int("n_sigma", int(evicted.NSigma)), zap.Int("n_strike", int(evicted.NStrike)))
		}
	}

	el := c.order.PushFront(&entry{key: key, bundle: bundle})
	c.items[key] = el
}

// Len reports the number of entries currently cached.
func (c *Cache) Len() int {
	return c.order.Len()
}
