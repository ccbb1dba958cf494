package hptt

import (
	"fmt"
	"sync"
)

// PlanCache is an explicit, caller-owned cache of plans keyed by
// (sizes, outer sizes, permutation, thread count, layout). It makes
// plan reuse and invalidation visible instead of hiding them in global
// state: discard the cache and every plan lifetime ends with it.
//
// PlanCache is safe for concurrent use.
type PlanCache[T Element] struct {
	mu    sync.RWMutex
	plans map[string]*Plan[T]
}

// NewPlanCache returns an empty cache.
func NewPlanCache[T Element]() *PlanCache[T] {
	return &PlanCache[T]{plans: make(map[string]*Plan[T])}
}

// Get returns the cached plan for the options, building and caching it
// on a miss. Concurrent callers may race to build the same plan; the
// first stored wins and the duplicates are discarded, which is harmless
// because plans are immutable.
func (c *PlanCache[T]) Get(opts Options) (*Plan[T], error) {
	key := cacheKey(opts)

	c.mu.RLock()
	p, ok := c.plans[key]
	c.mu.RUnlock()
	if ok {
		return p, nil
	}

	p, err := NewPlan[T](opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.plans[key]; ok {
		return existing, nil
	}
	c.plans[key] = p
	return p, nil
}

// Put stores a plan (typically a tuned one) under the options' key,
// replacing any cached plan for the same key.
func (c *PlanCache[T]) Put(opts Options, p *Plan[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plans[cacheKey(opts)] = p
}

// Len returns the number of cached plans.
func (c *PlanCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.plans)
}

func cacheKey(opts Options) string {
	return fmt.Sprintf("%v|%v|%v|%v|%d|%t", opts.Size, opts.Perm, opts.OuterSizeA, opts.OuterSizeB, opts.NumThreads, opts.RowMajor)
}
