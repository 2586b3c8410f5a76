// Package fraudcache keeps recent fraud verdicts in memory so repeated
// analysis of the same transaction (retried webhooks, double submissions)
// returns without recomputing. Fraud scoring is deterministic, so a cached
// verdict is exact, never stale.
package fraudcache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/givematch/internal/domain/fraud"
)

// defaultMaxSize bounds the cache when no option is given.
const defaultMaxSize = 10000

// Cache stores verdicts keyed by transaction ID.
type Cache interface {
	// Get returns the cached verdict for id, if present.
	Get(ctx context.Context, id string) (fraud.Assessment, bool)

	// Put records the verdict for id, evicting the oldest entry when the
	// cache is full.
	Put(ctx context.Context, id string, a fraud.Assessment)

	Size() int64
}

// entry is one cached verdict in the eviction list.
type entry struct {
	id      string
	verdict fraud.Assessment
	next    *entry
}

func (e *entry) reset() {
	e.id = ""
	e.verdict = fraud.Assessment{}
	e.next = nil
}

// inMemoryCache implements Cache with a map plus a linked list for
// oldest-first eviction, reusing entry nodes through a pool.
type inMemoryCache struct {
	mu        sync.RWMutex
	byID      map[string]*entry
	head      *entry
	maxSize   int
	size      atomic.Int64
	entryPool sync.Pool
}

// Option applies a configuration option to the cache.
type Option func(*inMemoryCache)

// WithMaxSize bounds the number of cached verdicts. A size <= 0 keeps the
// default bound; the cache is never unbounded.
func WithMaxSize(maxSize int) Option {
	return func(c *inMemoryCache) {
		if maxSize > 0 {
			c.maxSize = maxSize
		}
	}
}

// New creates a bounded in-memory verdict cache.
func New(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.byID = make(map[string]*entry)
	c.entryPool = sync.Pool{
		New: func() interface{} {
			return &entry{}
		},
	}
	return c
}

// Get returns the cached verdict for id.
func (c *inMemoryCache) Get(_ context.Context, id string) (fraud.Assessment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.byID[id]
	if !ok {
		return fraud.Assessment{}, false
	}
	return e.verdict, true
}

// Put records the verdict for id. An existing entry is overwritten in
// place; a new entry may evict the oldest one first.
func (c *inMemoryCache) Put(_ context.Context, id string, a fraud.Assessment) {
	if id == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.byID[id]; ok {
		e.verdict = a
		return
	}

	if len(c.byID) >= c.maxSize {
		c.evictOldest()
	}

	e := c.entryPool.Get().(*entry)
	e.id = id
	e.verdict = a
	e.next = c.head

	c.head = e
	c.byID[id] = e
	c.size.Add(1)
}

// evictOldest drops the tail of the list. Must be called with c.mu held.
func (c *inMemoryCache) evictOldest() {
	if c.head == nil {
		return
	}

	if c.head.next == nil {
		delete(c.byID, c.head.id)
		c.head.reset()
		c.entryPool.Put(c.head)
		c.head = nil
		c.size.Add(-1)
		return
	}

	prev := c.head
	cur := c.head.next
	for cur.next != nil {
		prev = cur
		cur = cur.next
	}
	prev.next = nil
	delete(c.byID, cur.id)
	cur.reset()
	c.entryPool.Put(cur)
	c.size.Add(-1)
}

// Size returns the number of cached verdicts.
func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
