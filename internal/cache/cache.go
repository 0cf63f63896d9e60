// Package cache memoizes loaded tables per source and keeps them fresh.
package cache

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"paxboard/internal"
	"paxboard/internal/table"
)

// LoadFunc loads the table of one source
type LoadFunc func(ctx context.Context, source string) (*table.Table, error)

type entry struct {
	table    *table.Table
	loadedAt time.Time
}

// TableCache holds one immutable table per source. Concurrent first requests
// for a source share a single load. Failed loads are not cached, nor are loads
// that an Invalidate overtook.
type TableCache struct {
	load   LoadFunc
	group  singleflight.Group
	logger *internal.Logger

	mu          sync.RWMutex
	entries     map[string]entry
	generations map[string]uint64
}

// New creates a cache over load
func New(load LoadFunc, logger *internal.Logger) *TableCache {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &TableCache{
		load:        load,
		logger:      logger.WithComponent("Cache"),
		entries:     make(map[string]entry),
		generations: make(map[string]uint64),
	}
}

// Get returns the cached table of source, loading it on first use.
func (c *TableCache) Get(ctx context.Context, source string) (*table.Table, error) {
	if e, ok := c.lookup(source); ok {
		return e.table, nil
	}

	v, err, shared := c.group.Do(source, func() (interface{}, error) {
		if e, ok := c.lookup(source); ok {
			return e.table, nil
		}
		gen := c.generation(source)
		// the load outlives any single waiting caller
		t, err := c.load(context.WithoutCancel(ctx), source)
		if err != nil {
			return nil, err
		}
		c.store(source, t, gen)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Trace("shared load of %s", source)
	}
	return v.(*table.Table), nil
}

// Refresh reloads source unconditionally. On failure the previous table, if
// any, stays in place and the error is returned.
func (c *TableCache) Refresh(ctx context.Context, source string) error {
	_, err, _ := c.group.Do(source, func() (interface{}, error) {
		gen := c.generation(source)
		t, err := c.load(ctx, source)
		if err != nil {
			return nil, err
		}
		c.store(source, t, gen)
		return t, nil
	})
	return err
}

// Invalidate drops the cached table of source; the next Get reloads it. A
// load already in flight still answers its callers but is not cached.
func (c *TableCache) Invalidate(source string) {
	c.group.Forget(source)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[source]++
	if _, ok := c.entries[source]; ok {
		delete(c.entries, source)
		c.logger.Info("invalidated %s", source)
	}
}

// LoadedAt reports when source was last loaded.
func (c *TableCache) LoadedAt(source string) (time.Time, bool) {
	e, ok := c.lookup(source)
	return e.loadedAt, ok
}

// Sources lists the cached sources, sorted.
func (c *TableCache) Sources() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for s := range c.entries {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (c *TableCache) lookup(source string) (entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[source]
	return e, ok
}

func (c *TableCache) generation(source string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generations[source]
}

// store caches t unless source was invalidated after generation gen was read.
func (c *TableCache) store(source string, t *table.Table, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[source] != gen {
		c.logger.Debug("discarding load of %s started before invalidation", source)
		return
	}
	c.entries[source] = entry{table: t, loadedAt: time.Now()}
}
