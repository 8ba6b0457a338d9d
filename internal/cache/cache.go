// Package cache deduplicates and retains the results of read operations
// against the licensing API. Entries are keyed by operation + arguments,
// labelled with tags for write-triggered invalidation, and retained for a
// per-entry TTL once the last subscriber detaches.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned by Get on a subscription that was already closed.
var ErrClosed = errors.New("cache: subscription closed")

// FetchFunc loads the value for an entry. The returned tags are merged with
// the statically declared ones, so a list fetch can also provide per-entity
// tags for the rows it saw.
type FetchFunc func(ctx context.Context) (any, []Tag, error)

// Options configures the entry created (or joined) by Subscribe.
type Options struct {
	// TTL is the retention window counted from the moment the subscriber
	// count drops to zero. Defaults to 5 minutes.
	TTL time.Duration
	// Tags statically provided by the operation.
	Tags []Tag
	// Fetch loads the value when the entry is empty or stale.
	Fetch FetchFunc
}

type entry struct {
	key       string
	value     any
	err       error
	hasValue  bool
	stale     bool
	tags      []Tag
	ttl       time.Duration
	fetch     FetchFunc
	subs      int
	retainTil time.Time // set when subs drops to zero
}

// Cache is the process-wide request cache. One instance is shared by every
// operation in the api package.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group

	sweepInterval time.Duration
	logger        *slog.Logger
	now           func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	started  bool
}

func New(sweepInterval time.Duration, logger *slog.Logger) *Cache {
	if sweepInterval <= 0 {
		sweepInterval = 30 * time.Second
	}
	return &Cache{
		entries:       make(map[string]*entry),
		sweepInterval: sweepInterval,
		logger:        logger,
		now:           time.Now,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Subscription is one consumer's handle on a cache entry. Closing it
// releases the entry for TTL-based eviction; it never cancels an in-flight
// fetch, which is allowed to complete for future subscribers.
type Subscription struct {
	c      *Cache
	key    string
	mu     sync.Mutex
	closed bool
}

// Subscribe attaches to the entry for (op, args), creating it on first use.
// An expired leftover entry is replaced so the next Get fetches fresh data.
func (c *Cache) Subscribe(op string, args any, opts Options) *Subscription {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	key := Key(op, args)

	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && e.subs == 0 && !e.retainTil.IsZero() && c.now().After(e.retainTil) {
		delete(c.entries, key)
		ok = false
	}
	if !ok {
		e = &entry{
			key:   key,
			tags:  opts.Tags,
			ttl:   opts.TTL,
			fetch: opts.Fetch,
		}
		c.entries[key] = e
	}
	e.subs++
	e.retainTil = time.Time{}
	c.mu.Unlock()

	return &Subscription{c: c, key: key}
}

// Get returns the entry's value, fetching it when the entry is empty, stale,
// or holds an error from a previous attempt. Concurrent Gets on the same key
// share a single underlying fetch and receive the identical result.
func (s *Subscription) Get(ctx context.Context) (any, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.mu.Unlock()

	c := s.c
	c.mu.Lock()
	e, ok := c.entries[s.key]
	if !ok {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if e.hasValue && !e.stale && e.err == nil {
		v := e.value
		c.mu.Unlock()
		return v, nil
	}
	fetch := e.fetch
	c.mu.Unlock()

	v, err, _ := c.group.Do(s.key, func() (any, error) {
		value, tags, err := fetch(ctx)
		c.storeResult(s.key, value, tags, err)
		if err != nil {
			return nil, err
		}
		return value, nil
	})
	return v, err
}

// Close detaches the subscriber. When the count reaches zero the retention
// deadline starts; the entry survives until it elapses.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[s.key]
	if !ok {
		return
	}
	e.subs--
	if e.subs <= 0 {
		e.subs = 0
		e.retainTil = c.now().Add(e.ttl)
	}
}

func (c *Cache) storeResult(key string, value any, tags []Tag, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		// Entry was dropped while the fetch was in flight; the result is
		// simply discarded.
		return
	}
	if err != nil {
		e.err = err
		return
	}
	e.value = value
	e.err = nil
	e.hasValue = true
	// A result landing after an invalidation is still a fresh read.
	e.stale = false
	if len(tags) > 0 {
		e.tags = mergeTags(e.tags, tags)
	}
}

// InvalidateTags applies a write operation's invalidation set: overlapping
// entries with subscribers are refetched in the background, unsubscribed
// ones are dropped so the next subscription fetches fresh data. Racing
// writes apply in completion order; the last write's refetch wins.
func (c *Cache) InvalidateTags(tags []Tag) {
	var refetch []*entry

	c.mu.Lock()
	for key, e := range c.entries {
		if !anyOverlap(e.tags, tags) {
			continue
		}
		if e.subs > 0 {
			e.stale = true
			refetch = append(refetch, e)
		} else {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()

	for _, e := range refetch {
		go c.refetch(e.key)
	}
}

func (c *Cache) refetch(key string) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || !e.stale {
		c.mu.Unlock()
		return
	}
	fetch := e.fetch
	c.mu.Unlock()

	_, _, _ = c.group.Do(key, func() (any, error) {
		value, tags, err := fetch(context.Background())
		c.storeResult(key, value, tags, err)
		if err != nil {
			c.logger.Warn("background refetch failed", "key", key, "error", err)
			return nil, err
		}
		return value, nil
	})
}

// Clear drops every entry, used when the session ends and cached data no
// longer belongs to the current actor.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// StartSweeper evicts expired unsubscribed entries on a fixed cadence until
// Stop is called or ctx is done.
func (c *Cache) StartSweeper(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	go func() {
		defer close(c.done)
		ticker := time.NewTicker(c.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stop:
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// Stop halts the sweeper. Safe to call whether or not it was started.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()
	if started {
		<-c.done
	}
}

func (c *Cache) sweep() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if e.subs == 0 && !e.retainTil.IsZero() && now.After(e.retainTil) {
			delete(c.entries, key)
		}
	}
}

func mergeTags(a, b []Tag) []Tag {
	seen := make(map[Tag]struct{}, len(a)+len(b))
	out := make([]Tag, 0, len(a)+len(b))
	for _, t := range a {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	for _, t := range b {
		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
