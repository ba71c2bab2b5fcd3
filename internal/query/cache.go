// Package query is the in-memory query cache behind the data
// synchronization layer. Results are stored per key; mutations invalidate
// keys by segment prefix and subscribers are told which keys went stale.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrDisabled is returned by a query whose preconditions do not hold yet.
// Nothing is fetched and nothing is cached.
var ErrDisabled = errors.New("query is disabled")

// Key identifies a cached result. Segments are separated by ':' and
// invalidation matches whole segments ("products" matches "products:abc",
// "products:ab" does not).
type Key string

// NewKey joins segments into a key
func NewKey(segments ...string) Key {
	return Key(strings.Join(segments, ":"))
}

// Matches reports whether k equals prefix or lies under it
func (k Key) Matches(prefix Key) bool {
	if k == prefix {
		return true
	}
	return strings.HasPrefix(string(k), string(prefix)+":")
}

// Status is the lifecycle of a cached result
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State is a snapshot of one cache entry
type State struct {
	Status    Status
	Data      any
	HasData   bool
	Err       error
	Fetched   bool // at least one fetch completed (success or error)
	Stale     bool
	UpdatedAt time.Time
}

// IsLoading is true while the first result for the key is pending
func (s State) IsLoading() bool {
	return s.Status == StatusLoading && !s.HasData
}

type entry struct {
	state    State
	inval    uint64 // bumped by Invalidate; fetches started earlier never write back
	inflight int
}

// Cache is a process-wide key-value store of query results.
// Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[Key]*entry
	gen     uint64 // bumped by Clear; stale generations never write back

	group singleflight.Group

	subMu   sync.Mutex
	subs    map[int]func(keys []Key)
	nextSub int

	logger *slog.Logger
	now    func() time.Time
}

// NewCache creates an empty cache
func NewCache(logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		entries: make(map[Key]*entry),
		subs:    make(map[int]func([]Key)),
		logger:  logger,
		now:     time.Now,
	}
}

// Peek returns the current state of key without fetching
func (c *Cache) Peek(key Key) (State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return State{}, false
	}
	return e.state, true
}

// Fetch returns the cached value for key when it is fresh, otherwise runs
// fn and stores its result. Concurrent fetches of the same key share one
// call. Failures are stored as the entry's error and never retried here.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.state.Status == StatusSuccess && !e.state.Stale {
		data := e.state.Data
		c.mu.Unlock()
		if v, ok := data.(T); ok {
			return v, nil
		}
		return zero, fmt.Errorf("cached value for %q has type %T", key, data)
	}
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	e.state.Status = StatusLoading
	e.inflight++
	gen, inval := c.gen, e.inval
	c.mu.Unlock()

	v, err, shared := c.group.Do(string(key), func() (interface{}, error) {
		return fn(ctx)
	})
	if shared {
		c.logger.Debug("query shared in-flight fetch", "key", key)
	}

	c.mu.Lock()
	e.inflight--
	cur, ok := c.entries[key]
	switch {
	case c.gen != gen:
		c.logger.Debug("dropping result fetched before clear", "key", key)
	case !ok || cur != e || e.inval != inval:
		c.logger.Debug("dropping result fetched before invalidation", "key", key)
		if cur == e && e.inflight == 0 && e.state.Status == StatusLoading {
			e.state.Status = StatusIdle
			if e.state.HasData {
				e.state.Status = StatusSuccess
			}
		}
	default:
		e.state.Fetched = true
		e.state.UpdatedAt = c.now()
		if err != nil {
			e.state.Status = StatusError
			e.state.Err = err
		} else {
			e.state.Status = StatusSuccess
			e.state.Data = v
			e.state.HasData = true
			e.state.Err = nil
			e.state.Stale = false
		}
	}
	c.mu.Unlock()

	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("fetched value for %q has type %T", key, v)
	}
	return typed, nil
}

// Set stores a value for key directly, marking it fresh
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &entry{state: State{
		Status:    StatusSuccess,
		Data:      value,
		HasData:   true,
		Fetched:   true,
		UpdatedAt: c.now(),
	}}
}

// Invalidate marks every entry under prefix stale and notifies subscribers
// with the affected keys. Fetches already in flight for those keys keep
// their result to themselves. Returns the keys that were invalidated.
func (c *Cache) Invalidate(prefix Key) []Key {
	var keys []Key

	c.mu.Lock()
	for k, e := range c.entries {
		if k.Matches(prefix) {
			e.state.Stale = true
			e.inval++
			keys = append(keys, k)
		}
	}
	c.mu.Unlock()

	// Later fetches must not join a call that started before the write
	for _, k := range keys {
		c.group.Forget(string(k))
	}

	if len(keys) == 0 {
		c.logger.Debug("invalidate matched nothing", "prefix", prefix)
		return nil
	}

	c.logger.Debug("invalidated queries", "prefix", prefix, "count", len(keys))
	c.notify(keys)
	return keys
}

// Clear drops every entry. Fetches already in flight will not write back.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[Key]*entry)
	c.gen++
	c.mu.Unlock()
	c.logger.Debug("query cache cleared")
}

// Len returns the number of entries
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Subscribe registers fn to be called with invalidated keys.
// The returned function removes the subscription.
func (c *Cache) Subscribe(fn func(keys []Key)) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()

	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

func (c *Cache) notify(keys []Key) {
	c.subMu.Lock()
	fns := make([]func([]Key), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(keys)
	}
}
