package todo

import (
	"context"
	"sync"
	"time"

	"github.com/sadopc/taskdeck/internal/api"
)

// Topics group cache entries for invalidation. Both view queries belong to
// the todos family and are invalidated together after any mutation.
const (
	TopicTodos      = "todos"
	TopicAdminTodos = "admin-todos"
)

// Lister is the read side of the remote API the cache depends on.
type Lister interface {
	ListTodos(ctx context.Context, q api.ListQuery) (*api.TodoPage, error)
}

const defaultFreshFor = 5 * time.Minute

type pageEntry struct {
	topic     string
	page      *api.TodoPage
	err       error
	fetchedAt time.Time
	stale     bool
	inflight  chan struct{}
}

// PageCache holds the last successful page per (topic, filters) key. Within
// the freshness window identical reads are served without a network call;
// concurrent reads under one key share a single in-flight fetch. Failed
// fetches are never cached.
type PageCache struct {
	mu       sync.Mutex
	lister   Lister
	freshFor time.Duration
	entries  map[string]*pageEntry
}

// NewPageCache creates the cache. freshFor <= 0 selects the default
// five-minute window.
func NewPageCache(l Lister, freshFor time.Duration) *PageCache {
	if freshFor <= 0 {
		freshFor = defaultFreshFor
	}
	return &PageCache{
		lister:   l,
		freshFor: freshFor,
		entries:  make(map[string]*pageEntry),
	}
}

// Page returns the page for (topic, filters), from cache when fresh,
// otherwise from the network. A second caller arriving while a fetch for
// the same key is pending waits for that fetch instead of duplicating it.
func (c *PageCache) Page(ctx context.Context, topic string, f Filters) (*api.TodoPage, error) {
	key := topic + "|" + f.Key()

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if e.inflight != nil {
			ch := e.inflight
			c.mu.Unlock()
			<-ch
			c.mu.Lock()
			page, err := e.page, e.err
			c.mu.Unlock()
			return page, err
		}
		if !e.stale && time.Since(e.fetchedAt) < c.freshFor {
			page := e.page
			c.mu.Unlock()
			return page, nil
		}
	}

	e := &pageEntry{topic: topic, inflight: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	page, err := c.lister.ListTodos(ctx, f.Query())

	c.mu.Lock()
	e.page, e.err = page, err
	if err != nil {
		delete(c.entries, key)
	} else {
		e.fetchedAt = time.Now()
	}
	close(e.inflight)
	e.inflight = nil
	c.mu.Unlock()

	return page, err
}

// Invalidate marks every entry under topic stale so the next read refetches
// regardless of freshness. In-flight fetches are left to complete; their
// result lands already stale.
func (c *PageCache) Invalidate(topics ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		for _, t := range topics {
			if e.topic == t {
				e.stale = true
				break
			}
		}
	}
}

// InvalidateAll marks the whole todos family stale.
func (c *PageCache) InvalidateAll() {
	c.Invalidate(TopicTodos, TopicAdminTodos)
}
