package ecolife

import (
	"sync"
	"time"
)

// homeEventLimit is how many upcoming entries each calendar shows on the home page.
const homeEventLimit = 3

// ContentCache is an in-memory snapshot of posts and home-page events with a
// TTL. Home, feed and sitemap are the hot read paths; admin mutations
// invalidate so they never serve a stale listing for long.
type ContentCache struct {
	mu      sync.RWMutex
	posts   []BlogPost
	events  map[int][]Event
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewContentCache creates a ContentCache backed by the given Store.
func NewContentCache(s *Store, ttl time.Duration) *ContentCache {
	return &ContentCache{store: s, ttl: ttl}
}

func (c *ContentCache) valid() bool {
	return c.events != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ContentCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.events = nil
	c.mu.Unlock()
}

func (c *ContentCache) load() error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPosts("")
	if err != nil {
		return err
	}
	events := make(map[int][]Event, 2)
	for _, id := range []int{CalendarEvents, CalendarPurchases} {
		evs, err := c.store.ListEvents(id, homeEventLimit)
		if err != nil {
			return err
		}
		events[id] = evs
	}
	c.posts = posts
	c.events = events
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached posts and events after ensuring the cache is
// fresh. It tries a read lock first; only takes a write lock if a reload is
// needed.
func (c *ContentCache) ensureLoaded() ([]BlogPost, map[int][]Event, error) {
	c.mu.RLock()
	if c.valid() {
		posts, events := c.posts, c.events
		c.mu.RUnlock()
		return posts, events, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(); err != nil {
		return nil, nil, err
	}
	return c.posts, c.events, nil
}

// ListPosts returns all posts, optionally filtered by tag.
func (c *ContentCache) ListPosts(tag string) ([]BlogPost, error) {
	posts, _, err := c.ensureLoaded()
	if err != nil {
		return nil, err
	}
	if tag == "" {
		return posts, nil
	}
	var filtered []BlogPost
	for _, p := range posts {
		if p.Tag == tag {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// HomeEvents returns the latest events for each calendar, capped at
// homeEventLimit per calendar.
func (c *ContentCache) HomeEvents() (map[int][]Event, error) {
	_, events, err := c.ensureLoaded()
	return events, err
}
