package folio

import (
	"context"
	"sync"
	"time"

	"folio/store"
)

// PostCache is an in-memory TTL cache over the post store, used by the
// public pages so every request does not hit storage. Mutations invalidate
// it through the service layer's change hook; a stale entry otherwise lives
// at most one TTL.
type PostCache struct {
	mu      sync.RWMutex
	posts   []store.Post
	fetched time.Time
	ttl     time.Duration
	store   store.Store
}

// NewPostCache creates a PostCache backed by s.
func NewPostCache(s store.Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached collection, reloading it when stale. It
// tries a read lock first and only takes the write lock for the reload.
func (c *PostCache) ensureLoaded(ctx context.Context) ([]store.Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []store.Post{}
	}
	c.posts = posts
	c.fetched = time.Now()
	return posts, nil
}

// List returns posts newest first, optionally filtered to one locale.
func (c *PostCache) List(ctx context.Context, locale string) ([]store.Post, error) {
	posts, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if locale == "" {
		return posts, nil
	}
	var filtered []store.Post
	for _, p := range posts {
		if p.Locale == locale {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// GetBySlug returns a single cached post by slug, optionally scoped to a
// locale, or store.ErrNotFound.
func (c *PostCache) GetBySlug(ctx context.Context, slug, locale string) (store.Post, error) {
	posts, err := c.ensureLoaded(ctx)
	if err != nil {
		return store.Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug && (locale == "" || p.Locale == locale) {
			return p, nil
		}
	}
	return store.Post{}, store.ErrNotFound
}
