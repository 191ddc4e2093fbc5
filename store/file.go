package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// File is the flat-file backend: one JSON array of posts, rewritten wholesale
// on every mutation. A mutex serializes writers within the process; the
// read-modify-write pattern is still last-writer-wins across processes, which
// is acceptable for a single-instance low-write-volume site.
type File struct {
	mu   sync.RWMutex
	path string
	opts Options
}

// NewFile creates a flat-file store at path, creating the data directory if
// needed. A missing file is treated as an empty collection.
func NewFile(path string, opts Options) (*File, error) {
	opts.setDefaults()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &File{path: path, opts: opts}, nil
}

func (f *File) Close() error { return nil }

// read loads the full collection. A missing or unreadable file yields an
// empty slice: a fresh backing store must never be a fatal error.
func (f *File) read() []Post {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil
	}
	var posts []Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil
	}
	return posts
}

// write persists the full collection via a temp file rename so a crash
// mid-write cannot truncate the store.
func (f *File) write(posts []Post) error {
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write posts: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("write posts: %w", err)
	}
	return nil
}

// List returns all posts newest first, optionally filtered by locale.
func (f *File) List(ctx context.Context, locale string) ([]Post, error) {
	f.mu.RLock()
	posts := f.read()
	f.mu.RUnlock()

	var out []Post
	for _, p := range posts {
		if locale == "" || p.Locale == locale {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Get returns the post with the given id, or ErrNotFound.
func (f *File) Get(ctx context.Context, id int64) (Post, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, p := range f.read() {
		if p.ID == id {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// GetBySlug returns the post with the given slug, optionally scoped to a locale.
func (f *File) GetBySlug(ctx context.Context, slug, locale string) (Post, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, p := range f.read() {
		if p.Slug == slug && (locale == "" || p.Locale == locale) {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

// Create appends a new post with id = max existing id + 1 (1 on an empty
// store) and persists the whole collection before returning.
func (f *File) Create(ctx context.Context, in CreateInput) (Post, error) {
	p, err := f.opts.normalize(in)
	if err != nil {
		return Post{}, err
	}
	ts := now()
	p.CreatedAt, p.UpdatedAt = ts, ts

	f.mu.Lock()
	defer f.mu.Unlock()

	posts := f.read()
	var maxID int64
	for _, existing := range posts {
		if existing.Slug == p.Slug {
			return Post{}, fmt.Errorf("%w: slug %q already exists", ErrInvalid, p.Slug)
		}
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	p.ID = maxID + 1
	posts = append(posts, p)
	if err := f.write(posts); err != nil {
		return Post{}, err
	}
	return p, nil
}

// Update merges patch onto the stored record, preserving id and created_at
// and refreshing updated_at.
func (f *File) Update(ctx context.Context, id int64, patch Patch) (Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	posts := f.read()
	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		p := posts[i]
		p.apply(patch)
		p.ID = id
		p.CreatedAt = posts[i].CreatedAt
		if err := f.opts.validatePatch(&p); err != nil {
			return Post{}, err
		}
		for _, other := range posts {
			if other.ID != id && other.Slug == p.Slug {
				return Post{}, fmt.Errorf("%w: slug %q already exists", ErrInvalid, p.Slug)
			}
		}
		p.UpdatedAt = now()
		if p.UpdatedAt.Before(p.CreatedAt) {
			p.UpdatedAt = p.CreatedAt
		}
		posts[i] = p
		if err := f.write(posts); err != nil {
			return Post{}, err
		}
		return p, nil
	}
	return Post{}, ErrNotFound
}

// Delete removes the post, persists the remaining collection, and returns
// the removed record.
func (f *File) Delete(ctx context.Context, id int64) (Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	posts := f.read()
	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		removed := posts[i]
		posts = append(posts[:i], posts[i+1:]...)
		if err := f.write(posts); err != nil {
			return Post{}, err
		}
		return removed, nil
	}
	return Post{}, ErrNotFound
}
