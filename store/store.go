// Package store provides durable persistence for blog posts. Two backends
// implement the same contract: a SQLite database (the default) and a single
// JSON file for zero-dependency deployments. The backend is chosen once at
// construction and never per call.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("post not found")

// ErrInvalid is returned when a create input is missing a required field
// or names a locale outside the configured set.
var ErrInvalid = errors.New("invalid post input")

// Store is the persistence contract for posts. Reads never mutate state and
// may run concurrently; each write durably persists before returning.
type Store interface {
	// List returns all posts, newest first. A non-empty locale filters
	// results to that locale.
	List(ctx context.Context, locale string) ([]Post, error)
	// Get returns the post with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (Post, error)
	// GetBySlug returns the post with the given slug, optionally scoped to
	// a locale, or ErrNotFound.
	GetBySlug(ctx context.Context, slug, locale string) (Post, error)
	// Create persists a new post, assigning id, slug, and timestamps.
	Create(ctx context.Context, in CreateInput) (Post, error)
	// Update merges patch onto the stored post. ID and CreatedAt are
	// preserved, UpdatedAt is refreshed.
	Update(ctx context.Context, id int64, patch Patch) (Post, error)
	// Delete removes the post and returns the removed record.
	Delete(ctx context.Context, id int64) (Post, error)
	Close() error
}

// Options configures defaults and validation shared by both backends.
type Options struct {
	Locales       []string // allowed locale tags; empty means {"en", "fa"}
	DefaultLocale string   // default "en"
	DefaultAuthor string   // default "Admin"
}

func (o *Options) setDefaults() {
	if len(o.Locales) == 0 {
		o.Locales = []string{"en", "fa"}
	}
	if o.DefaultLocale == "" {
		o.DefaultLocale = o.Locales[0]
	}
	if o.DefaultAuthor == "" {
		o.DefaultAuthor = "Admin"
	}
}

func (o Options) localeAllowed(locale string) bool {
	for _, l := range o.Locales {
		if l == locale {
			return true
		}
	}
	return false
}

// normalize validates in and fills server defaults, returning the post
// skeleton (without id or timestamps).
func (o Options) normalize(in CreateInput) (Post, error) {
	if in.Title == "" {
		return Post{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if in.Content == "" {
		return Post{}, fmt.Errorf("%w: content is required", ErrInvalid)
	}
	slug := in.Slug
	if slug == "" {
		slug = Slugify(in.Title)
	}
	if slug == "" {
		return Post{}, fmt.Errorf("%w: slug is required", ErrInvalid)
	}
	author := in.Author
	if author == "" {
		author = o.DefaultAuthor
	}
	locale := in.Locale
	if locale == "" {
		locale = o.DefaultLocale
	}
	if !o.localeAllowed(locale) {
		return Post{}, fmt.Errorf("%w: unknown locale %q", ErrInvalid, locale)
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	return Post{
		Title:         in.Title,
		Content:       in.Content,
		Slug:          slug,
		Author:        author,
		Tags:          tags,
		Locale:        locale,
		OGDescription: in.OGDescription,
		Image:         in.Image,
	}, nil
}

// validatePatch checks a post after a patch has been applied. A blanked slug
// is re-derived from the title, mirroring create.
func (o Options) validatePatch(p *Post) error {
	if !o.localeAllowed(p.Locale) {
		return fmt.Errorf("%w: unknown locale %q", ErrInvalid, p.Locale)
	}
	if p.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if p.Content == "" {
		return fmt.Errorf("%w: content is required", ErrInvalid)
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.Slug == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalid)
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
