package store

import (
	"strings"
	"time"
	"unicode"
)

// Post is a single published content item. Content holds either raw HTML
// markup or a JSON-encoded array of content blocks; classification happens
// at render time, not here.
type Post struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Slug          string    `json:"slug"`
	Author        string    `json:"author"`
	Tags          []string  `json:"tags"`
	Locale        string    `json:"locale"`
	OGDescription string    `json:"og_description"`
	Image         string    `json:"image"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"update_at"`
}

// CreateInput carries the caller-supplied fields for a new post.
// Title and Content are required; everything else has a server default.
type CreateInput struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Slug          string   `json:"slug"`
	Author        string   `json:"author"`
	Tags          []string `json:"tags"`
	Locale        string   `json:"locale"`
	OGDescription string   `json:"og_description"`
	Image         string   `json:"image"`
}

// Patch is a partial update. Nil pointer fields are left unchanged;
// a nil Tags slice leaves tags untouched while an empty one clears them.
type Patch struct {
	Title         *string  `json:"title"`
	Content       *string  `json:"content"`
	Slug          *string  `json:"slug"`
	Author        *string  `json:"author"`
	Tags          []string `json:"tags"`
	Locale        *string  `json:"locale"`
	OGDescription *string  `json:"og_description"`
	Image         *string  `json:"image"`
}

func (p *Post) apply(patch Patch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Slug != nil {
		p.Slug = *patch.Slug
	}
	if patch.Author != nil {
		p.Author = *patch.Author
	}
	if patch.Tags != nil {
		p.Tags = patch.Tags
	}
	if patch.Locale != nil {
		p.Locale = *patch.Locale
	}
	if patch.OGDescription != nil {
		p.OGDescription = *patch.OGDescription
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
}

// Slugify converts a title to a URL-safe slug: lowercased, runs of
// whitespace collapsed to a single hyphen, anything outside [a-z0-9-_]
// stripped.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	hyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			hyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
