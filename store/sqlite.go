package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite is the relational backend. Posts, tags, and the post_tags junction
// live in one database file opened in WAL mode so readers are not serialized
// behind writers.
type SQLite struct {
	db   *sql.DB
	opts Options
}

// NewSQLite opens (or creates) the database at path, ensures the data
// directory exists, and runs schema migrations.
func NewSQLite(path string, opts Options) (*SQLite, error) {
	opts.setDefaults()
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL for concurrent read/write access, busy_timeout so writers wait
	// instead of failing with SQLITE_BUSY, synchronous=NORMAL is safe with WAL.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SQLite{db: db, opts: opts}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    author TEXT NOT NULL,
    locale TEXT NOT NULL,
    og_description TEXT NOT NULL DEFAULT '',
    image TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tags (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS post_tags (
    post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (post_id, tag_id)
);
CREATE INDEX IF NOT EXISTS idx_posts_locale ON posts(locale);
`)
	return err
}

const postColumns = `id, title, content, slug, author, locale, og_description, image, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	var created, updated string
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Slug, &p.Author, &p.Locale,
		&p.OGDescription, &p.Image, &created, &updated)
	if err != nil {
		return Post{}, err
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Post{}, fmt.Errorf("parse created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return Post{}, fmt.Errorf("parse updated_at: %w", err)
	}
	p.Tags = []string{}
	return p, nil
}

// List returns all posts ordered by created_at descending, optionally
// filtered to one locale. A fresh or unreadable database yields an empty
// slice rather than an error only at the service layer; here errors surface.
func (s *SQLite) List(ctx context.Context, locale string) ([]Post, error) {
	var rows *sql.Rows
	var err error
	if locale == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id DESC`)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+postColumns+` FROM posts WHERE locale = ? ORDER BY created_at DESC, id DESC`, locale)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// attachTags loads tags for every post in one query, preserving the order in
// which tags were attached (post_tags rowid).
func (s *SQLite) attachTags(ctx context.Context, posts []Post) error {
	if len(posts) == 0 {
		return nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT pt.post_id, t.name
		FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
		ORDER BY pt.post_id, pt.rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := make(map[int64][]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		byID[id] = append(byID[id], name)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range posts {
		if tags, ok := byID[posts[i].ID]; ok {
			posts[i].Tags = tags
		}
	}
	return nil
}

// Get returns a single post by id.
func (s *SQLite) Get(ctx context.Context, id int64) (Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, err
	}
	p.Tags, err = s.tagsFor(ctx, id)
	return p, err
}

// GetBySlug returns a single post by slug, optionally scoped to a locale.
func (s *SQLite) GetBySlug(ctx context.Context, slug, locale string) (Post, error) {
	var row *sql.Row
	if locale == "" {
		row = s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	} else {
		row = s.db.QueryRowContext(ctx,
			`SELECT `+postColumns+` FROM posts WHERE slug = ? AND locale = ?`, slug, locale)
	}
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, err
	}
	p.Tags, err = s.tagsFor(ctx, p.ID)
	return p, err
}

func (s *SQLite) tagsFor(ctx context.Context, id int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.name FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ? ORDER BY pt.rowid`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// Create inserts a new post with id = max existing id + 1 and both
// timestamps set to the current time.
func (s *SQLite) Create(ctx context.Context, in CreateInput) (Post, error) {
	p, err := s.opts.normalize(in)
	if err != nil {
		return Post{}, err
	}
	ts := now()
	p.CreatedAt, p.UpdatedAt = ts, ts

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Post{}, err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(id), 0) + 1 FROM posts`).Scan(&p.ID); err != nil {
		return Post{}, err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO posts (id, title, content, slug, author, locale, og_description, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Content, p.Slug, p.Author, p.Locale, p.OGDescription, p.Image,
		p.CreatedAt.Format(time.RFC3339Nano), p.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Post{}, fmt.Errorf("insert post: %w", err)
	}
	if err := setTags(ctx, tx, p.ID, p.Tags); err != nil {
		return Post{}, err
	}
	if err := tx.Commit(); err != nil {
		return Post{}, err
	}
	return p, nil
}

// Update merges patch onto the stored record inside one transaction,
// preserving id and created_at and refreshing updated_at.
func (s *SQLite) Update(ctx context.Context, id int64, patch Patch) (Post, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Post{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, err
	}
	tags, err := tagsForTx(ctx, tx, id)
	if err != nil {
		return Post{}, err
	}
	p.Tags = tags

	p.apply(patch)
	if err := s.opts.validatePatch(&p); err != nil {
		return Post{}, err
	}
	p.UpdatedAt = now()
	if p.UpdatedAt.Before(p.CreatedAt) {
		p.UpdatedAt = p.CreatedAt
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE posts SET title = ?, content = ?, slug = ?, author = ?, locale = ?,
			og_description = ?, image = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Content, p.Slug, p.Author, p.Locale, p.OGDescription, p.Image,
		p.UpdatedAt.Format(time.RFC3339Nano), id)
	if err != nil {
		return Post{}, fmt.Errorf("update post: %w", err)
	}
	if patch.Tags != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ?`, id); err != nil {
			return Post{}, err
		}
		if err := setTags(ctx, tx, id, p.Tags); err != nil {
			return Post{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Post{}, err
	}
	return p, nil
}

// Delete removes the post and returns the removed record. Tag links go with
// it via the cascading foreign key.
func (s *SQLite) Delete(ctx context.Context, id int64) (Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return Post{}, fmt.Errorf("delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Post{}, ErrNotFound
	}
	return p, nil
}

func tagsForTx(ctx context.Context, tx *sql.Tx, id int64) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT t.name FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ? ORDER BY pt.rowid`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func setTags(ctx context.Context, tx *sql.Tx, postID int64, tags []string) error {
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO tags (name) VALUES (?)`, tag); err != nil {
			return err
		}
		var tagID int64
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM tags WHERE name = ?`, tag).Scan(&tagID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO post_tags (post_id, tag_id) VALUES (?, ?)`, postID, tagID); err != nil {
			return err
		}
	}
	return nil
}
