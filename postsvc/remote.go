package postsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"folio/auth"
	"folio/store"
)

// Remote serves post operations through the HTTP API. Mutations carry the
// admin session cookie set via SetToken.
type Remote struct {
	base   string
	client *http.Client
	log    *zap.Logger
	token  string
}

// NewRemote builds a client against baseURL (e.g. "https://example.com").
// log may be nil.
func NewRemote(baseURL string, log *zap.Logger) *Remote {
	if log == nil {
		log = zap.NewNop()
	}
	return &Remote{
		base:   strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// SetToken attaches the session credential sent with mutating requests.
func (r *Remote) SetToken(token string) { r.token = token }

func (r *Remote) do(ctx context.Context, method, path string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.base+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: r.token})
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, fmt.Errorf("api: %s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("api: decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// GetAllPosts fetches the post list; any failure degrades to an empty slice.
func (r *Remote) GetAllPosts(ctx context.Context, locale string) []store.Post {
	path := "/api/posts"
	if locale != "" {
		path += "?locale=" + url.QueryEscape(locale)
	}
	var posts []store.Post
	if _, err := r.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		r.log.Warn("remote list posts failed", zap.Error(err))
		return []store.Post{}
	}
	if posts == nil {
		posts = []store.Post{}
	}
	return posts
}

// GetPostByID fetches one post; 404 and transport errors both yield nil.
func (r *Remote) GetPostByID(ctx context.Context, id int64) *store.Post {
	var p store.Post
	status, err := r.do(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, &p)
	if err != nil {
		if status != http.StatusNotFound {
			r.log.Warn("remote get post failed", zap.Int64("id", id), zap.Error(err))
		}
		return nil
	}
	return &p
}

// GetPostBySlug fetches one post by slug; 404 and transport errors yield nil.
func (r *Remote) GetPostBySlug(ctx context.Context, slug, locale string) *store.Post {
	path := "/api/posts/slug/" + url.PathEscape(slug)
	if locale != "" {
		path += "?locale=" + url.QueryEscape(locale)
	}
	var p store.Post
	status, err := r.do(ctx, http.MethodGet, path, nil, &p)
	if err != nil {
		if status != http.StatusNotFound {
			r.log.Warn("remote get post by slug failed", zap.String("slug", slug), zap.Error(err))
		}
		return nil
	}
	return &p
}

// CreatePost posts the input to the API; failures propagate.
func (r *Remote) CreatePost(ctx context.Context, in store.CreateInput) (store.Post, error) {
	var p store.Post
	if _, err := r.do(ctx, http.MethodPost, "/api/posts", in, &p); err != nil {
		return store.Post{}, err
	}
	return p, nil
}

// UpdatePost sends a partial update; failures propagate.
func (r *Remote) UpdatePost(ctx context.Context, id int64, patch store.Patch) (store.Post, error) {
	var p store.Post
	if _, err := r.do(ctx, http.MethodPut, fmt.Sprintf("/api/posts/%d", id), patch, &p); err != nil {
		return store.Post{}, err
	}
	return p, nil
}

// DeletePost removes the post and returns the removed record; failures
// propagate.
func (r *Remote) DeletePost(ctx context.Context, id int64) (store.Post, error) {
	var p store.Post
	if _, err := r.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), nil, &p); err != nil {
		return store.Post{}, err
	}
	return p, nil
}
