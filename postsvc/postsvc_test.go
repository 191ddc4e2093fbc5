package postsvc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"folio/store"
)

// failingStore errors on every call.
type failingStore struct{}

var errBroken = errors.New("backend down")

func (failingStore) List(ctx context.Context, locale string) ([]store.Post, error) {
	return nil, errBroken
}
func (failingStore) Get(ctx context.Context, id int64) (store.Post, error) {
	return store.Post{}, errBroken
}
func (failingStore) GetBySlug(ctx context.Context, slug, locale string) (store.Post, error) {
	return store.Post{}, errBroken
}
func (failingStore) Create(ctx context.Context, in store.CreateInput) (store.Post, error) {
	return store.Post{}, errBroken
}
func (failingStore) Update(ctx context.Context, id int64, patch store.Patch) (store.Post, error) {
	return store.Post{}, errBroken
}
func (failingStore) Delete(ctx context.Context, id int64) (store.Post, error) {
	return store.Post{}, errBroken
}
func (failingStore) Close() error { return nil }

// fakeStore returns canned data and records mutation calls.
type fakeStore struct {
	failingStore
	posts   []store.Post
	created int
}

func (f *fakeStore) List(ctx context.Context, locale string) ([]store.Post, error) {
	return f.posts, nil
}

func (f *fakeStore) Get(ctx context.Context, id int64) (store.Post, error) {
	for _, p := range f.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return store.Post{}, store.ErrNotFound
}

func (f *fakeStore) Create(ctx context.Context, in store.CreateInput) (store.Post, error) {
	f.created++
	return store.Post{ID: int64(len(f.posts) + 1), Title: in.Title, Content: in.Content}, nil
}

func TestLocalReadsDegrade(t *testing.T) {
	l := NewLocal(failingStore{}, nil, nil)
	ctx := context.Background()

	posts := l.GetAllPosts(ctx, "")
	if posts == nil || len(posts) != 0 {
		t.Errorf("GetAllPosts = %v, want empty non-nil slice", posts)
	}
	if p := l.GetPostByID(ctx, 1); p != nil {
		t.Errorf("GetPostByID = %+v, want nil", p)
	}
	if p := l.GetPostBySlug(ctx, "x", ""); p != nil {
		t.Errorf("GetPostBySlug = %+v, want nil", p)
	}
}

func TestLocalWritesPropagate(t *testing.T) {
	l := NewLocal(failingStore{}, nil, nil)
	ctx := context.Background()

	if _, err := l.CreatePost(ctx, store.CreateInput{Title: "t", Content: "c"}); !errors.Is(err, errBroken) {
		t.Errorf("CreatePost error = %v, want errBroken", err)
	}
	title := "t"
	if _, err := l.UpdatePost(ctx, 1, store.Patch{Title: &title}); !errors.Is(err, errBroken) {
		t.Errorf("UpdatePost error = %v, want errBroken", err)
	}
	if _, err := l.DeletePost(ctx, 1); !errors.Is(err, errBroken) {
		t.Errorf("DeletePost error = %v, want errBroken", err)
	}
}

func TestLocalNotifiesOnSuccessfulWrite(t *testing.T) {
	fired := 0
	fs := &fakeStore{posts: []store.Post{{ID: 1, Title: "one"}}}
	l := NewLocal(fs, nil, func() { fired++ })
	ctx := context.Background()

	if _, err := l.CreatePost(ctx, store.CreateInput{Title: "t", Content: "c"}); err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if fired != 1 {
		t.Errorf("onChange fired %d times, want 1", fired)
	}

	// A failed write must not fire the hook.
	broken := NewLocal(failingStore{}, nil, func() { fired++ })
	broken.CreatePost(ctx, store.CreateInput{Title: "t", Content: "c"})
	if fired != 1 {
		t.Errorf("onChange fired %d times after failed write, want 1", fired)
	}
}

func TestRemoteGetAllPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts" {
			t.Errorf("path = %s, want /api/posts", r.URL.Path)
		}
		if got := r.URL.Query().Get("locale"); got != "fa" {
			t.Errorf("locale = %q, want fa", got)
		}
		json.NewEncoder(w).Encode([]store.Post{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}})
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, nil)
	posts := r.GetAllPosts(context.Background(), "fa")
	if len(posts) != 2 || posts[0].Title != "one" {
		t.Errorf("GetAllPosts = %+v", posts)
	}
}

func TestRemoteReadsDegrade(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Post not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, nil)
	ctx := context.Background()
	if p := r.GetPostByID(ctx, 42); p != nil {
		t.Errorf("GetPostByID = %+v, want nil", p)
	}
	if p := r.GetPostBySlug(ctx, "missing", ""); p != nil {
		t.Errorf("GetPostBySlug = %+v, want nil", p)
	}

	// Unreachable server degrades the same way.
	down := NewRemote("http://127.0.0.1:1", nil)
	if posts := down.GetAllPosts(ctx, ""); posts == nil || len(posts) != 0 {
		t.Errorf("GetAllPosts = %v, want empty non-nil slice", posts)
	}
}

func TestRemoteCreateSendsCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		cookie, err := r.Cookie("auth_token")
		if err != nil || cookie.Value != "tok123" {
			t.Errorf("cookie = %v, %v; want auth_token=tok123", cookie, err)
		}
		var in store.CreateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(store.Post{ID: 1, Title: in.Title, Slug: "hello"})
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, nil)
	r.SetToken("tok123")
	p, err := r.CreatePost(context.Background(), store.CreateInput{Title: "Hello", Content: "hi"})
	if err != nil {
		t.Fatalf("CreatePost failed: %v", err)
	}
	if p.ID != 1 || p.Slug != "hello" {
		t.Errorf("CreatePost = %+v", p)
	}
}

func TestRemoteWritesPropagate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, nil)
	ctx := context.Background()

	if _, err := r.CreatePost(ctx, store.CreateInput{Title: "t", Content: "c"}); err == nil {
		t.Error("CreatePost should propagate the API error")
	}
	if _, err := r.DeletePost(ctx, 1); err == nil {
		t.Error("DeletePost should propagate the API error")
	} else if !strings.Contains(err.Error(), "401") {
		t.Errorf("error %v should carry the status code", err)
	}
}
