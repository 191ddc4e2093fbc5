// Package postsvc is the dispatch layer for post operations. Callers with
// direct storage access use Local; callers outside the server process use
// Remote, which speaks to the HTTP API. The implementation is chosen once at
// construction, never per call.
//
// Reads degrade gracefully: any failure yields an empty list or nil so
// display pages never hard-crash on bad or missing data. Writes always
// surface their error because the caller must know whether the mutation
// happened.
package postsvc

import (
	"context"

	"folio/store"
)

// PostService is the facade contract shared by Local and Remote.
type PostService interface {
	GetAllPosts(ctx context.Context, locale string) []store.Post
	GetPostByID(ctx context.Context, id int64) *store.Post
	GetPostBySlug(ctx context.Context, slug, locale string) *store.Post
	CreatePost(ctx context.Context, in store.CreateInput) (store.Post, error)
	UpdatePost(ctx context.Context, id int64, patch store.Patch) (store.Post, error)
	DeletePost(ctx context.Context, id int64) (store.Post, error)
}
