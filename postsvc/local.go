package postsvc

import (
	"context"

	"go.uber.org/zap"

	"folio/store"
)

// Local serves post operations straight from the store. After every
// successful mutation it fires the onChange hook (page cache invalidation);
// the hook is best-effort and cannot fail the mutation.
type Local struct {
	store    store.Store
	log      *zap.Logger
	onChange func()
}

// NewLocal wraps s. onChange may be nil; log may be nil for silent operation.
func NewLocal(s store.Store, log *zap.Logger, onChange func()) *Local {
	if log == nil {
		log = zap.NewNop()
	}
	return &Local{store: s, log: log, onChange: onChange}
}

func (l *Local) notify() {
	if l.onChange != nil {
		l.onChange()
	}
}

// GetAllPosts lists posts newest first. Storage read errors degrade to an
// empty slice.
func (l *Local) GetAllPosts(ctx context.Context, locale string) []store.Post {
	posts, err := l.store.List(ctx, locale)
	if err != nil {
		l.log.Warn("list posts failed", zap.String("locale", locale), zap.Error(err))
		return []store.Post{}
	}
	if posts == nil {
		posts = []store.Post{}
	}
	return posts
}

// GetPostByID returns the post or nil when absent or unreadable.
func (l *Local) GetPostByID(ctx context.Context, id int64) *store.Post {
	p, err := l.store.Get(ctx, id)
	if err != nil {
		if err != store.ErrNotFound {
			l.log.Warn("get post failed", zap.Int64("id", id), zap.Error(err))
		}
		return nil
	}
	return &p
}

// GetPostBySlug returns the post or nil when absent or unreadable.
func (l *Local) GetPostBySlug(ctx context.Context, slug, locale string) *store.Post {
	p, err := l.store.GetBySlug(ctx, slug, locale)
	if err != nil {
		if err != store.ErrNotFound {
			l.log.Warn("get post by slug failed", zap.String("slug", slug), zap.Error(err))
		}
		return nil
	}
	return &p
}

// CreatePost persists a new post and fires cache invalidation.
func (l *Local) CreatePost(ctx context.Context, in store.CreateInput) (store.Post, error) {
	p, err := l.store.Create(ctx, in)
	if err != nil {
		return store.Post{}, err
	}
	l.notify()
	return p, nil
}

// UpdatePost merges the patch and fires cache invalidation.
func (l *Local) UpdatePost(ctx context.Context, id int64, patch store.Patch) (store.Post, error) {
	p, err := l.store.Update(ctx, id, patch)
	if err != nil {
		return store.Post{}, err
	}
	l.notify()
	return p, nil
}

// DeletePost removes the post, fires cache invalidation, and returns the
// removed record.
func (l *Local) DeletePost(ctx context.Context, id int64) (store.Post, error) {
	p, err := l.store.Delete(ctx, id)
	if err != nil {
		return store.Post{}, err
	}
	l.notify()
	return p, nil
}
