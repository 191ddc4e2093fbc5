// Package folio is a personal portfolio and blog engine built with Go, Echo,
// and templ. It serves a public site (home, blog) plus a JSON API and a
// password-protected admin area for managing posts. Post bodies are stored
// as raw HTML or structured block documents and rendered server-side by the
// content package.
package folio

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"folio/auth"
	"folio/logger"
	"folio/postsvc"
	"folio/store"
	"folio/views"
)

// App wires together the store, cache, auth gate, service facade, handlers,
// and middleware. It owns the storage handle; lifecycle is tied to
// New/Start/Close, not package state.
type App struct {
	Config *Config
	Echo   *echo.Echo
	Log    *zap.Logger
	Store  store.Store
	Cache  *PostCache
	Gate   *auth.Gate
	Posts  *postsvc.Local

	loginLimiter *LoginLimiter
}

// New builds a fully wired App from cfg. The storage backend is chosen here,
// once, from cfg.Storage.Driver.
func New(cfg *Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.New(cfg.Server.Mode, cfg.Log.ToLoggerOptions())

	st, err := store.Open(cfg.Storage.Driver, cfg.Storage.Path, store.Options{
		Locales:       cfg.Site.Locales,
		DefaultLocale: cfg.Site.DefaultLocale,
		DefaultAuthor: cfg.Site.Author,
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Log:    log,
		Store:  st,
		Gate: auth.NewGate(auth.Config{
			Username:     cfg.Auth.Username,
			PasswordHash: cfg.Auth.PasswordHash,
			Secret:       cfg.Auth.Secret,
			TTL:          time.Duration(cfg.Auth.TTLHours) * time.Hour,
			CookieSecure: cfg.Auth.CookieSecure,
		}),
		loginLimiter: NewLoginLimiter(5, time.Minute),
	}
	a.Cache = NewPostCache(st, cfg.Cache.TTL)
	// Mutations invalidate the page cache; the hook is best-effort by
	// construction and cannot fail a write.
	a.Posts = postsvc.NewLocal(st, log, a.Cache.Invalidate)

	a.Echo.HideBanner = true
	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

// Start runs the HTTP server until it is shut down.
func (a *App) Start() error {
	a.Log.Info("starting server",
		zap.String("addr", a.Config.Server.Addr),
		zap.String("storage", a.Config.Storage.Driver))
	if err := a.Echo.Start(a.Config.Server.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases the storage handle and flushes the logger.
func (a *App) Close() error {
	err := a.Store.Close()
	_ = a.Log.Sync()
	return err
}

func (a *App) site() views.Site {
	return views.Site{
		Name:        a.Config.Site.Name,
		URL:         a.Config.Site.URL,
		Description: a.Config.Site.Description,
		Author:      a.Config.Site.Author,
	}
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", "public")
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public pages
	e.GET("/", a.handleHome)
	e.GET("/blog", a.handleBlogIndex)
	e.GET("/blog/:slug/", a.handleBlogPost)

	// JSON API
	api := e.Group("/api")
	api.GET("/posts", a.handleListPosts)
	api.GET("/posts/:id", a.handleGetPost)
	api.GET("/posts/slug/:slug", a.handleGetPostBySlug)
	api.POST("/posts", a.handleCreatePost, a.Gate.RequireAdmin)
	api.PUT("/posts/:id", a.handleUpdatePost, a.Gate.RequireAdmin)
	api.DELETE("/posts/:id", a.handleDeletePost, a.Gate.RequireAdmin)
	api.POST("/auth/login", a.handleLogin)
	api.POST("/auth/logout", a.handleLogout)
	api.GET("/auth/verify", a.handleVerify)

	// Admin pages: form-driven dashboard sharing the same gate as the API.
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", a.handleAdminLogout)
	e.GET("/admin/new/", a.handleAdminNew)
	e.GET("/admin/post/:id/", a.handleAdminEdit)
	e.POST("/admin/save/", a.handleAdminSave)
	e.POST("/admin/delete/:id/", a.handleAdminDelete)
	e.POST("/admin/images/upload/", a.handleImageUpload, a.Gate.RequireAdmin)
}

// locale returns the validated locale query parameter, or empty for "all".
func (a *App) locale(c echo.Context) string {
	locale := strings.TrimSpace(c.QueryParam("locale"))
	if locale == "" {
		return ""
	}
	for _, l := range a.Config.Site.Locales {
		if l == locale {
			return locale
		}
	}
	return ""
}
