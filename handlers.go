package folio

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"folio/store"
	"folio/views"
)

// handleHome serves the landing page with the latest posts. A storage read
// failure degrades to an empty listing, never an error page.
func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.List(c.Request().Context(), a.locale(c))
	if err != nil {
		a.Log.Warn("home: list posts failed", zap.Error(err))
		posts = nil
	}
	return Render(c, views.Home(a.site(), posts))
}

// handleBlogIndex serves the blog listing, optionally locale-filtered.
func (a *App) handleBlogIndex(c echo.Context) error {
	locale := a.locale(c)
	posts, err := a.Cache.List(c.Request().Context(), locale)
	if err != nil {
		a.Log.Warn("blog: list posts failed", zap.Error(err))
		posts = nil
	}
	return Render(c, views.BlogIndex(a.site(), posts, locale))
}

// handleBlogPost serves a single post page, rendering its body via the
// content package.
func (a *App) handleBlogPost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Cache.GetBySlug(c.Request().Context(), slug, a.locale(c))
	if err != nil {
		if err == store.ErrNotFound {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		}
		return err
	}
	return Render(c, views.BlogPost(a.site(), post, a.renderPostBody(post)))
}

// handleRobots generates robots.txt dynamically from the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\n\nSitemap: %s/sitemap.xml\n", a.Config.Site.URL)
	return c.String(http.StatusOK, body)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.List(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.List(c.Request().Context(), "")
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}
