package folio

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"folio/store"
	"folio/views"
)

const flashSession = "folio_flash"

// addFlash queues a one-shot message for the next dashboard render. Failures
// only cost the banner, so they are logged and swallowed.
func (a *App) addFlash(c echo.Context, key, msg string) {
	sess, err := session.Get(flashSession, c)
	if err != nil {
		a.Log.Warn("flash session unavailable", zap.Error(err))
		return
	}
	sess.Values[key] = msg
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		a.Log.Warn("failed to save flash session", zap.Error(err))
	}
}

// popFlashes drains the queued ok/error messages.
func (a *App) popFlashes(c echo.Context) (flash, errMsg string) {
	sess, err := session.Get(flashSession, c)
	if err != nil {
		return "", ""
	}
	if v, ok := sess.Values["ok"].(string); ok {
		flash = v
	}
	if v, ok := sess.Values["error"].(string); ok {
		errMsg = v
	}
	if flash != "" || errMsg != "" {
		delete(sess.Values, "ok")
		delete(sess.Values, "error")
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			a.Log.Warn("failed to clear flash session", zap.Error(err))
		}
	}
	return flash, errMsg
}

func (a *App) handleAdmin(c echo.Context) error {
	if a.Gate.Check(c) == nil {
		return Render(c, views.AdminLogin(a.site(), false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c)
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	token, err := a.Gate.Login(username, password)
	if err != nil {
		a.loginLimiter.Record(c.RealIP())
		return Render(c, views.AdminLogin(a.site(), true, CsrfToken(c)))
	}
	c.SetCookie(a.Gate.Cookie(token))
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminLogout(c echo.Context) error {
	c.SetCookie(a.Gate.ClearCookie())
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminNew(c echo.Context) error {
	if a.Gate.Check(c) == nil {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	return Render(c, views.AdminForm(a.site(), store.Post{Locale: a.Config.Site.DefaultLocale}, CsrfToken(c)))
}

func (a *App) handleAdminEdit(c echo.Context) error {
	if a.Gate.Check(c) == nil {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := postID(c)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	post, err := a.Store.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return Render(c, views.AdminForm(a.site(), post, CsrfToken(c)))
}

func (a *App) handleAdminSave(c echo.Context) error {
	if a.Gate.Check(c) == nil {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	title := strings.TrimSpace(c.FormValue("title"))
	content := c.FormValue("content")
	slug := strings.TrimSpace(c.FormValue("slug"))
	locale := strings.TrimSpace(c.FormValue("locale"))
	ogDescription := strings.TrimSpace(c.FormValue("og_description"))
	image := strings.TrimSpace(c.FormValue("image"))
	tags := splitTags(c.FormValue("tags"))
	ctx := c.Request().Context()

	if idParam := c.QueryParam("id"); idParam != "" {
		id, err := strconv.ParseInt(idParam, 10, 64)
		if err != nil {
			a.addFlash(c, "error", "Unknown post.")
			return c.Redirect(http.StatusSeeOther, "/admin/")
		}
		_, err = a.Posts.UpdatePost(ctx, id, store.Patch{
			Title:         &title,
			Content:       &content,
			Slug:          &slug,
			Locale:        &locale,
			OGDescription: &ogDescription,
			Image:         &image,
			Tags:          tags,
		})
		if err != nil {
			a.addFlash(c, "error", saveErrorMessage(err))
			return c.Redirect(http.StatusSeeOther, "/admin/")
		}
		a.addFlash(c, "ok", "Post updated.")
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	_, err := a.Posts.CreatePost(ctx, store.CreateInput{
		Title:         title,
		Content:       content,
		Slug:          slug,
		Locale:        locale,
		OGDescription: ogDescription,
		Image:         image,
		Tags:          tags,
	})
	if err != nil {
		a.addFlash(c, "error", saveErrorMessage(err))
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.addFlash(c, "ok", "Post created.")
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if a.Gate.Check(c) == nil {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := postID(c)
	if err != nil {
		a.addFlash(c, "error", "Unknown post.")
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if _, err := a.Posts.DeletePost(c.Request().Context(), id); err != nil {
		a.addFlash(c, "error", saveErrorMessage(err))
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.addFlash(c, "ok", "Post deleted.")
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) renderAdminDashboard(c echo.Context) error {
	posts, err := a.Store.List(c.Request().Context(), "")
	if err != nil {
		return err
	}
	flash, errMsg := a.popFlashes(c)
	return Render(c, views.AdminDashboard(a.site(), posts, flash, errMsg, CsrfToken(c)))
}

func saveErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrInvalid):
		return "Title and content are required."
	case errors.Is(err, store.ErrNotFound):
		return "Post not found."
	default:
		return "Something went wrong. Check the logs."
	}
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
