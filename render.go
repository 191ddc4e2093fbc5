package folio

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"folio/content"
	"folio/store"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// renderPostBody turns a post body into a component. Editor documents
// (JSON objects with a blocks array) go through the editor renderer; block
// arrays and raw markup go through classification. Any malformed body falls
// back to a placeholder inside the renderers, never an error here.
func (a *App) renderPostBody(p store.Post) templ.Component {
	opts := content.Options{Locale: p.Locale, Logger: a.Log}
	if strings.HasPrefix(strings.TrimSpace(p.Content), "{") {
		return content.RenderEditor(content.ParseEditor(p.Content), opts)
	}
	return content.Render(content.Classify(p.Content), opts)
}
