package folio

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"folio/store"
)

// writeError maps a store error onto the API error taxonomy.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Post not found"})
	case errors.Is(err, store.ErrInvalid):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		return err
	}
}

func postID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid post id")
	}
	return id, nil
}

// handleListPosts returns all posts, newest first, optionally filtered by
// locale. Read failures degrade to an empty list inside the facade.
func (a *App) handleListPosts(c echo.Context) error {
	posts := a.Posts.GetAllPosts(c.Request().Context(), a.locale(c))
	return c.JSON(http.StatusOK, posts)
}

func (a *App) handleGetPost(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}
	post := a.Posts.GetPostByID(c.Request().Context(), id)
	if post == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Post not found"})
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleGetPostBySlug(c echo.Context) error {
	post := a.Posts.GetPostBySlug(c.Request().Context(), c.Param("slug"), a.locale(c))
	if post == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Post not found"})
	}
	return c.JSON(http.StatusOK, post)
}

// handleCreatePost creates a post from a JSON body. Requires a valid admin
// credential; the guard middleware runs before this handler.
func (a *App) handleCreatePost(c echo.Context) error {
	var in store.CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	post, err := a.Posts.CreatePost(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

func (a *App) handleUpdatePost(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}
	var patch store.Patch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	post, err := a.Posts.UpdatePost(c.Request().Context(), id, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

// handleDeletePost removes a post and returns the removed record.
func (a *App) handleDeletePost(c echo.Context) error {
	id, err := postID(c)
	if err != nil {
		return err
	}
	post, err := a.Posts.DeletePost(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, post)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userInfo struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// handleLogin checks credentials and sets the session cookie. The response
// never says which part of the credential was wrong.
func (a *App) handleLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many login attempts"})
	}
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	token, err := a.Gate.Login(req.Username, req.Password)
	if err != nil {
		a.loginLimiter.Record(c.RealIP())
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}
	c.SetCookie(a.Gate.Cookie(token))
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"user":    userInfo{Username: req.Username, Role: "admin"},
	})
}

func (a *App) handleLogout(c echo.Context) error {
	c.SetCookie(a.Gate.ClearCookie())
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// handleVerify reports whether the request carries a valid credential.
func (a *App) handleVerify(c echo.Context) error {
	claims := a.Gate.Check(c)
	if claims == nil {
		return c.JSON(http.StatusOK, map[string]any{"authenticated": false})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          userInfo{Username: claims.Username, Role: claims.Role},
	})
}
