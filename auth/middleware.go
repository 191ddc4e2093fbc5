package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// claimsKey is the echo context key under which verified claims are stored.
const claimsKey = "auth_claims"

// FromContext returns the verified claims set by RequireAdmin, or nil on an
// unauthenticated request.
func FromContext(c echo.Context) *Claims {
	claims, _ := c.Get(claimsKey).(*Claims)
	return claims
}

// Check verifies the session cookie on the current request without failing
// it. Returns nil when the cookie is absent or invalid.
func (g *Gate) Check(c echo.Context) *Claims {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return nil
	}
	claims, err := g.Verify(cookie.Value)
	if err != nil {
		return nil
	}
	return claims
}

// RequireAdmin guards mutating routes. A missing or invalid credential
// refuses the request with 401 before the handler runs; no store mutation
// can happen on an unauthenticated request.
func (g *Gate) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := g.Check(c)
		if claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		c.Set(claimsKey, claims)
		return next(c)
	}
}
