package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

func testGate(t *testing.T, ttl time.Duration) *Gate {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	return NewGate(Config{
		Username:     "admin",
		PasswordHash: string(hash),
		Secret:       "test-secret",
		TTL:          ttl,
	})
}

func TestLoginAndVerify(t *testing.T) {
	g := testGate(t, time.Hour)

	token, err := g.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	claims, err := g.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Username != "admin" {
		t.Errorf("Username = %q, want %q", claims.Username, "admin")
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want %q", claims.Role, "admin")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	g := testGate(t, time.Hour)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "wrong"},
		{"wrong username", "root", "hunter2"},
		{"both wrong", "root", "wrong"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Login(tt.username, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Login error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	g := testGate(t, time.Hour)
	token, err := g.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"tampered", token + "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := g.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify error = %v, want ErrInvalidToken", err)
			}
		})
	}

	other := testGate(t, time.Hour)
	other.cfg.Secret = "different-secret"
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify with wrong secret error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	g := testGate(t, -time.Minute)
	token, err := g.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := g.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify error = %v, want ErrInvalidToken", err)
	}
}

func TestCookieAttributes(t *testing.T) {
	g := testGate(t, 2*time.Hour)

	cookie := g.Cookie("tok")
	if cookie.Name != CookieName || cookie.Value != "tok" {
		t.Errorf("cookie = %q=%q, want %q=%q", cookie.Name, cookie.Value, CookieName, "tok")
	}
	if !cookie.HttpOnly {
		t.Error("cookie must be http-only")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite = %v, want strict", cookie.SameSite)
	}
	if cookie.MaxAge != 7200 {
		t.Errorf("MaxAge = %d, want 7200", cookie.MaxAge)
	}

	cleared := g.ClearCookie()
	if cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Errorf("ClearCookie = %+v, want expired empty cookie", cleared)
	}
}

func TestRequireAdmin(t *testing.T) {
	g := testGate(t, time.Hour)
	e := echo.New()
	handler := g.RequireAdmin(func(c echo.Context) error {
		claims := FromContext(c)
		if claims == nil {
			t.Error("expected claims in context")
		}
		return c.NoContent(http.StatusOK)
	})

	// No cookie.
	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	rec := httptest.NewRecorder()
	err := handler(e.NewContext(req, rec))
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}

	// Valid cookie.
	token, err := g.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	req.AddCookie(g.Cookie(token))
	rec = httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("authenticated request failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
