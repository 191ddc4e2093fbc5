// Package auth issues and verifies the admin session credential: a signed,
// time-limited JWT carried in an http-only cookie. There is no server-side
// session state; expiry is the only invalidation mechanism.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the session cookie carrying the signed credential.
const CookieName = "auth_token"

// ErrInvalidCredentials is returned by Login on any username or password
// mismatch. Callers must not distinguish which part failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned by Verify for missing, malformed, tampered,
// or expired credentials.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the decoded session credential payload.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Config holds the admin identity and signing material.
type Config struct {
	Username     string        // admin login name
	PasswordHash string        // bcrypt hash of the admin password
	Secret       string        // HS256 signing secret
	TTL          time.Duration // credential lifetime, default 24h
	CookieSecure bool          // set Secure on the session cookie
}

// Gate is the authentication gate. Verify is stateless and safe for
// unlimited concurrency.
type Gate struct {
	cfg Config
}

// NewGate builds a Gate, defaulting TTL to 24 hours.
func NewGate(cfg Config) *Gate {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &Gate{cfg: cfg}
}

// HashPassword produces a bcrypt hash suitable for Config.PasswordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login checks the credentials and issues a signed token on success. The
// username compare is constant-time and the password goes through bcrypt,
// so a mismatch reveals nothing about which field was wrong.
func (g *Gate) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.cfg.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(g.cfg.PasswordHash), []byte(password))
	if !userOK || passErr != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := Claims{
		Username: username,
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.cfg.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(g.cfg.Secret))
}

// Verify validates the signature and expiry of a credential and returns the
// decoded claims. It never panics and never returns partial claims.
func (g *Gate) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(g.cfg.Secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// TTL reports the configured credential lifetime.
func (g *Gate) TTL() time.Duration { return g.cfg.TTL }

// Cookie wraps a token in the session cookie: http-only, same-site strict,
// max-age matching the credential lifetime.
func (g *Gate) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(g.cfg.TTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   g.cfg.CookieSecure,
	}
}

// ClearCookie returns an expired session cookie that removes the credential
// from the browser.
func (g *Gate) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   g.cfg.CookieSecure,
	}
}
