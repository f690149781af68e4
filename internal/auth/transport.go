package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/d0uglasfernandes/sistema-comanda-pc-v2/internal/domain"
)

const (
	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
)

// CookieOptions controls the attributes shared by both session cookies.
type CookieOptions struct {
	Path   string
	Domain string
	Secure bool
}

// SessionTransport carries tokens in HttpOnly cookies.
type SessionTransport struct {
	opts CookieOptions
}

// NewSessionTransport builds the transport.
func NewSessionTransport(opts CookieOptions) *SessionTransport {
	if opts.Path == "" {
		opts.Path = "/"
	}
	return &SessionTransport{opts: opts}
}

// Attach sets both cookies, each expiring with its token.
func (s *SessionTransport) Attach(c *fiber.Ctx, pair domain.TokenPair) {
	c.Cookie(s.cookie(AccessCookieName, pair.Access.Value, pair.Access.ExpiresAt))
	c.Cookie(s.cookie(RefreshCookieName, pair.Refresh.Value, pair.Refresh.ExpiresAt))
}

// SetAccess replaces the access cookie after a refresh.
func (s *SessionTransport) SetAccess(c *fiber.Ctx, token domain.Token) {
	c.Cookie(s.cookie(AccessCookieName, token.Value, token.ExpiresAt))
}

// Extract reads the access token cookie.
func (s *SessionTransport) Extract(c *fiber.Ctx) (string, bool) {
	raw := c.Cookies(AccessCookieName)
	return raw, raw != ""
}

// ExtractRefresh reads the refresh token cookie.
func (s *SessionTransport) ExtractRefresh(c *fiber.Ctx) (string, bool) {
	raw := c.Cookies(RefreshCookieName)
	return raw, raw != ""
}

// Clear expires both cookies immediately.
func (s *SessionTransport) Clear(c *fiber.Ctx) {
	expired := time.Unix(0, 0)
	c.Cookie(s.cookie(AccessCookieName, "", expired))
	c.Cookie(s.cookie(RefreshCookieName, "", expired))
}

func (s *SessionTransport) cookie(name, value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     s.opts.Path,
		Domain:   s.opts.Domain,
		Expires:  expires,
		Secure:   s.opts.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}
