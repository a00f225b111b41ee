package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "token"

// SetSessionCookie attaches the session token as an HTTP-only cookie.
// In production the cookie is Secure with SameSite=None so the SPA can
// send it cross-origin; elsewhere it is Lax over plain HTTP.
func SetSessionCookie(c *fiber.Ctx, token string, production bool) {
	sameSite := fiber.CookieSameSiteLaxMode
	if production {
		sameSite = fiber.CookieSameSiteNoneMode
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   production,
		SameSite: sameSite,
		MaxAge:   int(SessionTTL.Seconds()),
		Expires:  time.Now().Add(SessionTTL),
		Path:     "/",
	})
}

// ClearSessionCookie overwrites the session cookie with an immediately
// expired empty value. Always succeeds, even with no active session.
func ClearSessionCookie(c *fiber.Ctx, production bool) {
	sameSite := fiber.CookieSameSiteLaxMode
	if production {
		sameSite = fiber.CookieSameSiteNoneMode
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HTTPOnly: true,
		Secure:   production,
		SameSite: sameSite,
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		Path:     "/",
	})
}
