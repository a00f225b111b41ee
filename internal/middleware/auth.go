package middleware

import (
	"context"

	"postfeed/internal/auth"
	"postfeed/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired returns middleware enforcing a valid session cookie.
// On success the resolved identity is stored in Locals ("userID",
// "username") and mirrored into the user context for logging.
// This is the sole gate for all mutating and personal endpoints.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(auth.SessionCookieName)
		if token == "" {
			return models.RespondWithError(c,
				models.NewUnauthorizedError("You are not logged in. Please log in and try again."))
		}

		identity, err := auth.ValidateSession(token, secret)
		if err != nil {
			return models.RespondWithError(c,
				models.NewSessionExpiredError("Your session has expired. Please log in again."))
		}

		c.Locals("userID", identity.UserID)
		c.Locals("username", identity.Username)
		ctx := context.WithValue(c.UserContext(), UserIDKey, identity.UserID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// CurrentIdentity reads the identity attached by AuthRequired.
func CurrentIdentity(c *fiber.Ctx) auth.Identity {
	identity := auth.Identity{}
	if uid, ok := c.Locals("userID").(uint); ok {
		identity.UserID = uid
	}
	if name, ok := c.Locals("username").(string); ok {
		identity.Username = name
	}
	return identity
}
