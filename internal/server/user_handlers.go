package server

import (
	"postfeed/internal/auth"
	"postfeed/internal/middleware"
	"postfeed/internal/models"
	"postfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/users/profile for the authenticated user.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	user, err := s.userService.GetByID(c.UserContext(), identity.UserID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

// GetUserByID handles GET /api/users/:id. The lookup is public but only
// exposes the byline projection, never email or other private fields.
func (s *Server) GetUserByID(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	user, err := s.userService.GetByID(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user":    user.Public(),
	})
}

// UpdateProfile handles PUT /api/users/profile. The body is multipart
// form data; only the fields present are changed. An absent bio field
// is distinguished from an explicitly empty one so a bio can be
// cleared.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	avatar, avatarName, err := readFormFile(c, "profilePic")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	in := service.UpdateProfileInput{
		Username:   c.FormValue("username"),
		Avatar:     avatar,
		AvatarName: avatarName,
	}
	if form, ferr := c.MultipartForm(); ferr == nil && form != nil {
		if values, ok := form.Value["bio"]; ok && len(values) > 0 {
			bio := values[0]
			in.Bio = &bio
		}
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), identity.UserID, in)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "profile updated", "user_id", user.ID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// DeleteAccount handles DELETE /api/users/profile. The user's posts are
// removed before the account itself, then the session cookie is
// cleared.
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	if err := s.userService.DeleteAccount(c.UserContext(), identity.UserID); err != nil {
		return models.RespondWithError(c, err)
	}

	auth.ClearSessionCookie(c, s.config.IsProduction())

	middleware.Logger.InfoContext(c.UserContext(), "account deleted", "user_id", identity.UserID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Account deleted successfully",
	})
}
