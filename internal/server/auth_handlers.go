package server

import (
	"postfeed/internal/auth"
	"postfeed/internal/middleware"
	"postfeed/internal/models"
	"postfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LoginRequest accepts either an email or a username alongside the password.
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register. The body is multipart form
// data so the signup form can attach a profile picture in the same
// request.
func (s *Server) Register(c *fiber.Ctx) error {
	avatar, avatarName, err := readFormFile(c, "profilePic")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username:   c.FormValue("username"),
		Email:      c.FormValue("email"),
		Password:   c.FormValue("password"),
		Avatar:     avatar,
		AvatarName: avatarName,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	token, err := auth.IssueSession(auth.Identity{UserID: user.ID, Username: user.Username}, s.config.JWTSecret)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	auth.SetSessionCookie(c, token, s.config.IsProduction())

	middleware.Logger.InfoContext(c.UserContext(), "user registered",
		"user_id", user.ID, "username", user.Username)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

// Login handles POST /api/auth/login.
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Login(c.UserContext(), req.Email, req.Username, req.Password)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	token, err := auth.IssueSession(auth.Identity{UserID: user.ID, Username: user.Username}, s.config.JWTSecret)
	if err != nil {
		return models.RespondWithError(c, models.NewInternalError(err))
	}
	auth.SetSessionCookie(c, token, s.config.IsProduction())

	middleware.Logger.InfoContext(c.UserContext(), "user logged in", "user_id", user.ID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

// Logout handles POST /api/auth/logout. Logging out never fails; the
// cookie is cleared whether or not a valid session was presented.
func (s *Server) Logout(c *fiber.Ctx) error {
	auth.ClearSessionCookie(c, s.config.IsProduction())

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}
