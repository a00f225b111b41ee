package server

import (
	"postfeed/internal/middleware"
	"postfeed/internal/models"
	"postfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts/create. The body is multipart form
// data with an optional image and caption; at least one must be present.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	image, imageName, err := readFormFile(c, "image")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, err := s.postService.Create(c.UserContext(), identity.UserID, service.CreatePostInput{
		Caption:   c.FormValue("caption"),
		Image:     image,
		ImageName: imageName,
		IsSecret:  c.FormValue("isSecret") == "true",
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post created",
		"post_id", post.ID, "has_image", post.Image != "")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Post created successfully",
		"post":    post,
	})
}

// GetFeed handles GET /api/posts/feed. The feed is public and paginated
// newest first.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page, limit := parsePagination(c)

	posts, err := s.postService.Feed(c.UserContext(), page, limit)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"posts":   posts,
		"page":    page,
		"limit":   limit,
	})
}

// DeletePost handles DELETE /api/posts/:postId. Only the author may
// delete their post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	postID, err := parseID(c, "postId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.postService.Delete(c.UserContext(), identity.UserID, postID); err != nil {
		return models.RespondWithError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post deleted", "post_id", postID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Post deleted successfully",
	})
}
