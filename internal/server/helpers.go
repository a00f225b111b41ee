package server

import (
	"io"
	"strconv"

	"postfeed/internal/models"
	"postfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parsePagination extracts page/limit query params with sane bounds.
func parsePagination(c *fiber.Ctx) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit", strconv.Itoa(service.DefaultFeedLimit)))
	if err != nil || limit < 1 {
		limit = service.DefaultFeedLimit
	}
	return page, limit
}

// parseID parses a positive numeric route parameter.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + param)
	}
	return uint(id), nil
}

// readFormFile reads an optional multipart file field fully into memory.
// A missing field is not an error; (nil, "", nil) is returned.
func readFormFile(c *fiber.Ctx, field string) ([]byte, string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", nil
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, "", models.NewValidationError("Could not read uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", models.NewValidationError("Could not read uploaded file")
	}
	return data, fileHeader.Filename, nil
}
