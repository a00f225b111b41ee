package server

import (
	"errors"
	"strings"

	"postfeed/internal/middleware"
	"postfeed/internal/models"
	"postfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateMusicRequest is the JSON body for POST /api/music when the
// client has already uploaded the audio directly to the media provider
// using credentials from GET /api/music/imagekit-auth.
type CreateMusicRequest struct {
	Title           string `json:"title"`
	AudioURL        string `json:"audioUrl"`
	AudioFileID     string `json:"audioFileId"`
	ThumbnailURL    string `json:"thumbnailUrl"`
	ThumbnailFileID string `json:"thumbnailFileId"`
}

// GetUploadAuth handles GET /api/music/imagekit-auth. It returns
// short-lived signed parameters a client needs for a direct browser
// upload to the media provider.
func (s *Server) GetUploadAuth(c *fiber.Ctx) error {
	result := s.musicService.UploadAuth()
	if result.Signature == "" {
		return models.RespondWithError(c,
			models.NewStorageError(errors.New("storage provider not configured")))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   true,
		"token":     result.Token,
		"expire":    result.Expire,
		"signature": result.Signature,
		"publicKey": result.PublicKey,
	})
}

// CreateMusic handles POST /api/music. The body is either JSON with
// provider file locators, or multipart form data with the raw audio
// (and optional thumbnail) for a server-side relay upload.
func (s *Server) CreateMusic(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	var in service.CreateTrackInput
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		audio, audioName, ferr := readFormFile(c, "audio")
		if ferr != nil {
			return models.RespondWithError(c, ferr)
		}
		thumb, thumbName, ferr := readFormFile(c, "thumbnail")
		if ferr != nil {
			return models.RespondWithError(c, ferr)
		}
		in = service.CreateTrackInput{
			Title:         c.FormValue("title"),
			Audio:         audio,
			AudioName:     audioName,
			Thumbnail:     thumb,
			ThumbnailName: thumbName,
		}
	} else {
		var req CreateMusicRequest
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
		}
		in = service.CreateTrackInput{
			Title:           req.Title,
			AudioURL:        req.AudioURL,
			AudioFileID:     req.AudioFileID,
			ThumbnailURL:    req.ThumbnailURL,
			ThumbnailFileID: req.ThumbnailFileID,
		}
	}

	track, err := s.musicService.Create(c.UserContext(), identity.UserID, in)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "track created",
		"track_id", track.ID, "title", track.Title)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Music uploaded successfully",
		"music":   track,
	})
}

// GetMusics handles GET /api/music. The track catalog is public and
// paginated newest first.
func (s *Server) GetMusics(c *fiber.Ctx) error {
	page, limit := parsePagination(c)

	tracks, err := s.musicService.List(c.UserContext(), page, limit)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"musics":  tracks,
		"page":    page,
		"limit":   limit,
	})
}

// DeleteMusic handles DELETE /api/music/:musicId. Only the uploader may
// delete a track; the provider copy is removed best effort before the
// record goes away.
func (s *Server) DeleteMusic(c *fiber.Ctx) error {
	identity := middleware.CurrentIdentity(c)

	trackID, err := parseID(c, "musicId")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.musicService.Delete(c.UserContext(), identity.UserID, trackID); err != nil {
		return models.RespondWithError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "track deleted", "track_id", trackID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Music deleted successfully",
	})
}
