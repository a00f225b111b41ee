package service

import (
	"context"
	"strings"

	"postfeed/internal/cache"
	"postfeed/internal/models"
	"postfeed/internal/repository"
	"postfeed/internal/storage"
)

// MusicService handles track uploads, listing and deletion.
type MusicService struct {
	tracks repository.TrackRepository
	store  storage.Storage
}

// NewMusicService returns a new MusicService.
func NewMusicService(tracks repository.TrackRepository, store storage.Storage) *MusicService {
	return &MusicService{tracks: tracks, store: store}
}

// UploadAuthResult bundles delegated-upload credentials with the
// provider public key the client needs for a direct upload.
type UploadAuthResult struct {
	storage.AuthParams
	PublicKey string `json:"publicKey"`
}

// UploadAuth issues short-lived credentials for a client-direct upload
// that bypasses this backend for the binary transfer.
func (s *MusicService) UploadAuth() UploadAuthResult {
	return UploadAuthResult{
		AuthParams: s.store.AuthParams(),
		PublicKey:  s.store.PublicKey(),
	}
}

// CreateTrackInput carries track metadata. The audio may arrive either
// as a locator pair from a client-direct upload or as raw bytes to be
// relayed through this backend. The thumbnail follows the same pattern.
type CreateTrackInput struct {
	Title           string
	AudioURL        string
	AudioFileID     string
	Audio           []byte
	AudioName       string
	ThumbnailURL    string
	ThumbnailFileID string
	Thumbnail       []byte
	ThumbnailName   string
}

// Create persists a new track owned by artistID, relaying any raw
// binaries to the storage provider first.
func (s *MusicService) Create(ctx context.Context, artistID uint, in CreateTrackInput) (*models.Track, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}

	audioURL, audioFileID := in.AudioURL, in.AudioFileID
	if len(in.Audio) > 0 {
		uploaded, err := s.store.Upload(ctx, in.Audio, in.AudioName)
		if err != nil {
			return nil, err
		}
		audioURL, audioFileID = uploaded.URL, uploaded.FileID
	}
	if audioURL == "" || audioFileID == "" {
		return nil, models.NewValidationError("Audio file is required")
	}

	thumbURL, thumbFileID := in.ThumbnailURL, in.ThumbnailFileID
	if len(in.Thumbnail) > 0 {
		uploaded, err := s.store.Upload(ctx, in.Thumbnail, in.ThumbnailName)
		if err != nil {
			return nil, err
		}
		thumbURL, thumbFileID = uploaded.URL, uploaded.FileID
	}

	track := &models.Track{
		URI:             audioURL,
		Title:           title,
		AudioFileID:     audioFileID,
		Thumbnail:       thumbURL,
		ThumbnailFileID: thumbFileID,
		ArtistID:        artistID,
	}

	if err := s.tracks.Create(ctx, track); err != nil {
		return nil, err
	}
	return track, nil
}

// List returns one page of tracks, newest-first, with artists reduced
// to byline projections, served through the Redis read-through cache.
func (s *MusicService) List(ctx context.Context, page, limit int) ([]models.TrackListing, error) {
	page, limit = normalizePage(page, limit, DefaultFeedLimit)

	var listings []models.TrackListing
	err := cache.Aside(ctx, cache.MusicKey(page, limit), &listings, cache.ListTTL, func() error {
		tracks, err := s.tracks.List(ctx, limit, (page-1)*limit)
		if err != nil {
			return err
		}
		listings = make([]models.TrackListing, 0, len(tracks))
		for _, t := range tracks {
			listings = append(listings, t.Listing())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// Delete removes a track and its remote objects. Only the owning artist
// may delete it. Remote deletion is best-effort in the sense that an
// already-missing object counts as deleted; other provider failures
// abort before the record is removed.
func (s *MusicService) Delete(ctx context.Context, artistID, trackID uint) error {
	track, err := s.tracks.GetByID(ctx, trackID)
	if err != nil {
		return err
	}
	if track.ArtistID != artistID {
		return models.NewForbiddenError("You don't have permission to delete this track")
	}

	if track.AudioFileID != "" {
		if err := s.store.Delete(ctx, track.AudioFileID); err != nil {
			return err
		}
	}
	if track.ThumbnailFileID != "" {
		if err := s.store.Delete(ctx, track.ThumbnailFileID); err != nil {
			return err
		}
	}

	return s.tracks.Delete(ctx, trackID)
}
