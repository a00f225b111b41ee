package repository

import (
	"context"
	"errors"

	"postfeed/internal/cache"
	"postfeed/internal/models"

	"gorm.io/gorm"
)

// TrackRepository defines persistence operations for music tracks.
type TrackRepository interface {
	Create(ctx context.Context, track *models.Track) error
	GetByID(ctx context.Context, id uint) (*models.Track, error)
	List(ctx context.Context, limit, offset int) ([]*models.Track, error)
	Delete(ctx context.Context, id uint) error
}

type trackRepository struct {
	db *gorm.DB
}

// NewTrackRepository returns a new TrackRepository implementation.
func NewTrackRepository(db *gorm.DB) TrackRepository {
	return &trackRepository{db: db}
}

func (r *trackRepository) Create(ctx context.Context, track *models.Track) error {
	if err := r.db.WithContext(ctx).Create(track).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateMusic(ctx)
	return nil
}

func (r *trackRepository) GetByID(ctx context.Context, id uint) (*models.Track, error) {
	var track models.Track
	if err := r.db.WithContext(ctx).First(&track, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Music")
		}
		return nil, models.NewInternalError(err)
	}
	return &track, nil
}

// List returns tracks newest-first with the artist preloaded.
func (r *trackRepository) List(ctx context.Context, limit, offset int) ([]*models.Track, error) {
	var tracks []*models.Track
	if err := r.db.WithContext(ctx).
		Preload("Artist").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&tracks).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tracks, nil
}

func (r *trackRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Track{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateMusic(ctx)
	return nil
}
