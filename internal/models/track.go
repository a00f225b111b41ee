package models

import (
	"time"
)

// Track represents an uploaded music track. URI and AudioFileID come
// back from the storage provider; AudioFileID is required to delete the
// remote object later.
type Track struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	URI             string    `gorm:"not null" json:"uri"`
	Title           string    `gorm:"not null" json:"title"`
	Thumbnail       string    `json:"thumbnail,omitempty"`
	AudioFileID     string    `gorm:"not null" json:"audioFileId"`
	ThumbnailFileID string    `json:"thumbnailFileId,omitempty"`
	ArtistID        uint      `gorm:"not null;index" json:"artistId"`
	Artist          User      `gorm:"foreignKey:ArtistID" json:"-"`
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`
}

// TrackListing is the API shape of a track in the music list, with the
// artist reduced to a byline projection.
type TrackListing struct {
	ID        uint       `json:"id"`
	URI       string     `json:"uri"`
	Title     string     `json:"title"`
	Thumbnail string     `json:"thumbnail,omitempty"`
	Artist    PublicUser `json:"artist"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Listing returns the API projection of the track.
func (t *Track) Listing() TrackListing {
	return TrackListing{
		ID:        t.ID,
		URI:       t.URI,
		Title:     t.Title,
		Thumbnail: t.Thumbnail,
		Artist:    t.Artist.Public(),
		CreatedAt: t.CreatedAt,
	}
}
