package models

import (
	"time"
)

// Post represents a feed item. At least one of Image or Caption is
// present; that invariant is enforced by the post service at creation.
// IsSecret is a display hint for clients, not an access-control flag:
// the feed returns secret posts with their owner attached.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Image     string    `json:"image,omitempty"`
	Caption   string    `gorm:"type:text" json:"caption,omitempty"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	IsSecret  bool      `gorm:"default:false" json:"isSecret"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FeedPost is the API shape of a post in the feed, with the owner
// reduced to a byline projection.
type FeedPost struct {
	ID        uint       `json:"id"`
	Image     string     `json:"image,omitempty"`
	Caption   string     `json:"caption,omitempty"`
	IsSecret  bool       `json:"isSecret"`
	User      PublicUser `json:"user"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Feed returns the API projection of the post.
func (p *Post) Feed() FeedPost {
	return FeedPost{
		ID:        p.ID,
		Image:     p.Image,
		Caption:   p.Caption,
		IsSecret:  p.IsSecret,
		User:      p.User.Public(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
