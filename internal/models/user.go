package models

import (
	"time"
)

// DefaultProfilePic is assigned at registration when no avatar is
// uploaded.
const DefaultProfilePic = "https://ik.imagekit.io/demo/default-avatar.png"

// User is an account. Password holds the bcrypt hash and never
// serializes. Email is stored lowercased.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"unique;not null" json:"username"`
	Email      string    `gorm:"unique;not null" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	ProfilePic string    `json:"profilePic,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// PublicUser is the byline projection of a user exposed on public
// surfaces. It carries no email.
type PublicUser struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	ProfilePic string    `json:"profilePic,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Public returns the byline projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Username:   u.Username,
		ProfilePic: u.ProfilePic,
		Bio:        u.Bio,
		CreatedAt:  u.CreatedAt,
	}
}
