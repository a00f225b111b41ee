// Package seed populates a development database with demo data.
package seed

import (
	"fmt"
	"log"

	"postfeed/internal/auth"
	"postfeed/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/gorm"
)

const demoPassword = "password123"

// Run inserts demo users, posts and tracks. It is idempotent enough for
// development: if any user already exists nothing is inserted.
func Run(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		log.Println("Database already seeded, skipping")
		return nil
	}

	gofakeit.Seed(0)

	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return fmt.Errorf("hashing demo password: %w", err)
	}

	users := make([]models.User, 0, 8)
	for i := 0; i < 8; i++ {
		users = append(users, models.User{
			Username:   gofakeit.Username(),
			Email:      gofakeit.Email(),
			Password:   hash,
			ProfilePic: fmt.Sprintf("https://i.pravatar.cc/150?img=%d", i+1),
			Bio:        gofakeit.Sentence(8),
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}

	posts := make([]models.Post, 0, 24)
	for i := 0; i < 24; i++ {
		owner := users[gofakeit.Number(0, len(users)-1)]
		post := models.Post{
			Caption:  gofakeit.Sentence(gofakeit.Number(3, 12)),
			UserID:   owner.ID,
			IsSecret: gofakeit.Number(0, 9) == 0,
		}
		if gofakeit.Bool() {
			post.Image = fmt.Sprintf("https://picsum.photos/seed/%d/800/600", i)
		}
		posts = append(posts, post)
	}
	if err := db.Create(&posts).Error; err != nil {
		return fmt.Errorf("seeding posts: %w", err)
	}

	tracks := make([]models.Track, 0, 6)
	for i := 0; i < 6; i++ {
		owner := users[gofakeit.Number(0, len(users)-1)]
		tracks = append(tracks, models.Track{
			Title:       gofakeit.SongName(),
			URI:         fmt.Sprintf("https://ik.imagekit.io/demo/audio/track-%d.mp3", i),
			AudioFileID: gofakeit.UUID(),
			Thumbnail:   fmt.Sprintf("https://picsum.photos/seed/cover-%d/300/300", i),
			ArtistID:    owner.ID,
		})
	}
	if err := db.Create(&tracks).Error; err != nil {
		return fmt.Errorf("seeding tracks: %w", err)
	}

	log.Printf("Seeded %d users, %d posts, %d tracks (password %q)",
		len(users), len(posts), len(tracks), demoPassword)
	return nil
}
