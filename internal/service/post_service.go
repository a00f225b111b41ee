package service

import (
	"context"
	"strings"

	"postfeed/internal/cache"
	"postfeed/internal/models"
	"postfeed/internal/repository"
	"postfeed/internal/storage"
)

const (
	DefaultFeedLimit = 10
	maxFeedLimit     = 100
)

// PostService handles feed item creation, listing and deletion.
type PostService struct {
	posts repository.PostRepository
	store storage.Storage
}

// NewPostService returns a new PostService.
func NewPostService(posts repository.PostRepository, store storage.Storage) *PostService {
	return &PostService{posts: posts, store: store}
}

// CreatePostInput carries the create-post form fields.
type CreatePostInput struct {
	Caption   string
	Image     []byte
	ImageName string
	IsSecret  bool
}

// Create persists a new post owned by userID. At least one of caption
// or image must be present.
func (s *PostService) Create(ctx context.Context, userID uint, in CreatePostInput) (*models.Post, error) {
	caption := strings.TrimSpace(in.Caption)
	if caption == "" && len(in.Image) == 0 {
		return nil, models.NewValidationError("Caption or image is required")
	}

	post := &models.Post{
		Caption:  caption,
		UserID:   userID,
		IsSecret: in.IsSecret,
	}

	if len(in.Image) > 0 {
		uploaded, err := s.store.Upload(ctx, in.Image, in.ImageName)
		if err != nil {
			return nil, err
		}
		post.Image = uploaded.URL
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Feed returns one page of the feed, newest-first, with owners reduced
// to byline projections. Pages are served through the Redis read-through
// cache and invalidated on any post write.
func (s *PostService) Feed(ctx context.Context, page, limit int) ([]models.FeedPost, error) {
	page, limit = normalizePage(page, limit, DefaultFeedLimit)

	var feed []models.FeedPost
	err := cache.Aside(ctx, cache.FeedKey(page, limit), &feed, cache.ListTTL, func() error {
		posts, err := s.posts.ListFeed(ctx, limit, (page-1)*limit)
		if err != nil {
			return err
		}
		feed = make([]models.FeedPost, 0, len(posts))
		for _, p := range posts {
			feed = append(feed, p.Feed())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return feed, nil
}

// Delete removes a post. Only the owner may delete it.
func (s *PostService) Delete(ctx context.Context, userID, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("You don't have permission to delete this post")
	}
	return s.posts.Delete(ctx, postID)
}

// normalizePage clamps page and limit into sane bounds.
func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	return page, limit
}
