// Package service contains the business logic for the application.
package service

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"postfeed/internal/auth"
	"postfeed/internal/models"
	"postfeed/internal/repository"
	"postfeed/internal/storage"
)

const (
	minPasswordLength = 6
	maxBioLength      = 160
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// UserService handles account registration, authentication and profile management.
type UserService struct {
	users         repository.UserRepository
	posts         repository.PostRepository
	store         storage.Storage
	defaultAvatar string
}

// NewUserService returns a new UserService.
func NewUserService(users repository.UserRepository, posts repository.PostRepository, store storage.Storage, defaultAvatar string) *UserService {
	if defaultAvatar == "" {
		defaultAvatar = models.DefaultProfilePic
	}
	return &UserService{users: users, posts: posts, store: store, defaultAvatar: defaultAvatar}
}

// RegisterInput carries the registration form fields. Avatar bytes are
// optional; when present they are relayed to the storage provider.
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	Avatar     []byte
	AvatarName string
}

// Register creates a new account. Email is stored lowercase; the
// password is stored only as a bcrypt hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" || email == "" || in.Password == "" {
		return nil, models.NewValidationError("All fields are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, models.NewValidationError("Password must be at least 6 characters long")
	}
	if !emailPattern.MatchString(email) {
		return nil, models.NewValidationError("Please use a valid email address")
	}

	if existing, err := s.users.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("User with this email or username already exists", "email")
	}
	if existing, err := s.users.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("User with this email or username already exists", "username")
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:   username,
		Email:      email,
		Password:   hashed,
		ProfilePic: s.defaultAvatar,
	}

	if len(in.Avatar) > 0 {
		uploaded, err := s.store.Upload(ctx, in.Avatar, in.AvatarName)
		if err != nil {
			return nil, err
		}
		user.ProfilePic = uploaded.URL
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by email or username. "User not found" and
// "Invalid credentials" are deliberately distinguishable responses.
func (s *UserService) Login(ctx context.Context, email, username, password string) (*models.User, error) {
	if (email == "" && username == "") || password == "" {
		return nil, models.NewValidationError("Email/Username and password are required")
	}

	var user *models.User
	var err error
	if email != "" {
		user, err = s.users.GetByEmail(ctx, strings.ToLower(email))
	} else {
		user, err = s.users.GetByUsername(ctx, username)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("User not found")
	}

	if !auth.VerifyPassword(password, user.Password) {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	return user, nil
}

// GetByID loads a user for display; the password hash never leaves the
// model's json:"-" field.
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfileInput carries the profile update form. Bio is a pointer
// so an explicitly empty bio clears the field while an absent bio
// leaves it alone.
type UpdateProfileInput struct {
	Username   string
	Bio        *string
	Avatar     []byte
	AvatarName string
}

// UpdateProfile applies a partial profile update.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" && in.Bio == nil && len(in.Avatar) == 0 {
		return nil, models.NewValidationError("No fields to update provided")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if username != "" {
		taken, err := s.users.UsernameTakenByOther(ctx, username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewConflictError("Username is already taken", "username")
		}
		user.Username = username
	}

	if in.Bio != nil {
		if utf8.RuneCountInString(*in.Bio) > maxBioLength {
			return nil, models.NewValidationError("Bio cannot be longer than 160 characters")
		}
		user.Bio = *in.Bio
	}

	if len(in.Avatar) > 0 {
		uploaded, err := s.store.Upload(ctx, in.Avatar, in.AvatarName)
		if err != nil {
			return nil, err
		}
		user.ProfilePic = uploaded.URL
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user's posts first, then the user itself.
// The two steps are independent writes: a failure after the post
// cascade leaves no orphaned-but-reachable children.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := s.posts.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}
