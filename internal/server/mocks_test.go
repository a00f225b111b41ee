package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"postfeed/internal/auth"
	"postfeed/internal/config"
	"postfeed/internal/models"
	"postfeed/internal/service"
	"postfeed/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock of the repository.UserRepository interface.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UsernameTakenByOther(ctx context.Context, username string, excludeID uint) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPostRepository is a mock of the repository.PostRepository interface.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) ListFeed(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockTrackRepository is a mock of the repository.TrackRepository interface.
type MockTrackRepository struct {
	mock.Mock
}

func (m *MockTrackRepository) Create(ctx context.Context, track *models.Track) error {
	args := m.Called(ctx, track)
	return args.Error(0)
}

func (m *MockTrackRepository) GetByID(ctx context.Context, id uint) (*models.Track, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Track), args.Error(1)
}

func (m *MockTrackRepository) List(ctx context.Context, limit, offset int) ([]*models.Track, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Track), args.Error(1)
}

func (m *MockTrackRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeStorage is an in-memory storage.Storage for handler tests.
type fakeStorage struct {
	uploads []string
	deleted []string
}

func (f *fakeStorage) Upload(_ context.Context, _ []byte, fileName string) (*storage.UploadResult, error) {
	f.uploads = append(f.uploads, fileName)
	return &storage.UploadResult{
		URL:    "https://cdn.test/" + fileName,
		FileID: "file-" + fileName,
	}, nil
}

func (f *fakeStorage) Delete(_ context.Context, fileID string) error {
	f.deleted = append(f.deleted, fileID)
	return nil
}

func (f *fakeStorage) AuthParams() storage.AuthParams {
	return storage.AuthParams{Token: "tok", Expire: 9999999999, Signature: "sig"}
}

func (f *fakeStorage) PublicKey() string { return "public_test" }

type testServerDeps struct {
	users  *MockUserRepository
	posts  *MockPostRepository
	tracks *MockTrackRepository
	store  *fakeStorage
}

const testJWTSecret = "handler-test-secret"

// newTestServer builds a Server over mock repositories with middleware
// and routes wired the same way production is.
func newTestServer(t *testing.T) (*fiber.App, *testServerDeps) {
	t.Helper()

	deps := &testServerDeps{
		users:  new(MockUserRepository),
		posts:  new(MockPostRepository),
		tracks: new(MockTrackRepository),
		store:  &fakeStorage{},
	}

	s := &Server{
		config: &config.Config{
			JWTSecret:      testJWTSecret,
			AllowedOrigins: "http://localhost:5173",
			Env:            "test",
		},
		store:        deps.store,
		userService:  service.NewUserService(deps.users, deps.posts, deps.store, "https://cdn.test/default.png"),
		postService:  service.NewPostService(deps.posts, deps.store),
		musicService: service.NewMusicService(deps.tracks, deps.store),
	}

	return s.NewApp(), deps
}

// decodeBody decodes a JSON response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), "body: %s", raw)
	return body
}

// sessionCookie extracts the session cookie from a response.
func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

// authCookie issues a valid session cookie for the given identity.
func authCookie(t *testing.T, userID uint, username string) *http.Cookie {
	t.Helper()
	token, err := auth.IssueSession(auth.Identity{UserID: userID, Username: username}, testJWTSecret)
	require.NoError(t, err)
	return &http.Cookie{Name: "token", Value: token}
}
