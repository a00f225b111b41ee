package service

import (
	"context"
	"errors"
	"testing"

	"postfeed/internal/models"
	"postfeed/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn              func(context.Context, uint) (*models.User, error)
	getByEmailFn           func(context.Context, string) (*models.User, error)
	getByUsernameFn        func(context.Context, string) (*models.User, error)
	usernameTakenByOtherFn func(context.Context, string, uint) (bool, error)
	createFn               func(context.Context, *models.User) error
	updateFn               func(context.Context, *models.User) error
	deleteFn               func(context.Context, uint) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) UsernameTakenByOther(ctx context.Context, username string, excludeID uint) (bool, error) {
	return s.usernameTakenByOtherFn(ctx, username, excludeID)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:              func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:           func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn:        func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		usernameTakenByOtherFn: func(_ context.Context, _ string, _ uint) (bool, error) { return false, nil },
		createFn:               func(_ context.Context, _ *models.User) error { return nil },
		updateFn:               func(_ context.Context, _ *models.User) error { return nil },
		deleteFn:               func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint) (*models.Post, error)
	listFeedFn       func(context.Context, int, int) ([]*models.Post, error)
	deleteFn         func(context.Context, uint) error
	deleteByUserIDFn func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListFeed(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFeedFn(ctx, limit, offset)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) DeleteByUserID(ctx context.Context, userID uint) error {
	return s.deleteByUserIDFn(ctx, userID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:         func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:        func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listFeedFn:       func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
		deleteByUserIDFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// trackRepoStub is a stub for repository.TrackRepository.
type trackRepoStub struct {
	createFn  func(context.Context, *models.Track) error
	getByIDFn func(context.Context, uint) (*models.Track, error)
	listFn    func(context.Context, int, int) ([]*models.Track, error)
	deleteFn  func(context.Context, uint) error
}

func (s *trackRepoStub) Create(ctx context.Context, track *models.Track) error {
	return s.createFn(ctx, track)
}
func (s *trackRepoStub) GetByID(ctx context.Context, id uint) (*models.Track, error) {
	return s.getByIDFn(ctx, id)
}
func (s *trackRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Track, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *trackRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopTrackRepo() *trackRepoStub {
	return &trackRepoStub{
		createFn:  func(_ context.Context, _ *models.Track) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Track, error) { return &models.Track{}, nil },
		listFn:    func(_ context.Context, _, _ int) ([]*models.Track, error) { return nil, nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

// storageStub is a stub for storage.Storage.
type storageStub struct {
	uploadFn     func(context.Context, []byte, string) (*storage.UploadResult, error)
	deleteFn     func(context.Context, string) error
	authParamsFn func() storage.AuthParams
	publicKey    string
}

func (s *storageStub) Upload(ctx context.Context, data []byte, fileName string) (*storage.UploadResult, error) {
	return s.uploadFn(ctx, data, fileName)
}
func (s *storageStub) Delete(ctx context.Context, fileID string) error {
	return s.deleteFn(ctx, fileID)
}
func (s *storageStub) AuthParams() storage.AuthParams {
	if s.authParamsFn != nil {
		return s.authParamsFn()
	}
	return storage.AuthParams{}
}
func (s *storageStub) PublicKey() string { return s.publicKey }

func noopStorage() *storageStub {
	return &storageStub{
		uploadFn: func(_ context.Context, _ []byte, name string) (*storage.UploadResult, error) {
			return &storage.UploadResult{URL: "https://cdn.test/" + name, FileID: "file-" + name}, nil
		},
		deleteFn:  func(_ context.Context, _ string) error { return nil },
		publicKey: "public_test",
	}
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
