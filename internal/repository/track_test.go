package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"postfeed/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTrackRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTrackRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "tracks"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	track := &models.Track{Title: "Song", URI: "https://cdn.test/a.mp3", AudioFileID: "f1", ArtistID: 2}
	require.NoError(t, repo.Create(context.Background(), track))
	assert.Equal(t, uint(1), track.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTrackRepository(db)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tracks" WHERE "tracks"."id" = $1`)).
			WithArgs(1, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "artist_id"}).
				AddRow(1, "Song", 2))

		track, err := repo.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Song", track.Title)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tracks" WHERE "tracks"."id" = $1`)).
			WithArgs(9, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.GetByID(context.Background(), 9)
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, models.CodeNotFound, appErr.Code)
		assert.Equal(t, "Music not found", appErr.Message)
	})
}

func TestTrackRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTrackRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tracks" ORDER BY created_at DESC, id DESC LIMIT $1`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "artist_id"}).
			AddRow(2, "newer", 1).
			AddRow(1, "older", 1))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "alice"))

	tracks, err := repo.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "newer", tracks[0].Title)
	assert.Equal(t, "alice", tracks[0].Artist.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrackRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTrackRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "tracks" WHERE "tracks"."id" = $1`)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}
