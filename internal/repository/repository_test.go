package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/odyssey-backend/internal/models"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/apperror"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "sqlmock"), mock
}

func TestMoodRepository_CreateMessage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMoodRepository(db)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery("INSERT INTO mood_messages").
		WithArgs("feeling sunny", "prompt", "gpt-3.5-turbo", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id.String(), now))

	msg := &models.MoodMessage{Content: "feeling sunny", Prompt: "prompt", Model: "gpt-3.5-turbo", Cached: true}
	err := repo.CreateMessage(context.Background(), msg)

	require.NoError(t, err)
	assert.Equal(t, id, msg.ID)
	assert.Equal(t, now, msg.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodRepository_GetMessage_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMoodRepository(db)

	id := uuid.New()
	mock.ExpectQuery("SELECT \\* FROM mood_messages WHERE id = \\$1").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetMessage(context.Background(), id)

	assert.True(t, apperror.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoodRepository_ListCachedMessageIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMoodRepository(db)

	a, b := uuid.New(), uuid.New()
	mock.ExpectQuery("SELECT id FROM mood_messages WHERE cached").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(a.String()).AddRow(b.String()))

	ids, err := repo.ListCachedMessageIDs(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)
}

func TestMoodRepository_ListMirroredPictures(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMoodRepository(db)

	msgID, mpID, picID := uuid.New(), uuid.New(), uuid.New()
	mock.ExpectQuery("FROM mood_pictures mp").
		WithArgs(msgID, models.ReferenceTypeMoodPic).
		WillReturnRows(sqlmock.NewRows([]string{"mood_picture_id", "picture_id", "url", "size"}).
			AddRow(mpID.String(), picID.String(), "https://s3/x.png", "512x512"))

	pics, err := repo.ListMirroredPictures(context.Background(), msgID)

	require.NoError(t, err)
	require.Len(t, pics, 1)
	assert.Equal(t, mpID, pics[0].MoodPictureID)
	assert.Equal(t, "https://s3/x.png", pics[0].URL)
}

func TestPictureRepository_MarkFoundSpot(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "first write", affected: 1, want: true},
		{name: "already set", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewPictureRepository(db)

			id := uuid.New()
			mock.ExpectExec("UPDATE pictures SET found_spot = \\$2 WHERE id = \\$1 AND found_spot IS NULL").
				WithArgs(id, true).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			updated, err := repo.MarkFoundSpot(context.Background(), id, true)

			require.NoError(t, err)
			assert.Equal(t, tt.want, updated)
		})
	}
}

func TestPictureRepository_GetLatestByReference_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPictureRepository(db)

	refID := uuid.New()
	mock.ExpectQuery("SELECT \\* FROM pictures").
		WithArgs(models.ReferenceTypeMoodPic, refID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetLatestByReference(context.Background(), models.ReferenceTypeMoodPic, refID)

	assert.True(t, apperror.IsNotFound(err))
}

func TestSpotRepository_CreateWithImage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSpotRepository(db)

	imageID, spotID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO spot_images").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(imageID.String(), now))
	mock.ExpectQuery("INSERT INTO spots").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(spotID.String(), now))
	mock.ExpectCommit()

	image := &models.SpotImage{Title: "Bali beach", Thumbnail: "https://t/1.jpg", ReferenceID: uuid.New()}
	spot := &models.Spot{Name: "Kuta Beach", Types: []string{"natural_feature"}}

	err := repo.CreateWithImage(context.Background(), image, spot)

	require.NoError(t, err)
	assert.Equal(t, imageID, image.ID)
	assert.Equal(t, spotID, spot.ID)
	assert.Equal(t, imageID, spot.SpotImageID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpotRepository_CreateWithImage_RollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSpotRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO spot_images").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New().String(), time.Now()))
	mock.ExpectQuery("INSERT INTO spots").WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.CreateWithImage(context.Background(), &models.SpotImage{}, &models.Spot{Name: "x"})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpotRepository_ListByPicture(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSpotRepository(db)

	picID, spotID, imageID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	cols := []string{
		"id", "created_at", "address", "name", "rating", "rating_n", "place_id", "reference", "types", "geometry", "spot_image_id",
		"image.id", "image.created_at", "image.thumbnail", "image.url", "image.title", "image.reference_id", "image.meta_data",
	}
	mock.ExpectQuery("FROM spots s").
		WithArgs(picID).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			spotID.String(), now, "Jl. Pantai Kuta", "Kuta Beach", 4.5, 120, "place-1", "", "{natural_feature,establishment}",
			[]byte(`{"location":{"lat":-8.71,"lng":115.16}}`), imageID.String(),
			imageID.String(), now, "https://t/1.jpg", "", "Bali", picID.String(),
			[]byte(`{"position":1,"src_domain":"tripadvisor.com","src_url":"https://tripadvisor.com/x"}`),
		))

	spots, err := repo.ListByPicture(context.Background(), picID)

	require.NoError(t, err)
	require.Len(t, spots, 1)
	assert.Equal(t, "Kuta Beach", spots[0].Name)
	assert.Equal(t, []string{"natural_feature", "establishment"}, []string(spots[0].Types))
	require.NotNil(t, spots[0].Geometry.Location)
	assert.InDelta(t, -8.71, spots[0].Geometry.Location.Lat, 1e-9)
	assert.Equal(t, "tripadvisor.com", spots[0].Image.MetaData.SrcDomain)
	assert.True(t, spots[0].Image.HasHTTPThumbnail())
}
