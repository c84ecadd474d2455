package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/odyssey-backend/internal/ai"
	"github.com/ignatzorin/odyssey-backend/internal/lens"
	"github.com/ignatzorin/odyssey-backend/internal/models"
	"github.com/ignatzorin/odyssey-backend/internal/places"
	"github.com/ignatzorin/odyssey-backend/internal/storage"
)

type mockMoodRepo struct {
	mock.Mock
}

func (m *mockMoodRepo) CreateMessage(ctx context.Context, msg *models.MoodMessage) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		msg.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockMoodRepo) GetMessage(ctx context.Context, id uuid.UUID) (*models.MoodMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MoodMessage), args.Error(1)
}

func (m *mockMoodRepo) CreatePicture(ctx context.Context, pic *models.MoodPicture) error {
	args := m.Called(ctx, pic)
	if args.Error(0) == nil {
		pic.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockMoodRepo) GetPicture(ctx context.Context, id uuid.UUID) (*models.MoodPicture, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MoodPicture), args.Error(1)
}

func (m *mockMoodRepo) ListMirroredPictures(ctx context.Context, messageID uuid.UUID) ([]models.MirroredMoodPicture, error) {
	args := m.Called(ctx, messageID)
	return args.Get(0).([]models.MirroredMoodPicture), args.Error(1)
}

func (m *mockMoodRepo) ListCachedMessageIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type mockPicker struct {
	mock.Mock
}

func (m *mockPicker) PickCachedID(ctx context.Context) (uuid.UUID, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *mockPicker) Invalidate() {
	m.Called()
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateMoodMessage(ctx context.Context) (ai.GeneratedText, error) {
	args := m.Called(ctx)
	return args.Get(0).(ai.GeneratedText), args.Error(1)
}

func (m *mockGenerator) GenerateMoodImage(ctx context.Context, moodText string) (ai.GeneratedImage, error) {
	args := m.Called(ctx, moodText)
	return args.Get(0).(ai.GeneratedImage), args.Error(1)
}

type mockPictureRepo struct {
	mock.Mock
}

func (m *mockPictureRepo) Create(ctx context.Context, pic *models.Picture) error {
	args := m.Called(ctx, pic)
	if args.Error(0) == nil {
		pic.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockPictureRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Picture, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Picture), args.Error(1)
}

func (m *mockPictureRepo) GetLatestByReference(ctx context.Context, refType string, refID uuid.UUID) (*models.Picture, error) {
	args := m.Called(ctx, refType, refID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Picture), args.Error(1)
}

type mockMirror struct {
	mock.Mock
}

func (m *mockMirror) MirrorFromURL(ctx context.Context, srcURL string) (storage.MirroredObject, error) {
	args := m.Called(ctx, srcURL)
	return args.Get(0).(storage.MirroredObject), args.Error(1)
}

type mockSpotRepo struct {
	mock.Mock
}

func (m *mockSpotRepo) CreateWithImage(ctx context.Context, image *models.SpotImage, spot *models.Spot) error {
	args := m.Called(ctx, image, spot)
	if args.Error(0) == nil {
		image.ID = uuid.New()
		spot.SpotImageID = image.ID
	}
	return args.Error(0)
}

func (m *mockSpotRepo) ListByPicture(ctx context.Context, pictureID uuid.UUID) ([]models.SpotWithImage, error) {
	args := m.Called(ctx, pictureID)
	return args.Get(0).([]models.SpotWithImage), args.Error(1)
}

func (m *mockSpotRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Spot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Spot), args.Error(1)
}

type mockLens struct {
	mock.Mock
}

func (m *mockLens) Search(ctx context.Context, imageURL string) ([]lens.VisualMatch, error) {
	args := m.Called(ctx, imageURL)
	return args.Get(0).([]lens.VisualMatch), args.Error(1)
}

type mockPlaces struct {
	mock.Mock
}

func (m *mockPlaces) TextSearch(ctx context.Context, query string) ([]places.Place, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]places.Place), args.Error(1)
}

func (m *mockPlaces) NearbySearch(ctx context.Context, q places.NearbyQuery) ([]places.Place, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]places.Place), args.Error(1)
}
