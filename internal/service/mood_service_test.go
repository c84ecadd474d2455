package service

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/odyssey-backend/internal/ai"
	"github.com/ignatzorin/odyssey-backend/internal/logger"
	"github.com/ignatzorin/odyssey-backend/internal/models"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/apperror"
)

func TestMain(m *testing.M) {
	logger.Silence()
	os.Exit(m.Run())
}

// memMoodRepo хранит фразы в памяти.
type memMoodRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.MoodMessage
}

func newMemMoodRepo() *memMoodRepo {
	return &memMoodRepo{rows: make(map[uuid.UUID]models.MoodMessage)}
}

func (r *memMoodRepo) CreateMessage(_ context.Context, msg *models.MoodMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = uuid.New()
	r.rows[msg.ID] = *msg
	return nil
}

func (r *memMoodRepo) GetMessage(_ context.Context, id uuid.UUID) (*models.MoodMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.rows[id]
	if !ok {
		return nil, apperror.NotFound("mood message %s не найден", id)
	}
	return &msg, nil
}

func TestMoodService_GenerateMoodMessage_FromCache(t *testing.T) {
	repo := new(mockMoodRepo)
	gen := new(mockGenerator)
	picker := new(mockPicker)
	svc := NewMoodService(repo, gen, picker, "gpt-3.5-turbo")
	ctx := context.Background()

	id := uuid.New()
	picker.On("PickCachedID", ctx).Return(id, true, nil)
	repo.On("GetMessage", ctx, id).Return(&models.MoodMessage{ID: id, Content: "I feel free", Cached: true}, nil)

	got, err := svc.GenerateMoodMessage(ctx, true)

	require.NoError(t, err)
	assert.Equal(t, "I feel free", got.Message)
	require.NotNil(t, got.SourceID)
	assert.Equal(t, id, *got.SourceID)
	gen.AssertNotCalled(t, "GenerateMoodMessage", mock.Anything)
}

func TestMoodService_GenerateMoodMessage_EmptyPoolFallsThrough(t *testing.T) {
	repo := new(mockMoodRepo)
	gen := new(mockGenerator)
	picker := new(mockPicker)
	svc := NewMoodService(repo, gen, picker, "gpt-3.5-turbo")
	ctx := context.Background()

	picker.On("PickCachedID", ctx).Return(uuid.Nil, false, nil)
	gen.On("GenerateMoodMessage", ctx).Return(ai.GeneratedText{Content: "I am calm"}, nil)

	for i := 0; i < 3; i++ {
		got, err := svc.GenerateMoodMessage(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, "I am calm", got.Message)
		assert.Nil(t, got.SourceID)
	}
	gen.AssertNumberOfCalls(t, "GenerateMoodMessage", 3)
	repo.AssertNotCalled(t, "GetMessage", mock.Anything, mock.Anything)
}

func TestMoodService_GenerateMoodMessage_StaleCachedRowFallsThrough(t *testing.T) {
	tests := []struct {
		name string
		msg  *models.MoodMessage
		err  error
	}{
		{name: "missing row", err: apperror.NotFound("gone")},
		{name: "blank content", msg: &models.MoodMessage{Content: "   ", Cached: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockMoodRepo)
			gen := new(mockGenerator)
			picker := new(mockPicker)
			svc := NewMoodService(repo, gen, picker, "gpt-3.5-turbo")
			ctx := context.Background()

			id := uuid.New()
			picker.On("PickCachedID", ctx).Return(id, true, nil)
			if tt.msg != nil {
				repo.On("GetMessage", ctx, id).Return(tt.msg, nil)
			} else {
				repo.On("GetMessage", ctx, id).Return(nil, tt.err)
			}
			gen.On("GenerateMoodMessage", ctx).Return(ai.GeneratedText{Content: "fresh"}, nil)

			got, err := svc.GenerateMoodMessage(ctx, true)

			require.NoError(t, err)
			assert.Equal(t, "fresh", got.Message)
			assert.Nil(t, got.SourceID)
		})
	}
}

func TestMoodService_GenerateMoodMessage_WithoutCache(t *testing.T) {
	repo := new(mockMoodRepo)
	gen := new(mockGenerator)
	picker := new(mockPicker)
	svc := NewMoodService(repo, gen, picker, "gpt-3.5-turbo")
	ctx := context.Background()

	gen.On("GenerateMoodMessage", ctx).Return(ai.GeneratedText{Content: "new"}, nil)

	got, err := svc.GenerateMoodMessage(ctx, false)

	require.NoError(t, err)
	assert.Equal(t, "new", got.Message)
	picker.AssertNotCalled(t, "PickCachedID", mock.Anything)
}

func TestMoodService_GenerateMoodMessage_UpstreamTimeout(t *testing.T) {
	gen := new(mockGenerator)
	svc := NewMoodService(new(mockMoodRepo), gen, new(mockPicker), "gpt-3.5-turbo")
	ctx := context.Background()

	gen.On("GenerateMoodMessage", ctx).
		Return(ai.GeneratedText{}, apperror.New(apperror.ErrCodeUpstreamTimeout, "openai chat: превышено время ожидания ответа"))

	_, err := svc.GenerateMoodMessage(ctx, false)

	assert.True(t, apperror.IsUpstreamTimeout(err))
}

func TestMoodService_SaveMoodMessage_DedupByExistingID(t *testing.T) {
	repo := new(mockMoodRepo)
	picker := new(mockPicker)
	svc := NewMoodService(repo, new(mockGenerator), picker, "gpt-3.5-turbo")
	ctx := context.Background()

	existingID := uuid.New()
	repo.On("GetMessage", ctx, existingID).
		Return(&models.MoodMessage{ID: existingID, Content: "I am happy", Cached: true}, nil)

	id, err := svc.SaveMoodMessage(ctx, "  I am happy \n", true, &existingID)

	require.NoError(t, err)
	assert.Equal(t, existingID, id)
	repo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
	picker.AssertNotCalled(t, "Invalidate")
}

func TestMoodService_SaveMoodMessage_InsertsWhenNotDuplicate(t *testing.T) {
	tests := []struct {
		name     string
		existing *models.MoodMessage
	}{
		{name: "different content", existing: &models.MoodMessage{Content: "I am sad", Cached: true}},
		{name: "not cached", existing: &models.MoodMessage{Content: "I am happy", Cached: false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockMoodRepo)
			picker := new(mockPicker)
			svc := NewMoodService(repo, new(mockGenerator), picker, "gpt-3.5-turbo")
			ctx := context.Background()

			existingID := uuid.New()
			tt.existing.ID = existingID
			repo.On("GetMessage", ctx, existingID).Return(tt.existing, nil)
			repo.On("CreateMessage", ctx, mock.AnythingOfType("*models.MoodMessage")).Return(nil)
			picker.On("Invalidate").Return()

			id, err := svc.SaveMoodMessage(ctx, "I am happy", true, &existingID)

			require.NoError(t, err)
			assert.NotEqual(t, existingID, id)
			repo.AssertNumberOfCalls(t, "CreateMessage", 1)
			picker.AssertCalled(t, "Invalidate")
		})
	}
}

func TestMoodService_SaveMoodMessage_UncachedDoesNotInvalidate(t *testing.T) {
	repo := new(mockMoodRepo)
	picker := new(mockPicker)
	svc := NewMoodService(repo, new(mockGenerator), picker, "gpt-3.5-turbo")
	ctx := context.Background()

	repo.On("CreateMessage", ctx, mock.MatchedBy(func(m *models.MoodMessage) bool {
		return !m.Cached && m.Model == "gpt-3.5-turbo" && m.Prompt == ai.MoodMessagePrompt
	})).Return(nil)

	_, err := svc.SaveMoodMessage(ctx, "calm", false, nil)

	require.NoError(t, err)
	picker.AssertNotCalled(t, "Invalidate")
}

func TestMoodService_SaveMoodMessage_EmptyContent(t *testing.T) {
	svc := NewMoodService(new(mockMoodRepo), new(mockGenerator), new(mockPicker), "gpt-3.5-turbo")

	_, err := svc.SaveMoodMessage(context.Background(), "   ", true, nil)

	assert.True(t, apperror.IsInvalidRequest(err))
}

func TestMoodService_SaveThenGet_RoundTrip(t *testing.T) {
	picker := new(mockPicker)
	picker.On("Invalidate").Return()
	svc := NewMoodService(newMemMoodRepo(), new(mockGenerator), picker, "gpt-3.5-turbo")
	ctx := context.Background()

	for _, content := range []string{"I am happy", "Утро тёплое и тихое", "  spaced out  "} {
		id, err := svc.SaveMoodMessage(ctx, content, true, nil)
		require.NoError(t, err)

		got, err := svc.GetMoodMessage(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, content, got.Content)
	}
}

func TestMoodService_GetMoodMessage_NotFound(t *testing.T) {
	repo := newMemMoodRepo()
	svc := NewMoodService(repo, new(mockGenerator), new(mockPicker), "gpt-3.5-turbo")

	_, err := svc.GetMoodMessage(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))

	blank := &models.MoodMessage{Content: ""}
	require.NoError(t, repo.CreateMessage(context.Background(), blank))
	_, err = svc.GetMoodMessage(context.Background(), blank.ID)
	assert.True(t, apperror.IsNotFound(err))
}
