package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/odyssey-backend/internal/ai"
	"github.com/ignatzorin/odyssey-backend/internal/logger"
	"github.com/ignatzorin/odyssey-backend/internal/models"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/apperror"
)

// MoodMessageRepository описывает доступ к фразам.
type MoodMessageRepository interface {
	CreateMessage(ctx context.Context, msg *models.MoodMessage) error
	GetMessage(ctx context.Context, id uuid.UUID) (*models.MoodMessage, error)
}

// MoodMessageGenerator генерирует новую фразу.
type MoodMessageGenerator interface {
	GenerateMoodMessage(ctx context.Context) (ai.GeneratedText, error)
}

// GeneratedMoodMessage - результат выдачи фразы. SourceID nil, если фраза только что сгенерирована.
type GeneratedMoodMessage struct {
	Message  string
	SourceID *uuid.UUID
}

// MoodService реализует политику "взять из кэша или сгенерировать" для фраз.
type MoodService struct {
	repo   MoodMessageRepository
	gen    MoodMessageGenerator
	picker CachedMessagePicker
	model  string
}

// NewMoodService создаёт экземпляр.
func NewMoodService(repo MoodMessageRepository, gen MoodMessageGenerator, picker CachedMessagePicker, model string) *MoodService {
	return &MoodService{repo: repo, gen: gen, picker: picker, model: model}
}

// GenerateMoodMessage отдаёт случайную закэшированную фразу или генерирует новую.
// Сгенерированная фраза не сохраняется.
func (s *MoodService) GenerateMoodMessage(ctx context.Context, useCache bool) (GeneratedMoodMessage, error) {
	if useCache {
		if msg, ok := s.pickCached(ctx); ok {
			return GeneratedMoodMessage{Message: msg.Content, SourceID: &msg.ID}, nil
		}
	}

	generated, err := s.gen.GenerateMoodMessage(ctx)
	if err != nil {
		return GeneratedMoodMessage{}, fmt.Errorf("generate mood message: %w", err)
	}

	return GeneratedMoodMessage{Message: generated.Content}, nil
}

// pickCached возвращает фразу из пула. Любая проблема с пулом означает промах.
func (s *MoodService) pickCached(ctx context.Context) (*models.MoodMessage, bool) {
	id, ok, err := s.picker.PickCachedID(ctx)
	if err != nil {
		logger.Log.WithError(err).Warn("mood: не удалось получить пул закэшированных фраз")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	msg, err := s.repo.GetMessage(ctx, id)
	if err != nil || strings.TrimSpace(msg.Content) == "" {
		logger.Log.WithFields(logrus.Fields{
			"mood_message_id": id,
			"error":           err,
		}).Warn("mood: закэшированная фраза недоступна, генерируем новую")
		return nil, false
	}

	logger.Log.WithField("mood_message_id", id).Info("mood: выдана закэшированная фраза")
	return msg, true
}

// SaveMoodMessage сохраняет фразу. Если клиент прислал id уже закэшированной
// фразы с тем же текстом, новая строка не создаётся.
func (s *MoodService) SaveMoodMessage(ctx context.Context, content string, wantCache bool, existingID *uuid.UUID) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return uuid.Nil, apperror.InvalidRequest("message не может быть пустым")
	}

	if existingID != nil {
		existing, err := s.repo.GetMessage(ctx, *existingID)
		switch {
		case err == nil:
			if existing.Cached && strings.TrimSpace(existing.Content) == trimmed {
				return existing.ID, nil
			}
		case !apperror.IsNotFound(err):
			return uuid.Nil, err
		}
	}

	msg := &models.MoodMessage{
		Content: content,
		Prompt:  ai.MoodMessagePrompt,
		Model:   s.model,
		Cached:  wantCache,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return uuid.Nil, apperror.Internal(err, "не удалось сохранить фразу")
	}

	if wantCache {
		s.picker.Invalidate()
	}

	return msg.ID, nil
}

// GetMoodMessage возвращает фразу; пустая фраза считается отсутствующей.
func (s *MoodService) GetMoodMessage(ctx context.Context, id uuid.UUID) (*models.MoodMessage, error) {
	msg, err := s.repo.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(msg.Content) == "" {
		return nil, apperror.NotFound("mood message %s не найден", id)
	}
	return msg, nil
}
