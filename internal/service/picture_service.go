package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/ignatzorin/odyssey-backend/internal/ai"
	"github.com/ignatzorin/odyssey-backend/internal/logger"
	"github.com/ignatzorin/odyssey-backend/internal/models"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/apperror"
	"github.com/ignatzorin/odyssey-backend/internal/storage"
)

// MoodPictureRepository описывает доступ к фразам и их картинкам.
type MoodPictureRepository interface {
	GetMessage(ctx context.Context, id uuid.UUID) (*models.MoodMessage, error)
	CreatePicture(ctx context.Context, pic *models.MoodPicture) error
	GetPicture(ctx context.Context, id uuid.UUID) (*models.MoodPicture, error)
	ListMirroredPictures(ctx context.Context, messageID uuid.UUID) ([]models.MirroredMoodPicture, error)
}

// PictureRepository описывает доступ к копиям картинок.
type PictureRepository interface {
	Create(ctx context.Context, pic *models.Picture) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Picture, error)
	GetLatestByReference(ctx context.Context, refType string, refID uuid.UUID) (*models.Picture, error)
}

// MoodImageGenerator генерирует картинку по тексту фразы.
type MoodImageGenerator interface {
	GenerateMoodImage(ctx context.Context, moodText string) (ai.GeneratedImage, error)
}

// PictureMirror копирует внешнюю картинку в наше хранилище.
type PictureMirror interface {
	MirrorFromURL(ctx context.Context, srcURL string) (storage.MirroredObject, error)
}

// MoodPictureResult - картинка для фразы: id MoodPicture и ссылка для показа.
type MoodPictureResult struct {
	ID   uuid.UUID
	URL  string
	Size string
}

// PictureService реализует политику "взять готовую или сгенерировать" для картинок
// и копирование картинок в хранилище.
type PictureService struct {
	moods      MoodPictureRepository
	pictures   PictureRepository
	gen        MoodImageGenerator
	mirror     PictureMirror
	modelLabel string

	// group объединяет одновременные генерации для одной фразы; nil отключает объединение
	group *singleflight.Group
}

// NewPictureService создаёт экземпляр.
func NewPictureService(
	moods MoodPictureRepository,
	pictures PictureRepository,
	gen MoodImageGenerator,
	mirror PictureMirror,
	modelLabel string,
	singleFlight bool,
) *PictureService {
	svc := &PictureService{
		moods:      moods,
		pictures:   pictures,
		gen:        gen,
		mirror:     mirror,
		modelLabel: modelLabel,
	}
	if singleFlight {
		svc.group = &singleflight.Group{}
	}
	return svc
}

// GetOrGenerateMoodPicture возвращает самую свежую скопированную картинку фразы,
// которой нет в excluded, иначе генерирует новую.
func (s *PictureService) GetOrGenerateMoodPicture(ctx context.Context, messageID uuid.UUID, excluded []uuid.UUID) (MoodPictureResult, error) {
	msg, err := s.moods.GetMessage(ctx, messageID)
	if err != nil {
		return MoodPictureResult{}, err
	}
	if strings.TrimSpace(msg.Content) == "" {
		return MoodPictureResult{}, apperror.NotFound("mood message %s не найден", messageID)
	}

	mirrored, err := s.moods.ListMirroredPictures(ctx, messageID)
	if err != nil {
		return MoodPictureResult{}, fmt.Errorf("mood picture for message %s: %w", messageID, err)
	}

	skip := make(map[uuid.UUID]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}
	for _, pic := range mirrored {
		if _, ok := skip[pic.MoodPictureID]; ok {
			continue
		}
		return MoodPictureResult{ID: pic.MoodPictureID, URL: pic.URL, Size: pic.Size}, nil
	}

	return s.generate(ctx, msg)
}

func (s *PictureService) generate(ctx context.Context, msg *models.MoodMessage) (MoodPictureResult, error) {
	run := func(ctx context.Context) (MoodPictureResult, error) {
		image, err := s.gen.GenerateMoodImage(ctx, msg.Content)
		if err != nil {
			return MoodPictureResult{}, fmt.Errorf("mood picture for message %s: %w", msg.ID, err)
		}

		pic := &models.MoodPicture{
			URL:           image.URL,
			Size:          image.Size,
			Prompt:        image.Prompt,
			Model:         s.modelLabel,
			MoodMessageID: msg.ID,
		}
		if err := s.moods.CreatePicture(ctx, pic); err != nil {
			return MoodPictureResult{}, apperror.Internal(err, "не удалось сохранить картинку")
		}

		logger.Log.WithFields(logrus.Fields{
			"mood_message_id": msg.ID,
			"mood_picture_id": pic.ID,
		}).Info("picture: сгенерирована новая картинка")

		return MoodPictureResult{ID: pic.ID, URL: pic.URL, Size: pic.Size}, nil
	}

	if s.group == nil {
		return run(ctx)
	}

	// Общий вызов не должен отменяться, если ушёл клиент, запустивший его первым.
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(msg.ID.String(), func() (any, error) {
		return run(shared)
	})
	if err != nil {
		return MoodPictureResult{}, err
	}
	return v.(MoodPictureResult), nil
}

// MirrorPicture копирует картинку-источник в хранилище. Если копия уже есть, возвращает её.
func (s *PictureService) MirrorPicture(ctx context.Context, refType string, refID uuid.UUID) (*models.Picture, error) {
	if _, ok := models.ValidReferenceTypes[refType]; !ok {
		return nil, apperror.InvalidRequest("неподдерживаемый type %q", refType)
	}

	existing, err := s.pictures.GetLatestByReference(ctx, refType, refID)
	if err == nil {
		return existing, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	source, err := s.moods.GetPicture(ctx, refID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(source.URL) == "" {
		return nil, apperror.NotFound("mood picture %s не найден", refID)
	}

	obj, err := s.mirror.MirrorFromURL(ctx, source.URL)
	if err != nil {
		return nil, fmt.Errorf("mirror mood picture %s: %w", refID, err)
	}

	pic := &models.Picture{
		Filename:      obj.Filename,
		Size:          source.Size,
		URL:           obj.URL,
		ReferenceType: refType,
		ReferenceID:   refID,
	}
	if err := s.pictures.Create(ctx, pic); err != nil {
		return nil, apperror.Internal(err, "не удалось сохранить копию картинки")
	}

	logger.Log.WithFields(logrus.Fields{
		"mood_picture_id": refID,
		"picture_id":      pic.ID,
		"key":             obj.Key,
		"bytes":           obj.Bytes,
	}).Info("picture: картинка скопирована в хранилище")

	return pic, nil
}

// GetPicture возвращает копию картинки; запись без ссылки считается отсутствующей.
func (s *PictureService) GetPicture(ctx context.Context, id uuid.UUID) (*models.Picture, error) {
	pic, err := s.pictures.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(pic.URL) == "" {
		return nil, apperror.NotFound("picture %s не найден", id)
	}
	return pic, nil
}
