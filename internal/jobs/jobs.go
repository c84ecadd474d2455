package jobs

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/odyssey-backend/internal/logger"
	"github.com/ignatzorin/odyssey-backend/internal/models"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/apperror"
	"github.com/ignatzorin/odyssey-backend/internal/service"
)

const (
	maxWarmMessageLen = 60
	// фразы со словом "content" обычно описывают сам ответ модели
	rejectedWarmWord = "content"
)

// Stats - итог прогона джобы.
type Stats struct {
	Success int
	Failed  int
	Skipped int
	Total   int
}

func (s Stats) fields() logrus.Fields {
	return logrus.Fields{
		"success": s.Success,
		"failed":  s.Failed,
		"skipped": s.Skipped,
		"total":   s.Total,
	}
}

// Options - общие параметры джоб.
type Options struct {
	// Limit ограничивает число записей, выбираемых из базы за прогон.
	Limit int
	// Pause выдерживается после каждой неудачной попытки.
	Pause time.Duration
}

// PendingPictureStore - картинки, для которых ещё не искали место.
type PendingPictureStore interface {
	ListPendingSpotSearch(ctx context.Context, limit int) ([]models.Picture, error)
	MarkFoundSpot(ctx context.Context, id uuid.UUID, found bool) (bool, error)
}

// SpotSearcher ищет место по картинке.
type SpotSearcher interface {
	SearchByPicture(ctx context.Context, pictureID uuid.UUID) (*models.SpotWithImage, error)
}

// SyncSpots ищет места для картинок с found_spot IS NULL и записывает итог.
// NotFound означает found_spot=false, остальные ошибки оставляют картинку на следующий прогон.
func SyncSpots(ctx context.Context, pictures PendingPictureStore, spots SpotSearcher, opts Options) (Stats, error) {
	pending, err := pictures.ListPendingSpotSearch(ctx, opts.Limit)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(pending)}
	log := logger.Log.WithField("job", "sync-spots")

	for _, pic := range pending {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		found := true
		spot, err := spots.SearchByPicture(ctx, pic.ID)
		switch {
		case apperror.IsNotFound(err):
			found = false
		case err != nil:
			stats.Failed++
			logFailure(log.WithFields(stats.fields()).WithField("picture_id", pic.ID), err, "поиск места не удался")
			sleep(ctx, opts.Pause)
			continue
		}

		if _, err := pictures.MarkFoundSpot(ctx, pic.ID, found); err != nil {
			stats.Failed++
			log.WithFields(stats.fields()).WithField("picture_id", pic.ID).WithError(err).Error("не удалось записать found_spot")
			sleep(ctx, opts.Pause)
			continue
		}

		stats.Success++
		entry := log.WithFields(stats.fields()).WithField("picture_id", pic.ID)
		if spot != nil {
			entry = entry.WithField("spot_id", spot.ID)
		}
		entry.WithField("found_spot", found).Info("картинка обработана")
	}

	log.WithFields(stats.fields()).Info("sync-spots завершён")
	return stats, nil
}

// MessageWarmer генерирует и сохраняет фразы.
type MessageWarmer interface {
	GenerateMoodMessage(ctx context.Context, useCache bool) (service.GeneratedMoodMessage, error)
	SaveMoodMessage(ctx context.Context, content string, wantCache bool, existingID *uuid.UUID) (uuid.UUID, error)
}

// WarmMessages генерирует n новых фраз и сохраняет подходящие в кэш.
func WarmMessages(ctx context.Context, moods MessageWarmer, n int, opts Options) (Stats, error) {
	stats := Stats{Total: n}
	log := logger.Log.WithField("job", "warm-messages")

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		generated, err := moods.GenerateMoodMessage(ctx, false)
		if err == nil && strings.TrimSpace(generated.Message) == "" {
			err = apperror.New(apperror.ErrCodeUpstream, "пустая фраза")
		}
		if err != nil {
			stats.Failed++
			logFailure(log.WithFields(stats.fields()), err, "не удалось сгенерировать фразу")
			sleep(ctx, opts.Pause)
			continue
		}

		if !warmable(generated.Message) {
			stats.Skipped++
			continue
		}

		id, err := moods.SaveMoodMessage(ctx, generated.Message, true, nil)
		if apperror.IsInvalidRequest(err) {
			stats.Skipped++
			log.WithFields(stats.fields()).WithError(err).Warn("фраза отклонена при сохранении")
			continue
		}
		if err != nil {
			stats.Failed++
			log.WithFields(stats.fields()).WithError(err).Error("не удалось сохранить фразу")
			sleep(ctx, opts.Pause)
			continue
		}

		stats.Success++
		log.WithFields(stats.fields()).WithField("mood_message_id", id).Info("фраза добавлена в кэш")
	}

	log.WithFields(stats.fields()).Info("warm-messages завершён")
	return stats, nil
}

func warmable(message string) bool {
	return utf8.RuneCountInString(message) <= maxWarmMessageLen && !strings.Contains(message, rejectedWarmWord)
}

// CachedMessageLister возвращает закэшированные фразы без скопированной картинки.
type CachedMessageLister interface {
	ListCachedMessagesWithoutMirror(ctx context.Context, limit int) ([]models.MoodMessage, error)
}

// PictureWarmer получает картинку фразы и копирует её в хранилище.
type PictureWarmer interface {
	GetOrGenerateMoodPicture(ctx context.Context, messageID uuid.UUID, excluded []uuid.UUID) (service.MoodPictureResult, error)
	MirrorPicture(ctx context.Context, refType string, refID uuid.UUID) (*models.Picture, error)
}

// WarmPictures готовит по одной скопированной картинке для каждой закэшированной фразы.
func WarmPictures(ctx context.Context, moods CachedMessageLister, pictures PictureWarmer, opts Options) (Stats, error) {
	messages, err := moods.ListCachedMessagesWithoutMirror(ctx, opts.Limit)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Total: len(messages)}
	log := logger.Log.WithField("job", "warm-pictures")

	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		moodPic, err := pictures.GetOrGenerateMoodPicture(ctx, msg.ID, nil)
		if err != nil {
			stats.Failed++
			logFailure(log.WithFields(stats.fields()).WithField("mood_message_id", msg.ID), err, "не удалось получить картинку")
			sleep(ctx, opts.Pause)
			continue
		}

		pic, err := pictures.MirrorPicture(ctx, models.ReferenceTypeMoodPic, moodPic.ID)
		if err != nil {
			stats.Failed++
			logFailure(log.WithFields(stats.fields()).WithField("mood_picture_id", moodPic.ID), err, "не удалось скопировать картинку")
			sleep(ctx, opts.Pause)
			continue
		}

		stats.Success++
		log.WithFields(stats.fields()).WithFields(logrus.Fields{
			"mood_message_id": msg.ID,
			"picture_id":      pic.ID,
		}).Info("картинка подготовлена")
	}

	log.WithFields(stats.fields()).Info("warm-pictures завершён")
	return stats, nil
}

// logFailure пишет таймаут внешнего сервиса как warning: запись останется на следующий прогон.
func logFailure(entry *logrus.Entry, err error, msg string) {
	entry = entry.WithError(err)
	if apperror.IsUpstreamTimeout(err) {
		entry.Warn(msg)
		return
	}
	entry.Error(msg)
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
