package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/odyssey-backend/internal/ai"
	"github.com/ignatzorin/odyssey-backend/internal/config"
	"github.com/ignatzorin/odyssey-backend/internal/db"
	"github.com/ignatzorin/odyssey-backend/internal/lens"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/retry"
	"github.com/ignatzorin/odyssey-backend/internal/places"
	"github.com/ignatzorin/odyssey-backend/internal/repository"
	"github.com/ignatzorin/odyssey-backend/internal/service"
	"github.com/ignatzorin/odyssey-backend/internal/storage"
)

// App собирает репозитории и сервисы поверх одного подключения к базе.
// Используется и HTTP сервером, и джобами.
type App struct {
	DB *sqlx.DB

	MoodRepo    *repository.MoodRepository
	PictureRepo *repository.PictureRepository
	SpotRepo    *repository.SpotRepository

	Moods    *service.MoodService
	Pictures *service.PictureService
	Spots    *service.SpotService

	cache *service.CacheService
}

// New подключается к базе, применяет миграции и создаёт сервисы.
func New(ctx context.Context, cfg *config.Config, pool db.PoolOptions) (*App, error) {
	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL, pool)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
		_ = conn.Close()
		return nil, err
	}

	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	a := &App{
		DB:          conn,
		MoodRepo:    repository.NewMoodRepository(conn),
		PictureRepo: repository.NewPictureRepository(conn),
		SpotRepo:    repository.NewSpotRepository(conn),
		cache:       service.NewCacheService(time.Minute),
	}

	generator := ai.NewClient(ai.Options{
		APIKey:        cfg.OpenAIAPIKey,
		Organization:  cfg.OpenAIOrg,
		BaseURL:       cfg.OpenAIBaseURL,
		MessageModel:  cfg.MessageModel,
		Temperature:   cfg.MessageTemperature,
		ImageModel:    cfg.ImageModel,
		ImageSize:     cfg.ImageSize,
		MessagePolicy: policy(cfg.Message),
		ImagePolicy:   policy(cfg.Image),
	})
	lensClient := lens.NewClient(lens.Options{
		BaseURL:    cfg.LensBaseURL,
		SerpAPIKey: cfg.SerpAPIKey,
		Policy:     policy(cfg.Lens),
	})
	placesClient := places.NewClient(places.Options{
		APIKey:  cfg.GoogleAPIKey,
		BaseURL: cfg.PlacesBaseURL,
		Policy:  policy(cfg.Places),
	})
	mirror := storage.NewMirror(store, cfg.S3FilePath, cfg.MaxUploadSizeMB, policy(cfg.S3))

	picker := service.NewStoragePicker(a.MoodRepo, a.cache, cfg.CachedPoolTTL)
	a.Moods = service.NewMoodService(a.MoodRepo, generator, picker, cfg.MessageModel)
	a.Pictures = service.NewPictureService(a.MoodRepo, a.PictureRepo, generator, mirror, cfg.ImageModelLabel, cfg.SingleFlight)
	a.Spots = service.NewSpotService(a.SpotRepo, a.PictureRepo, lensClient, placesClient)

	return a, nil
}

// Close освобождает ресурсы.
func (a *App) Close() error {
	a.cache.Close()
	return a.DB.Close()
}

func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
	switch cfg.StorageDriver {
	case "local":
		store, err := storage.NewLocalStore(cfg.MediaStoragePath, cfg.PublicBaseURL, cfg.MaxUploadSizeMB)
		if err != nil {
			return nil, fmt.Errorf("app: не удалось подготовить файловое хранилище: %w", err)
		}
		return store, nil
	default:
		store, err := storage.NewS3Store(ctx, storage.S3Options{
			Region:          cfg.AWSRegion,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("app: не удалось подготовить S3: %w", err)
		}
		return store, nil
	}
}

func policy(p config.CallPolicy) retry.Policy {
	return retry.Policy{Timeout: p.Timeout, Retries: p.Retries}
}
