package router

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/odyssey-backend/internal/config"
	"github.com/ignatzorin/odyssey-backend/internal/http/handlers"
	"github.com/ignatzorin/odyssey-backend/internal/http/middleware"
	"github.com/ignatzorin/odyssey-backend/internal/storage"
)

func SetupRouter(
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	moodHandler *handlers.MoodHandler,
	pictureHandler *handlers.PictureHandler,
	spotHandler *handlers.SpotHandler,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	if cfg.SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/healthz", healthHandler.Health)
	r.GET("/error", healthHandler.Crash)

	// Картинки локального хранилища (STORAGE_DRIVER=local)
	if cfg.StorageDriver == "local" {
		r.StaticFS(storage.PublicPrefix, http.Dir(cfg.MediaStoragePath))
	}

	api := r.Group("/v1")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		api.POST("/mood/generate", moodHandler.GenerateMoodMessage)
		api.POST("/mood", moodHandler.SaveMoodMessage)
		api.GET("/mood/:id", middleware.UUIDValidator("id"), moodHandler.GetMoodMessage)
		api.POST("/mood/:id/picture", middleware.UUIDValidator("id"), pictureHandler.GetMoodPicture)

		api.POST("/pictures", pictureHandler.MirrorPicture)
		api.GET("/pictures/:id", middleware.UUIDValidator("id"), pictureHandler.GetPicture)

		api.GET("/spots/search", spotHandler.Search)
		api.GET("/spots/:id/nearby", middleware.UUIDValidator("id"), spotHandler.Nearby)
	}

	return r
}
