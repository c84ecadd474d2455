package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/ignatzorin/odyssey-backend/internal/app"
	"github.com/ignatzorin/odyssey-backend/internal/config"
	"github.com/ignatzorin/odyssey-backend/internal/db"
	"github.com/ignatzorin/odyssey-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/odyssey-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/odyssey-backend/internal/http/router"
	"github.com/ignatzorin/odyssey-backend/internal/logger"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Env,
			EnableTracing:    true,
			TracesSampleRate: 0.5,
		}); err != nil {
			logger.Log.WithError(err).Warn("main: sentry не инициализирован")
		}
		defer sentry.Flush(2 * time.Second)
	}

	// База, миграции, сервисы.
	application, err := app.New(ctx, cfg, db.DefaultPool)
	if err != nil {
		logger.Log.WithError(err).Fatal("main: не удалось запустить приложение")
	}
	defer safeClose(application)

	// HTTP хэндлеры.
	healthHandler := httpHandlers.NewHealthHandler(application.DB)
	moodHandler := httpHandlers.NewMoodHandler(application.Moods)
	pictureHandler := httpHandlers.NewPictureHandler(application.Pictures)
	spotHandler := httpHandlers.NewSpotHandler(application.Spots)

	engine := httpRouter.SetupRouter(cfg, healthHandler, moodHandler, pictureHandler, spotHandler)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	goroutine.SafeGo("http shutdown", func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("main: ошибка остановки http сервера")
		}
	})

	logger.Log.WithField("addr", server.Addr).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.WithError(err).Fatal("main: сервер завершился с ошибкой")
	}
}

// safeClose закрывает соединение с базой.
func safeClose(a *app.App) {
	if err := a.Close(); err != nil {
		logger.Log.WithError(err).Error("main: ошибка закрытия базы")
	}
}
