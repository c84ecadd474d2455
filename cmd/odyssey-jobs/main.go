package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/odyssey-backend/internal/app"
	"github.com/ignatzorin/odyssey-backend/internal/config"
	"github.com/ignatzorin/odyssey-backend/internal/db"
	"github.com/ignatzorin/odyssey-backend/internal/jobs"
	"github.com/ignatzorin/odyssey-backend/internal/logger"
)

// jobsPool - джобы работают последовательно, большой пул не нужен.
var jobsPool = db.PoolOptions{MaxOpen: 2, MaxIdle: 1, MaxLifetime: 5 * time.Minute}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := jobs.Options{}

	root := &cobra.Command{
		Use:          "odyssey-jobs",
		Short:        "Фоновые задачи odyssey: поиск мест и прогрев кэша",
		SilenceUsage: true,
	}
	root.PersistentFlags().IntVar(&opts.Limit, "limit", 1000, "максимум записей за прогон")
	root.PersistentFlags().DurationVar(&opts.Pause, "pause", time.Second, "пауза после неудачной попытки")

	root.AddCommand(
		&cobra.Command{
			Use:   "sync-spots",
			Short: "Найти места для картинок, где поиск ещё не выполнялся",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), func(a *app.App) error {
					_, err := jobs.SyncSpots(cmd.Context(), a.PictureRepo, a.Spots, opts)
					return err
				})
			},
		},
		newWarmMessagesCmd(&opts),
		&cobra.Command{
			Use:   "warm-pictures",
			Short: "Сгенерировать и скопировать картинки для закэшированных фраз",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), func(a *app.App) error {
					_, err := jobs.WarmPictures(cmd.Context(), a.MoodRepo, a.Pictures, opts)
					return err
				})
			},
		},
	)

	return root
}

func newWarmMessagesCmd(opts *jobs.Options) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "warm-messages",
		Short: "Сгенерировать N фраз и добавить подходящие в кэш",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if n <= 0 {
				return fmt.Errorf("-n должен быть больше 0")
			}
			return withApp(cmd.Context(), func(a *app.App) error {
				_, err := jobs.WarmMessages(cmd.Context(), a.Moods, n, *opts)
				return err
			})
		},
	}
	cmd.Flags().IntVarP(&n, "count", "n", 0, "сколько фраз сгенерировать")
	_ = cmd.MarkFlagRequired("count")

	return cmd
}

func withApp(ctx context.Context, run func(a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}

	a, err := app.New(ctx, cfg, jobsPool)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Log.WithError(err).Error("jobs: ошибка закрытия базы")
		}
	}()

	return run(a)
}
