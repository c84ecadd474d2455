package retry

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/odyssey-backend/internal/logger"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/apperror"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/httpx"
)

// Policy описывает бюджет вызова внешнего сервиса: таймаут одной попытки и число повторов.
type Policy struct {
	Timeout time.Duration
	Retries int
}

// Do вызывает fn до Retries+1 раз без пауз между попытками.
// Каждая попытка получает собственный таймаут. Итоговая ошибка
// классифицируется через apperror.Upstream.
func Do[T any](ctx context.Context, p Policy, service string, fn func(ctx context.Context) (T, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)

	retries := p.Retries
	if retries < 0 {
		retries = 0
	}

	for attempt := 0; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			break
		}

		res, err := once(ctx, p.Timeout, fn)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if apperror.IsPermanent(err) || httpx.IsNonRetryableStatus(err) {
			break
		}

		if attempt < retries {
			logger.Log.WithFields(logrus.Fields{
				"service": service,
				"attempt": attempt + 1,
				"retries": retries,
				"error":   err.Error(),
			}).Warn("retry: повтор запроса к внешнему сервису")
		}
	}

	return zero, apperror.Upstream(lastErr, service)
}

func once[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(callCtx)
}
