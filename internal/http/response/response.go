package response

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/odyssey-backend/internal/dto"
	"github.com/ignatzorin/odyssey-backend/internal/logger"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/apperror"
)

const internalMessage = "внутренняя ошибка сервера"

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error - единственная точка перевода ошибки в HTTP ответ.
// Внутренние ошибки маскируются, 5xx отправляются в Sentry.
func Error(c *gin.Context, err error) {
	code := apperror.CodeOf(err)
	status := http.StatusInternalServerError
	message := internalMessage

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status = appErr.HTTPStatus
		if code != apperror.ErrCodeInternal {
			message = appErr.Message
		}
	}

	entry := logger.Log.WithFields(logrus.Fields{
		"path":     c.Request.URL.Path,
		"method":   c.Request.Method,
		"err_type": code,
		"error":    err.Error(),
	})
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
		capture(c, err)
	} else {
		entry.Info("request rejected")
	}

	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		ErrType: string(code),
		ErrMsg:  message,
	})
}

// InvalidRequest отвечает 400 с сообщением для клиента.
func InvalidRequest(c *gin.Context, format string, args ...any) {
	Error(c, apperror.InvalidRequest(format, args...))
}

func capture(c *gin.Context, err error) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}
