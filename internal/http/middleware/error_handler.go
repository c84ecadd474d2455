package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/odyssey-backend/internal/http/response"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/apperror"
)

// ErrorHandler отвечает на ошибки, добавленные через c.Error, если ответ ещё не записан.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		response.Error(c, c.Errors.Last().Err)
	}
}

// Recovery превращает панику в ответ 500 в общем формате ошибок.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Error(c, apperror.Internal(fmt.Errorf("panic: %v", recovered), "паника при обработке запроса"))
	})
}
