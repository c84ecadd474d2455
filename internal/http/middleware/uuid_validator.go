package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/odyssey-backend/internal/http/response"
)

// UUIDValidator проверяет, что параметр с указанным именем является валидным UUID.
// Использование: router.GET("/mood/:id", UUIDValidator("id"), handler.GetMoodMessage)
func UUIDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param(paramName)
		if idStr == "" {
			response.InvalidRequest(c, "параметр %s обязателен", paramName)
			return
		}

		if _, err := uuid.Parse(idStr); err != nil {
			response.InvalidRequest(c, "параметр %s должен быть валидным UUID", paramName)
			return
		}

		c.Next()
	}
}
