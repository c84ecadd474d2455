package common

import (
	"bytes"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/ignatzorin/odyssey-backend/internal/pkg/apperror"
)

// ParseUUIDParam parses UUID from URL parameter.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	return parseUUID(c.Param(paramName), paramName)
}

// ParseUUIDQuery parses UUID from query string.
func ParseUUIDQuery(c *gin.Context, key string) (uuid.UUID, error) {
	return parseUUID(c.Query(key), key)
}

func parseUUID(raw, name string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, apperror.InvalidRequest("параметр %s обязателен", name)
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.InvalidRequest("параметр %s должен быть валидным UUID", name)
	}
	return parsed, nil
}

// BindJSON binds a required JSON body.
func BindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.InvalidRequest("пустое тело запроса")
		}
		return apperror.InvalidRequest("ошибка валидации запроса: %v", err)
	}
	return nil
}

// BindOptionalJSON binds JSON body if present; an empty body keeps defaults.
func BindOptionalJSON(c *gin.Context, req any) error {
	if c.Request.Body == nil {
		return nil
	}
	body, err := c.GetRawData()
	if err != nil {
		return apperror.InvalidRequest("не удалось прочитать тело запроса")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := binding.JSON.BindBody(body, req); err != nil {
		return apperror.InvalidRequest("ошибка валидации запроса: %v", err)
	}
	return nil
}
