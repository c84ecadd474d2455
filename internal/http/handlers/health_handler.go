package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/odyssey-backend/internal/dto"
)

// Pinger проверяет доступность базы.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler предоставляет endpoint для проверки здоровья сервиса.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler создаёт новый health handler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health обрабатывает GET /healthz.
func (h *HealthHandler) Health(c *gin.Context) {
	checks := make(map[string]string)
	message := "running"
	statusCode := http.StatusOK

	// Проверка подключения к БД
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		message = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["database"] = "healthy"
	}

	c.JSON(statusCode, dto.HealthResponse{
		Message:   message,
		Timestamp: time.Now(),
		Checks:    checks,
	})
}

// Crash обрабатывает GET /error: деление на ноль для проверки обработки паник и Sentry.
func (h *HealthHandler) Crash(c *gin.Context) {
	divisor := len(c.Query("divisor"))
	c.JSON(http.StatusOK, gin.H{"result": 1 / divisor})
}
