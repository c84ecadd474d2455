package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/odyssey-backend/internal/dto"
	"github.com/ignatzorin/odyssey-backend/internal/http/handlers/common"
	"github.com/ignatzorin/odyssey-backend/internal/http/response"
	"github.com/ignatzorin/odyssey-backend/internal/logger"
	"github.com/ignatzorin/odyssey-backend/internal/models"
	"github.com/ignatzorin/odyssey-backend/internal/service"
)

// MoodService - операции над фразами, нужные обработчикам.
type MoodService interface {
	GenerateMoodMessage(ctx context.Context, useCache bool) (service.GeneratedMoodMessage, error)
	SaveMoodMessage(ctx context.Context, content string, wantCache bool, existingID *uuid.UUID) (uuid.UUID, error)
	GetMoodMessage(ctx context.Context, id uuid.UUID) (*models.MoodMessage, error)
}

// MoodHandler обслуживает /v1/mood.
type MoodHandler struct {
	moods MoodService
}

// NewMoodHandler создаёт обработчик.
func NewMoodHandler(moods MoodService) *MoodHandler {
	return &MoodHandler{moods: moods}
}

// GetMoodMessage обрабатывает GET /v1/mood/:id.
func (h *MoodHandler) GetMoodMessage(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	msg, err := h.moods.GetMoodMessage(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewMoodMessageResponse(msg))
}

// GenerateMoodMessage обрабатывает POST /v1/mood/generate.
func (h *MoodHandler) GenerateMoodMessage(c *gin.Context) {
	req := dto.NewGenerateMoodRequest()
	if err := common.BindOptionalJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.moods.GenerateMoodMessage(c.Request.Context(), bool(req.FromCache))
	if err != nil {
		response.Error(c, err)
		return
	}

	logger.Endpoint(c.FullPath()).WithFields(logrus.Fields{
		"from_cache":      bool(req.FromCache),
		"mood_message_id": res.SourceID,
	}).Info("mood message выдан")

	response.OK(c, dto.GeneratedMoodResponse{
		Message:       res.Message,
		MoodMessageID: res.SourceID,
		ReqCacheBool:  bool(req.FromCache),
	})
}

// SaveMoodMessage обрабатывает POST /v1/mood.
func (h *MoodHandler) SaveMoodMessage(c *gin.Context) {
	var req dto.SaveMoodRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		response.InvalidRequest(c, "поле message обязательно")
		return
	}

	id, err := h.moods.SaveMoodMessage(c.Request.Context(), *req.Message, bool(req.ToCache), req.MoodMessageID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SavedMoodResponse{MoodMessageID: id})
}
