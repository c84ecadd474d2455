package handlers

import (
	"context"

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

// PictureService - операции над картинками, нужные обработчикам.
type PictureService interface {
	GetOrGenerateMoodPicture(ctx context.Context, messageID uuid.UUID, excluded []uuid.UUID) (service.MoodPictureResult, error)
	MirrorPicture(ctx context.Context, refType string, refID uuid.UUID) (*models.Picture, error)
	GetPicture(ctx context.Context, id uuid.UUID) (*models.Picture, error)
}

// PictureHandler обслуживает картинки фраз и их копии в хранилище.
type PictureHandler struct {
	pictures PictureService
}

// NewPictureHandler создаёт обработчик.
func NewPictureHandler(pictures PictureService) *PictureHandler {
	return &PictureHandler{pictures: pictures}
}

// GetMoodPicture обрабатывает POST /v1/mood/:id/picture.
func (h *PictureHandler) GetMoodPicture(c *gin.Context) {
	messageID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.MoodPictureRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if req.UsedMoodPicIDs == nil {
		response.InvalidRequest(c, "поле used_mood_pic_ids обязательно")
		return
	}

	res, err := h.pictures.GetOrGenerateMoodPicture(c.Request.Context(), messageID, *req.UsedMoodPicIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	logger.Endpoint(c.FullPath()).WithFields(logrus.Fields{
		"mood_message_id": messageID,
		"mood_picture_id": res.ID,
		"excluded":        len(*req.UsedMoodPicIDs),
	}).Info("mood picture выдана")

	response.OK(c, dto.NewMoodPictureResponse(res))
}

// MirrorPicture обрабатывает POST /v1/pictures.
func (h *PictureHandler) MirrorPicture(c *gin.Context) {
	var req dto.MirrorPictureRequest
	if err := common.BindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if req.Type == "" || req.ID == nil {
		response.InvalidRequest(c, "поля type и id обязательны")
		return
	}

	pic, err := h.pictures.MirrorPicture(c.Request.Context(), req.Type, *req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewPictureResponse(pic))
}

// GetPicture обрабатывает GET /v1/pictures/:id.
func (h *PictureHandler) GetPicture(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	pic, err := h.pictures.GetPicture(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewPictureResponse(pic))
}
