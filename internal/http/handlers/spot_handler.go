package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/odyssey-backend/internal/dto"
	"github.com/ignatzorin/odyssey-backend/internal/http/handlers/common"
	"github.com/ignatzorin/odyssey-backend/internal/http/response"
	"github.com/ignatzorin/odyssey-backend/internal/models"
)

// SpotService - поиск мест.
type SpotService interface {
	SearchByPicture(ctx context.Context, pictureID uuid.UUID) (*models.SpotWithImage, error)
	Nearby(ctx context.Context, spotID uuid.UUID) ([]models.Spot, error)
}

// SpotHandler обслуживает /v1/spots.
type SpotHandler struct {
	spots SpotService
}

// NewSpotHandler создаёт обработчик.
func NewSpotHandler(spots SpotService) *SpotHandler {
	return &SpotHandler{spots: spots}
}

// Search обрабатывает GET /v1/spots/search?s3_pic_id=.
func (h *SpotHandler) Search(c *gin.Context) {
	pictureID, err := common.ParseUUIDQuery(c, "s3_pic_id")
	if err != nil {
		response.Error(c, err)
		return
	}

	spot, err := h.spots.SearchByPicture(c.Request.Context(), pictureID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewSpotWithImageResponse(spot))
}

// Nearby обрабатывает GET /v1/spots/:id/nearby.
func (h *SpotHandler) Nearby(c *gin.Context) {
	spotID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	spots, err := h.spots.Nearby(c.Request.Context(), spotID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewNearbySpotsResponse(spots))
}
