package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/odyssey-backend/internal/models"
	"github.com/ignatzorin/odyssey-backend/internal/service"
)

// ErrorResponse - единый формат ошибки.
type ErrorResponse struct {
	ErrType string `json:"err_type"`
	ErrMsg  string `json:"err_msg"`
}

// MoodMessageResponse возвращается GET /v1/mood/:id.
type MoodMessageResponse struct {
	ID            uuid.UUID `json:"id"`
	MoodMessageID uuid.UUID `json:"mood_message_id"`
	Message       string    `json:"message"`
}

// GeneratedMoodResponse возвращается POST /v1/mood/generate.
type GeneratedMoodResponse struct {
	Message       string     `json:"message"`
	MoodMessageID *uuid.UUID `json:"mood_message_id"`
	ReqCacheBool  bool       `json:"req_cache_bool"`
}

// SavedMoodResponse возвращается POST /v1/mood.
type SavedMoodResponse struct {
	MoodMessageID uuid.UUID `json:"mood_message_id"`
}

// MoodPictureResponse возвращается POST /v1/mood/:id/picture.
type MoodPictureResponse struct {
	MoodPicID   uuid.UUID `json:"mood_pic_id"`
	MoodPicURL  string    `json:"mood_pic_url"`
	MoodPicSize string    `json:"mood_pic_size"`
}

// PictureResponse - скопированная в хранилище картинка.
type PictureResponse struct {
	S3PicID   uuid.UUID `json:"s3_pic_id"`
	S3PicURL  string    `json:"s3_pic_url"`
	S3PicSize string    `json:"s3_pic_size"`
}

// SpotImageResponse - картинка, по которой найдено место.
type SpotImageResponse struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}

// SpotResponse - место. Image заполнено только для результата поиска по картинке.
type SpotResponse struct {
	SpotID    uuid.UUID          `json:"spot_id"`
	CreatedAt *time.Time         `json:"created_at,omitempty"`
	Address   string             `json:"address"`
	Name      string             `json:"name"`
	Rating    float64            `json:"rating"`
	RatingN   int                `json:"rating_n"`
	PlaceID   string             `json:"place_id"`
	Reference string             `json:"reference"`
	Types     []string           `json:"types"`
	Geometry  models.Geometry    `json:"geometry"`
	Image     *SpotImageResponse `json:"image,omitempty"`
}

// NearbySpotsResponse возвращается GET /v1/spots/:id/nearby.
type NearbySpotsResponse struct {
	Spots []SpotResponse `json:"spots"`
}

// HealthResponse возвращается GET /healthz.
type HealthResponse struct {
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

func NewMoodMessageResponse(msg *models.MoodMessage) MoodMessageResponse {
	return MoodMessageResponse{ID: msg.ID, MoodMessageID: msg.ID, Message: msg.Content}
}

func NewMoodPictureResponse(res service.MoodPictureResult) MoodPictureResponse {
	return MoodPictureResponse{MoodPicID: res.ID, MoodPicURL: res.URL, MoodPicSize: res.Size}
}

func NewPictureResponse(pic *models.Picture) PictureResponse {
	return PictureResponse{S3PicID: pic.ID, S3PicURL: pic.URL, S3PicSize: pic.Size}
}

// NewSpotResponse собирает ответ по месту; нулевое время создания не выводится.
func NewSpotResponse(spot models.Spot) SpotResponse {
	resp := SpotResponse{
		SpotID:    spot.ID,
		Address:   spot.Address,
		Name:      spot.Name,
		Rating:    spot.Rating,
		RatingN:   spot.RatingN,
		PlaceID:   spot.PlaceID,
		Reference: spot.Reference,
		Types:     spot.Types,
		Geometry:  spot.Geometry,
	}
	if resp.Types == nil {
		resp.Types = []string{}
	}
	if !spot.CreatedAt.IsZero() {
		createdAt := spot.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

// NewSpotWithImageResponse добавляет к месту миниатюру картинки.
func NewSpotWithImageResponse(spot *models.SpotWithImage) SpotResponse {
	resp := NewSpotResponse(spot.Spot)
	resp.Image = &SpotImageResponse{ID: spot.Image.ID, URL: spot.Image.Thumbnail}
	return resp
}

func NewNearbySpotsResponse(spots []models.Spot) NearbySpotsResponse {
	resp := NearbySpotsResponse{Spots: make([]SpotResponse, 0, len(spots))}
	for _, s := range spots {
		resp.Spots = append(resp.Spots, NewSpotResponse(s))
	}
	return resp
}
