package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/odyssey-backend/internal/lens"
	"github.com/ignatzorin/odyssey-backend/internal/logger"
	"github.com/ignatzorin/odyssey-backend/internal/models"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/apperror"
	"github.com/ignatzorin/odyssey-backend/internal/places"
)

const (
	nearbyRadius = 5000
	nearbyType   = "tourist_attraction"
)

// SpotRepository описывает доступ к местам.
type SpotRepository interface {
	CreateWithImage(ctx context.Context, image *models.SpotImage, spot *models.Spot) error
	ListByPicture(ctx context.Context, pictureID uuid.UUID) ([]models.SpotWithImage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Spot, error)
}

// PictureReader возвращает копию картинки по id.
type PictureReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Picture, error)
}

// VisualSearcher выполняет обратный поиск по картинке.
type VisualSearcher interface {
	Search(ctx context.Context, imageURL string) ([]lens.VisualMatch, error)
}

// PlaceSearcher ищет места.
type PlaceSearcher interface {
	TextSearch(ctx context.Context, query string) ([]places.Place, error)
	NearbySearch(ctx context.Context, q places.NearbyQuery) ([]places.Place, error)
}

// SpotService находит реальное место по картинке и места рядом с ним.
type SpotService struct {
	spots    SpotRepository
	pictures PictureReader
	lens     VisualSearcher
	places   PlaceSearcher
}

// NewSpotService создаёт экземпляр.
func NewSpotService(spots SpotRepository, pictures PictureReader, lens VisualSearcher, places PlaceSearcher) *SpotService {
	return &SpotService{spots: spots, pictures: pictures, lens: lens, places: places}
}

// SearchByPicture возвращает место для картинки: сначала из базы, иначе через
// обратный поиск и поиск мест. Первое найденное место сохраняется.
func (s *SpotService) SearchByPicture(ctx context.Context, pictureID uuid.UUID) (*models.SpotWithImage, error) {
	picture, err := s.pictures.GetByID(ctx, pictureID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(picture.URL) == "" {
		return nil, apperror.NotFound("picture %s не найден", pictureID)
	}
	if picture.FoundSpot != nil && !*picture.FoundSpot {
		return nil, noSpotFound(pictureID)
	}

	cached, err := s.spots.ListByPicture(ctx, pictureID)
	if err != nil {
		return nil, err
	}
	if spot, ok := lo.Find(cached, func(sp models.SpotWithImage) bool {
		return sp.Image.HasHTTPThumbnail()
	}); ok {
		logger.Log.WithFields(logrus.Fields{
			"picture_id": pictureID,
			"spot_id":    spot.ID,
		}).Info("spot: найдено закэшированное место")
		return &spot, nil
	}

	matches, err := s.lens.Search(ctx, picture.URL)
	if err != nil {
		return nil, fmt.Errorf("spot search for picture %s: %w", pictureID, err)
	}
	images := FilterSpotImages(matches)
	logger.Log.WithFields(logrus.Fields{
		"picture_id": pictureID,
		"matches":    len(matches),
		"images":     len(images),
	}).Info("spot: обратный поиск выполнен")

	for _, image := range images {
		if strings.TrimSpace(image.Title) == "" {
			continue
		}

		found, err := s.places.TextSearch(ctx, image.Title)
		if err != nil {
			return nil, fmt.Errorf("spot search for picture %s: %w", pictureID, err)
		}
		if len(found) == 0 {
			continue
		}

		image.ReferenceID = pictureID
		spot := spotFromPlace(found[0])
		if err := s.spots.CreateWithImage(ctx, &image, &spot); err != nil {
			return nil, apperror.Internal(err, "не удалось сохранить найденное место")
		}

		return &models.SpotWithImage{Spot: spot, Image: image}, nil
	}

	return nil, noSpotFound(pictureID)
}

// Nearby ищет достопримечательности рядом с местом. Если по типу ничего нет,
// повторяет поиск без фильтра. Результат не сохраняется.
func (s *SpotService) Nearby(ctx context.Context, spotID uuid.UUID) ([]models.Spot, error) {
	origin, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(origin.Name) == "" {
		return nil, apperror.NotFound("spot %s не найден", spotID)
	}
	if origin.Geometry.Location == nil {
		return nil, apperror.InvalidRequest("у места %s нет координат", spotID)
	}

	query := places.NearbyQuery{
		Location: *origin.Geometry.Location,
		Radius:   nearbyRadius,
		Type:     nearbyType,
	}
	found, err := s.places.NearbySearch(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("nearby search for spot %s: %w", spotID, err)
	}

	if len(found) == 0 {
		query.Type = ""
		found, err = s.places.NearbySearch(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("nearby search for spot %s: %w", spotID, err)
		}
	}

	spots := make([]models.Spot, 0, len(found))
	for _, p := range found {
		if missing := missingNearbyFields(p); len(missing) > 0 {
			logger.Log.WithFields(logrus.Fields{
				"spot_id":  spotID,
				"place_id": p.PlaceID,
				"missing":  missing,
			}).Warn("spot: неполный результат поиска рядом пропущен")
			continue
		}

		spot := spotFromPlace(p)
		spot.Address = p.Vicinity
		spot.Reference = origin.PlaceID
		spots = append(spots, spot)
	}

	return spots, nil
}

func missingNearbyFields(p places.Place) []string {
	var missing []string
	if p.Vicinity == "" {
		missing = append(missing, "vicinity")
	}
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.PlaceID == "" {
		missing = append(missing, "place_id")
	}
	if p.Types == nil {
		missing = append(missing, "types")
	}
	if p.Geometry == nil {
		missing = append(missing, "geometry")
	}
	return missing
}

// spotFromPlace переносит поля результата Places API; рейтинг по умолчанию 0.
func spotFromPlace(p places.Place) models.Spot {
	spot := models.Spot{
		ID:        uuid.New(),
		Address:   p.FormattedAddress,
		Name:      p.Name,
		Rating:    lo.FromPtr(p.Rating),
		RatingN:   lo.FromPtr(p.UserRatingsTotal),
		PlaceID:   p.PlaceID,
		Reference: p.Reference,
		Types:     p.Types,
	}
	if p.Geometry != nil {
		spot.Geometry = *p.Geometry
	}
	if spot.Types == nil {
		spot.Types = []string{}
	}
	return spot
}

func noSpotFound(pictureID uuid.UUID) error {
	return apperror.NotFound("для картинки %s место не найдено", pictureID)
}
