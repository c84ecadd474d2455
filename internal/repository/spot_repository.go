package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/odyssey-backend/internal/models"
	"github.com/ignatzorin/odyssey-backend/internal/repository/common"
)

// SpotRepository работает с таблицами spot_images и spots.
type SpotRepository struct {
	db *sqlx.DB
}

// NewSpotRepository создаёт экземпляр.
func NewSpotRepository(db *sqlx.DB) *SpotRepository {
	return &SpotRepository{db: db}
}

// CreateWithImage сохраняет картинку-совпадение и найденное по ней место в одной транзакции.
func (r *SpotRepository) CreateWithImage(ctx context.Context, image *models.SpotImage, spot *models.Spot) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx, `
			INSERT INTO spot_images (thumbnail, url, title, reference_id, meta_data)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at`,
			image.Thumbnail,
			image.URL,
			image.Title,
			image.ReferenceID,
			image.MetaData,
		).Scan(&image.ID, &image.CreatedAt); err != nil {
			return fmt.Errorf("spot repository: create image %w", err)
		}

		spot.SpotImageID = image.ID
		if err := tx.QueryRowxContext(ctx, `
			INSERT INTO spots (address, name, rating, rating_n, place_id, reference, types, geometry, spot_image_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id, created_at`,
			spot.Address,
			spot.Name,
			spot.Rating,
			spot.RatingN,
			spot.PlaceID,
			spot.Reference,
			spot.Types,
			spot.Geometry,
			spot.SpotImageID,
		).Scan(&spot.ID, &spot.CreatedAt); err != nil {
			return fmt.Errorf("spot repository: create spot %w", err)
		}

		return nil
	})
}

// ListByPicture возвращает места, найденные по картинке, от новых к старым.
func (r *SpotRepository) ListByPicture(ctx context.Context, pictureID uuid.UUID) ([]models.SpotWithImage, error) {
	query := `
		SELECT s.*,
			si.id AS "image.id",
			si.created_at AS "image.created_at",
			si.thumbnail AS "image.thumbnail",
			si.url AS "image.url",
			si.title AS "image.title",
			si.reference_id AS "image.reference_id",
			si.meta_data AS "image.meta_data"
		FROM spots s
		JOIN spot_images si ON si.id = s.spot_image_id
		WHERE si.reference_id = $1
		ORDER BY s.created_at DESC
	`

	var spots []models.SpotWithImage
	if err := r.db.SelectContext(ctx, &spots, query, pictureID); err != nil {
		return nil, fmt.Errorf("spot repository: list by picture %w", err)
	}
	return spots, nil
}

// GetByID возвращает место по id.
func (r *SpotRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Spot, error) {
	return common.GetByID[models.Spot](ctx, r.db, "spots", "spot", id)
}
