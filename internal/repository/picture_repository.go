package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/odyssey-backend/internal/models"
	"github.com/ignatzorin/odyssey-backend/internal/repository/common"
)

// PictureRepository работает с таблицей pictures.
type PictureRepository struct {
	db *sqlx.DB
}

// NewPictureRepository создаёт экземпляр.
func NewPictureRepository(db *sqlx.DB) *PictureRepository {
	return &PictureRepository{db: db}
}

// Create сохраняет запись о скопированной картинке.
func (r *PictureRepository) Create(ctx context.Context, pic *models.Picture) error {
	query := `
		INSERT INTO pictures (filename, size, url, reference_type, reference_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query,
		pic.Filename,
		pic.Size,
		pic.URL,
		pic.ReferenceType,
		pic.ReferenceID,
	).Scan(&pic.ID, &pic.CreatedAt); err != nil {
		return fmt.Errorf("picture repository: create %w", err)
	}

	return nil
}

// GetByID возвращает картинку по id.
func (r *PictureRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Picture, error) {
	return common.GetByID[models.Picture](ctx, r.db, "pictures", "picture", id)
}

// GetLatestByReference возвращает самую свежую копию для источника.
func (r *PictureRepository) GetLatestByReference(ctx context.Context, refType string, refID uuid.UUID) (*models.Picture, error) {
	var pic models.Picture
	query := `
		SELECT * FROM pictures
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &pic, query, refType, refID); err != nil {
		if common.IsNoRows(err) {
			return nil, common.NotFound("picture for "+refType, refID)
		}
		return nil, fmt.Errorf("picture repository: get by reference %w", err)
	}
	return &pic, nil
}

// ListPendingSpotSearch возвращает картинки, для которых поиск места ещё не выполнялся,
// от старых к новым.
func (r *PictureRepository) ListPendingSpotSearch(ctx context.Context, limit int) ([]models.Picture, error) {
	var pics []models.Picture
	query := `SELECT * FROM pictures WHERE found_spot IS NULL ORDER BY created_at LIMIT $1`
	if err := r.db.SelectContext(ctx, &pics, query, limit); err != nil {
		return nil, fmt.Errorf("picture repository: list pending %w", err)
	}
	return pics, nil
}

// MarkFoundSpot выставляет found_spot только если он ещё не выставлен.
// Возвращает false, если значение уже было записано раньше.
func (r *PictureRepository) MarkFoundSpot(ctx context.Context, id uuid.UUID, found bool) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pictures SET found_spot = $2 WHERE id = $1 AND found_spot IS NULL`,
		id, found,
	)
	if err != nil {
		return false, fmt.Errorf("picture repository: mark found spot %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("picture repository: mark found spot %w", err)
	}
	return n > 0, nil
}
