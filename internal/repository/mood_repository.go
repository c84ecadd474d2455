package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/odyssey-backend/internal/models"
	"github.com/ignatzorin/odyssey-backend/internal/repository/common"
)

// MoodRepository работает с таблицами mood_messages и mood_pictures.
type MoodRepository struct {
	db *sqlx.DB
}

// NewMoodRepository создаёт экземпляр.
func NewMoodRepository(db *sqlx.DB) *MoodRepository {
	return &MoodRepository{db: db}
}

// CreateMessage сохраняет фразу и заполняет id и created_at.
func (r *MoodRepository) CreateMessage(ctx context.Context, msg *models.MoodMessage) error {
	query := `
		INSERT INTO mood_messages (content, prompt, model, cached)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query,
		msg.Content,
		msg.Prompt,
		msg.Model,
		msg.Cached,
	).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return fmt.Errorf("mood repository: create message %w", err)
	}

	return nil
}

// GetMessage возвращает фразу по id.
func (r *MoodRepository) GetMessage(ctx context.Context, id uuid.UUID) (*models.MoodMessage, error) {
	return common.GetByID[models.MoodMessage](ctx, r.db, "mood_messages", "mood message", id)
}

// ListCachedMessageIDs возвращает id закэшированных фраз с непустым текстом.
func (r *MoodRepository) ListCachedMessageIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT id FROM mood_messages WHERE cached AND btrim(content) <> ''`
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("mood repository: list cached ids %w", err)
	}
	return ids, nil
}

// ListCachedMessagesWithoutMirror возвращает закэшированные фразы,
// для которых ещё нет ни одной картинки в нашем хранилище.
func (r *MoodRepository) ListCachedMessagesWithoutMirror(ctx context.Context, limit int) ([]models.MoodMessage, error) {
	query := `
		SELECT m.* FROM mood_messages m
		WHERE m.cached AND btrim(m.content) <> ''
		  AND NOT EXISTS (
			SELECT 1 FROM mood_pictures mp
			JOIN pictures p ON p.reference_type = $1 AND p.reference_id = mp.id
			WHERE mp.mood_message_id = m.id
		  )
		ORDER BY m.created_at
		LIMIT $2
	`

	var messages []models.MoodMessage
	if err := r.db.SelectContext(ctx, &messages, query, models.ReferenceTypeMoodPic, limit); err != nil {
		return nil, fmt.Errorf("mood repository: list cached without mirror %w", err)
	}
	return messages, nil
}

// CreatePicture сохраняет сгенерированную картинку.
func (r *MoodRepository) CreatePicture(ctx context.Context, pic *models.MoodPicture) error {
	query := `
		INSERT INTO mood_pictures (url, size, prompt, model, mood_message_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(ctx, query,
		pic.URL,
		pic.Size,
		pic.Prompt,
		pic.Model,
		pic.MoodMessageID,
	).Scan(&pic.ID, &pic.CreatedAt); err != nil {
		return fmt.Errorf("mood repository: create picture %w", err)
	}

	return nil
}

// GetPicture возвращает сгенерированную картинку по id.
func (r *MoodRepository) GetPicture(ctx context.Context, id uuid.UUID) (*models.MoodPicture, error) {
	return common.GetByID[models.MoodPicture](ctx, r.db, "mood_pictures", "mood picture", id)
}

// ListMirroredPictures возвращает картинки фразы, уже скопированные к нам,
// от новых к старым.
func (r *MoodRepository) ListMirroredPictures(ctx context.Context, messageID uuid.UUID) ([]models.MirroredMoodPicture, error) {
	query := `
		SELECT mp.id AS mood_picture_id, p.id AS picture_id, p.url, p.size
		FROM mood_pictures mp
		JOIN pictures p ON p.reference_type = $2 AND p.reference_id = mp.id
		WHERE mp.mood_message_id = $1
		ORDER BY mp.created_at DESC, p.created_at DESC
	`

	var pics []models.MirroredMoodPicture
	if err := r.db.SelectContext(ctx, &pics, query, messageID, models.ReferenceTypeMoodPic); err != nil {
		return nil, fmt.Errorf("mood repository: list mirrored pictures %w", err)
	}
	return pics, nil
}
