package models

import (
	"time"

	"github.com/google/uuid"
)

// MoodMessage - сгенерированная фраза о настроении. После вставки не меняется.
type MoodMessage struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Content   string    `db:"content" json:"content"`
	Prompt    string    `db:"prompt" json:"prompt"`
	Model     string    `db:"model" json:"model"`
	Cached    bool      `db:"cached" json:"cached"`
}

// MoodPicture - картинка, сгенерированная по MoodMessage. URL указывает на сервер генератора.
type MoodPicture struct {
	ID            uuid.UUID `db:"id" json:"id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	URL           string    `db:"url" json:"url"`
	Size          string    `db:"size" json:"size"`
	Prompt        string    `db:"prompt" json:"prompt"`
	Model         string    `db:"model" json:"model"`
	MoodMessageID uuid.UUID `db:"mood_message_id" json:"mood_message_id"`
}

// MirroredMoodPicture - MoodPicture вместе с её копией в хранилище.
type MirroredMoodPicture struct {
	MoodPictureID uuid.UUID `db:"mood_picture_id"`
	PictureID     uuid.UUID `db:"picture_id"`
	URL           string    `db:"url"`
	Size          string    `db:"size"`
}
