package models

import (
	"time"

	"github.com/google/uuid"
)

// ReferenceTypeMoodPic - единственный поддерживаемый источник для Picture.
const ReferenceTypeMoodPic = "mood_pic"

// ValidReferenceTypes список допустимых reference_type
var ValidReferenceTypes = map[string]struct{}{
	ReferenceTypeMoodPic: {},
}

// Picture - копия картинки в нашем объектном хранилище.
// FoundSpot: nil пока не проверено, затем true/false ровно один раз.
type Picture struct {
	ID            uuid.UUID `db:"id" json:"id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	Filename      string    `db:"filename" json:"filename"`
	Size          string    `db:"size" json:"size"`
	URL           string    `db:"url" json:"url"`
	ReferenceType string    `db:"reference_type" json:"reference_type"`
	ReferenceID   uuid.UUID `db:"reference_id" json:"reference_id"`
	FoundSpot     *bool     `db:"found_spot" json:"found_spot,omitempty"`
}
