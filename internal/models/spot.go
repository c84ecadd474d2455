package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SpotImageMeta хранится в JSONB колонке meta_data.
type SpotImageMeta struct {
	Position  int    `json:"position"`
	SrcDomain string `json:"src_domain"`
	SrcURL    string `json:"src_url"`
}

func (m SpotImageMeta) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *SpotImageMeta) Scan(src any) error {
	return scanJSON(src, m)
}

// SpotImage - совпадение из обратного поиска по картинке.
type SpotImage struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	Thumbnail   string        `db:"thumbnail" json:"thumbnail"`
	URL         string        `db:"url" json:"url"`
	Title       string        `db:"title" json:"title"`
	ReferenceID uuid.UUID     `db:"reference_id" json:"reference_id"`
	MetaData    SpotImageMeta `db:"meta_data" json:"meta_data"`
}

// HasHTTPThumbnail сообщает, что миниатюру можно показать клиенту.
func (si SpotImage) HasHTTPThumbnail() bool {
	t := strings.ToLower(strings.TrimSpace(si.Thumbnail))
	return strings.HasPrefix(t, "http://") || strings.HasPrefix(t, "https://")
}

// LatLng - координаты точки.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry - геометрия места в формате Places API.
type Geometry struct {
	Location *LatLng         `json:"location,omitempty"`
	Viewport json.RawMessage `json:"viewport,omitempty"`
}

func (g Geometry) Value() (driver.Value, error) {
	return json.Marshal(g)
}

func (g *Geometry) Scan(src any) error {
	return scanJSON(src, g)
}

// Spot - реальное место, найденное по картинке или рядом с другим местом.
type Spot struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	Address     string         `db:"address" json:"address"`
	Name        string         `db:"name" json:"name"`
	Rating      float64        `db:"rating" json:"rating"`
	RatingN     int            `db:"rating_n" json:"rating_n"`
	PlaceID     string         `db:"place_id" json:"place_id"`
	Reference   string         `db:"reference" json:"reference"`
	Types       pq.StringArray `db:"types" json:"types"`
	Geometry    Geometry       `db:"geometry" json:"geometry"`
	SpotImageID uuid.UUID      `db:"spot_image_id" json:"spot_image_id"`
}

// SpotWithImage - spot вместе с картинкой, по которой он найден.
type SpotWithImage struct {
	Spot
	Image SpotImage `db:"image" json:"image"`
}

func scanJSON(src any, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("models: неподдерживаемый тип для JSON колонки")
	}
}
