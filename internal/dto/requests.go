package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FlexBool принимает JSON boolean или строки "true"/"false".
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		*b = false
		return nil
	}

	var v bool
	if err := json.Unmarshal(raw, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("ожидается boolean, получено %s", raw)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		*b = true
	case "false", "":
		*b = false
	default:
		return fmt.Errorf("ожидается boolean, получено %q", s)
	}
	return nil
}

// CacheFlag - флаг from_cache. Выключается только явным false или "false",
// любая другая строка и null оставляют его включённым.
type CacheFlag bool

func (f *CacheFlag) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		*f = true
		return nil
	}

	var v bool
	if err := json.Unmarshal(raw, &v); err == nil {
		*f = CacheFlag(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("ожидается boolean, получено %s", raw)
	}
	*f = CacheFlag(!strings.EqualFold(strings.TrimSpace(s), "false"))
	return nil
}

// GenerateMoodRequest - тело POST /v1/mood/generate. Тело может отсутствовать.
type GenerateMoodRequest struct {
	FromCache CacheFlag `json:"from_cache"`
}

// NewGenerateMoodRequest возвращает запрос со значениями по умолчанию:
// без тела и без поля from_cache фраза берётся из кэша.
func NewGenerateMoodRequest() GenerateMoodRequest {
	return GenerateMoodRequest{FromCache: true}
}

// SaveMoodRequest - тело POST /v1/mood.
type SaveMoodRequest struct {
	Message       *string    `json:"message"`
	ToCache       FlexBool   `json:"to_cache"`
	MoodMessageID *uuid.UUID `json:"mood_message_id"`
}

// MoodPictureRequest - тело POST /v1/mood/:id/picture.
type MoodPictureRequest struct {
	UsedMoodPicIDs *[]uuid.UUID `json:"used_mood_pic_ids"`
}

// MirrorPictureRequest - тело POST /v1/pictures.
type MirrorPictureRequest struct {
	Type string     `json:"type"`
	ID   *uuid.UUID `json:"id"`
}
