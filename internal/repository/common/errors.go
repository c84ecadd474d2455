package common

import "github.com/ignatzorin/odyssey-backend/internal/pkg/apperror"

// NotFound формирует единообразную ошибку отсутствия сущности.
func NotFound(entity string, id any) error {
	return apperror.NotFound("%s %v не найден", entity, id)
}
