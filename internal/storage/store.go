package storage

import (
	"context"
)

// ObjectStore сохраняет объект под ключом и возвращает его публичный URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}
