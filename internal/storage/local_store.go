package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore хранит объекты на диске. Используется в development вместо S3,
// файлы раздаются роутером по PublicPrefix.
type LocalStore struct {
	rootPath      string
	publicBaseURL string
	maxBytes      int64
}

// PublicPrefix - путь, по которому роутер раздаёт локальные файлы.
const PublicPrefix = "/media"

// NewLocalStore создаёт файловое хранилище.
func NewLocalStore(rootPath, publicBaseURL string, maxUploadMB int64) (*LocalStore, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &LocalStore{
		rootPath:      rootPath,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		maxBytes:      maxUploadMB * 1024 * 1024,
	}, nil
}

// Root возвращает каталог с файлами.
func (s *LocalStore) Root() string {
	return s.rootPath
}

// Put записывает файл через временный файл и rename.
func (s *LocalStore) Put(ctx context.Context, key, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("storage: размер файла превышает лимит %d байт", s.maxBytes)
	}

	key = sanitizeKey(key)
	targetPath := filepath.Join(s.rootPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: не удалось создать каталог: %w", err)
	}

	tempPath := targetPath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("storage: ошибка записи файла: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return s.publicBaseURL + PublicPrefix + "/" + key, nil
}

// sanitizeKey удаляет попытки выйти за пределы каталога.
func sanitizeKey(key string) string {
	parts := strings.Split(filepath.ToSlash(key), "/")
	clean := parts[:0]
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		clean = append(clean, strings.ReplaceAll(p, "\\", "_"))
	}
	if len(clean) == 0 {
		return "object"
	}
	return strings.Join(clean, "/")
}
