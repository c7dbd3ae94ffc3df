// Package storage persists uploaded files and maps them to public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pestozap/pestozap-backend/internal/config"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Storage is a flat key/value file store. Keys are slash-separated paths
// such as "blog/20240101120000_cover.jpg".
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
	// KeyFromURL reverses URL for files owned by this store.
	KeyFromURL(url string) (string, bool)
}

// New builds the store selected by cfg.Driver.
func New(cfg *config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.Local.Dir, cfg.Local.BaseURL)
	case "minio":
		return NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

func cleanKey(key string) (string, error) {
	key = strings.TrimLeft(strings.ReplaceAll(key, "\\", "/"), "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return "", ErrInvalidKey
		}
	}
	return key, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

func trimBase(base, url string) (string, bool) {
	prefix := strings.TrimRight(base, "/") + "/"
	if base == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key, err := cleanKey(strings.TrimPrefix(url, prefix))
	if err != nil {
		return "", false
	}
	return key, true
}
