package service

import (
	"context"
	"errors"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/pestozap/pestozap-backend/internal/logger"
	"github.com/pestozap/pestozap-backend/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrFileRequired = errors.New("no file provided")
	ErrFileTooLarge = errors.New("file is too large")
	ErrUploadType   = errors.New("unsupported upload type")
	ErrNotImage     = errors.New("file is not an image")
)

const uploadTimeLayout = "20060102150405"

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileInput is one uploaded file.
type FileInput struct {
	Name        string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// UploadResult describes a stored file.
type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type UploadService interface {
	// Upload stores file under <kind>/<YYYYMMDDHHMMSS>_<name>.
	Upload(ctx context.Context, kind string, file *FileInput) (*UploadResult, error)
	// Remove deletes the file behind url when this store owns it.
	Remove(ctx context.Context, url string) error
}

type UploadConfig struct {
	MaxSize      int64
	AllowedTypes []string
}

type uploadService struct {
	store   storage.Storage
	maxSize int64
	allowed map[string]bool
	now     func() time.Time
}

func NewUploadService(store storage.Storage, cfg *UploadConfig) UploadService {
	allowed := make(map[string]bool, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[t] = true
	}
	return &uploadService{
		store:   store,
		maxSize: cfg.MaxSize,
		allowed: allowed,
		now:     utcNow,
	}
}

func (s *uploadService) Upload(ctx context.Context, kind string, file *FileInput) (*UploadResult, error) {
	if kind == "" {
		kind = "general"
	}
	if !s.allowed[kind] {
		return nil, ErrUploadType
	}
	if file == nil || file.Reader == nil || file.Size == 0 {
		return nil, ErrFileRequired
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	name := SanitizeFileName(file.Name)
	key := kind + "/" + s.now().Format(uploadTimeLayout) + "_" + name
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := s.store.Put(ctx, key, file.Reader, file.Size, contentType)
	if err != nil {
		return nil, err
	}
	logger.L().Info("file uploaded", zap.String("key", key), zap.Int64("size", file.Size))
	return &UploadResult{
		URL:         url,
		Key:         key,
		Name:        name,
		Size:        file.Size,
		ContentType: contentType,
	}, nil
}

func (s *uploadService) Remove(ctx context.Context, url string) error {
	key, ok := s.store.KeyFromURL(url)
	if !ok {
		return nil
	}
	return s.store.Delete(ctx, key)
}

// SanitizeFileName keeps the base name with only [A-Za-z0-9._-].
func SanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFileChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	if len(name) > 100 {
		ext := path.Ext(name)
		if len(ext) > 10 {
			ext = ""
		}
		name = name[:100-len(ext)] + ext
	}
	return name
}
