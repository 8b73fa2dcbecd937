// Package storage provides object storage for uploaded files and receipts.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/outvoice/backend/internal/domain/shared"
	infraconfig "github.com/outvoice/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var (
	// ErrKeyRequired is returned for an empty storage key
	ErrKeyRequired = errors.New("storage key is required")
	// ErrObjectNotFound is returned when no object is stored under the key
	ErrObjectNotFound = shared.NewDomainError("NOT_FOUND", "Stored file not found")
)

// Object is a stored blob
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// ObjectStorage stores and retrieves blobs by key
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// DownloadURLGenerator is implemented by backends that can hand out
// short-lived direct download links
type DownloadURLGenerator interface {
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// New creates the backend named by cfg.Type
func New(ctx context.Context, cfg infraconfig.StorageConfig, logger *zap.Logger) (ObjectStorage, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryStorage(), nil
	case "s3":
		s, err := NewS3ObjectStorage(&cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}
