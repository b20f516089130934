package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrValidation = errors.New("validation error")

const defaultPresignTTL = 15 * time.Minute

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// PhotoSigner turns stored photo object keys into short-lived GET URLs.
type PhotoSigner struct {
	storage ObjectStorage
	ttl     time.Duration
}

func NewPhotoSigner(storage ObjectStorage, ttl time.Duration) *PhotoSigner {
	return &PhotoSigner{
		storage: storage,
		ttl:     ttl,
	}
}

// PresignGet signs key. The configured TTL takes precedence over the caller's;
// absolute URLs are returned unchanged.
func (s *PhotoSigner) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrValidation
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key, nil
	}
	if s.storage == nil {
		return "", fmt.Errorf("object storage is not configured")
	}

	if s.ttl > 0 {
		ttl = s.ttl
	}
	if ttl <= 0 {
		ttl = defaultPresignTTL
	}

	url, err := s.storage.PresignGet(ctx, strings.TrimPrefix(key, "/"), ttl)
	if err != nil {
		return "", fmt.Errorf("presign photo url: %w", err)
	}
	return url, nil
}

func (s *PhotoSigner) EnsureBucket(ctx context.Context) error {
	if s.storage == nil {
		return fmt.Errorf("object storage is not configured")
	}
	return s.storage.EnsureBucket(ctx)
}
