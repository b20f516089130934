package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
)

// Bucket is the photo bucket on any S3-compatible store. Provisioning is
// remembered only once it succeeds, so a store that comes up late is retried.
type Bucket struct {
	client *minio.Client
	name   string

	mu    sync.Mutex
	ready bool
}

func NewBucket(client *minio.Client, name string) *Bucket {
	return &Bucket{client: client, name: strings.TrimSpace(name)}
}

func (b *Bucket) EnsureBucket(ctx context.Context) error {
	if b.client == nil || b.name == "" {
		return fmt.Errorf("photo bucket is not configured")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ready {
		return nil
	}

	exists, err := b.client.BucketExists(ctx, b.name)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", b.name, err)
	}
	if !exists {
		if err := b.client.MakeBucket(ctx, b.name, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %q: %w", b.name, err)
		}
	}
	b.ready = true
	return nil
}

// PresignGet returns a GET URL for key that expires after ttl. Photos are
// served inline so browsers render them rather than download.
func (b *Bucket) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if b.client == nil {
		return "", fmt.Errorf("photo bucket is not configured")
	}
	if key == "" {
		return "", ErrValidation
	}
	if ttl <= 0 {
		ttl = defaultPresignTTL
	}

	params := url.Values{}
	params.Set("response-content-disposition", "inline")
	u, err := b.client.PresignedGetObject(ctx, b.name, key, ttl, params)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}
