package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/shinjidev/shinji-catalog/internal/config"
)

// Bucket uploads product images to an S3-compatible bucket and hands back
// publicly resolvable URLs. The bucket is expected to allow public reads.
type Bucket struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// New builds the storage client from config. The storage settings are
// validated here rather than in config.Load, since cmd/import runs without
// an object store.
func New(cfg config.Config) (*Bucket, error) {
	if cfg.StorageEndpoint == "" {
		return nil, fmt.Errorf("STORAGE_ENDPOINT is required")
	}
	if cfg.StorageKey == "" || cfg.StorageSecret == "" {
		return nil, fmt.Errorf("STORAGE_KEY and STORAGE_SECRET are required")
	}
	if cfg.StorageBucket == "" {
		return nil, fmt.Errorf("STORAGE_BUCKET is required")
	}

	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageKey, cfg.StorageSecret, ""),
		Secure: cfg.StorageUseSSL,
		Region: cfg.StorageRegion,
	})
	if err != nil {
		return nil, err
	}

	publicURL := cfg.StoragePublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.StorageUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.StorageEndpoint, cfg.StorageBucket)
	}

	return &Bucket{
		client:    client,
		bucket:    cfg.StorageBucket,
		publicURL: publicURL,
	}, nil
}

// Upload stores one object and returns its public URL. The key keeps the
// original filename for readability; the uuid segment makes it unique even
// when two uploads of the same file land in the same millisecond.
func (b *Bucket) Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	key := fmt.Sprintf("%d_%s_%s", time.Now().UnixMilli(), uuid.New().String(), filename)

	_, err := b.client.PutObject(ctx, b.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", b.publicURL, key), nil
}
