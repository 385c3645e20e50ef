package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

const (
	uploadAttempts     = 3
	archiveContentType = "application/vnd.android.package-archive"
)

// Storage is the object-store boundary the publisher drives. pkg/s3
// implements it against S3-compatible endpoints; tests substitute fakes.
type Storage interface {
	ListBuckets(ctx context.Context) ([]string, error)
	CreateBucket(ctx context.Context, name string, public bool) error
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error
	PublicURL(bucket, key string) string
}

// Publisher uploads assembled archives to durable storage and resolves
// their public address. Sleep is injectable so tests can observe the retry
// schedule without waiting.
type Publisher struct {
	Storage Storage
	Bucket  string
	Sleep   func(time.Duration)
	Logger  *log.Logger
}

// Publish ensures the bucket exists, uploads the archive under a key derived
// from buildID with bounded retry, and returns the object's public URL.
// Uploads use overwrite semantics, so re-running a publish is safe.
func (p *Publisher) Publish(ctx context.Context, archive []byte, buildID string) (string, error) {
	if p == nil || p.Storage == nil {
		return "", errors.New("storage is required")
	}
	if p.Bucket == "" {
		return "", errors.New("bucket is required")
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	if err := p.ensureBucket(ctx); err != nil {
		return "", err
	}

	key := buildID + ".apk"

	var lastErr error
	for attempt := 1; attempt <= uploadAttempts; attempt++ {
		lastErr = p.Storage.Upload(ctx, p.Bucket, key, archive, archiveContentType)
		if lastErr == nil {
			return p.Storage.PublicURL(p.Bucket, key), nil
		}
		p.logf("WARN upload attempt %d/%d for %s failed: %v", attempt, uploadAttempts, key, lastErr)
		if attempt < uploadAttempts {
			// Linear backoff: 1s after the first failure, 2s after the second.
			sleep(time.Duration(attempt) * time.Second)
		}
	}

	return "", newError(KindUploadExhausted, fmt.Errorf("upload %s after %d attempts: %w", key, uploadAttempts, lastErr))
}

func (p *Publisher) ensureBucket(ctx context.Context) error {
	buckets, err := p.Storage.ListBuckets(ctx)
	if err != nil {
		return newError(KindStorageProvision, fmt.Errorf("list buckets: %w", err))
	}
	for _, name := range buckets {
		if name == p.Bucket {
			return nil
		}
	}

	if err := p.Storage.CreateBucket(ctx, p.Bucket, true); err != nil {
		return newError(KindStorageProvision, fmt.Errorf("create bucket %q: %w", p.Bucket, err))
	}
	p.logf("INFO created bucket %s", p.Bucket)
	return nil
}

func (p *Publisher) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}
