package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client is a thin wrapper around the AWS SDK v2 S3 client tuned for
// S3-compatible endpoints (SeaweedFS, MinIO, and the like).
type Client struct {
	api      *s3.Client
	endpoint string
}

// NewClientFromEnv initialises a Client using environment variables expected by the project.
//
// Required environment variables:
//   - S3_ENDPOINT: host:port or full URL to the S3 endpoint.
//   - S3_ACCESS_KEY / S3_SECRET_KEY: static credentials.
//
// Optional environment variables:
//   - S3_REGION (default "us-east-1").
//   - S3_DISABLE_TLS (bool; default false) to toggle TLS usage.
//   - S3_FORCE_PATH_STYLE (bool; default true).
func NewClientFromEnv() (*Client, error) {
	endpoint := strings.TrimSpace(os.Getenv("S3_ENDPOINT"))
	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")
	region := os.Getenv("S3_REGION")
	if region == "" {
		region = "us-east-1"
	}

	if endpoint == "" {
		return nil, errors.New("S3_ENDPOINT is required")
	}
	if accessKey == "" || secretKey == "" {
		return nil, errors.New("S3_ACCESS_KEY and S3_SECRET_KEY are required")
	}

	disableTLS, _ := strconv.ParseBool(os.Getenv("S3_DISABLE_TLS"))
	forcePathStyle := true
	if v := strings.TrimSpace(os.Getenv("S3_FORCE_PATH_STYLE")); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			forcePathStyle = parsed
		}
	}

	scheme := "https"
	if disableTLS {
		scheme = "http"
	}

	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = fmt.Sprintf("%s://%s", scheme, endpoint)
	}

	ctx := context.Background()
	cfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		awsconfig.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = forcePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &Client{
		api:      client,
		endpoint: strings.TrimRight(endpoint, "/"),
	}, nil
}

// ListBuckets returns the names of all buckets visible to the configured credentials.
func (c *Client) ListBuckets(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, errors.New("nil client")
	}

	out, err := c.api.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		if b.Name != nil {
			names = append(names, *b.Name)
		}
	}
	return names, nil
}

// CreateBucket creates the named bucket. When public is true the bucket is
// created with a public-read canned ACL so uploaded objects resolve to plain
// HTTP URLs without presigning.
func (c *Client) CreateBucket(ctx context.Context, name string, public bool) error {
	if c == nil {
		return errors.New("nil client")
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("bucket name is required")
	}

	input := &s3.CreateBucketInput{Bucket: &name}
	if public {
		input.ACL = s3types.BucketCannedACLPublicRead
	}

	_, err := c.api.CreateBucket(ctx, input)
	return err
}

// Upload writes data to bucket/key with the given content type. S3 PutObject
// overwrites any existing object at the same key, which gives the upsert
// semantics the publisher relies on.
func (c *Client) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if c == nil {
		return errors.New("nil client")
	}

	size := int64(len(data))
	_, err := c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &bucket,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentLength: &size,
		ContentType:   &contentType,
	})
	return err
}

// PublicURL returns the path-style address of an object on the configured endpoint.
func (c *Client) PublicURL(bucket, key string) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", c.endpoint, bucket, strings.TrimLeft(key, "/"))
}
