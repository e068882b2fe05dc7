package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config describes the bucket listing photos are written to.
type Config struct {
	Endpoint       string
	UseSSL         bool
	AccessKey      string
	SecretKey      string
	Bucket         string
	PublicEndpoint string
	// KeyPrefix is prepended to every object key, e.g. "listings".
	KeyPrefix string
}

// Client stores listing photos in an S3-compatible bucket and returns public URLs.
type Client struct {
	bucket        string
	keyPrefix     string
	publicBaseURL string
	client        *minio.Client
	logger        *slog.Logger

	mu          sync.Mutex
	bucketReady bool
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	cleanEndpoint := strings.TrimSpace(cfg.Endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	minioClient, err := minio.New(parseEndpoint(cleanEndpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey), ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	base := strings.TrimSpace(cfg.PublicEndpoint)
	if base == "" {
		base = cleanEndpoint
	}
	if !strings.Contains(base, "://") {
		scheme := "http://"
		if cfg.UseSSL {
			scheme = "https://"
		}
		base = scheme + base
	}

	return &Client{
		bucket:        bucket,
		keyPrefix:     strings.Trim(cfg.KeyPrefix, "/"),
		publicBaseURL: strings.TrimRight(base, "/"),
		client:        minioClient,
		logger:        logger,
	}, nil
}

// Upload stores the photo and returns a direct URL. The bucket is created on
// first use with a public-read policy.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if reader == nil {
		return "", errors.New("s3: reader is required")
	}
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("s3: object key is required")
	}
	if err := c.ensureBucket(ctx); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectKey := c.objectKey(key)
	_, err := c.client.PutObject(ctx, c.bucket, objectKey, reader, -1, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}

	publicURL := c.objectURL(objectKey)
	if c.logger != nil {
		c.logger.InfoContext(ctx, "s3 upload completed", "bucket", c.bucket, "key", objectKey, "url", publicURL)
	}
	return publicURL, nil
}

// Ping checks the endpoint answers for the bucket.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.client.BucketExists(ctx, c.bucket); err != nil {
		return fmt.Errorf("s3: ping: %w", err)
	}
	return nil
}

// ensureBucket retries on the next upload when creation failed.
func (c *Client) ensureBucket(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bucketReady {
		return nil
	}
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("s3: check bucket: %w", err)
	}
	if !exists {
		if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("s3: create bucket: %w", err)
		}
		if err := c.allowPublicRead(ctx); err != nil {
			return err
		}
	}
	c.bucketReady = true
	return nil
}

func (c *Client) allowPublicRead(ctx context.Context) error {
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, c.bucket)
	if err := c.client.SetBucketPolicy(ctx, c.bucket, policy); err != nil {
		return fmt.Errorf("s3: set bucket policy: %w", err)
	}
	return nil
}

func (c *Client) objectKey(key string) string {
	if c.keyPrefix == "" {
		return key
	}
	return path.Join(c.keyPrefix, key)
}

func (c *Client) objectURL(objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicBaseURL, c.bucket, objectKey)
}

func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}
