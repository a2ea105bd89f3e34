// Package minio stores exported layout snapshots in an S3-compatible bucket and
// hands out presigned download links for them.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/turtacn/interactome/internal/config"
	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/pkg/errors"
)

// MinIOAPI is the subset of *minio.Client the store uses.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// DefaultSnapshotRetentionDays expires snapshots the bucket lifecycle rule
// applies to.
const DefaultSnapshotRetentionDays = 7

var (
	ErrClientClosed   = errors.New(errors.ErrCodeServiceUnavailable, "minio client is closed")
	ErrObjectNotFound = errors.New(errors.ErrCodeNotFound, "snapshot not found")
)

// Client owns the connection and the snapshot bucket.
type Client struct {
	api    MinIOAPI
	config config.MinIOConfig
	logger logging.Logger

	mu     sync.RWMutex
	closed bool
}

// NewClient connects, verifies the endpoint and ensures the bucket exists.
func NewClient(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	c := NewClientWithAPI(api, cfg, log)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		return nil, err
	}
	if err := c.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	c.logger.Info("MinIO client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

// NewClientWithAPI wraps an existing API implementation; used by tests.
func NewClientWithAPI(api MinIOAPI, cfg config.MinIOConfig, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = config.DefaultMinIOPresignExpiry
	}
	if cfg.Bucket == "" {
		cfg.Bucket = config.DefaultMinIOBucket
	}
	return &Client{api: api, config: cfg, logger: log.Named("minio")}
}

// Bucket returns the snapshot bucket name.
func (c *Client) Bucket() string { return c.config.Bucket }

// Ping lists buckets to verify credentials and reachability.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if _, err := c.api.ListBuckets(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio")
	}
	return nil
}

// EnsureBucket creates the snapshot bucket if needed and installs its
// expiry rule.  A rejected lifecycle rule is logged, not returned.
func (c *Client) EnsureBucket(ctx context.Context) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	bucket := c.config.Bucket
	exists, err := c.api.BucketExists(ctx, bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to check bucket existence")
	}
	if !exists {
		if err := c.api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
			return errors.Wrap(err, errors.ErrCodeServiceUnavailable, fmt.Sprintf("failed to create bucket %s", bucket))
		}
		c.logger.Info("Created bucket", logging.String("bucket", bucket))
	}

	rules := lifecycle.NewConfiguration()
	rules.Rules = []lifecycle.Rule{{
		ID:         "snapshot-expiry",
		Status:     "Enabled",
		Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(DefaultSnapshotRetentionDays)},
		RuleFilter: lifecycle.Filter{Prefix: SnapshotPrefix},
	}}
	if err := c.api.SetBucketLifecycle(ctx, bucket, rules); err != nil {
		c.logger.Warn("Failed to set snapshot lifecycle", logging.String("bucket", bucket), logging.Err(err))
	}
	return nil
}

// PresignedGetURL signs a download link for key.  Zero expiry uses the
// configured default.
func (c *Client) PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, time.Time, error) {
	if err := c.checkOpen(); err != nil {
		return "", time.Time{}, err
	}
	if expiry <= 0 {
		expiry = c.config.PresignExpiry
	}
	u, err := c.api.PresignedGetObject(ctx, c.config.Bucket, key, expiry, nil)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, errors.ErrCodeSnapshotFailed, "failed to presign snapshot url")
	}
	return u.String(), time.Now().Add(expiry), nil
}

// Close marks the client closed; minio-go holds no connection to release.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Client) checkOpen() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

//Personal.AI order the ending
