package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/interactome/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/interactome/pkg/errors"
)

// SnapshotPrefix is the key prefix of every exported snapshot.
const SnapshotPrefix = "snapshots/"

// SnapshotRef locates one stored snapshot.
type SnapshotRef struct {
	Bucket    string    `json:"bucket"`
	Key       string    `json:"key"`
	ETag      string    `json:"etag,omitempty"`
	Size      int64     `json:"size"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// SnapshotStore writes JSON layout snapshots under SnapshotPrefix.
type SnapshotStore struct {
	client *Client
	now    func() time.Time
}

// NewSnapshotStore returns a store over client.
func NewSnapshotStore(client *Client) *SnapshotStore {
	return &SnapshotStore{client: client, now: time.Now}
}

// SnapshotKey names the object for a snapshot of viewID taken at t.
func SnapshotKey(viewID string, t time.Time) string {
	return fmt.Sprintf("%s%s/%s.json", SnapshotPrefix, viewID, t.UTC().Format("20060102T150405.000Z"))
}

// Save encodes payload as JSON, uploads it and returns a presigned link.
func (s *SnapshotStore) Save(ctx context.Context, viewID string, payload any) (*SnapshotRef, error) {
	if strings.TrimSpace(viewID) == "" {
		return nil, errors.New(errors.ErrCodeValidation, "view id required")
	}
	if err := s.client.checkOpen(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode snapshot")
	}

	created := s.now()
	key := SnapshotKey(viewID, created)
	info, err := s.client.api.PutObject(ctx, s.client.Bucket(), key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  "application/json",
		UserMetadata: map[string]string{"view-id": viewID},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSnapshotFailed, "snapshot upload failed").WithDetail(key)
	}

	url, expires, err := s.client.PresignedGetURL(ctx, key, 0)
	if err != nil {
		return nil, err
	}
	s.client.logger.Info("snapshot stored",
		logging.String("view_id", viewID),
		logging.String("key", key),
		logging.Int("bytes", len(data)))

	return &SnapshotRef{
		Bucket:    s.client.Bucket(),
		Key:       key,
		ETag:      info.ETag,
		Size:      int64(len(data)),
		URL:       url,
		ExpiresAt: expires,
		CreatedAt: created,
	}, nil
}

// Lookup re-signs an existing snapshot.
func (s *SnapshotStore) Lookup(ctx context.Context, key string) (*SnapshotRef, error) {
	if !strings.HasPrefix(key, SnapshotPrefix) {
		return nil, ErrObjectNotFound
	}
	if err := s.client.checkOpen(); err != nil {
		return nil, err
	}
	stat, err := s.client.api.StatObject(ctx, s.client.Bucket(), key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, errors.Wrap(err, errors.ErrCodeSnapshotFailed, "failed to stat snapshot")
	}
	url, expires, err := s.client.PresignedGetURL(ctx, key, 0)
	if err != nil {
		return nil, err
	}
	return &SnapshotRef{
		Bucket:    s.client.Bucket(),
		Key:       key,
		ETag:      stat.ETag,
		Size:      stat.Size,
		URL:       url,
		ExpiresAt: expires,
		CreatedAt: stat.LastModified,
	}, nil
}

//Personal.AI order the ending
