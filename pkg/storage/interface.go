package storage

import (
	"context"
	"time"
)

// StorageProvider hands out presigned URLs so the mobile client uploads
// recording chunks directly. The service itself never proxies audio bytes.
type StorageProvider interface {
	PresignUpload(ctx context.Context, request *PresignRequest) (*PresignedURL, error)
	PresignDownload(ctx context.Context, key string, expiration time.Duration) (*PresignedURL, error)
	FileExists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
}

type PresignRequest struct {
	Key         string            `json:"key"`
	ContentType string            `json:"content_type"`
	Expiration  time.Duration     `json:"expiration"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type PresignedURL struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}
