package storage

import (
	"context"
	"io"
	"time"
)

// Package storage holds the object store used for company logos and profile
// images. Uploads are streamed; no local disk is involved.

// PutOptions define optional parameters for uploading an asset.
// Size should be the exact number of bytes when known, -1 otherwise.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// AssetInfo describes a stored asset.
type AssetInfo struct {
	Key         string
	URL         string
	Size        int64
	ContentType string
	UploadedAt  time.Time
}

// Storage is the S3-compatible asset store. Implementations must be safe
// for concurrent use.
type Storage interface {
	// Put uploads an asset under the given key and returns its info,
	// including the public URL used in company/profile records.
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (AssetInfo, error)
	// Delete removes an asset by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL for a private asset.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
