package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Package storage contains object storage abstractions for S3-compatible
// backends. Objects live in named buckets, one per MIME family, each with its
// own size ceiling and allowed-type allowlist (enforced by the upload
// pipeline, not here). Implementations must avoid local disk and rely on
// streaming I/O only.

// ErrPresignUnsupported is returned by implementations that cannot mint
// time-limited URLs (the in-process fallback has no addressable endpoint).
var ErrPresignUnsupported = errors.New("presigned URLs not supported by this storage backend")

// ErrObjectNotFound is returned by Get when no object exists under the key.
var ErrObjectNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Bucket       string
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is an object storage client scoped to a set of named buckets.
// Put has upsert semantics: writing an existing key overwrites it.
type Storage interface {
	// Put uploads an object under bucket/key using the provided reader and options.
	Put(ctx context.Context, bucket, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, bucket, key string) error
	// List returns the keys of every object in the bucket.
	List(ctx context.Context, bucket string) ([]string, error)
	// PresignGet returns a time-limited URL that can be used to download the
	// object without credentials.
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}
