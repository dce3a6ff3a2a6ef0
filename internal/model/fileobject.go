package model

import "time"

// FileObject describes a binary stored in the object storage backend.
// It is created by the upload pipeline, immutable once verified, and deleted
// only by an explicit delete operation.
type FileObject struct {
	Bucket       string            `json:"bucket"`
	StorageKey   string            `json:"storage_key"`
	OriginalName string            `json:"original_name"`
	MimeType     string            `json:"mime_type"`
	Size         int64             `json:"size"`
	Checksum     string            `json:"checksum"` // hex-encoded SHA-256 of the payload
	Category     Category          `json:"category"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	UploadedAt   time.Time         `json:"uploaded_at"`
}
