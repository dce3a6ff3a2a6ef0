package service

import "errors"

// Error taxonomy for the upload pipeline and document service. Upload and
// repository mutations propagate typed errors so callers can distinguish
// "nothing happened" from "partially happened"; categorization and search
// never propagate errors at all.
var (
	// ErrInvalidFileSignature: the payload's leading bytes do not match the
	// declared format. Rejected before any write.
	ErrInvalidFileSignature = errors.New("file content does not match declared type")

	// ErrBackendWrite: the object write was attempted and failed on both the
	// remote backend and the fallback.
	ErrBackendWrite = errors.New("object storage write failed")

	// ErrMetadataPersist: the binary was written but the metadata record was
	// not, leaving an orphaned object. Recoverable by retrying metadata
	// persistence only; the reconciliation sweep picks up leftovers.
	ErrMetadataPersist = errors.New("metadata persistence failed after object write")

	// ErrFileTooLarge: the payload exceeds the target bucket's size ceiling.
	ErrFileTooLarge = errors.New("file exceeds bucket size limit")

	// ErrTypeNotAllowed: the declared MIME type is not in the target bucket's
	// allowlist.
	ErrTypeNotAllowed = errors.New("file type not allowed in bucket")

	ErrNotFound      = errors.New("document not found")
	ErrIDRequired    = errors.New("id is required")
	ErrTitleRequired = errors.New("title is required")
	ErrReaderNil     = errors.New("reader is nil")
)
