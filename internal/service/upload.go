package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"arquivo/internal/category"
	"arquivo/internal/config"
	"arquivo/internal/logging"
	"arquivo/internal/metrics"
	"arquivo/internal/model"
	"arquivo/internal/storage"
)

// verifyPrefixLen bounds how much of the object is re-read during post-write
// verification.
const verifyPrefixLen = 512

// UploadService validates, stores, and verifies binary payloads.
type UploadService interface {
	// Upload runs the full pipeline: signature validation, bucket selection,
	// store, post-write verification, checksum, categorization. The bucket
	// family may be empty, in which case it is derived from the declared MIME
	// type. declaredCategory may be empty to derive it from the file name and
	// MIME type.
	Upload(ctx context.Context, r io.Reader, originalFilename, declaredMIME string, bucketFamily string, declaredCategory string, userMeta map[string]string) (*model.FileObject, error)
}

type uploadService struct {
	store   storage.Storage
	cfg     config.StorageConfig
	log     *logging.Logger
	metrics *metrics.Metrics
}

// NewUploadService constructs the upload pipeline. metrics may be nil.
func NewUploadService(store storage.Storage, cfg config.StorageConfig, m *metrics.Metrics) UploadService {
	return &uploadService{
		store:   store,
		cfg:     cfg,
		log:     logging.New("upload"),
		metrics: m,
	}
}

func (s *uploadService) Upload(ctx context.Context, r io.Reader, originalFilename, declaredMIME string, bucketFamily string, declaredCategory string, userMeta map[string]string) (*model.FileObject, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	mt := normalizeMime(declaredMIME)

	// Nothing is ever persisted under a trusted-format label without the
	// payload's leading bytes backing it up.
	if !validateSignature(mt, payload) {
		if s.metrics != nil {
			s.metrics.SignatureRejections.Inc()
		}
		s.log.Warn("upload_signature_rejected", map[string]any{
			"filename":      originalFilename,
			"declared_mime": mt,
		})
		return nil, fmt.Errorf("%w: declared %s", ErrInvalidFileSignature, mt)
	}

	family := bucketFamily
	if _, ok := s.cfg.Buckets[family]; !ok {
		family = config.FamilyForMime(mt)
	}
	bucket := s.cfg.BucketForFamily(family)

	if bucket.MaxSizeBytes > 0 && int64(len(payload)) > bucket.MaxSizeBytes {
		return nil, fmt.Errorf("%w: %d bytes, bucket %s allows %d", ErrFileTooLarge, len(payload), bucket.Name, bucket.MaxSizeBytes)
	}
	if !typeAllowed(bucket, mt) {
		return nil, fmt.Errorf("%w: %s in bucket %s", ErrTypeNotAllowed, mt, bucket.Name)
	}

	key := uuid.New().String() + strings.ToLower(filepath.Ext(originalFilename))

	meta := map[string]string{"original-filename": originalFilename}
	for k, v := range userMeta {
		meta[k] = v
	}

	info, err := s.store.Put(ctx, bucket.Name, key, bytes.NewReader(payload), storage.PutObjectOptions{
		Size:        int64(len(payload)),
		ContentType: mt,
		Metadata:    meta,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendWrite, err)
	}

	// Best-effort consistency check, deliberately serialized after the write
	// so it observes the just-written value. A failure is logged but never
	// fails the upload.
	s.verify(ctx, bucket.Name, key, payload)

	sum := sha256.Sum256(payload)

	cat := model.Category(declaredCategory)
	if !cat.Valid() {
		cat = category.Classify(originalFilename, mt)
	}
	if s.metrics != nil {
		s.metrics.Uploads.WithLabelValues(string(cat)).Inc()
	}

	return &model.FileObject{
		Bucket:       bucket.Name,
		StorageKey:   info.Key,
		OriginalName: originalFilename,
		MimeType:     mt,
		Size:         info.Size,
		Checksum:     hex.EncodeToString(sum[:]),
		Category:     cat,
		Metadata:     meta,
		UploadedAt:   time.Now().UTC(),
	}, nil
}

func (s *uploadService) verify(ctx context.Context, bucket, key string, payload []byte) {
	rc, info, err := s.store.Get(ctx, bucket, key)
	if err != nil {
		s.log.Error("upload_verification_failed", err, map[string]any{"bucket": bucket, "key": key})
		return
	}
	defer rc.Close()

	n := len(payload)
	if n > verifyPrefixLen {
		n = verifyPrefixLen
	}
	prefix := make([]byte, n)
	if _, err := io.ReadFull(rc, prefix); err != nil {
		s.log.Error("upload_verification_failed", err, map[string]any{"bucket": bucket, "key": key})
		return
	}

	if info.Size != int64(len(payload)) || !bytes.Equal(prefix, payload[:n]) {
		s.log.Warn("upload_verification_mismatch", map[string]any{
			"bucket":        bucket,
			"key":           key,
			"expected_size": len(payload),
			"actual_size":   info.Size,
		})
	}
}

func typeAllowed(bucket config.BucketConfig, mimeType string) bool {
	if len(bucket.AllowedTypes) == 0 || mimeType == "" {
		return true
	}
	for _, t := range bucket.AllowedTypes {
		if strings.HasPrefix(mimeType, t) {
			return true
		}
	}
	return false
}
