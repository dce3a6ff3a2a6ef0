package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"arquivo/internal/category"
	"arquivo/internal/config"
	"arquivo/internal/envelope"
	"arquivo/internal/logging"
	"arquivo/internal/model"
	"arquivo/internal/repository"
	"arquivo/internal/storage"
)

// CreateDocumentInput carries the caller-supplied fields for a new document.
// Content is the raw JSON metadata envelope; it may be empty or, if the
// caller sends garbage, unparsable — parse failure means "no structured
// metadata", never a rejection.
type CreateDocumentInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string
	Content     string
	Author      string
	Owner       string
}

// UpdateDocumentInput mirrors CreateDocumentInput for updates. Last write
// wins; there is no conflict detection.
type UpdateDocumentInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string
	Content     string
}

// RelationInput describes a new parent→child edge.
type RelationInput struct {
	ChildID      int64
	RelationType string
	Description  string
	CreatedBy    string
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for handling documents and their
// relation graph.
type DocumentService interface {
	// Create persists a new document, synthesizing the extractedText field
	// into its envelope for search recall.
	Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error)

	// CreateFromUpload runs the upload pipeline and then persists the
	// document metadata. A metadata failure after a successful object write
	// returns ErrMetadataPersist and leaves the object in place: the write is
	// recoverable by retrying metadata persistence only, and the
	// reconciliation sweep finds abandoned objects.
	CreateFromUpload(ctx context.Context, in CreateDocumentInput, r io.Reader, originalFilename, declaredMIME, bucketFamily string, userMeta map[string]string) (*model.Document, error)

	Get(ctx context.Context, id int64) (*model.Document, error)
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)
	Update(ctx context.Context, id int64, in UpdateDocumentInput) (*model.Document, error)

	// Delete removes the metadata record plus every relation, share, and
	// access-log row referencing it. The stored binary is not deleted here.
	Delete(ctx context.Context, id int64) error

	// AddRelation creates a directed parent→child edge. Both ends must exist.
	AddRelation(ctx context.Context, parentID int64, in RelationInput) (*model.DocumentRelation, error)

	// Relations returns the outgoing edges of a document.
	Relations(ctx context.Context, parentID int64) ([]model.DocumentRelation, error)

	// Related resolves all children of a document: one relation-table scan
	// followed by one batched document fetch.
	Related(ctx context.Context, parentID int64) ([]model.Document, error)

	// DownloadURL mints a time-limited URL for the document's stored binary.
	DownloadURL(ctx context.Context, id int64, expiry time.Duration) (string, error)

	// ReconcileOrphans lists storage keys with no referencing document:
	// leftovers of metadata-persist failures, awaiting out-of-band cleanup.
	ReconcileOrphans(ctx context.Context) ([]string, error)
}

type documentService struct {
	docs    repository.DocumentRepository
	rels    repository.RelationRepository
	store   storage.Storage
	uploads UploadService
	cfg     config.StorageConfig
	log     *logging.Logger
	now     func() time.Time
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(docs repository.DocumentRepository, rels repository.RelationRepository, store storage.Storage, uploads UploadService, cfg config.StorageConfig) DocumentService {
	return &documentService{
		docs:    docs,
		rels:    rels,
		store:   store,
		uploads: uploads,
		cfg:     cfg,
		log:     logging.New("documents"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *documentService) Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	env, envErr := envelope.Parse([]byte(in.Content))

	cat := model.Category(in.Category)
	if !cat.Valid() {
		name, _ := env.FieldString("fileInfo.originalName")
		cat = category.Classify(name, envelope.DeclaredMime(env))
	}

	content := in.Content
	if envErr == nil {
		content = injectExtractedText(env, in.Title, in.Description, in.Tags)
	}

	doc := &model.Document{
		Title:       in.Title,
		Description: in.Description,
		Category:    cat,
		Tags:        in.Tags,
		Content:     content,
		Author:      in.Author,
		OwnerRef:    in.Owner,
		CreatedAt:   s.now(),
	}
	return s.docs.Create(ctx, doc)
}

func (s *documentService) CreateFromUpload(ctx context.Context, in CreateDocumentInput, r io.Reader, originalFilename, declaredMIME, bucketFamily string, userMeta map[string]string) (*model.Document, error) {
	// Validation failures must reject before any write; only backend failures
	// may leave an orphaned object behind.
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}
	if r == nil {
		return nil, ErrReaderNil
	}

	obj, err := s.uploads.Upload(ctx, r, originalFilename, declaredMIME, bucketFamily, in.Category, userMeta)
	if err != nil {
		return nil, err
	}

	in.Content = injectFilePlacement(in.Content, obj)
	if in.Category == "" {
		in.Category = string(obj.Category)
	}

	doc, err := s.Create(ctx, in)
	if err != nil {
		// The binary exists; only the relational record is missing.
		s.log.Error("metadata_persist_failed", err, map[string]any{
			"bucket": obj.Bucket,
			"key":    obj.StorageKey,
		})
		return nil, fmt.Errorf("%w: %v", ErrMetadataPersist, err)
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, id int64) (*model.Document, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.docs.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Update(ctx context.Context, id int64, in UpdateDocumentInput) (*model.Document, error) {
	if id <= 0 {
		return nil, ErrIDRequired
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Title) != "" {
		existing.Title = in.Title
	}
	existing.Description = in.Description
	if cat := model.Category(in.Category); cat.Valid() {
		existing.Category = cat
	}
	if in.Tags != nil {
		existing.Tags = in.Tags
	}
	if in.Content != "" {
		existing.Content = in.Content
		if env, err := envelope.Parse([]byte(in.Content)); err == nil {
			existing.Content = injectExtractedText(env, existing.Title, existing.Description, existing.Tags)
		}
	}

	out, err := s.docs.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

func (s *documentService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrIDRequired
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	// The repository removes relation, share, and access-log rows before the
	// document row. The stored binary is intentionally left behind; the
	// reconciliation sweep reports it.
	return s.docs.Delete(ctx, id)
}

func (s *documentService) AddRelation(ctx context.Context, parentID int64, in RelationInput) (*model.DocumentRelation, error) {
	if parentID <= 0 || in.ChildID <= 0 {
		return nil, ErrIDRequired
	}
	if _, err := s.Get(ctx, parentID); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, in.ChildID); err != nil {
		return nil, err
	}

	rel := &model.DocumentRelation{
		ParentID:     parentID,
		ChildID:      in.ChildID,
		RelationType: in.RelationType,
		Description:  in.Description,
		CreatedBy:    in.CreatedBy,
		CreatedAt:    s.now(),
	}
	return s.rels.Create(ctx, rel)
}

func (s *documentService) Relations(ctx context.Context, parentID int64) ([]model.DocumentRelation, error) {
	if parentID <= 0 {
		return nil, ErrIDRequired
	}
	return s.rels.ListByParent(ctx, parentID)
}

func (s *documentService) Related(ctx context.Context, parentID int64) ([]model.Document, error) {
	rels, err := s.Relations(ctx, parentID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.ChildID)
	}
	return s.docs.FindByIDs(ctx, ids)
}

func (s *documentService) DownloadURL(ctx context.Context, id int64, expiry time.Duration) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	env, envErr := envelope.Parse([]byte(doc.Content))
	if envErr != nil {
		return "", ErrNotFound
	}
	key, ok := env.FieldString("storageKey")
	if !ok || key == "" {
		return "", ErrNotFound
	}
	bucket, ok := env.FieldString("bucket")
	if !ok || bucket == "" {
		bucket = s.cfg.BucketForFamily(config.FamilyForMime(envelope.DeclaredMime(env))).Name
	}
	return s.store.PresignGet(ctx, bucket, key, expiry)
}

func (s *documentService) ReconcileOrphans(ctx context.Context) ([]string, error) {
	docs, err := s.docs.All(ctx)
	if err != nil {
		return nil, err
	}

	referenced := map[string]bool{}
	for _, doc := range docs {
		env, err := envelope.Parse([]byte(doc.Content))
		if err != nil {
			continue
		}
		if key, ok := env.FieldString("storageKey"); ok && key != "" {
			referenced[key] = true
		}
	}

	var orphans []string
	for _, b := range s.cfg.Buckets {
		keys, err := s.store.List(ctx, b.Name)
		if err != nil {
			return nil, err
		}
		for _, key := range keys {
			if !referenced[key] {
				orphans = append(orphans, b.Name+"/"+key)
			}
		}
	}
	return orphans, nil
}

// injectFilePlacement merges the upload result into the raw envelope. An
// unparsable envelope is replaced by a minimal one carrying only placement
// data: the original text had no structured metadata to preserve anyway.
func injectFilePlacement(content string, obj *model.FileObject) string {
	env, err := envelope.Parse([]byte(content))
	if err != nil || env.Kind() != envelope.KindObject {
		env = envelope.Object(map[string]envelope.Value{})
	}
	env.SetField("storageKey", envelope.String(obj.StorageKey))
	env.SetField("bucket", envelope.String(obj.Bucket))
	env.SetField("checksum", envelope.String(obj.Checksum))
	env.SetField("fileInfo", envelope.Object(map[string]envelope.Value{
		"mimeType":     envelope.String(obj.MimeType),
		"originalName": envelope.String(obj.OriginalName),
		"size":         envelope.Number(float64(obj.Size)),
	}))

	b, err := json.Marshal(env)
	if err != nil {
		return content
	}
	return string(b)
}
