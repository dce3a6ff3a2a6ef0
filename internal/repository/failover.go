package repository

import (
	"context"
	"errors"

	"arquivo/internal/backend"
	"arquivo/internal/logging"
	"arquivo/internal/model"
)

// FailoverDocuments routes document persistence to the remote backend while
// the health latch is up and to the in-process fallback once it trips.
// ErrNotFound is a normal result, not a backend failure, and never trips the
// latch.
type FailoverDocuments struct {
	primary  DocumentRepository
	fallback DocumentRepository
	health   *backend.Health
	log      *logging.Logger
}

// NewFailoverDocuments wraps primary and fallback behind the health latch.
// A nil primary pins the wrapper to the fallback immediately.
func NewFailoverDocuments(primary, fallback DocumentRepository, health *backend.Health) *FailoverDocuments {
	f := &FailoverDocuments{
		primary:  primary,
		fallback: fallback,
		health:   health,
		log:      logging.New("repository"),
	}
	if primary == nil {
		health.MarkUnavailable()
	}
	return f
}

var _ DocumentRepository = (*FailoverDocuments)(nil)

func (f *FailoverDocuments) trip(op string, err error) {
	f.log.Error("repository_backend_failed", err, map[string]any{"op": op})
	f.health.MarkUnavailable()
}

func (f *FailoverDocuments) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if !f.health.Available() {
		return f.fallback.Create(ctx, doc)
	}
	out, err := f.primary.Create(ctx, doc)
	if err != nil {
		f.trip("create", err)
		return f.fallback.Create(ctx, doc)
	}
	return out, nil
}

func (f *FailoverDocuments) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	if !f.health.Available() {
		return f.fallback.FindByID(ctx, id)
	}
	out, err := f.primary.FindByID(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		f.trip("find_by_id", err)
		return f.fallback.FindByID(ctx, id)
	}
	return out, err
}

func (f *FailoverDocuments) FindByIDs(ctx context.Context, ids []int64) ([]model.Document, error) {
	if !f.health.Available() {
		return f.fallback.FindByIDs(ctx, ids)
	}
	out, err := f.primary.FindByIDs(ctx, ids)
	if err != nil {
		f.trip("find_by_ids", err)
		return f.fallback.FindByIDs(ctx, ids)
	}
	return out, nil
}

func (f *FailoverDocuments) List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error) {
	if !f.health.Available() {
		return f.fallback.List(ctx, pq)
	}
	out, err := f.primary.List(ctx, pq)
	if err != nil {
		f.trip("list", err)
		return f.fallback.List(ctx, pq)
	}
	return out, nil
}

func (f *FailoverDocuments) All(ctx context.Context) ([]model.Document, error) {
	if !f.health.Available() {
		return f.fallback.All(ctx)
	}
	out, err := f.primary.All(ctx)
	if err != nil {
		f.trip("all", err)
		return f.fallback.All(ctx)
	}
	return out, nil
}

func (f *FailoverDocuments) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if !f.health.Available() {
		return f.fallback.Update(ctx, doc)
	}
	out, err := f.primary.Update(ctx, doc)
	if err != nil && !errors.Is(err, ErrNotFound) {
		f.trip("update", err)
		return f.fallback.Update(ctx, doc)
	}
	return out, err
}

func (f *FailoverDocuments) Delete(ctx context.Context, id int64) error {
	if !f.health.Available() {
		return f.fallback.Delete(ctx, id)
	}
	if err := f.primary.Delete(ctx, id); err != nil {
		f.trip("delete", err)
		return f.fallback.Delete(ctx, id)
	}
	return nil
}

// FailoverRelations is the relation-graph counterpart of FailoverDocuments.
type FailoverRelations struct {
	primary  RelationRepository
	fallback RelationRepository
	health   *backend.Health
	log      *logging.Logger
}

// NewFailoverRelations wraps primary and fallback behind the health latch.
func NewFailoverRelations(primary, fallback RelationRepository, health *backend.Health) *FailoverRelations {
	f := &FailoverRelations{
		primary:  primary,
		fallback: fallback,
		health:   health,
		log:      logging.New("repository"),
	}
	if primary == nil {
		health.MarkUnavailable()
	}
	return f
}

var _ RelationRepository = (*FailoverRelations)(nil)

func (f *FailoverRelations) trip(op string, err error) {
	f.log.Error("repository_backend_failed", err, map[string]any{"op": op})
	f.health.MarkUnavailable()
}

func (f *FailoverRelations) Create(ctx context.Context, rel *model.DocumentRelation) (*model.DocumentRelation, error) {
	if !f.health.Available() {
		return f.fallback.Create(ctx, rel)
	}
	out, err := f.primary.Create(ctx, rel)
	if err != nil {
		f.trip("create_relation", err)
		return f.fallback.Create(ctx, rel)
	}
	return out, nil
}

func (f *FailoverRelations) ListByParent(ctx context.Context, parentID int64) ([]model.DocumentRelation, error) {
	if !f.health.Available() {
		return f.fallback.ListByParent(ctx, parentID)
	}
	out, err := f.primary.ListByParent(ctx, parentID)
	if err != nil {
		f.trip("list_by_parent", err)
		return f.fallback.ListByParent(ctx, parentID)
	}
	return out, nil
}

func (f *FailoverRelations) DeleteByDocument(ctx context.Context, docID int64) error {
	if !f.health.Available() {
		return f.fallback.DeleteByDocument(ctx, docID)
	}
	if err := f.primary.DeleteByDocument(ctx, docID); err != nil {
		f.trip("delete_by_document", err)
		return f.fallback.DeleteByDocument(ctx, docID)
	}
	return nil
}
