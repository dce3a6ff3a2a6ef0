package repository

import (
	"context"

	"arquivo/internal/model"
)

// DocumentRepository defines data access for documents.
// No business logic here — strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record. The id is assigned by the store;
	// the returned document carries it.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its id, or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// FindByIDs returns the documents matching ids in one batched lookup.
	// Missing ids are skipped, not errors.
	FindByIDs(ctx context.Context, ids []int64) ([]model.Document, error)

	// List returns a paginated list of documents plus the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)

	// All returns every document. The search engine runs a linear scan over
	// this set; there is no index.
	All(ctx context.Context) ([]model.Document, error)

	// Update overwrites a document's mutable fields. Last write wins; there is
	// no conflict detection. Returns ErrNotFound if the id does not exist.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// Delete removes the document and, before the document row itself, every
	// relation, share, and access-log row referencing it. Deleting a missing
	// id is not an error.
	Delete(ctx context.Context, id int64) error
}

// RelationRepository defines data access for the parent→child relation graph.
type RelationRepository interface {
	// Create inserts a new directed relation edge.
	Create(ctx context.Context, rel *model.DocumentRelation) (*model.DocumentRelation, error)

	// ListByParent returns every outgoing edge of a parent document.
	ListByParent(ctx context.Context, parentID int64) ([]model.DocumentRelation, error)

	// DeleteByDocument removes every edge referencing the document on either side.
	DeleteByDocument(ctx context.Context, docID int64) error
}
