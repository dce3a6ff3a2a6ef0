package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"arquivo/internal/model"
	"arquivo/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
//
// Tags are persisted as a JSONB array: the pgx stdlib driver has no native
// TEXT[] scan path through database/sql, and JSONB round-trips losslessly.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, title, description, content, tags, category, author, owner_ref, created_at`

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	var tags []byte
	var category string
	if err := row.Scan(
		&d.ID,
		&d.Title,
		&d.Description,
		&d.Content,
		&tags,
		&category,
		&d.Author,
		&d.OwnerRef,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	d.Category = model.Category(category)
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &d.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &d, nil
}

func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

// Create inserts a new document row and returns the stored record with its
// assigned id.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (title, description, content, tags, category, author, owner_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + documentColumns
	tags, err := encodeTags(doc.Tags)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, q,
		doc.Title,
		doc.Description,
		doc.Content,
		tags,
		string(doc.Category),
		doc.Author,
		doc.OwnerRef,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its id.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	doc, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// FindByIDs fetches every document whose id is in ids, in one query.
func (r *DocumentPostgres) FindByIDs(ctx context.Context, ids []int64) ([]model.Document, error) {
	if len(ids) == 0 {
		return []model.Document{}, nil
	}
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = ANY($1) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + documentColumns + `
		FROM documents
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := collectDocuments(rows)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// All returns every document row, oldest first.
func (r *DocumentPostgres) All(ctx context.Context) ([]model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDocuments(rows)
}

// Update overwrites the document's mutable fields. Last write wins.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		UPDATE documents
		SET title = $2, description = $3, content = $4, tags = $5, category = $6, author = $7, owner_ref = $8
		WHERE id = $1
		RETURNING ` + documentColumns
	tags, err := encodeTags(doc.Tags)
	if err != nil {
		return nil, err
	}
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.Content,
		tags,
		string(doc.Category),
		doc.Author,
		doc.OwnerRef,
	)
	out, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

// Delete removes the document row and everything referencing it in one
// transaction. Order matters: relation, share, and access-log rows go first,
// the document row last, so no dangling references survive a partial failure.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	cleanup := []string{
		`DELETE FROM document_relations WHERE parent_id = $1 OR child_id = $1`,
		`DELETE FROM document_shares WHERE document_id = $1`,
		`DELETE FROM document_access_log WHERE document_id = $1`,
		`DELETE FROM documents WHERE id = $1`,
	}
	for _, q := range cleanup {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func collectDocuments(rows *sql.Rows) ([]model.Document, error) {
	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
