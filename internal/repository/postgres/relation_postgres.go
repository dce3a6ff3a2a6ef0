package postgres

import (
	"context"
	"database/sql"

	"arquivo/internal/model"
	"arquivo/internal/repository"
)

// RelationPostgres is a PostgreSQL implementation of repository.RelationRepository.
type RelationPostgres struct {
	db *sql.DB
}

// NewRelationPostgres creates a new RelationPostgres repository.
func NewRelationPostgres(db *sql.DB) *RelationPostgres {
	return &RelationPostgres{db: db}
}

var _ repository.RelationRepository = (*RelationPostgres)(nil)

const relationColumns = `id, parent_id, child_id, relation_type, description, created_by, created_at`

// Create inserts a new relation edge and returns it with its assigned id.
func (r *RelationPostgres) Create(ctx context.Context, rel *model.DocumentRelation) (*model.DocumentRelation, error) {
	const q = `
		INSERT INTO document_relations (parent_id, child_id, relation_type, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + relationColumns
	row := r.db.QueryRowContext(ctx, q,
		rel.ParentID,
		rel.ChildID,
		rel.RelationType,
		rel.Description,
		rel.CreatedBy,
		rel.CreatedAt,
	)
	var out model.DocumentRelation
	if err := row.Scan(
		&out.ID,
		&out.ParentID,
		&out.ChildID,
		&out.RelationType,
		&out.Description,
		&out.CreatedBy,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByParent returns every outgoing edge of the parent in one scan.
func (r *RelationPostgres) ListByParent(ctx context.Context, parentID int64) ([]model.DocumentRelation, error) {
	const q = `SELECT ` + relationColumns + ` FROM document_relations WHERE parent_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentRelation, 0)
	for rows.Next() {
		var rel model.DocumentRelation
		if err := rows.Scan(
			&rel.ID,
			&rel.ParentID,
			&rel.ChildID,
			&rel.RelationType,
			&rel.Description,
			&rel.CreatedBy,
			&rel.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, rel)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteByDocument removes every edge referencing the document on either side.
func (r *RelationPostgres) DeleteByDocument(ctx context.Context, docID int64) error {
	const q = `DELETE FROM document_relations WHERE parent_id = $1 OR child_id = $1`
	_, err := r.db.ExecContext(ctx, q, docID)
	return err
}
