package postgres

import (
	"context"
	"testing"
	"time"

	"arquivo/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var relCols = []string{"id", "parent_id", "child_id", "relation_type", "description", "created_by", "created_at"}

func TestRelationPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewRelationPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	rel := &model.DocumentRelation{
		ParentID:     1,
		ChildID:      2,
		RelationType: "attachment",
		Description:  "annex",
		CreatedBy:    "alice",
		CreatedAt:    now,
	}

	rows := sqlmock.NewRows(relCols).
		AddRow(5, rel.ParentID, rel.ChildID, rel.RelationType, rel.Description, rel.CreatedBy, now)

	mock.ExpectQuery("INSERT INTO document_relations").
		WithArgs(rel.ParentID, rel.ChildID, rel.RelationType, rel.Description, rel.CreatedBy, now).
		WillReturnRows(rows)

	stored, err := repo.Create(ctx, rel)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRelationPostgres_ListByParent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewRelationPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(relCols).
		AddRow(1, 7, 8, "attachment", "", "", time.Now()).
		AddRow(2, 7, 9, "version", "", "", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM document_relations WHERE parent_id = ?").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	rels, err := repo.ListByParent(ctx, 7)

	assert.NoError(t, err)
	assert.Len(t, rels, 2)
	assert.Equal(t, int64(8), rels[0].ChildID)
	assert.Equal(t, int64(9), rels[1].ChildID)
}

func TestRelationPostgres_DeleteByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewRelationPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM document_relations WHERE parent_id = ?").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	assert.NoError(t, repo.DeleteByDocument(ctx, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
