package memory

import (
	"context"
	"testing"
	"time"

	"arquivo/internal/model"
	"arquivo/internal/repository"

	"github.com/stretchr/testify/assert"
)

func TestStoreCreateAssignsIDs(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	a, err := s.Create(ctx, &model.Document{Title: "a"})
	assert.NoError(t, err)
	b, err := s.Create(ctx, &model.Document{Title: "b"})
	assert.NoError(t, err)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
}

func TestStoreFindByID(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	doc, _ := s.Create(ctx, &model.Document{Title: "a"})

	got, err := s.FindByID(ctx, doc.ID)
	assert.NoError(t, err)
	assert.Equal(t, "a", got.Title)

	_, err = s.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStoreFindByIDsSkipsMissing(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	a, _ := s.Create(ctx, &model.Document{Title: "a"})
	b, _ := s.Create(ctx, &model.Document{Title: "b"})

	docs, err := s.FindByIDs(ctx, []int64{a.ID, 42, b.ID})
	assert.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestStoreListPagination(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	base := time.Now()
	for i := 0; i < 5; i++ {
		_, _ = s.Create(ctx, &model.Document{Title: "doc", CreatedAt: base.Add(time.Duration(i) * time.Second)})
	}

	res, err := s.List(ctx, repository.PageQuery{Limit: 2, Offset: 0})
	assert.NoError(t, err)
	assert.Equal(t, 5, res.Total)
	assert.Len(t, res.Items, 2)
	// Newest first.
	assert.Equal(t, int64(5), res.Items[0].ID)

	res, err = s.List(ctx, repository.PageQuery{Limit: 2, Offset: 4})
	assert.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestStoreUpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	doc, _ := s.Create(ctx, &model.Document{Title: "a", CreatedAt: created})

	doc.Title = "b"
	doc.CreatedAt = time.Now()
	updated, err := s.Update(ctx, doc)

	assert.NoError(t, err)
	assert.Equal(t, "b", updated.Title)
	assert.Equal(t, created, updated.CreatedAt)

	_, err = s.Update(ctx, &model.Document{ID: 999})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStoreDeleteCascadesRelations(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	rels := s.Relations()

	parent, _ := s.Create(ctx, &model.Document{Title: "parent"})
	childA, _ := s.Create(ctx, &model.Document{Title: "child a"})
	childB, _ := s.Create(ctx, &model.Document{Title: "child b"})

	_, _ = rels.Create(ctx, &model.DocumentRelation{ParentID: parent.ID, ChildID: childA.ID, RelationType: "attachment"})
	_, _ = rels.Create(ctx, &model.DocumentRelation{ParentID: parent.ID, ChildID: childB.ID, RelationType: "attachment"})

	assert.NoError(t, s.Delete(ctx, parent.ID))

	_, err := s.FindByID(ctx, parent.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	remaining, err := rels.ListByParent(ctx, parent.ID)
	assert.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestRelationStoreListByParent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	rels := s.Relations()

	_, _ = rels.Create(ctx, &model.DocumentRelation{ParentID: 1, ChildID: 2, RelationType: "a"})
	_, _ = rels.Create(ctx, &model.DocumentRelation{ParentID: 1, ChildID: 3, RelationType: "b"})
	_, _ = rels.Create(ctx, &model.DocumentRelation{ParentID: 2, ChildID: 3, RelationType: "c"})

	out, err := rels.ListByParent(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, out, 2)
}
