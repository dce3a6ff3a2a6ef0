package search

import (
	"context"
	"errors"
	"testing"

	"arquivo/internal/model"
	"arquivo/internal/repository/memory"
	"arquivo/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
)

func seed(t *testing.T, docs ...*model.Document) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	for _, d := range docs {
		if _, err := s.Create(context.Background(), d); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return s
}

func titles(docs []model.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Title)
	}
	return out
}

func TestSearchScenarioRelatorioAnual(t *testing.T) {
	ctx := context.Background()
	store := seed(t,
		&model.Document{
			Title:   "Relatório Anual",
			Content: `{"fileType":"application/pdf","mainSubject":"Orçamento"}`,
		},
		&model.Document{
			Title:   "Ata de Reunião",
			Content: `{"fileType":"application/msword"}`,
		},
	)
	e := NewEngine(store)

	assert.Equal(t, []string{"Relatório Anual"}, titles(e.Search(ctx, "pdf", "", nil)))
	assert.Equal(t, []string{"Relatório Anual"}, titles(e.Search(ctx, "orçamento", "", nil)))
	assert.Empty(t, e.Search(ctx, "excel", "", nil))
}

func TestSearchSynonymRecall(t *testing.T) {
	ctx := context.Background()
	// No literal "foto" anywhere in the document.
	store := seed(t, &model.Document{
		Title:   "Fachada do edifício",
		Content: `{"fileType":"image/png","responsible":"obras"}`,
	})
	e := NewEngine(store)

	assert.Len(t, e.Search(ctx, "foto", "", nil), 1)
	assert.Len(t, e.Search(ctx, "imagem", "", nil), 1)
	assert.Empty(t, e.Search(ctx, "filme", "", nil))
}

func TestSearchRecursiveEnvelopeWalk(t *testing.T) {
	ctx := context.Background()
	store := seed(t, &model.Document{
		Title:   "Processo",
		Content: `{"outer":{"middle":{"inner":["nada","licitação pública"]}},"count":3}`,
	})
	e := NewEngine(store)

	assert.Len(t, e.Search(ctx, "licitação", "", nil), 1)
	assert.Empty(t, e.Search(ctx, "3", "", nil), "numeric primitives are skipped")
}

func TestSearchMalformedContentFallsBackToRawText(t *testing.T) {
	ctx := context.Background()
	store := seed(t, &model.Document{
		Title:   "Corrompido",
		Content: `{"broken": "despacho interno`, // unterminated JSON
	})
	e := NewEngine(store)

	assert.Len(t, e.Search(ctx, "despacho", "", nil), 1)
	assert.Empty(t, e.Search(ctx, "inexistente", "", nil))
}

func TestSearchEmptyQueryAppliesFiltersOnly(t *testing.T) {
	ctx := context.Background()
	store := seed(t,
		&model.Document{Title: "a", Category: model.CategoryImages, Tags: []string{"obras"}},
		&model.Document{Title: "b", Category: model.CategoryDocuments, Tags: []string{"obras", "2024"}},
		&model.Document{Title: "c", Category: model.CategoryDocuments, Tags: []string{"rh"}},
	)
	e := NewEngine(store)

	assert.Len(t, e.Search(ctx, "", "", nil), 3)
	assert.Equal(t, []string{"b", "c"}, titles(e.Search(ctx, "", "Documents", nil)))
	assert.Equal(t, []string{"a", "b"}, titles(e.Search(ctx, "", "", []string{"obras"})))
	assert.Equal(t, []string{"b"}, titles(e.Search(ctx, "", "Documents", []string{"obras"})))
}

func TestSearchFiltersAreConjunctiveWithQuery(t *testing.T) {
	ctx := context.Background()
	store := seed(t,
		&model.Document{Title: "orçamento municipal", Category: model.CategoryDocuments},
		&model.Document{Title: "orçamento estadual", Category: model.CategoryImages},
	)
	e := NewEngine(store)

	got := e.Search(ctx, "orçamento", "Documents", nil)
	assert.Equal(t, []string{"orçamento municipal"}, titles(got))
}

func TestSearchTitleDescriptionAndTagHits(t *testing.T) {
	ctx := context.Background()
	store := seed(t,
		&model.Document{Title: "Edital 42", Description: "concorrência pública"},
		&model.Document{Title: "Outro", Tags: []string{"Edital"}},
	)
	e := NewEngine(store)

	assert.Len(t, e.Search(ctx, "edital", "", nil), 2)
	assert.Len(t, e.Search(ctx, "concorrência", "", nil), 1)
}

func TestSearchRepositoryFailureReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.MockDocumentRepository)
	repo.On("All", ctx).Return(nil, errors.New("scan failed"))
	e := NewEngine(repo)

	got := e.Search(ctx, "anything", "", nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
