// Package search answers free-text queries over document metadata. It is a
// deliberate linear scan — O(documents × envelope size), no inverted index —
// matching the system's consistency/cost trade-off: the recursive walk plus
// synonym expansion is easy to reason about over the full envelope, and the
// corpus is small enough that indexing would buy nothing.
package search

import (
	"context"
	"strings"

	"arquivo/internal/envelope"
	"arquivo/internal/logging"
	"arquivo/internal/model"
	"arquivo/internal/repository"
)

// synonymFamilies widens recall for file-type keywords: a query containing
// one of the keywords matches any document whose envelope declares a MIME
// type carrying one of the markers, even without a literal substring hit.
// The expansion is additive only.
var synonymFamilies = []struct {
	keywords []string
	markers  []string
}{
	{[]string{"pdf"}, []string{"pdf"}},
	{[]string{"word"}, []string{"msword", "wordprocessingml"}},
	{[]string{"excel", "planilha"}, []string{"spreadsheet", "ms-excel", "csv"}},
	{[]string{"foto", "imagem", "image"}, []string{"image/"}},
	{[]string{"video", "filme"}, []string{"video/"}},
	{[]string{"audio", "som"}, []string{"audio/"}},
}

// Engine runs metadata searches over the document repository.
type Engine struct {
	docs repository.DocumentRepository
	log  *logging.Logger
}

// NewEngine creates a search engine over the given repository.
func NewEngine(docs repository.DocumentRepository) *Engine {
	return &Engine{docs: docs, log: logging.New("search")}
}

// Search returns every document matching the query plus the conjunctive
// category and tag filters. An empty query matches everything that passes the
// filters. Search never fails: internal errors are logged and yield an empty
// result set.
func (e *Engine) Search(ctx context.Context, query string, category string, tags []string) []model.Document {
	docs, err := e.docs.All(ctx)
	if err != nil {
		e.log.Error("search_scan_failed", err, map[string]any{"query": query})
		return []model.Document{}
	}

	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]model.Document, 0)
	for _, doc := range docs {
		if category != "" && string(doc.Category) != category {
			continue
		}
		if len(tags) > 0 && !tagsIntersect(doc.Tags, tags) {
			continue
		}
		if q != "" && !matches(doc, q) {
			continue
		}
		out = append(out, doc)
	}
	return out
}

func matches(doc model.Document, q string) bool {
	if strings.Contains(strings.ToLower(doc.Title), q) ||
		strings.Contains(strings.ToLower(doc.Description), q) {
		return true
	}
	for _, tag := range doc.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}

	env, err := envelope.Parse([]byte(doc.Content))
	if err != nil {
		// Unparsable envelope: degrade to a raw substring test, never abort.
		return strings.Contains(strings.ToLower(doc.Content), q)
	}

	if env.WalkStrings(func(s string) bool {
		return strings.Contains(strings.ToLower(s), q)
	}) {
		return true
	}

	return synonymMatch(q, envelope.DeclaredMime(env))
}

func synonymMatch(q, declaredMime string) bool {
	if declaredMime == "" {
		return false
	}
	mt := strings.ToLower(declaredMime)
	for _, fam := range synonymFamilies {
		for _, kw := range fam.keywords {
			if !strings.Contains(q, kw) {
				continue
			}
			for _, marker := range fam.markers {
				if strings.Contains(mt, marker) {
					return true
				}
			}
		}
	}
	return false
}

// tagsIntersect reports whether any wanted tag is present on the document.
// Membership order is irrelevant; comparison is case-insensitive.
func tagsIntersect(docTags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range docTags {
			if strings.EqualFold(t, w) {
				return true
			}
		}
	}
	return false
}
