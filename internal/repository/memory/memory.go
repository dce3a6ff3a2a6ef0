// Package memory holds the in-process fallback implementation of the
// repository interfaces, used while the remote backend is unavailable. State
// lives only for the process lifetime.
package memory

import (
	"context"
	"sort"
	"sync"

	"arquivo/internal/model"
	"arquivo/internal/repository"
)

// Store implements both DocumentRepository and RelationRepository over
// mutex-guarded maps so the document delete ordering (relations and bookkeeping
// rows before the document itself) can be honored in one place.
type Store struct {
	mu         sync.RWMutex
	nextDocID  int64
	nextRelID  int64
	documents  map[int64]model.Document
	relations  map[int64]model.DocumentRelation
	shares     map[int64][]string // document id -> shared-with refs
	accessLogs map[int64]int      // document id -> recorded access count
}

// NewStore creates an empty fallback store.
func NewStore() *Store {
	return &Store{
		nextDocID:  1,
		nextRelID:  1,
		documents:  map[int64]model.Document{},
		relations:  map[int64]model.DocumentRelation{},
		shares:     map[int64][]string{},
		accessLogs: map[int64]int{},
	}
}

var (
	_ repository.DocumentRepository = (*Store)(nil)
	_ repository.RelationRepository = (*RelationStore)(nil)
)

// RelationStore is the RelationRepository view over a Store's shared state.
type RelationStore struct {
	s *Store
}

// Relations returns the relation-repository view of the store.
func (s *Store) Relations() *RelationStore {
	return &RelationStore{s: s}
}

func (s *Store) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *doc
	stored.ID = s.nextDocID
	s.nextDocID++
	if stored.Tags == nil {
		stored.Tags = []string{}
	}
	s.documents[stored.ID] = stored

	out := stored
	return &out, nil
}

func (s *Store) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := doc
	return &out, nil
}

func (s *Store) FindByIDs(ctx context.Context, ids []int64) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := s.documents[id]; ok {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	all, _ := s.All(ctx)
	// Newest first, matching the remote backend's ordering.
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	total := len(all)
	start := pq.Offset
	if start > total {
		start = total
	}
	end := start + pq.Limit
	if pq.Limit <= 0 || end > total {
		end = total
	}
	return &repository.PageResult[model.Document]{Items: all[start:end], Total: total}, nil
}

func (s *Store) All(ctx context.Context) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.documents[doc.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	updated := *doc
	updated.CreatedAt = existing.CreatedAt // immutable once set
	if updated.Tags == nil {
		updated.Tags = []string{}
	}
	s.documents[doc.ID] = updated

	out := updated
	return &out, nil
}

// Delete removes the document plus every relation, share, and access-log
// entry referencing it. Same ordering contract as the remote backend.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for relID, rel := range s.relations {
		if rel.ParentID == id || rel.ChildID == id {
			delete(s.relations, relID)
		}
	}
	delete(s.shares, id)
	delete(s.accessLogs, id)
	delete(s.documents, id)
	return nil
}

func (r *RelationStore) Create(ctx context.Context, rel *model.DocumentRelation) (*model.DocumentRelation, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rel
	stored.ID = s.nextRelID
	s.nextRelID++
	s.relations[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *RelationStore) ListByParent(ctx context.Context, parentID int64) ([]model.DocumentRelation, error) {
	s := r.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.DocumentRelation, 0)
	for _, rel := range s.relations {
		if rel.ParentID == parentID {
			out = append(out, rel)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RelationStore) DeleteByDocument(ctx context.Context, docID int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for relID, rel := range s.relations {
		if rel.ParentID == docID || rel.ChildID == docID {
			delete(s.relations, relID)
		}
	}
	return nil
}
