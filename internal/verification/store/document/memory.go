package document

import (
	"context"
	"sort"
	"sync"

	"docseva/internal/verification/models"
	id "docseva/pkg/domain"
	"docseva/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded document store for tests and single-node runs.
//
// Execute holds the write lock across the validate and mutate callbacks, so
// two concurrent officer actions on the same document cannot both observe
// PENDING: exactly one transition wins, the other fails in validate.
type InMemory struct {
	mu   sync.RWMutex
	docs map[id.DocumentID]models.Document
}

func NewInMemory() *InMemory {
	return &InMemory{docs: make(map[id.DocumentID]models.Document)}
}

func (s *InMemory) Create(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; exists {
		return sentinel.ErrConflict
	}
	s.docs[doc.ID] = *doc
	return nil
}

func (s *InMemory) FindByID(_ context.Context, docID id.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &doc, nil
}

func (s *InMemory) ListByOwner(_ context.Context, owner id.CitizenID) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Document
	for _, doc := range s.docs {
		if doc.OwnerID == owner {
			d := doc
			out = append(out, &d)
		}
	}
	sortBySubmission(out)
	return out, nil
}

func (s *InMemory) ListByStatus(_ context.Context, status models.DocumentStatus) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Document
	for _, doc := range s.docs {
		if doc.Status == status {
			d := doc
			out = append(out, &d)
		}
	}
	sortBySubmission(out)
	return out, nil
}

// Execute atomically validates and mutates one document under the store lock.
// The mutated copy is persisted and returned; a validate error leaves the
// stored document untouched.
func (s *InMemory) Execute(_ context.Context, docID id.DocumentID,
	validate func(*models.Document) error,
	mutate func(*models.Document)) (*models.Document, error) {

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	mutate(&doc)
	s.docs[docID] = doc
	out := doc
	return &out, nil
}

func sortBySubmission(docs []*models.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].SubmittedAt.Equal(docs[j].SubmittedAt) {
			return docs[i].ID.String() < docs[j].ID.String()
		}
		return docs[i].SubmittedAt.Before(docs[j].SubmittedAt)
	})
}
