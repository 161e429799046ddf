package record

import (
	"context"
	"sync"

	"docseva/internal/verification/models"
	id "docseva/pkg/domain"
	"docseva/pkg/platform/sentinel"
)

// InMemory stores verification records keyed by their owning document.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.DocumentID]models.VerificationRecord
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[id.DocumentID]models.VerificationRecord)}
}

func (s *InMemory) Save(_ context.Context, rec *models.VerificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.DocumentID]; exists {
		return sentinel.ErrConflict
	}
	s.records[rec.DocumentID] = *rec
	return nil
}

func (s *InMemory) FindByDocumentID(_ context.Context, docID id.DocumentID) (*models.VerificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &rec, nil
}

func (s *InMemory) ListByDocumentIDs(_ context.Context, docIDs []id.DocumentID) (map[id.DocumentID]*models.VerificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.DocumentID]*models.VerificationRecord, len(docIDs))
	for _, docID := range docIDs {
		if rec, ok := s.records[docID]; ok {
			r := rec
			out[docID] = &r
		}
	}
	return out, nil
}
