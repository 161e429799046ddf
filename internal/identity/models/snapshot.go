// Package models holds the derived per-citizen identity view: the citizen's
// documents joined with their verification records. Nothing here is stored;
// snapshots are assembled from the verification stores and thrown away.
package models

import (
	verification "docseva/internal/verification/models"
	id "docseva/pkg/domain"
)

// Snapshot is one citizen's documents and captured records at a point in time.
// All methods are pure reads over the already-fetched data.
type Snapshot struct {
	CitizenID id.CitizenID
	Documents []*verification.Document
	Records   map[id.DocumentID]*verification.VerificationRecord
}

// Complete reports whether the citizen's identity bundle is fully verified:
// at least one document exists and every one of them is VERIFIED. An empty
// set is not complete.
func (s *Snapshot) Complete() bool {
	if len(s.Documents) == 0 {
		return false
	}
	for _, doc := range s.Documents {
		if doc.Status != verification.StatusVerified {
			return false
		}
	}
	return true
}

// Export builds the consolidated record: document type mapped to the captured
// fields of its VERIFIED document. Types without a VERIFIED document are
// omitted, never zero-filled. When duplicates of a type are both VERIFIED the
// most recent decision wins.
func (s *Snapshot) Export() map[verification.DocumentType]map[string]string {
	out := make(map[verification.DocumentType]map[string]string)
	chosen := make(map[verification.DocumentType]*verification.Document)
	for _, doc := range s.Documents {
		if doc.Status != verification.StatusVerified {
			continue
		}
		rec, ok := s.Records[doc.ID]
		if !ok {
			continue
		}
		if prev, dup := chosen[doc.Type]; dup && !doc.DecidedAt.After(prev.DecidedAt) {
			continue
		}
		chosen[doc.Type] = doc
		out[doc.Type] = rec.WireFields()
	}
	return out
}
