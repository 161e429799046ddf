// Package service assembles per-citizen identity snapshots from the
// verification stores and serves the completeness and export read paths.
package service

import (
	"context"
	"encoding/json"
	"log/slog"

	qrcode "github.com/skip2/go-qrcode"

	"docseva/internal/identity/models"
	verification "docseva/internal/verification/models"
	id "docseva/pkg/domain"
	dErrors "docseva/pkg/domain-errors"
)

// QRSize is the pixel width of the export QR image.
const QRSize = 256

// DocumentLister reads a citizen's documents.
type DocumentLister interface {
	ListByOwner(ctx context.Context, owner id.CitizenID) ([]*verification.Document, error)
}

// RecordLister batch-reads verification records for a set of documents.
type RecordLister interface {
	ListByDocumentIDs(ctx context.Context, docIDs []id.DocumentID) (map[id.DocumentID]*verification.VerificationRecord, error)
}

// ExportCache caches rendered export payloads per citizen. A miss returns
// ok=false with a nil error; cache failures are soft, the service falls back
// to recomputing.
type ExportCache interface {
	Get(ctx context.Context, owner id.CitizenID) ([]byte, bool, error)
	Set(ctx context.Context, owner id.CitizenID, payload []byte) error
	Invalidate(ctx context.Context, owner id.CitizenID) error
}

// Service exposes the aggregated identity view.
type Service struct {
	documents DocumentLister
	records   RecordLister
	cache     ExportCache
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithExportCache(cache ExportCache) Option {
	return func(s *Service) { s.cache = cache }
}

func New(documents DocumentLister, records RecordLister, opts ...Option) *Service {
	s := &Service{
		documents: documents,
		records:   records,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot fetches the citizen's documents and the records of the verified
// ones. Only verified documents carry records, so the batch fetch is limited
// to those.
func (s *Service) Snapshot(ctx context.Context, owner id.CitizenID) (*models.Snapshot, error) {
	docs, err := s.documents.ListByOwner(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}

	var verifiedIDs []id.DocumentID
	for _, doc := range docs {
		if doc.Status == verification.StatusVerified {
			verifiedIDs = append(verifiedIDs, doc.ID)
		}
	}
	records := map[id.DocumentID]*verification.VerificationRecord{}
	if len(verifiedIDs) > 0 {
		records, err = s.records.ListByDocumentIDs(ctx, verifiedIDs)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list verification records")
		}
	}
	return &models.Snapshot{CitizenID: owner, Documents: docs, Records: records}, nil
}

// Complete reports whether the citizen's bundle is fully verified.
func (s *Service) Complete(ctx context.Context, owner id.CitizenID) (bool, error) {
	snap, err := s.Snapshot(ctx, owner)
	if err != nil {
		return false, err
	}
	return snap.Complete(), nil
}

// Export returns the consolidated record as JSON, served from cache when a
// fresh copy exists. The verification service invalidates the entry on every
// officer decision.
func (s *Service) Export(ctx context.Context, owner id.CitizenID) ([]byte, error) {
	if s.cache != nil {
		payload, ok, err := s.cache.Get(ctx, owner)
		if err != nil {
			s.logger.WarnContext(ctx, "export cache read failed", "citizen_id", owner, "error", err)
		} else if ok {
			return payload, nil
		}
	}

	snap, err := s.Snapshot(ctx, owner)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(snap.Export())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode export")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, owner, payload); err != nil {
			s.logger.WarnContext(ctx, "export cache write failed", "citizen_id", owner, "error", err)
		}
	}
	return payload, nil
}

// ExportQR renders the export payload as a PNG QR code.
func (s *Service) ExportQR(ctx context.Context, owner id.CitizenID) ([]byte, error) {
	payload, err := s.Export(ctx, owner)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, QRSize)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render export QR")
	}
	return png, nil
}
