// Package service implements the document verification workflow engine:
// submission, officer adjudication (accept/reject), and the read paths the
// dashboards consume.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"docseva/internal/audit"
	verifmetrics "docseva/internal/verification/metrics"
	"docseva/internal/verification/models"
	"docseva/internal/verification/registry"
	"docseva/internal/verification/validate"
	id "docseva/pkg/domain"
	dErrors "docseva/pkg/domain-errors"
	"docseva/pkg/platform/sentinel"
	"docseva/pkg/requestcontext"
)

// DocumentStore persists documents. Execute must hold the store's lock (mutex
// or row lock) across the validate and mutate callbacks so concurrent officer
// actions on one document serialize: at most one transition wins.
type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, docID id.DocumentID) (*models.Document, error)
	ListByOwner(ctx context.Context, owner id.CitizenID) ([]*models.Document, error)
	ListByStatus(ctx context.Context, status models.DocumentStatus) ([]*models.Document, error)
	Execute(ctx context.Context, docID id.DocumentID,
		validate func(*models.Document) error,
		mutate func(*models.Document)) (*models.Document, error)
}

// RecordStore persists verification records, one per verified document.
type RecordStore interface {
	Save(ctx context.Context, rec *models.VerificationRecord) error
	FindByDocumentID(ctx context.Context, docID id.DocumentID) (*models.VerificationRecord, error)
}

// TxRunner runs fn atomically. The postgres runner opens a transaction and
// threads it through ctx; the default runner is a passthrough for the memory
// stores, whose Execute already provides the per-document critical section.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ExportCacheInvalidator drops a citizen's cached export bundle after any
// decision changes it.
type ExportCacheInvalidator interface {
	Invalidate(ctx context.Context, owner id.CitizenID) error
}

type nopTxRunner struct{}

func (nopTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service orchestrates the document lifecycle.
type Service struct {
	documents   DocumentStore
	records     RecordStore
	tx          TxRunner
	logger      *slog.Logger
	metrics     *verifmetrics.Metrics
	audit       audit.Publisher
	exportCache ExportCacheInvalidator
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *verifmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

func WithTxRunner(tx TxRunner) Option {
	return func(s *Service) { s.tx = tx }
}

func WithExportCache(c ExportCacheInvalidator) Option {
	return func(s *Service) { s.exportCache = c }
}

func New(documents DocumentStore, records RecordStore, opts ...Option) *Service {
	s := &Service{
		documents: documents,
		records:   records,
		tx:        nopTxRunner{},
		logger:    slog.Default(),
		audit:     audit.NopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit creates a PENDING document for a citizen upload. The image bytes
// live in the external upload subsystem; imageRef is its opaque handle.
func (s *Service) Submit(ctx context.Context, owner id.CitizenID, docType models.DocumentType, imageRef string) (*models.Document, error) {
	doc, err := models.NewDocument(id.NewDocumentID(), owner, docType, imageRef, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store document")
	}

	s.emit(ctx, audit.Event{
		Action:       audit.ActionDocumentSubmitted,
		Timestamp:    doc.SubmittedAt,
		DocumentID:   doc.ID,
		CitizenID:    doc.OwnerID,
		DocumentType: doc.Type.String(),
		RequestID:    requestcontext.RequestID(ctx),
	})
	if s.metrics != nil {
		s.metrics.IncSubmitted(doc.Type.String())
	}
	return doc, nil
}

// Accept adjudicates a PENDING document as genuine. The officer's captured
// fields are validated against the registry schema for the document's type;
// on success the verification record and the VERIFIED status commit together.
// A validation failure leaves the document PENDING with no partial write.
func (s *Service) Accept(ctx context.Context, officer id.OfficerID, docID id.DocumentID, input map[string]string) (*models.Document, error) {
	start := time.Now()
	if officer.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "officer identity is required")
	}

	current, err := s.documents.FindByID(ctx, docID)
	if err != nil {
		return nil, wrapStoreErr(err, "document")
	}
	// Transition legality is reported before field validation so an officer
	// acting on an already-decided document gets InvalidTransition, not a
	// form error. The authoritative check repeats under the Execute lock.
	if err := current.CanAccept(); err != nil {
		return nil, err
	}

	schema, err := registry.Schema(current.Type)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	fields, err := validate.Apply(schema, input, now)
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncValidationFailure(current.Type.String())
		}
		return nil, err
	}

	var accepted *models.Document
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		doc, err := s.documents.Execute(txCtx, docID,
			func(d *models.Document) error { return d.CanAccept() },
			func(d *models.Document) { d.ApplyAccept(officer, now) },
		)
		if err != nil {
			return wrapStoreErr(err, "document")
		}

		rec, err := models.NewRecord(doc, fields, officer, now)
		if err != nil {
			return err
		}
		if err := s.records.Save(txCtx, rec); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store verification record")
		}
		accepted = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterDecision(ctx, accepted)
	s.emit(ctx, audit.Event{
		Action:       audit.ActionDocumentVerified,
		Timestamp:    now,
		DocumentID:   accepted.ID,
		CitizenID:    accepted.OwnerID,
		OfficerID:    officer,
		DocumentType: accepted.Type.String(),
		RequestID:    requestcontext.RequestID(ctx),
	})
	if s.metrics != nil {
		s.metrics.IncVerified(accepted.Type.String())
		s.metrics.ObserveAccept(start)
	}
	return accepted, nil
}

// Reject adjudicates a PENDING document as unacceptable with a non-empty
// reason, which is surfaced to the citizen.
func (s *Service) Reject(ctx context.Context, officer id.OfficerID, docID id.DocumentID, reason string) (*models.Document, error) {
	if officer.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "officer identity is required")
	}
	now := requestcontext.Now(ctx)

	var rejected *models.Document
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		doc, err := s.documents.Execute(txCtx, docID,
			func(d *models.Document) error { return d.CanReject(reason) },
			func(d *models.Document) { d.ApplyReject(reason, officer, now) },
		)
		if err != nil {
			return wrapStoreErr(err, "document")
		}
		rejected = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterDecision(ctx, rejected)
	s.emit(ctx, audit.Event{
		Action:       audit.ActionDocumentRejected,
		Timestamp:    now,
		DocumentID:   rejected.ID,
		CitizenID:    rejected.OwnerID,
		OfficerID:    officer,
		DocumentType: rejected.Type.String(),
		Reason:       rejected.RejectionReason,
		RequestID:    requestcontext.RequestID(ctx),
	})
	if s.metrics != nil {
		s.metrics.IncRejected(rejected.Type.String())
	}
	return rejected, nil
}

// Get fetches one document.
func (s *Service) Get(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	doc, err := s.documents.FindByID(ctx, docID)
	if err != nil {
		return nil, wrapStoreErr(err, "document")
	}
	return doc, nil
}

// ListByOwner returns a citizen's documents, oldest first.
func (s *Service) ListByOwner(ctx context.Context, owner id.CitizenID) ([]*models.Document, error) {
	docs, err := s.documents.ListByOwner(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list documents")
	}
	return docs, nil
}

// ListPending returns the officer work queue, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]*models.Document, error) {
	docs, err := s.documents.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending documents")
	}
	return docs, nil
}

func (s *Service) afterDecision(ctx context.Context, doc *models.Document) {
	if s.exportCache == nil {
		return
	}
	if err := s.exportCache.Invalidate(ctx, doc.OwnerID); err != nil {
		s.logger.WarnContext(ctx, "export cache invalidation failed",
			"citizen_id", doc.OwnerID,
			"error", err,
		)
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"document_id", event.DocumentID,
			"error", err,
		)
	}
}

func wrapStoreErr(err error, what string) error {
	var coded *dErrors.Error
	if errors.As(err, &coded) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, what+" not found")
	}
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, what+" already exists")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
}
