package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"docseva/internal/verification/models"
	id "docseva/pkg/domain"
	"docseva/pkg/platform/sentinel"
	txcontext "docseva/pkg/platform/tx"
)

// Postgres persists documents in PostgreSQL. When a transaction is present in
// the context (see pkg/platform/tx) all statements join it; Execute then locks
// the row with FOR UPDATE so the validate/mutate pair is serialized per
// document id, matching the memory store's guarantee.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) querier(ctx context.Context) txcontext.Querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const documentColumns = `id, owner_id, document_type, status, image_ref, rejection_reason, decided_by, submitted_at, decided_at`

func (s *Postgres) Create(ctx context.Context, doc *models.Document) error {
	_, err := s.querier(ctx).ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		doc.ID.String(), doc.OwnerID.String(), doc.Type.String(), string(doc.Status),
		doc.ImageRef, doc.RejectionReason, nullableOfficer(doc.DecidedBy),
		doc.SubmittedAt, nullableTime(doc.DecidedAt),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	row := s.querier(ctx).QueryRowContext(ctx, `
		SELECT `+documentColumns+` FROM documents WHERE id = $1`, docID.String())
	return scanDocument(row)
}

func (s *Postgres) ListByOwner(ctx context.Context, owner id.CitizenID) ([]*models.Document, error) {
	rows, err := s.querier(ctx).QueryContext(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE owner_id = $1 ORDER BY submitted_at, id`, owner.String())
	if err != nil {
		return nil, fmt.Errorf("list documents by owner: %w", err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (s *Postgres) ListByStatus(ctx context.Context, status models.DocumentStatus) ([]*models.Document, error) {
	rows, err := s.querier(ctx).QueryContext(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE status = $1 ORDER BY submitted_at, id`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list documents by status: %w", err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// Execute locks the document row, runs validate against the current state,
// applies mutate, and writes the result. Callers are expected to run it inside
// a transaction (service tx runner); without one it opens its own so the row
// lock still applies.
func (s *Postgres) Execute(ctx context.Context, docID id.DocumentID,
	validate func(*models.Document) error,
	mutate func(*models.Document)) (*models.Document, error) {

	if _, ok := txcontext.From(ctx); ok {
		return s.executeLocked(ctx, docID, validate, mutate)
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin document tx: %w", err)
	}
	defer func() { _ = dbTx.Rollback() }()

	doc, err := s.executeLocked(txcontext.WithTx(ctx, dbTx), docID, validate, mutate)
	if err != nil {
		return nil, err
	}
	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("commit document tx: %w", err)
	}
	return doc, nil
}

func (s *Postgres) executeLocked(ctx context.Context, docID id.DocumentID,
	validate func(*models.Document) error,
	mutate func(*models.Document)) (*models.Document, error) {

	row := s.querier(ctx).QueryRowContext(ctx, `
		SELECT `+documentColumns+` FROM documents WHERE id = $1 FOR UPDATE`, docID.String())
	doc, err := scanDocument(row)
	if err != nil {
		return nil, err
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	mutate(doc)

	_, err = s.querier(ctx).ExecContext(ctx, `
		UPDATE documents
		SET status = $2, rejection_reason = $3, decided_by = $4, decided_at = $5
		WHERE id = $1`,
		doc.ID.String(), string(doc.Status), doc.RejectionReason,
		nullableOfficer(doc.DecidedBy), nullableTime(doc.DecidedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	return doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var (
		doc       models.Document
		docID     string
		ownerID   string
		docType   string
		status    string
		decidedBy sql.NullString
		decidedAt sql.NullTime
	)
	err := row.Scan(&docID, &ownerID, &docType, &status, &doc.ImageRef,
		&doc.RejectionReason, &decidedBy, &doc.SubmittedAt, &decidedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	parsedID, err := id.ParseDocumentID(docID)
	if err != nil {
		return nil, fmt.Errorf("scan document id: %w", err)
	}
	parsedOwner, err := id.ParseCitizenID(ownerID)
	if err != nil {
		return nil, fmt.Errorf("scan document owner: %w", err)
	}
	doc.ID = parsedID
	doc.OwnerID = parsedOwner
	doc.Type = models.DocumentType(docType)
	doc.Status = models.DocumentStatus(status)
	if decidedBy.Valid {
		officer, err := id.ParseOfficerID(decidedBy.String)
		if err != nil {
			return nil, fmt.Errorf("scan document officer: %w", err)
		}
		doc.DecidedBy = officer
	}
	if decidedAt.Valid {
		doc.DecidedAt = decidedAt.Time
	}
	return &doc, nil
}

func scanDocuments(rows *sql.Rows) ([]*models.Document, error) {
	var out []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func nullableOfficer(officer id.OfficerID) sql.NullString {
	if officer.IsNil() {
		return sql.NullString{}
	}
	return sql.NullString{String: officer.String(), Valid: true}
}

func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
