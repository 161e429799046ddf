package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"docseva/internal/verification/models"
	id "docseva/pkg/domain"
	"docseva/pkg/platform/sentinel"
	txcontext "docseva/pkg/platform/tx"
)

// Postgres persists verification records. The type-specific variant payload
// goes into a JSONB column; the common fields get their own columns so the
// aggregator can read them without decoding.
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

func (s *Postgres) Save(ctx context.Context, rec *models.VerificationRecord) error {
	details, err := rec.DetailsJSON()
	if err != nil {
		return fmt.Errorf("marshal record details: %w", err)
	}
	_, err = s.querier(ctx).ExecContext(ctx, `
		INSERT INTO verification_records
			(document_id, document_type, full_name, date_of_birth, address, details, captured_by, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.DocumentID.String(), rec.Type.String(), rec.FullName, rec.DateOfBirth,
		rec.Address, details, rec.CapturedBy.String(), rec.CapturedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert verification record: %w", err)
	}
	return nil
}

func (s *Postgres) FindByDocumentID(ctx context.Context, docID id.DocumentID) (*models.VerificationRecord, error) {
	row := s.querier(ctx).QueryRowContext(ctx, `
		SELECT document_id, document_type, full_name, date_of_birth, address, details, captured_by, captured_at
		FROM verification_records WHERE document_id = $1`, docID.String())
	return scanRecord(row)
}

func (s *Postgres) ListByDocumentIDs(ctx context.Context, docIDs []id.DocumentID) (map[id.DocumentID]*models.VerificationRecord, error) {
	if len(docIDs) == 0 {
		return map[id.DocumentID]*models.VerificationRecord{}, nil
	}
	raw := make([]string, len(docIDs))
	for i, d := range docIDs {
		raw[i] = d.String()
	}
	rows, err := s.querier(ctx).QueryContext(ctx, `
		SELECT document_id, document_type, full_name, date_of_birth, address, details, captured_by, captured_at
		FROM verification_records WHERE document_id = ANY($1)`, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("list verification records: %w", err)
	}
	defer rows.Close()

	out := make(map[id.DocumentID]*models.VerificationRecord, len(docIDs))
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out[rec.DocumentID] = rec
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.VerificationRecord, error) {
	var (
		rec        models.VerificationRecord
		docID      string
		docType    string
		details    []byte
		capturedBy string
	)
	err := row.Scan(&docID, &docType, &rec.FullName, &rec.DateOfBirth, &rec.Address,
		&details, &capturedBy, &rec.CapturedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan verification record: %w", err)
	}

	parsedDoc, err := id.ParseDocumentID(docID)
	if err != nil {
		return nil, fmt.Errorf("scan record document id: %w", err)
	}
	parsedOfficer, err := id.ParseOfficerID(capturedBy)
	if err != nil {
		return nil, fmt.Errorf("scan record officer id: %w", err)
	}
	rec.DocumentID = parsedDoc
	rec.Type = models.DocumentType(docType)
	rec.CapturedBy = parsedOfficer

	decoded, err := models.DecodeDetails(rec.Type, details)
	if err != nil {
		return nil, err
	}
	rec.Details = decoded
	return &rec, nil
}
