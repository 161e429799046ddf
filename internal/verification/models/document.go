package models

import (
	"strings"
	"time"

	id "docseva/pkg/domain"
	dErrors "docseva/pkg/domain-errors"
)

// DocumentStatus is the lifecycle state of a submitted document.
type DocumentStatus string

const (
	StatusPending  DocumentStatus = "PENDING"
	StatusVerified DocumentStatus = "VERIFIED"
	StatusRejected DocumentStatus = "REJECTED"
)

// IsTerminal reports whether no further transition is legal from the status.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusVerified || s == StatusRejected
}

// Document is the aggregate root for one citizen-submitted identity artifact.
//
// Invariants:
//   - Type and ImageRef are immutable after construction
//   - Status transitions: PENDING→VERIFIED or PENDING→REJECTED, nothing else;
//     VERIFIED and REJECTED are permanent
//   - RejectionReason is non-empty if and only if Status is REJECTED
//   - DecidedBy/DecidedAt are set exactly when the document leaves PENDING
//
// Concurrent officer actions are serialized by the store's Execute method,
// which holds its lock (mutex or FOR UPDATE) across the Can*/Apply* pair, so
// at most one transition wins; the loser sees CodeInvalidTransition.
type Document struct {
	ID              id.DocumentID  `json:"id"`
	OwnerID         id.CitizenID   `json:"ownerId"`
	Type            DocumentType   `json:"documentType"`
	Status          DocumentStatus `json:"status"`
	ImageRef        string         `json:"imageRef"`
	RejectionReason string         `json:"rejectionReason,omitempty"`
	DecidedBy       id.OfficerID   `json:"decidedBy,omitzero"`
	SubmittedAt     time.Time      `json:"submittedAt"`
	DecidedAt       time.Time      `json:"decidedAt,omitzero"`
}

// NewDocument creates a PENDING document for a citizen upload.
func NewDocument(docID id.DocumentID, owner id.CitizenID, docType DocumentType, imageRef string, now time.Time) (*Document, error) {
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "owner id is required")
	}
	if strings.TrimSpace(imageRef) == "" {
		return nil, dErrors.New(dErrors.CodeRequiredFieldMissing, "document image is required")
	}
	if _, err := ParseDocumentType(string(docType)); err != nil {
		return nil, err
	}
	return &Document{
		ID:          docID,
		OwnerID:     owner,
		Type:        docType,
		Status:      StatusPending,
		ImageRef:    imageRef,
		SubmittedAt: now,
	}, nil
}

// CanAccept checks whether the document may transition to VERIFIED.
// Use with ApplyAccept inside a store Execute callback.
func (d *Document) CanAccept() error {
	if d.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvalidTransition,
			"document is "+string(d.Status)+", only PENDING documents can be accepted")
	}
	return nil
}

// ApplyAccept transitions the document to VERIFIED. Call CanAccept first.
func (d *Document) ApplyAccept(officer id.OfficerID, now time.Time) {
	d.Status = StatusVerified
	d.DecidedBy = officer
	d.DecidedAt = now
}

// CanReject checks whether the document may transition to REJECTED with the
// given reason. Use with ApplyReject inside a store Execute callback.
func (d *Document) CanReject(reason string) error {
	if d.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvalidTransition,
			"document is "+string(d.Status)+", only PENDING documents can be rejected")
	}
	if strings.TrimSpace(reason) == "" {
		return dErrors.New(dErrors.CodeRequiredFieldMissing, "rejection reason is required")
	}
	return nil
}

// ApplyReject transitions the document to REJECTED and records the reason.
// Call CanReject first.
func (d *Document) ApplyReject(reason string, officer id.OfficerID, now time.Time) {
	d.Status = StatusRejected
	d.RejectionReason = strings.TrimSpace(reason)
	d.DecidedBy = officer
	d.DecidedAt = now
}
