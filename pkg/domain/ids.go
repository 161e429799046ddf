// Package domain defines typed identifiers used across the service.
//
// IDs are distinct named types over uuid.UUID so a DocumentID can never be
// passed where a CitizenID is expected. Parse functions enforce the trust
// boundary invariant: IDs must be valid, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "docseva/pkg/domain-errors"
)

type (
	// CitizenID identifies a citizen who owns documents.
	CitizenID uuid.UUID
	// DocumentID identifies a single submitted document.
	DocumentID uuid.UUID
	// OfficerID identifies the officer who adjudicated a document.
	OfficerID uuid.UUID
)

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be the nil UUID")
	}
	return u, nil
}

// ParseCitizenID validates and returns a CitizenID.
func ParseCitizenID(s string) (CitizenID, error) {
	u, err := parseUUID(s, "citizen id")
	return CitizenID(u), err
}

// ParseDocumentID validates and returns a DocumentID.
func ParseDocumentID(s string) (DocumentID, error) {
	u, err := parseUUID(s, "document id")
	return DocumentID(u), err
}

// ParseOfficerID validates and returns an OfficerID.
func ParseOfficerID(s string) (OfficerID, error) {
	u, err := parseUUID(s, "officer id")
	return OfficerID(u), err
}

// NewCitizenID returns a random CitizenID.
func NewCitizenID() CitizenID { return CitizenID(uuid.New()) }

// NewDocumentID returns a random DocumentID.
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// NewOfficerID returns a random OfficerID.
func NewOfficerID() OfficerID { return OfficerID(uuid.New()) }

func (id CitizenID) String() string  { return uuid.UUID(id).String() }
func (id DocumentID) String() string { return uuid.UUID(id).String() }
func (id OfficerID) String() string  { return uuid.UUID(id).String() }

func (id CitizenID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id OfficerID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

// Named types do not inherit uuid.UUID's text marshalling, so each ID
// implements it explicitly to keep the canonical string form on the wire.

func (id CitizenID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id DocumentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id OfficerID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }

func (id *CitizenID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = CitizenID(u)
	return nil
}

func (id *DocumentID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = DocumentID(u)
	return nil
}

func (id *OfficerID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*id = OfficerID(u)
	return nil
}
