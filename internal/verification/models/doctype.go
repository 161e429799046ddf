package models

import dErrors "docseva/pkg/domain-errors"

// DocumentType enumerates the supported identity document kinds. The set is
// fixed: it is the wire contract between clients and this service.
type DocumentType string

const (
	TypeAadhaar        DocumentType = "AADHAAR"
	TypeDrivingLicense DocumentType = "DRIVING_LICENSE"
	TypePAN            DocumentType = "PAN"
	TypeRationCard     DocumentType = "RATION_CARD"
	TypeVoterID        DocumentType = "VOTER_ID"
	TypePassport       DocumentType = "PASSPORT"
)

var allDocumentTypes = []DocumentType{
	TypeAadhaar,
	TypeDrivingLicense,
	TypePAN,
	TypeRationCard,
	TypeVoterID,
	TypePassport,
}

// AllDocumentTypes returns the supported kinds in display order.
func AllDocumentTypes() []DocumentType {
	out := make([]DocumentType, len(allDocumentTypes))
	copy(out, allDocumentTypes)
	return out
}

// ParseDocumentType validates a wire value against the fixed enum.
func ParseDocumentType(s string) (DocumentType, error) {
	for _, t := range allDocumentTypes {
		if DocumentType(s) == t {
			return t, nil
		}
	}
	return "", dErrors.New(dErrors.CodeUnknownDocumentType, "unsupported document type: "+s)
}

func (t DocumentType) String() string { return string(t) }
