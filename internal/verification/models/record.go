package models

import (
	"encoding/json"
	"time"

	id "docseva/pkg/domain"
	dErrors "docseva/pkg/domain-errors"
)

// Details is the type-specific portion of a verification record. Exactly one
// concrete details struct exists per document kind; together with the common
// fields they form the variant the officer captures for that kind.
type Details interface {
	DocumentType() DocumentType
}

// AadhaarDetails holds the 12-digit Aadhaar identifier, stored normalized
// (separators stripped).
type AadhaarDetails struct {
	AadhaarNumber string `json:"aadhaarNumber"`
}

type PANDetails struct {
	PANNumber string `json:"panNumber"`
}

type DrivingLicenseDetails struct {
	LicenseNumber string `json:"licenseNumber"`
	ExpiryDate    string `json:"expiryDate"`
}

type PassportDetails struct {
	PassportNumber string `json:"passportNumber"`
	Nationality    string `json:"nationality"`
	ExpiryDate     string `json:"expiryDate"`
}

type RationCardDetails struct {
	RationCardNumber      string `json:"rationCardNumber"`
	FamilyHead            string `json:"familyHead"`
	NumberOfFamilyMembers string `json:"numberOfFamilyMembers"`
}

type VoterIDDetails struct {
	VoterIDNumber string `json:"voterIdNumber"`
	Constituency  string `json:"constituency"`
}

func (AadhaarDetails) DocumentType() DocumentType        { return TypeAadhaar }
func (PANDetails) DocumentType() DocumentType            { return TypePAN }
func (DrivingLicenseDetails) DocumentType() DocumentType { return TypeDrivingLicense }
func (PassportDetails) DocumentType() DocumentType       { return TypePassport }
func (RationCardDetails) DocumentType() DocumentType     { return TypeRationCard }
func (VoterIDDetails) DocumentType() DocumentType        { return TypeVoterID }

// VerificationRecord is the structured payload an officer captures while
// accepting a document. One record exists per VERIFIED document, written in
// the same commit as the status transition and never updated afterwards.
//
// Dates are stored in their normalized wire form (2006-01-02); validation
// happened at capture time, so consumers treat them as opaque display values.
type VerificationRecord struct {
	DocumentID  id.DocumentID `json:"documentId"`
	Type        DocumentType  `json:"documentType"`
	FullName    string        `json:"fullName,omitempty"`
	DateOfBirth string        `json:"dateOfBirth,omitempty"`
	Address     string        `json:"address,omitempty"`
	Details     Details       `json:"-"`
	CapturedBy  id.OfficerID  `json:"capturedBy"`
	CapturedAt  time.Time     `json:"capturedAt"`
}

// Common wire field names shared by every document kind.
const (
	FieldFullName    = "fullName"
	FieldDateOfBirth = "dateOfBirth"
	FieldAddress     = "address"

	FieldAadhaarNumber         = "aadhaarNumber"
	FieldPANNumber             = "panNumber"
	FieldLicenseNumber         = "licenseNumber"
	FieldExpiryDate            = "expiryDate"
	FieldPassportNumber        = "passportNumber"
	FieldNationality           = "nationality"
	FieldRationCardNumber      = "rationCardNumber"
	FieldFamilyHead            = "familyHead"
	FieldNumberOfFamilyMembers = "numberOfFamilyMembers"
	FieldVoterIDNumber         = "voterIdNumber"
	FieldConstituency          = "constituency"
)

// NewRecord builds the per-type record variant from already-validated,
// normalized field values. It must only be called with the output of
// validate.Apply for the document's schema.
func NewRecord(doc *Document, fields map[string]string, officer id.OfficerID, now time.Time) (*VerificationRecord, error) {
	rec := &VerificationRecord{
		DocumentID:  doc.ID,
		Type:        doc.Type,
		FullName:    fields[FieldFullName],
		DateOfBirth: fields[FieldDateOfBirth],
		Address:     fields[FieldAddress],
		CapturedBy:  officer,
		CapturedAt:  now,
	}
	switch doc.Type {
	case TypeAadhaar:
		rec.Details = AadhaarDetails{AadhaarNumber: fields[FieldAadhaarNumber]}
	case TypePAN:
		rec.Details = PANDetails{PANNumber: fields[FieldPANNumber]}
	case TypeDrivingLicense:
		rec.Details = DrivingLicenseDetails{
			LicenseNumber: fields[FieldLicenseNumber],
			ExpiryDate:    fields[FieldExpiryDate],
		}
	case TypePassport:
		rec.Details = PassportDetails{
			PassportNumber: fields[FieldPassportNumber],
			Nationality:    fields[FieldNationality],
			ExpiryDate:     fields[FieldExpiryDate],
		}
	case TypeRationCard:
		rec.Details = RationCardDetails{
			RationCardNumber:      fields[FieldRationCardNumber],
			FamilyHead:            fields[FieldFamilyHead],
			NumberOfFamilyMembers: fields[FieldNumberOfFamilyMembers],
		}
	case TypeVoterID:
		rec.Details = VoterIDDetails{
			VoterIDNumber: fields[FieldVoterIDNumber],
			Constituency:  fields[FieldConstituency],
		}
	default:
		return nil, dErrors.New(dErrors.CodeUnknownDocumentType, "unsupported document type: "+string(doc.Type))
	}
	return rec, nil
}

// WireFields flattens the record into the field map clients and the export
// bundle consume. Empty common fields (ration cards have no DOB) are omitted
// rather than zero-filled.
func (r *VerificationRecord) WireFields() map[string]string {
	out := map[string]string{}
	if r.FullName != "" {
		out[FieldFullName] = r.FullName
	}
	if r.DateOfBirth != "" {
		out[FieldDateOfBirth] = r.DateOfBirth
	}
	if r.Address != "" {
		out[FieldAddress] = r.Address
	}
	raw, err := json.Marshal(r.Details)
	if err != nil {
		return out
	}
	var detail map[string]string
	if err := json.Unmarshal(raw, &detail); err != nil {
		return out
	}
	for k, v := range detail {
		out[k] = v
	}
	return out
}

// DetailsJSON serializes the variant payload for storage.
func (r *VerificationRecord) DetailsJSON() ([]byte, error) {
	return json.Marshal(r.Details)
}

// DecodeDetails reconstructs the variant payload from storage for the given
// document type.
func DecodeDetails(docType DocumentType, raw []byte) (Details, error) {
	var (
		det Details
		err error
	)
	switch docType {
	case TypeAadhaar:
		var d AadhaarDetails
		err = json.Unmarshal(raw, &d)
		det = d
	case TypePAN:
		var d PANDetails
		err = json.Unmarshal(raw, &d)
		det = d
	case TypeDrivingLicense:
		var d DrivingLicenseDetails
		err = json.Unmarshal(raw, &d)
		det = d
	case TypePassport:
		var d PassportDetails
		err = json.Unmarshal(raw, &d)
		det = d
	case TypeRationCard:
		var d RationCardDetails
		err = json.Unmarshal(raw, &d)
		det = d
	case TypeVoterID:
		var d VoterIDDetails
		err = json.Unmarshal(raw, &d)
		det = d
	default:
		return nil, dErrors.New(dErrors.CodeUnknownDocumentType, "unsupported document type: "+string(docType))
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "corrupt record details payload")
	}
	return det, nil
}
