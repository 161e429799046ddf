// Package registry declares the capture schema for every supported document
// type: which fields an officer must fill in, in which order, and under which
// format constraint. The table is static configuration; there is no runtime
// registration.
package registry

import (
	"docseva/internal/verification/models"
)

// Kind is the semantic kind of a captured field.
type Kind string

const (
	KindText       Kind = "text"
	KindIdentifier Kind = "identifier"
	KindDate       Kind = "date"
	KindNumber     Kind = "number"
)

// Constraint names the format rule the validator applies to a field.
type Constraint string

const (
	ConstraintNone      Constraint = ""
	ConstraintAadhaar   Constraint = "aadhaar"    // normalize to 12 raw digits
	ConstraintPAN       Constraint = "pan"        // 5 letters + 4 digits + 1 letter
	ConstraintUppercase Constraint = "uppercase"  // trimmed, uppercased identifier
	ConstraintPastDate  Constraint = "past_date"  // not after capture time (DOB)
	ConstraintFuture    Constraint = "future"     // strictly after capture time (expiry)
	ConstraintMinOne    Constraint = "min_one"    // integer >= 1
)

// FieldSpec describes one field of a document's verification form.
type FieldSpec struct {
	Name       string
	Kind       Kind
	Required   bool
	Constraint Constraint
}

// Common trailing fields. Ration cards carry familyHead instead of fullName
// and need no date of birth, mirroring the paper artifact.
var (
	fullName = FieldSpec{Name: models.FieldFullName, Kind: KindText, Required: true}
	dob      = FieldSpec{Name: models.FieldDateOfBirth, Kind: KindDate, Required: true, Constraint: ConstraintPastDate}
	address  = FieldSpec{Name: models.FieldAddress, Kind: KindText, Required: true}
)

var schemas = map[models.DocumentType][]FieldSpec{
	models.TypeAadhaar: {
		{Name: models.FieldAadhaarNumber, Kind: KindIdentifier, Required: true, Constraint: ConstraintAadhaar},
		fullName, dob, address,
	},
	models.TypePAN: {
		{Name: models.FieldPANNumber, Kind: KindIdentifier, Required: true, Constraint: ConstraintPAN},
		fullName, dob, address,
	},
	models.TypeDrivingLicense: {
		{Name: models.FieldLicenseNumber, Kind: KindIdentifier, Required: true, Constraint: ConstraintUppercase},
		{Name: models.FieldExpiryDate, Kind: KindDate, Required: true, Constraint: ConstraintFuture},
		fullName, dob, address,
	},
	models.TypePassport: {
		{Name: models.FieldPassportNumber, Kind: KindIdentifier, Required: true, Constraint: ConstraintUppercase},
		{Name: models.FieldNationality, Kind: KindText, Required: true},
		{Name: models.FieldExpiryDate, Kind: KindDate, Required: true, Constraint: ConstraintFuture},
		fullName, dob, address,
	},
	models.TypeRationCard: {
		{Name: models.FieldRationCardNumber, Kind: KindIdentifier, Required: true, Constraint: ConstraintUppercase},
		{Name: models.FieldFamilyHead, Kind: KindText, Required: true},
		{Name: models.FieldNumberOfFamilyMembers, Kind: KindNumber, Required: true, Constraint: ConstraintMinOne},
		{Name: models.FieldFullName, Kind: KindText, Required: false},
		{Name: models.FieldDateOfBirth, Kind: KindDate, Required: false, Constraint: ConstraintPastDate},
		address,
	},
	models.TypeVoterID: {
		{Name: models.FieldVoterIDNumber, Kind: KindIdentifier, Required: true, Constraint: ConstraintUppercase},
		{Name: models.FieldConstituency, Kind: KindText, Required: true},
		fullName, dob, address,
	},
}

// Schema returns the ordered field schema for a document type, or a coded
// UnknownDocumentType error for values outside the fixed enum.
func Schema(docType models.DocumentType) ([]FieldSpec, error) {
	t, err := models.ParseDocumentType(string(docType))
	if err != nil {
		return nil, err
	}
	specs := schemas[t]
	out := make([]FieldSpec, len(specs))
	copy(out, specs)
	return out, nil
}
