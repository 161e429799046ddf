package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verification "docseva/internal/verification/models"
	id "docseva/pkg/domain"
)

var baseTime = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func document(t *testing.T, owner id.CitizenID, docType verification.DocumentType, status verification.DocumentStatus, decidedAt time.Time) *verification.Document {
	t.Helper()
	doc, err := verification.NewDocument(id.NewDocumentID(), owner, docType, "uploads/img.jpg", baseTime)
	require.NoError(t, err)
	switch status {
	case verification.StatusVerified:
		doc.ApplyAccept(id.NewOfficerID(), decidedAt)
	case verification.StatusRejected:
		doc.ApplyReject("illegible", id.NewOfficerID(), decidedAt)
	}
	return doc
}

func record(doc *verification.Document, fields map[string]string) *verification.VerificationRecord {
	rec, err := verification.NewRecord(doc, fields, id.NewOfficerID(), baseTime)
	if err != nil {
		panic(err)
	}
	return rec
}

func Test_Complete(t *testing.T) {
	owner := id.NewCitizenID()

	empty := &Snapshot{CitizenID: owner}
	assert.False(t, empty.Complete(), "no documents is not complete")

	mixed := &Snapshot{CitizenID: owner, Documents: []*verification.Document{
		document(t, owner, verification.TypeAadhaar, verification.StatusVerified, baseTime),
		document(t, owner, verification.TypePAN, verification.StatusPending, time.Time{}),
	}}
	assert.False(t, mixed.Complete(), "a pending document blocks completeness")

	allVerified := &Snapshot{CitizenID: owner, Documents: []*verification.Document{
		document(t, owner, verification.TypeAadhaar, verification.StatusVerified, baseTime),
		document(t, owner, verification.TypePAN, verification.StatusVerified, baseTime),
	}}
	assert.True(t, allVerified.Complete())

	withRejected := &Snapshot{CitizenID: owner, Documents: []*verification.Document{
		document(t, owner, verification.TypeAadhaar, verification.StatusVerified, baseTime),
		document(t, owner, verification.TypePAN, verification.StatusRejected, baseTime),
	}}
	assert.False(t, withRejected.Complete(), "a rejected document blocks completeness")
}

func Test_Export_OnlyVerifiedTypes(t *testing.T) {
	owner := id.NewCitizenID()
	aadhaar := document(t, owner, verification.TypeAadhaar, verification.StatusVerified, baseTime)
	pendingPAN := document(t, owner, verification.TypePAN, verification.StatusPending, time.Time{})

	snap := &Snapshot{
		CitizenID: owner,
		Documents: []*verification.Document{aadhaar, pendingPAN},
		Records: map[id.DocumentID]*verification.VerificationRecord{
			aadhaar.ID: record(aadhaar, map[string]string{
				verification.FieldAadhaarNumber: "123456789012",
				verification.FieldFullName:      "Asha Rao",
				verification.FieldDateOfBirth:   "1990-01-20",
				verification.FieldAddress:       "12 MG Road, Pune",
			}),
		},
	}

	out := snap.Export()
	require.Len(t, out, 1, "only the AADHAAR key appears")
	fields, ok := out[verification.TypeAadhaar]
	require.True(t, ok)
	assert.Equal(t, "123456789012", fields[verification.FieldAadhaarNumber])
	assert.Equal(t, "Asha Rao", fields[verification.FieldFullName])
}

func Test_Export_EmptySnapshot(t *testing.T) {
	snap := &Snapshot{CitizenID: id.NewCitizenID()}
	assert.Empty(t, snap.Export())
}

func Test_Export_DuplicateTypeLatestDecisionWins(t *testing.T) {
	owner := id.NewCitizenID()
	older := document(t, owner, verification.TypeAadhaar, verification.StatusVerified, baseTime)
	newer := document(t, owner, verification.TypeAadhaar, verification.StatusVerified, baseTime.Add(time.Hour))

	snap := &Snapshot{
		CitizenID: owner,
		Documents: []*verification.Document{older, newer},
		Records: map[id.DocumentID]*verification.VerificationRecord{
			older.ID: record(older, map[string]string{
				verification.FieldAadhaarNumber: "111111111111",
				verification.FieldFullName:      "Asha Rao",
				verification.FieldDateOfBirth:   "1990-01-20",
				verification.FieldAddress:       "Old Address",
			}),
			newer.ID: record(newer, map[string]string{
				verification.FieldAadhaarNumber: "222222222222",
				verification.FieldFullName:      "Asha Rao",
				verification.FieldDateOfBirth:   "1990-01-20",
				verification.FieldAddress:       "New Address",
			}),
		},
	}

	out := snap.Export()
	require.Len(t, out, 1)
	assert.Equal(t, "222222222222", out[verification.TypeAadhaar][verification.FieldAadhaarNumber])
}
