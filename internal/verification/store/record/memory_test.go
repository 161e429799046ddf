package record

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docseva/internal/verification/models"
	id "docseva/pkg/domain"
	"docseva/pkg/platform/sentinel"
)

func testRecord(t *testing.T) *models.VerificationRecord {
	t.Helper()
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	doc, err := models.NewDocument(id.NewDocumentID(), id.NewCitizenID(), models.TypeVoterID, "uploads/v.jpg", now)
	require.NoError(t, err)
	rec, err := models.NewRecord(doc, map[string]string{
		models.FieldVoterIDNumber: "XYZ1234567",
		models.FieldConstituency:  "Pune Cantonment",
		models.FieldFullName:      "Asha Rao",
		models.FieldDateOfBirth:   "1990-01-20",
		models.FieldAddress:       "12 MG Road, Pune",
	}, id.NewOfficerID(), now)
	require.NoError(t, err)
	return rec
}

func Test_SaveAndFind(t *testing.T) {
	store := NewInMemory()
	rec := testRecord(t)
	require.NoError(t, store.Save(context.Background(), rec))

	found, err := store.FindByDocumentID(context.Background(), rec.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, rec.FullName, found.FullName)
	details, ok := found.Details.(models.VoterIDDetails)
	require.True(t, ok)
	assert.Equal(t, "XYZ1234567", details.VoterIDNumber)
}

func Test_Save_Duplicate(t *testing.T) {
	store := NewInMemory()
	rec := testRecord(t)
	require.NoError(t, store.Save(context.Background(), rec))
	assert.ErrorIs(t, store.Save(context.Background(), rec), sentinel.ErrConflict)
}

func Test_Find_Missing(t *testing.T) {
	store := NewInMemory()
	_, err := store.FindByDocumentID(context.Background(), id.NewDocumentID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func Test_ListByDocumentIDs(t *testing.T) {
	store := NewInMemory()
	first := testRecord(t)
	second := testRecord(t)
	require.NoError(t, store.Save(context.Background(), first))
	require.NoError(t, store.Save(context.Background(), second))

	out, err := store.ListByDocumentIDs(context.Background(),
		[]id.DocumentID{first.DocumentID, id.NewDocumentID()})
	require.NoError(t, err)
	require.Len(t, out, 1, "unknown ids are omitted")
	assert.Contains(t, out, first.DocumentID)
}
