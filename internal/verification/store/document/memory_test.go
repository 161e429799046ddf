package document

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docseva/internal/verification/models"
	id "docseva/pkg/domain"
	"docseva/pkg/platform/sentinel"
)

var submittedAt = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func seedDocument(t *testing.T, store *InMemory, owner id.CitizenID, offset time.Duration) *models.Document {
	t.Helper()
	doc, err := models.NewDocument(id.NewDocumentID(), owner, models.TypeAadhaar, "uploads/img.jpg", submittedAt.Add(offset))
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), doc))
	return doc
}

func Test_CreateAndFind(t *testing.T) {
	store := NewInMemory()
	doc := seedDocument(t, store, id.NewCitizenID(), 0)

	found, err := store.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, found)

	// Returned value is a copy; mutating it must not touch the store.
	found.Status = models.StatusVerified
	again, err := store.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, again.Status)
}

func Test_Create_Duplicate(t *testing.T) {
	store := NewInMemory()
	doc := seedDocument(t, store, id.NewCitizenID(), 0)
	err := store.Create(context.Background(), doc)
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func Test_FindByID_NotFound(t *testing.T) {
	store := NewInMemory()
	_, err := store.FindByID(context.Background(), id.NewDocumentID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func Test_ListByOwner_SortedBySubmission(t *testing.T) {
	store := NewInMemory()
	owner := id.NewCitizenID()
	second := seedDocument(t, store, owner, 2*time.Hour)
	first := seedDocument(t, store, owner, 0)
	seedDocument(t, store, id.NewCitizenID(), time.Hour)

	docs, err := store.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first.ID, docs[0].ID)
	assert.Equal(t, second.ID, docs[1].ID)
}

func Test_ListByStatus(t *testing.T) {
	store := NewInMemory()
	owner := id.NewCitizenID()
	pending := seedDocument(t, store, owner, 0)
	decided := seedDocument(t, store, owner, time.Minute)

	_, err := store.Execute(context.Background(), decided.ID,
		func(d *models.Document) error { return d.CanAccept() },
		func(d *models.Document) { d.ApplyAccept(id.NewOfficerID(), submittedAt.Add(time.Hour)) },
	)
	require.NoError(t, err)

	docs, err := store.ListByStatus(context.Background(), models.StatusPending)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, pending.ID, docs[0].ID)
}

func Test_Execute_ValidateErrorLeavesStoreUntouched(t *testing.T) {
	store := NewInMemory()
	doc := seedDocument(t, store, id.NewCitizenID(), 0)

	_, err := store.Execute(context.Background(), doc.ID,
		func(*models.Document) error { return sentinel.ErrInvalidState },
		func(d *models.Document) { d.Status = models.StatusVerified },
	)
	assert.ErrorIs(t, err, sentinel.ErrInvalidState)

	found, err := store.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, found.Status)
}

func Test_Execute_ConcurrentDecisionsSingleWinner(t *testing.T) {
	store := NewInMemory()
	doc := seedDocument(t, store, id.NewCitizenID(), 0)
	officer := id.NewOfficerID()
	decidedAt := submittedAt.Add(time.Hour)

	const attempts = 32
	var wins, losses atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		accept := i%2 == 0
		go func() {
			defer wg.Done()
			var err error
			if accept {
				_, err = store.Execute(context.Background(), doc.ID,
					func(d *models.Document) error { return d.CanAccept() },
					func(d *models.Document) { d.ApplyAccept(officer, decidedAt) },
				)
			} else {
				_, err = store.Execute(context.Background(), doc.ID,
					func(d *models.Document) error { return d.CanReject("duplicate") },
					func(d *models.Document) { d.ApplyReject("duplicate", officer, decidedAt) },
				)
			}
			if err == nil {
				wins.Add(1)
			} else {
				losses.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load(), "exactly one transition may win")
	assert.Equal(t, int32(attempts-1), losses.Load())

	final, err := store.FindByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.True(t, final.Status.IsTerminal())
}
