package service

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	verification "docseva/internal/verification/models"
	documentstore "docseva/internal/verification/store/document"
	recordstore "docseva/internal/verification/store/record"
	id "docseva/pkg/domain"
)

var captureTime = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// memoryCache is a map-backed ExportCache for tests.
type memoryCache struct {
	entries map[id.CitizenID][]byte
	gets    int
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[id.CitizenID][]byte)}
}

func (c *memoryCache) Get(_ context.Context, owner id.CitizenID) ([]byte, bool, error) {
	c.gets++
	payload, ok := c.entries[owner]
	if ok {
		c.hits++
	}
	return payload, ok, nil
}

func (c *memoryCache) Set(_ context.Context, owner id.CitizenID, payload []byte) error {
	c.entries[owner] = payload
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, owner id.CitizenID) error {
	delete(c.entries, owner)
	return nil
}

func seedVerified(t *testing.T, docs *documentstore.InMemory, recs *recordstore.InMemory, owner id.CitizenID, docType verification.DocumentType, fields map[string]string) *verification.Document {
	t.Helper()
	ctx := context.Background()
	doc, err := verification.NewDocument(id.NewDocumentID(), owner, docType, "uploads/img.jpg", captureTime)
	require.NoError(t, err)
	doc.ApplyAccept(id.NewOfficerID(), captureTime.Add(time.Hour))
	require.NoError(t, docs.Create(ctx, doc))

	rec, err := verification.NewRecord(doc, fields, doc.DecidedBy, doc.DecidedAt)
	require.NoError(t, err)
	require.NoError(t, recs.Save(ctx, rec))
	return doc
}

func seedPending(t *testing.T, docs *documentstore.InMemory, owner id.CitizenID, docType verification.DocumentType) *verification.Document {
	t.Helper()
	doc, err := verification.NewDocument(id.NewDocumentID(), owner, docType, "uploads/img.jpg", captureTime)
	require.NoError(t, err)
	require.NoError(t, docs.Create(context.Background(), doc))
	return doc
}

func aadhaarFields() map[string]string {
	return map[string]string{
		verification.FieldAadhaarNumber: "123456789012",
		verification.FieldFullName:      "Asha Rao",
		verification.FieldDateOfBirth:   "1990-01-20",
		verification.FieldAddress:       "12 MG Road, Pune",
	}
}

func Test_Complete(t *testing.T) {
	docs := documentstore.NewInMemory()
	recs := recordstore.NewInMemory()
	svc := New(docs, recs)
	owner := id.NewCitizenID()
	ctx := context.Background()

	complete, err := svc.Complete(ctx, owner)
	require.NoError(t, err)
	assert.False(t, complete, "no documents")

	seedVerified(t, docs, recs, owner, verification.TypeAadhaar, aadhaarFields())
	pending := seedPending(t, docs, owner, verification.TypePAN)

	complete, err = svc.Complete(ctx, owner)
	require.NoError(t, err)
	assert.False(t, complete, "pending PAN blocks completeness")

	_, err = docs.Execute(ctx, pending.ID,
		func(d *verification.Document) error { return d.CanAccept() },
		func(d *verification.Document) { d.ApplyAccept(id.NewOfficerID(), captureTime.Add(time.Hour)) },
	)
	require.NoError(t, err)
	rec, err := verification.NewRecord(pending, map[string]string{
		verification.FieldPANNumber:   "ABCDE1234F",
		verification.FieldFullName:    "Asha Rao",
		verification.FieldDateOfBirth: "1990-01-20",
		verification.FieldAddress:     "12 MG Road, Pune",
	}, id.NewOfficerID(), captureTime)
	require.NoError(t, err)
	require.NoError(t, recs.Save(ctx, rec))

	complete, err = svc.Complete(ctx, owner)
	require.NoError(t, err)
	assert.True(t, complete)
}

func Test_Export(t *testing.T) {
	docs := documentstore.NewInMemory()
	recs := recordstore.NewInMemory()
	svc := New(docs, recs)
	owner := id.NewCitizenID()

	seedVerified(t, docs, recs, owner, verification.TypeAadhaar, aadhaarFields())
	seedPending(t, docs, owner, verification.TypePAN)

	payload, err := svc.Export(context.Background(), owner)
	require.NoError(t, err)

	var out map[string]map[string]string
	require.NoError(t, json.Unmarshal(payload, &out))
	require.Len(t, out, 1, "only the verified AADHAAR appears")
	assert.Equal(t, "123456789012", out["AADHAAR"]["aadhaarNumber"])
	assert.Equal(t, "Asha Rao", out["AADHAAR"]["fullName"])
}

func Test_Export_UsesCache(t *testing.T) {
	docs := documentstore.NewInMemory()
	recs := recordstore.NewInMemory()
	cache := newMemoryCache()
	svc := New(docs, recs, WithExportCache(cache))
	owner := id.NewCitizenID()
	ctx := context.Background()

	seedVerified(t, docs, recs, owner, verification.TypeAadhaar, aadhaarFields())

	first, err := svc.Export(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, cache.hits)

	second, err := svc.Export(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits, "second export is served from cache")
	assert.Equal(t, first, second)

	require.NoError(t, cache.Invalidate(ctx, owner))
	_, err = svc.Export(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits, "invalidation forces a recompute")
}

func Test_ExportQR(t *testing.T) {
	docs := documentstore.NewInMemory()
	recs := recordstore.NewInMemory()
	svc := New(docs, recs)
	owner := id.NewCitizenID()

	seedVerified(t, docs, recs, owner, verification.TypeAadhaar, aadhaarFields())

	png, err := svc.ExportQR(context.Background(), owner)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")), "QR output is a PNG image")
}
