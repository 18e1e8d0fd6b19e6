package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svank/appa-backend/internal/records"
)

func newTestFacade(t *testing.T) (*Facade, string) {
	t.Helper()
	dir := t.TempDir()
	backing, err := NewFSBacking(dir)
	require.NoError(t, err)
	return NewFacade(backing, 30*24*time.Hour, 28*24*time.Hour, 0), dir
}

func TestFacadeDocumentRoundTrip(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()

	doc := &records.Document{
		Bibcode:   "2020ApJ...900...1A",
		Title:     "A paper",
		Authors:   []string{"Murray, Stephen"},
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.CacheDocument(ctx, doc))

	got, err := f.LoadDocument(ctx, doc.Bibcode)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.Authors, got.Authors)
}

func TestFacadeDocumentRoundTripFreshFacade(t *testing.T) {
	dir := t.TempDir()
	backing1, err := NewFSBacking(dir)
	require.NoError(t, err)
	f1 := NewFacade(backing1, 30*24*time.Hour, 28*24*time.Hour, 0)
	ctx := context.Background()

	doc := &records.Document{
		Bibcode:   "2020ApJ...900...1A",
		Title:     "A paper",
		Authors:   []string{"Murray, Stephen"},
		CreatedAt: time.Now(),
	}
	require.NoError(t, f1.CacheDocument(ctx, doc))

	backing2, err := NewFSBacking(dir)
	require.NoError(t, err)
	f2 := NewFacade(backing2, 30*24*time.Hour, 28*24*time.Hour, 0)
	require.NoError(t, f2.Refresh(ctx))

	got, err := f2.LoadDocument(ctx, doc.Bibcode)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)
}

func TestFacadeStaleDocumentIsCacheMiss(t *testing.T) {
	f, _ := newTestFacade(t)
	f.maxAge = time.Millisecond
	ctx := context.Background()

	doc := &records.Document{Bibcode: "stalebib0000000000", CreatedAt: time.Now()}
	require.NoError(t, f.CacheDocument(ctx, doc))
	time.Sleep(5 * time.Millisecond)

	_, err := f.LoadDocument(ctx, doc.Bibcode)
	require.Error(t, err)
	var miss *CacheMiss
	assert.ErrorAs(t, err, &miss)
}

func TestFacadeAuthorRoundTrip(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()

	a := records.NewAuthorRecord("Murray, Stephen")
	a.Bibcodes = []string{"bib1"}
	a.AppearsAs = map[string][]string{"Murray, S.": {"bib1"}}
	a.Coauthors = map[string][]string{"Doe, Jane": {"bib1"}}

	require.NoError(t, f.CacheAuthor(ctx, a.NameString, a))

	got, err := f.LoadAuthor(ctx, a.NameString)
	require.NoError(t, err)
	assert.Equal(t, a.Bibcodes, got.Bibcodes)
	assert.Equal(t, a.AppearsAs, got.AppearsAs)
	assert.Equal(t, a.Coauthors, got.Coauthors)
}

func TestDeflateRoundTrip(t *testing.T) {
	data := []byte(`{"title":"A paper","authors":["Murray, Stephen"]}`)

	compressed, err := DeflateCompress(data)
	require.NoError(t, err)
	assert.NotEqual(t, data, compressed)

	decompressed, err := DeflateDecompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, decompressed)
}

func TestFacadeByteBudgetEvictsLeastRecentlyLoaded(t *testing.T) {
	dir := t.TempDir()
	backing, err := NewFSBacking(dir)
	require.NoError(t, err)
	f := NewFacade(backing, 30*24*time.Hour, 28*24*time.Hour, 1)
	ctx := context.Background()

	mk := func(bibcode string) *records.Document {
		return &records.Document{Bibcode: bibcode, Title: "t", Authors: []string{"A, B"}, CreatedAt: time.Now()}
	}

	require.NoError(t, f.CacheDocument(ctx, mk("bib1")))
	require.NoError(t, f.CacheDocument(ctx, mk("bib2")))

	f.mu.RLock()
	_, stillMemoized := f.loadedDocuments["bib1"]
	f.mu.RUnlock()
	assert.False(t, stillMemoized, "bib1 should have been evicted from memory once bib2 pushed curBytes over budget")

	// The backing record survives eviction; LoadDocument falls through to it.
	got, err := f.LoadDocument(ctx, "bib1")
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
}

func TestValidateKeyRejectsReservedForms(t *testing.T) {
	for _, bad := range []string{"", ".", "..", ",", "a<b>c", "a*b", "a;b"} {
		assert.Error(t, ValidateKey(bad), bad)
	}
	assert.NoError(t, ValidateKey("Murray, Stephen"))
}

func TestGenerateResultCacheKeyIgnoresExclusionOrder(t *testing.T) {
	k1 := GenerateResultCacheKey("a", "b", []string{"x", "y"})
	k2 := GenerateResultCacheKey("a", "b", []string{"y", "x"})
	assert.Equal(t, k1, k2)

	k3 := GenerateResultCacheKey("a", "b", []string{"x"})
	assert.NotEqual(t, k1, k3)
}
