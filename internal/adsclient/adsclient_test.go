package adsclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svank/appa-backend/internal/name"
)

func TestIsBibcode(t *testing.T) {
	assert.True(t, IsBibcode("2020ApJ...900....1A"[:19]))
	assert.False(t, IsBibcode("notabibcode"))
	assert.False(t, IsBibcode("abcdApJ...900....1A"))
}

func TestIsOrcidID(t *testing.T) {
	assert.True(t, IsOrcidID("0000-0002-1825-0097"))
	assert.True(t, IsOrcidID("0000000218250097"))
	assert.False(t, IsOrcidID("0000-0002-1825-0098"))
	assert.False(t, IsOrcidID("not-an-orcid"))
}

func TestNormalizeOrcidID(t *testing.T) {
	assert.Equal(t, "0000-0002-1825-0097", NormalizeOrcidID("0000000218250097"))
	assert.Equal(t, "0000-0002-1825-0097", NormalizeOrcidID("0000-0002-1825-0097"))
}

func TestBatchSize(t *testing.T) {
	assert.Equal(t, 5, BatchSize())
}

// TestGetPapersForAuthorReturnsPiggybackedRecords exercises the prefetch
// path end to end: a name queued with AddAuthorsToPrefetchQueue rides along
// on the next GetPapersForAuthor call and comes back as its own non-empty
// AuthorRecord, not just folded into the requested author's bibcodes.
func TestGetPapersForAuthorReturnsPiggybackedRecords(t *testing.T) {
	var resp searchResponse
	resp.Response.NumFound = 2
	resp.Response.Docs = []article{
		{
			Bibcode: "2020ApJ...900...1A",
			Title:   []string{"Paper One"},
			Author:  []string{"Smith, John", "Doe, Jane"},
			Doctype: "article",
			Pub:     "ApJ",
			Date:    "2020-01-00",
		},
		{
			Bibcode: "2021ApJ...901...2B",
			Title:   []string{"Paper Two"},
			Author:  []string{"Doe, Jane"},
			Doctype: "article",
			Pub:     "ApJ",
			Date:    "2021-01-00",
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	space := name.NewSpace()
	c := New(srv.URL, "test-token", space, nil)
	c.AddAuthorsToPrefetchQueue("Doe, Jane")

	fetched, piggybacked, docs, err := c.GetPapersForAuthor(context.Background(), "Smith, John")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, []string{"2020ApJ...900...1A"}, fetched.Bibcodes)

	require.Len(t, piggybacked, 1)
	assert.Equal(t, "Doe, Jane", piggybacked[0].NameString)
	assert.ElementsMatch(t, []string{"2020ApJ...900...1A", "2021ApJ...901...2B"}, piggybacked[0].Bibcodes)
}
