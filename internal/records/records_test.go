package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocumentCompressRoundTrip(t *testing.T) {
	d := &Document{
		Bibcode:       "2020ApJ...900...1A",
		Title:         "A paper",
		Authors:       []string{"Murray, Stephen", "Doe, Jane", "Roe, Richard"},
		Affiliations:  []string{"U Arizona", "", ""},
		Doctype:       "article",
		Keywords:      []string{"stars"},
		Publication:   "ApJ",
		PubDate:       "2020-01-00",
		CitationCount: 5,
		ReadCount:     10,
		OrcidIDs:      []string{"0000-0001-2345-6789", "", ""},
		OrcidSrcs:     []OrcidSource{OrcidPub, OrcidNone, OrcidNone},
		CreatedAt:     time.Unix(1700000000, 0).UTC(),
	}

	c := d.Compress()
	// Trailing empties trimmed.
	assert.Equal(t, []string{"U Arizona"}, c.Affiliations)
	assert.Equal(t, []string{"0000-0001-2345-6789"}, c.OrcidIDs)

	got := c.Decompress()
	assert.Equal(t, d.Bibcode, got.Bibcode)
	assert.Equal(t, d.Authors, got.Authors)
	assert.Equal(t, d.Affiliations, got.Affiliations)
	assert.Equal(t, d.OrcidIDs, got.OrcidIDs)
	assert.Equal(t, d.OrcidSrcs, got.OrcidSrcs)
	assert.Equal(t, d.CreatedAt, got.CreatedAt)
}

func TestDocumentDeleteAuthor(t *testing.T) {
	d := &Document{
		Authors:      []string{"A", "B", "C"},
		Affiliations: []string{"a", "b", "c"},
		OrcidIDs:     []string{"", "x", ""},
		OrcidSrcs:    []OrcidSource{OrcidNone, OrcidUser, OrcidNone},
	}
	d.DeleteAuthor(1)
	assert.Equal(t, []string{"A", "C"}, d.Authors)
	assert.Equal(t, []string{"a", "c"}, d.Affiliations)
	assert.Equal(t, []string{"", ""}, d.OrcidIDs)
	assert.Equal(t, []OrcidSource{OrcidNone, OrcidNone}, d.OrcidSrcs)
}

func TestAuthorRecordCompressRoundTrip(t *testing.T) {
	a := NewAuthorRecord("Murray, Stephen")
	a.Bibcodes = []string{"bib1", "bib2"}
	a.AppearsAs = map[string][]string{"Murray, S.": {"bib1", "bib2"}}
	a.Coauthors = map[string][]string{"Doe, Jane": {"bib1"}}
	a.CreatedAt = time.Unix(1700000000, 0).UTC()

	c := a.Compress()
	got := c.Decompress()

	assert.Equal(t, a.NameString, got.NameString)
	assert.Equal(t, a.Bibcodes, got.Bibcodes)
	assert.Equal(t, a.AppearsAs, got.AppearsAs)
	assert.Equal(t, a.Coauthors, got.Coauthors)
	assert.Equal(t, a.CreatedAt, got.CreatedAt)
}

func TestAuthorRecordIndexFromDocuments(t *testing.T) {
	a := NewAuthorRecord("Murray, Stephen")
	a.Bibcodes = []string{"bib1"}
	docs := map[string]*Document{
		"bib1": {Bibcode: "bib1", Authors: []string{"Murray, Stephen", "Doe, Jane"}},
	}
	a.IndexFromDocuments(docs, func(n string) bool { return n == "Murray, Stephen" })

	assert.Equal(t, []string{"bib1"}, a.AppearsAs["Murray, Stephen"])
	assert.Equal(t, []string{"bib1"}, a.Coauthors["Doe, Jane"])
}
