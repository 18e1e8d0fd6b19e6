package ranker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svank/appa-backend/internal/config"
	"github.com/svank/appa-backend/internal/name"
	"github.com/svank/appa-backend/internal/pathfinder"
	"github.com/svank/appa-backend/internal/records"
)

// rankerMockRepo serves both the PathFinder's Repository interface (author
// records) and the ranker's Repository interface (documents), over a small
// A == Bbb == G / A == Eee E. == G graph: two candidate chains from A to G,
// where the B-chain's ORCID match should outrank the affiliation-only
// E-chain.
type rankerMockRepo struct {
	space     *name.Space
	authors   map[string]*records.AuthorRecord
	documents map[string]*records.Document
}

func newRankerMockRepo(space *name.Space) *rankerMockRepo {
	docs := map[string]*records.Document{
		"paperAB": {
			Bibcode:      "paperAB",
			Title:        "Paper Linking A & B",
			Authors:      []string{"Author, A.", "Author, Bbb"},
			Affiliations: []string{"Univ of A", "B Center"},
		},
		"paperAB2": {
			Bibcode:      "paperAB2",
			Title:        "Second Paper Linking A & B",
			Authors:      []string{"Author, Bbb", "Author, Aaa"},
			Affiliations: []string{"Univ of B", "A Institute"},
			OrcidIDs:     []string{"ORCID B", ""},
			OrcidSrcs:    []records.OrcidSource{records.OrcidOther, records.OrcidNone},
		},
		"paperBG": {
			Bibcode:      "paperBG",
			Title:        "Paper Linking B & G",
			Authors:      []string{"Author, Bbb", "Author, G."},
			Affiliations: []string{"B Institute", "G Center for G"},
			OrcidIDs:     []string{"ORCID B", ""},
			OrcidSrcs:    []records.OrcidSource{records.OrcidPub, records.OrcidNone},
		},
		"paperAE": {
			Bibcode:      "paperAE",
			Title:        "Paper Linking A & E",
			Authors:      []string{"Author, Aaa", "Author, Eee E."},
			Affiliations: []string{"A Institute", "E Center for E"},
		},
		"paperEG": {
			Bibcode:      "paperEG",
			Title:        "Paper Linking E & G",
			Authors:      []string{"Author, Eee E.", "Author, G."},
			Affiliations: []string{"E Institute", "G Center for G, Gtown"},
		},
	}

	rec := func(self string, coauthors map[string][]string, appearsAs map[string][]string) *records.AuthorRecord {
		r := records.NewAuthorRecord(self)
		seen := map[string]bool{}
		for _, bcs := range coauthors {
			for _, bc := range bcs {
				if !seen[bc] {
					seen[bc] = true
					r.Bibcodes = append(r.Bibcodes, bc)
				}
			}
		}
		for _, bcs := range appearsAs {
			for _, bc := range bcs {
				if !seen[bc] {
					seen[bc] = true
					r.Bibcodes = append(r.Bibcodes, bc)
				}
			}
		}
		r.Coauthors = coauthors
		r.AppearsAs = appearsAs
		return r
	}

	byRaw := map[string]*records.AuthorRecord{
		"Author, A": rec("Author, A",
			map[string][]string{"Author, Bbb": {"paperAB", "paperAB2"}, "Author, Eee E.": {"paperAE"}},
			map[string][]string{"Author, A.": {"paperAB"}, "Author, Aaa": {"paperAB2", "paperAE"}}),
		"Author, Bbb": rec("Author, Bbb",
			map[string][]string{"Author, A.": {"paperAB"}, "Author, Aaa": {"paperAB2"}, "Author, G.": {"paperBG"}},
			map[string][]string{"Author, Bbb": {"paperAB", "paperAB2", "paperBG"}}),
		"Author, Eee E.": rec("Author, Eee E.",
			map[string][]string{"Author, Aaa": {"paperAE"}, "Author, G.": {"paperEG"}},
			map[string][]string{"Author, Eee E.": {"paperAE", "paperEG"}}),
		"Author, G": rec("Author, G",
			map[string][]string{"Author, Bbb": {"paperBG"}, "Author, Eee E.": {"paperEG"}},
			map[string][]string{"Author, G.": {"paperBG", "paperEG"}}),
	}

	authors := make(map[string]*records.AuthorRecord, len(byRaw))
	for raw, r := range byRaw {
		n, err := space.Parse(raw)
		if err != nil {
			panic(err)
		}
		authors[n.FullName()] = r
	}

	return &rankerMockRepo{space: space, authors: authors, documents: docs}
}

func (m *rankerMockRepo) GetAuthorRecord(ctx context.Context, author *name.Name) (*records.AuthorRecord, error) {
	rec, ok := m.authors[author.FullName()]
	if !ok {
		return records.NewAuthorRecord(author.OriginalName()), nil
	}
	return rec, nil
}

func (m *rankerMockRepo) GetAuthorRecordByOrcidID(ctx context.Context, orcidID string) (*records.AuthorRecord, error) {
	return nil, assert.AnError
}

func (m *rankerMockRepo) NotifyOfUpcomingAuthorRequest(ctx context.Context, authors ...*name.Name) {}

func (m *rankerMockRepo) GetDocument(ctx context.Context, bibcode string) (*records.Document, error) {
	doc, ok := m.documents[bibcode]
	if !ok {
		return nil, assert.AnError
	}
	return doc, nil
}

func TestRankOrcidChainBeatsAffiliationChain(t *testing.T) {
	space := name.NewSpace()
	repo := newRankerMockRepo(space)

	pf, err := pathfinder.New(space, nil, repo, 9, "Author, A", "Author, G", nil)
	require.NoError(t, err)
	require.NoError(t, pf.Run(context.Background()))
	require.Equal(t, 2, pf.Dest().Dist(true))

	r := New(repo, space, config.DefaultScoringConstants(), pf.ExcludedNames())
	chains, err := r.Rank(context.Background(), pf.Src(), pf.Dest())
	require.NoError(t, err)
	require.Len(t, chains, 2)

	best := chains[0]
	assert.Equal(t, []string{"Author, A", "Author, Bbb", "Author, G"}, best.Names)
	require.NotEmpty(t, best.Realizations)
	assert.InDelta(t, 0.84, best.Realizations[0].Score, 1e-9)

	second := chains[1]
	assert.Equal(t, []string{"Author, A", "Author, Eee E.", "Author, G"}, second.Names)
	require.NotEmpty(t, second.Realizations)
	assert.Greater(t, second.Realizations[0].Score, 0.0)
	assert.Less(t, second.Realizations[0].Score, best.Realizations[0].Score)
}

func TestScoreLinkOrcidMatch(t *testing.T) {
	space := name.NewSpace()
	r := New(nil, space, config.DefaultScoringConstants(), nil)

	doc1 := &records.Document{
		Authors:   []string{"Author, X"},
		OrcidIDs:  []string{"ORCID-X"},
		OrcidSrcs: []records.OrcidSource{records.OrcidPub},
	}
	doc2 := &records.Document{
		Authors:   []string{"Author, X"},
		OrcidIDs:  []string{"ORCID-X"},
		OrcidSrcs: []records.OrcidSource{records.OrcidOther},
	}

	score, valid := r.scoreLink(doc1, 0, doc2, 0)
	require.True(t, valid)
	assert.InDelta(t, 1.0*0.84, score, 1e-9)
}

func TestScoreLinkOrcidMismatchInvalidatesRealization(t *testing.T) {
	space := name.NewSpace()
	r := New(nil, space, config.DefaultScoringConstants(), nil)

	doc1 := &records.Document{Authors: []string{"Author, X"}, OrcidIDs: []string{"ORCID-1"}}
	doc2 := &records.Document{Authors: []string{"Author, X"}, OrcidIDs: []string{"ORCID-2"}}

	_, valid := r.scoreLink(doc1, 0, doc2, 0)
	assert.False(t, valid)
}

func TestScoreLinkNameMismatchInvalidatesRealization(t *testing.T) {
	space := name.NewSpace()
	r := New(nil, space, config.DefaultScoringConstants(), nil)

	doc1 := &records.Document{Authors: []string{"Smith, J"}}
	doc2 := &records.Document{Authors: []string{"Jones, K"}}

	_, valid := r.scoreLink(doc1, 0, doc2, 0)
	assert.False(t, valid)
}

func TestScoreLinkAffiliationAndDetail(t *testing.T) {
	space := name.NewSpace()
	r := New(nil, space, config.DefaultScoringConstants(), nil)

	doc1 := &records.Document{
		Authors:      []string{"Author, John Q"},
		Affiliations: []string{"Test Institute"},
	}
	doc2 := &records.Document{
		Authors:      []string{"Author, John"},
		Affiliations: []string{"Test Institute"},
	}

	score, valid := r.scoreLink(doc1, 0, doc2, 0)
	require.True(t, valid)
	// Identical affiliation strings always give full overlap regardless of
	// how normalizeAffiliation's stemming renders the chunk.
	assert.InDelta(t, 0.3+0.1*10.0/20.0, score, 1e-9)
}

func TestAffiliationOverlap(t *testing.T) {
	assert.InDelta(t, 0.5, affiliationOverlap([]string{"x", "y"}, []string{"y", "z"}), 1e-9)
	assert.Equal(t, 0.0, affiliationOverlap(nil, []string{"y"}))
	assert.InDelta(t, 1.0, affiliationOverlap([]string{"x"}, []string{"x"}), 1e-9)
}

func TestNormalizeAffiliationIsCaseInsensitiveAndDeterministic(t *testing.T) {
	a := normalizeAffiliation("The University of Somewhere")
	b := normalizeAffiliation("THE UNIVERSITY OF SOMEWHERE")
	assert.Equal(t, a, b)

	c := normalizeAffiliation("Univ Somewhere")
	d := normalizeAffiliation("University Somewhere")
	assert.Equal(t, c, d)
}

func TestBuildAuthorChains(t *testing.T) {
	space := name.NewSpace()
	repo := newRankerMockRepo(space)

	pf, err := pathfinder.New(space, nil, repo, 9, "Author, A", "Author, G", nil)
	require.NoError(t, err)
	require.NoError(t, pf.Run(context.Background()))

	chains := buildAuthorChains(pf.Src(), pf.Dest())
	require.Len(t, chains, 2)
	for _, c := range chains {
		assert.Len(t, c, 3)
		assert.Equal(t, pf.Src(), c[0])
		assert.Equal(t, pf.Dest(), c[2])
	}
}
