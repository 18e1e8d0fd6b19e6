package pathfinder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svank/appa-backend/internal/name"
	"github.com/svank/appa-backend/internal/records"
)

// mockRepo serves the mock graph K — A == B == C == F — H with cross-links
// A — E — G, B — G and C — G, exercising the bidirectional search's frontier-meeting and
// pruning behavior on a small graph with multiple candidate paths.
type mockRepo struct {
	space   *name.Space
	byName  map[string]*records.AuthorRecord
	byOrcid map[string]*records.AuthorRecord
}

func newMockRepo(space *name.Space) *mockRepo {
	rec := func(self string, coauthors map[string][]string) *records.AuthorRecord {
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
		r.Coauthors = coauthors
		r.AppearsAs = map[string][]string{self: append([]string(nil), r.Bibcodes...)}
		return r
	}

	byRaw := map[string]*records.AuthorRecord{
		"Author, K":     rec("Author, K", map[string][]string{"Author, Aaa": {"paperAK"}}),
		"Author, Aaa":   rec("Author, Aaa", map[string][]string{"Author, K": {"paperAK"}, "Author, B": {"paperAB"}, "Author, Eee E": {"paperAE"}}),
		"Author, B":     rec("Author, B", map[string][]string{"Author, Aaa": {"paperAB"}, "Author, C": {"paperBC"}, "Author, G": {"paperBG"}}),
		"Author, C":     rec("Author, C", map[string][]string{"Author, B": {"paperBC"}, "Author, F": {"paperCF"}, "Author, G": {"paperCG"}}),
		"Author, F":     rec("Author, F", map[string][]string{"Author, C": {"paperCF"}, "Author, H": {"paperFH"}}),
		"Author, H":     rec("Author, H", map[string][]string{"Author, F": {"paperFH"}}),
		"Author, Eee E": rec("Author, Eee E", map[string][]string{"Author, Aaa": {"paperAE"}, "Author, G": {"paperEG"}}),
		"Author, G":     rec("Author, G", map[string][]string{"Author, B": {"paperBG"}, "Author, C": {"paperCG"}, "Author, Eee E": {"paperEG"}}),
	}

	byName := make(map[string]*records.AuthorRecord, len(byRaw))
	for raw, r := range byRaw {
		n, err := space.Parse(raw)
		if err != nil {
			panic(err)
		}
		byName[n.FullName()] = r
	}

	byOrcid := map[string]*records.AuthorRecord{
		"0000-0002-1825-0097": byRaw["Author, K"],
	}

	return &mockRepo{space: space, byName: byName, byOrcid: byOrcid}
}

func (m *mockRepo) GetAuthorRecord(ctx context.Context, author *name.Name) (*records.AuthorRecord, error) {
	rec, ok := m.byName[author.FullName()]
	if !ok {
		return records.NewAuthorRecord(author.OriginalName()), nil
	}
	return rec, nil
}

func (m *mockRepo) GetAuthorRecordByOrcidID(ctx context.Context, orcidID string) (*records.AuthorRecord, error) {
	rec, ok := m.byOrcid[orcidID]
	if !ok {
		return nil, assert.AnError
	}
	return rec, nil
}

func (m *mockRepo) NotifyOfUpcomingAuthorRequest(ctx context.Context, authors ...*name.Name) {}

func TestPathFinderSimplePath(t *testing.T) {
	space := name.NewSpace()
	repo := newMockRepo(space)

	pf, err := New(space, nil, repo, 9, "Author, K", "Author, H", nil)
	require.NoError(t, err)

	require.NoError(t, pf.Run(context.Background()))

	assert.Equal(t, 5, pf.Dest().Dist(true))
	assert.Equal(t, 0, pf.Src().Dist(true))
	assert.Equal(t, 6, pf.NumNodes())
}

func TestPathFinderExclusions(t *testing.T) {
	space := name.NewSpace()
	repo := newMockRepo(space)

	pf, err := New(space, nil, repo, 9, "Author, Aaa", "Author, F", []string{"Author, B"})
	require.NoError(t, err)

	require.NoError(t, pf.Run(context.Background()))

	assert.Equal(t, 4, pf.Dest().Dist(true))
}

func TestPathFinderRejectsIdenticalSrcDest(t *testing.T) {
	space := name.NewSpace()
	repo := newMockRepo(space)

	_, err := New(space, nil, repo, 9, "Author, K", "Author, K", nil)
	require.Error(t, err)
	var pfErr *Error
	require.ErrorAs(t, err, &pfErr)
	assert.Equal(t, "src_is_dest", pfErr.Key)
}

func TestPathFinderRejectsStrictModifierOnEndpoints(t *testing.T) {
	space := name.NewSpace()
	repo := newMockRepo(space)

	_, err := New(space, nil, repo, 9, "<Author, K", "Author, H", nil)
	require.Error(t, err)
	var pfErr *Error
	require.ErrorAs(t, err, &pfErr)
	assert.Equal(t, "src_invalid_lt_gt", pfErr.Key)

	_, err = New(space, nil, repo, 9, "Author, K", ">Author, H", nil)
	require.Error(t, err)
	require.ErrorAs(t, err, &pfErr)
	assert.Equal(t, "dest_invalid_lt_gt", pfErr.Key)
}

func TestPathFinderSrcEmpty(t *testing.T) {
	space := name.NewSpace()
	repo := newMockRepo(space)

	pf, err := New(space, nil, repo, 9, "Author, Nodocs", "Author, K", nil)
	require.NoError(t, err)

	err = pf.Run(context.Background())
	require.Error(t, err)
	var pfErr *Error
	require.ErrorAs(t, err, &pfErr)
	assert.Equal(t, "src_empty", pfErr.Key)
}

func TestPathFinderResolvesOrcidEndpoint(t *testing.T) {
	space := name.NewSpace()
	repo := newMockRepo(space)

	pf, err := New(space, nil, repo, 9, "0000-0002-1825-0097", "Author, H", nil)
	require.NoError(t, err)

	require.NoError(t, pf.Run(context.Background()))

	kName, err := space.Parse("Author, K")
	require.NoError(t, err)
	assert.True(t, pf.Src().Name.Equal(kName))
	assert.Equal(t, 5, pf.Dest().Dist(true))
}

func TestPathFinderRejectsSameAuthorAfterOrcidResolution(t *testing.T) {
	space := name.NewSpace()
	repo := newMockRepo(space)

	pf, err := New(space, nil, repo, 9, "0000-0002-1825-0097", "Author, K", nil)
	require.NoError(t, err)

	err = pf.Run(context.Background())
	require.Error(t, err)
	var pfErr *Error
	require.ErrorAs(t, err, &pfErr)
	assert.Equal(t, "src_is_dest_after_orcid", pfErr.Key)
}

func TestPathFinderInvalidCharInName(t *testing.T) {
	space := name.NewSpace()
	repo := newMockRepo(space)

	_, err := New(space, nil, repo, 9, "/&", "Author, K", nil)
	require.Error(t, err)
	var pfErr *Error
	require.ErrorAs(t, err, &pfErr)
	assert.Equal(t, "invalid_char_in_name", pfErr.Key)
}
