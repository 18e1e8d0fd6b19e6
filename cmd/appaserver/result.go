package main

import (
	"context"
	"sort"

	"github.com/svank/appa-backend/internal/logbuddy"
	"github.com/svank/appa-backend/internal/pathfinder"
	"github.com/svank/appa-backend/internal/ranker"
	"github.com/svank/appa-backend/internal/records"
)

// docView is a Document rendered for the wire, with the bibcode (already the
// doc_data map's key) and the internal CreatedAt timestamp dropped.
type docView struct {
	Title         string                `json:"title"`
	Authors       []string              `json:"authors"`
	Affiliations  []string              `json:"aff"`
	Doctype       string                `json:"doctype"`
	Keywords      []string              `json:"keyword"`
	Publication   string                `json:"pub"`
	PubDate       string                `json:"pubdate"`
	CitationCount int                   `json:"citation_count"`
	ReadCount     int                   `json:"read_count"`
	OrcidIDs      []string              `json:"orcid_ids"`
	OrcidSrcs     []records.OrcidSource `json:"orcid_src"`
}

func newDocView(d *records.Document) docView {
	return docView{
		Title:         d.Title,
		Authors:       d.Authors,
		Affiliations:  d.Affiliations,
		Doctype:       d.Doctype,
		Keywords:      d.Keywords,
		Publication:   d.Publication,
		PubDate:       d.PubDate,
		CitationCount: d.CitationCount,
		ReadCount:     d.ReadCount,
		OrcidIDs:      d.OrcidIDs,
		OrcidSrcs:     d.OrcidSrcs,
	}
}

// paperChoice is the wire shape of one candidate paper for one link:
// [bibcode, idxA, idxB].
type paperChoice [3]interface{}

func newPaperChoice(l ranker.Link) paperChoice {
	return paperChoice{l.Bibcode, l.IdxA, l.IdxB}
}

// resultJSON is the full find_route success envelope, per the // result JSON schema.
type resultJSON struct {
	OriginalSrc          string                   `json:"original_src"`
	OriginalDest         string                   `json:"original_dest"`
	OriginalSrcWithMods  string                   `json:"original_src_with_mods"`
	OriginalDestWithMods string                   `json:"original_dest_with_mods"`
	DocData              map[string]docView       `json:"doc_data"`
	Chains               [][]string               `json:"chains"`
	PaperChoicesForChain [][][]paperChoice         `json:"paper_choices_for_chain"`
	Stats                interface{}               `json:"stats"`
}

// errorJSON is find_route's error envelope.
type errorJSON struct {
	ErrorKey string `json:"error_key"`
	ErrorMsg string `json:"error_msg"`
	Src      string `json:"src,omitempty"`
	Dest     string `json:"dest,omitempty"`
	Reset    string `json:"reset,omitempty"`
}

// buildResult turns a finished PathFinder + Ranker run into the wire
// envelope, loading every bibcode used by the best realization of every
// chain into doc_data. Only the best (highest-scoring) realization per chain
// is surfaced on the wire; scoreChain's full cartesian enumeration exists to
// find that best realization and to detect AllPathsInvalid, not to offer the
// frontend every combination.
func buildResult(ctx context.Context, repo ranker.Repository, pf *pathfinder.PathFinder, chains []ranker.Chain, log *logbuddy.Buddy) (*resultJSON, error) {
	out := &resultJSON{
		OriginalSrc:          pf.Src().Name.BareOriginalName(),
		OriginalDest:         pf.Dest().Name.BareOriginalName(),
		OriginalSrcWithMods:  pf.Src().Name.OriginalName(),
		OriginalDestWithMods: pf.Dest().Name.OriginalName(),
		DocData:              map[string]docView{},
		Chains:               make([][]string, len(chains)),
		PaperChoicesForChain: make([][][]paperChoice, len(chains)),
	}

	for i, chain := range chains {
		out.Chains[i] = chain.Names

		best := bestRealization(chain.Realizations)
		links := make([][]paperChoice, len(best.Links))
		for j, l := range best.Links {
			links[j] = []paperChoice{newPaperChoice(l)}
			if _, ok := out.DocData[l.Bibcode]; ok {
				continue
			}
			doc, err := repo.GetDocument(ctx, l.Bibcode)
			if err != nil {
				return nil, err
			}
			out.DocData[l.Bibcode] = newDocView(doc)
		}
		out.PaperChoicesForChain[i] = links
	}

	if log != nil {
		out.Stats = log.Snapshot()
	}
	return out, nil
}

// bestRealization returns realizations[0]: Rank already sorts a chain's
// realizations by score descending, title ascending.
func bestRealization(realizations []ranker.Realization) ranker.Realization {
	if len(realizations) == 0 {
		return ranker.Realization{}
	}
	return realizations[0]
}

// sortedExclusions dedupes and sorts exclusions for stable cache keys and
// log lines, since the order a caller lists exclusions in is not
// significant.
func sortedExclusions(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
