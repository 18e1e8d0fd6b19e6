// Package ranker implements route ranking: turning the PathFinder's pruned
// author graph into a scored, sorted list of paper chains connecting src to
// dest.
package ranker

import (
	"context"
	"sort"

	"github.com/svank/appa-backend/internal/config"
	"github.com/svank/appa-backend/internal/name"
	"github.com/svank/appa-backend/internal/pathfinder"
	"github.com/svank/appa-backend/internal/records"
)

// Repository is the subset of repository.Repository the ranker needs: full
// document bodies, to read each paper's author list, affiliations, and
// ORCID ids.
type Repository interface {
	GetDocument(ctx context.Context, bibcode string) (*records.Document, error)
}

// Ranker scores and sorts the author chains a PathFinder run discovered.
type Ranker struct {
	repo     Repository
	space    *name.Space
	scoring  config.ScoringConstants
	excluded []*name.Name
}

// New returns a Ranker using scoring against the given ScoringConstants.
// excluded is the same PathFinder run's excluded Names: an author-list slot
// matching an excluded Name is never a candidate.
func New(repo Repository, space *name.Space, scoring config.ScoringConstants, excluded []*name.Name) *Ranker {
	return &Ranker{repo: repo, space: space, scoring: scoring, excluded: excluded}
}

// Link is one paper's pick of author slots justifying an edge between two
// adjacent chain authors: IdxA is the slot matching the earlier author in
// the chain, IdxB the slot matching the later one. This is also the wire
// shape of one paper_choices_for_chain entry.
type Link struct {
	Bibcode string
	IdxA    int
	IdxB    int
}

// Realization is one concrete, fully-scored path: one paper chosen per link.
type Realization struct {
	Links []Link
	Score float64
}

// Chain is one sequence of authors from src to dest, with every valid way
// of picking a paper per link.
type Chain struct {
	Names        []string // display-cased author chain, src to dest
	Realizations []Realization
}

// Rank implements the full pipeline: pairings collection,
// author-index fill-in, chain enumeration, per-link scoring, and the
// two-level sort. src and dest must be the same PathFinder run's pruned
// endpoint nodes.
func (r *Ranker) Rank(ctx context.Context, src, dest *pathfinder.Node) ([]Chain, error) {
	bibcodes := collectBibcodes(src)

	docs := make(map[string]*records.Document, len(bibcodes))
	for _, bc := range bibcodes {
		doc, err := r.repo.GetDocument(ctx, bc)
		if err != nil {
			return nil, err
		}
		docs[bc] = doc
	}

	choicesFor := r.fillInAuthorIndices(docs)

	rawChains := buildAuthorChains(src, dest)
	if len(rawChains) == 0 {
		return nil, ErrAllPathsInvalid
	}

	chains := make([]Chain, 0, len(rawChains))
	anyValid := false
	for _, rc := range rawChains {
		realizations := r.scoreChain(rc, docs, choicesFor)
		if len(realizations) == 0 {
			continue
		}
		anyValid = true

		names := make([]string, len(rc))
		for i, node := range rc {
			names[i] = node.Name.OriginalName()
		}

		sort.SliceStable(realizations, func(i, j int) bool {
			if realizations[i].Score != realizations[j].Score {
				return realizations[i].Score > realizations[j].Score
			}
			return titleFor(docs, realizations[i].Links[0].Bibcode) < titleFor(docs, realizations[j].Links[0].Bibcode)
		})

		chains = append(chains, Chain{Names: names, Realizations: realizations})
	}

	if !anyValid {
		return nil, ErrAllPathsInvalid
	}

	sort.SliceStable(chains, func(i, j int) bool {
		bi, bj := chains[i].Realizations[0].Score, chains[j].Realizations[0].Score
		if bi != bj {
			return bi > bj
		}
		return chainKey(chains[i].Names) < chainKey(chains[j].Names)
	})

	return chains, nil
}

func titleFor(docs map[string]*records.Document, bibcode string) string {
	if doc, ok := docs[bibcode]; ok {
		return doc.Title
	}
	return ""
}

func chainKey(names []string) string {
	out := ""
	for _, n := range names {
		out += n + "\x00"
	}
	return out
}

// collectBibcodes walks the pruned graph forward from src, gathering every
// bibcode used to justify an edge.
func collectBibcodes(src *pathfinder.Node) []string {
	seen := make(map[string]bool)
	var order []string
	visited := make(map[*pathfinder.Node]bool)
	stack := []*pathfinder.Node{src}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[node] {
			continue
		}
		visited[node] = true
		for neighbor, bibcodes := range node.Links(false) {
			for _, bc := range bibcodes {
				if !seen[bc] {
					seen[bc] = true
					order = append(order, bc)
				}
			}
			if !visited[neighbor] {
				stack = append(stack, neighbor)
			}
		}
	}
	sort.Strings(order)
	return order
}

// parsedSlot is one author-list slot, pre-parsed so scoreChain can match it
// against a chain node's Name by the non-transitive Equal relation rather
// than by literal string: a node's canonical Name need not equal its exact
// spelling on any one paper (src queried as "Author, A" may be byline'd
// "Author, A." or "Author, Aaa" on a given document).
type parsedSlot struct {
	name *name.Name
	idx  int
}

// fillInAuthorIndices parses every document's author list once, so later
// slot lookups compare parsed Names rather than literal byline strings (a
// chain node's canonical spelling rarely matches a paper's byline exactly).
// A slot matching an excluded Name, or one that fails to parse, is never a
// candidate.
func (r *Ranker) fillInAuthorIndices(docs map[string]*records.Document) map[string][]parsedSlot {
	choicesFor := make(map[string][]parsedSlot, len(docs)) // bibcode -> slots
	for bc, doc := range docs {
		slots := make([]parsedSlot, 0, len(doc.Authors))
		for i, authorStr := range doc.Authors {
			n, err := r.space.Parse(authorStr)
			if err != nil {
				continue
			}
			if r.isExcluded(n) {
				continue
			}
			slots = append(slots, parsedSlot{name: n, idx: i})
		}
		choicesFor[bc] = slots
	}
	return choicesFor
}

func (r *Ranker) isExcluded(n *name.Name) bool {
	for _, e := range r.excluded {
		if n.Equal(e) {
			return true
		}
	}
	return false
}

// slotsForName returns every slot index among slots whose parsed Name
// equates to target under the non-transitive name relation.
func slotsForName(slots []parsedSlot, target *name.Name) []int {
	var out []int
	for _, s := range slots {
		if s.name.Equal(target) {
			out = append(out, s.idx)
		}
	}
	return out
}

// buildAuthorChains enumerates every simple author-node sequence from src to
// dest that only ever steps to a node strictly closer to dest.
func buildAuthorChains(src, dest *pathfinder.Node) [][]*pathfinder.Node {
	var chains [][]*pathfinder.Node
	var walk func(node *pathfinder.Node, path []*pathfinder.Node)
	walk = func(node *pathfinder.Node, path []*pathfinder.Node) {
		path = append(path, node)
		if node == dest {
			chains = append(chains, append([]*pathfinder.Node(nil), path...))
			return
		}
		neighbors := make([]*pathfinder.Node, 0, len(node.Links(false)))
		for n := range node.Links(false) {
			neighbors = append(neighbors, n)
		}
		sort.Slice(neighbors, func(i, j int) bool {
			return neighbors[i].Name.QualifiedFullName() < neighbors[j].Name.QualifiedFullName()
		})
		for _, n := range neighbors {
			if n.Dist(true) == node.Dist(true)+1 {
				walk(n, path)
			}
		}
	}
	walk(src, nil)
	return chains
}

// scoreChain enumerates every realization of chain (one paper choice per
// link, cartesian product over each link's bibcode candidates) and scores
// each. Realizations using a paper pair that cannot actually place both
// chain authors in distinct slots are skipped.
func (r *Ranker) scoreChain(chain []*pathfinder.Node, docs map[string]*records.Document, choicesFor map[string][]parsedSlot) []Realization {
	if len(chain) < 2 {
		return nil
	}

	// linkChoices[i] holds every (bibcode, idxA, idxB) candidate for the
	// edge chain[i] -> chain[i+1], where idxA is chain[i]'s slot and idxB
	// is chain[i+1]'s slot on that paper.
	linkChoices := make([][]Link, len(chain)-1)
	for i := 0; i < len(chain)-1; i++ {
		a, b := chain[i], chain[i+1]
		bibcodes := a.Links(false)[b]
		var candidates []Link
		for _, bc := range bibcodes {
			aSlots := slotsForName(choicesFor[bc], a.Name)
			bSlots := slotsForName(choicesFor[bc], b.Name)
			for _, as := range aSlots {
				for _, bs := range bSlots {
					if as == bs {
						continue
					}
					candidates = append(candidates, Link{Bibcode: bc, IdxA: as, IdxB: bs})
				}
			}
		}
		if len(candidates) == 0 {
			return nil
		}
		linkChoices[i] = candidates
	}

	var realizations []Realization
	combo := make([]Link, len(linkChoices))
	var product func(i int)
	product = func(i int) {
		if i == len(linkChoices) {
			links := append([]Link(nil), combo...)
			score := 0.0
			for j := 0; j < len(combo)-1; j++ {
				con1, con2 := combo[j], combo[j+1]
				doc1, doc2 := docs[con1.Bibcode], docs[con2.Bibcode]
				linkScore, valid := r.scoreLink(doc1, con1.IdxB, doc2, con2.IdxA)
				if !valid {
					return
				}
				score += linkScore
			}
			realizations = append(realizations, Realization{Links: links, Score: score})
			return
		}
		for _, c := range linkChoices[i] {
			combo[i] = c
			product(i + 1)
		}
	}
	product(0)
	return realizations
}

// scoreLink scores the shared intermediate author between two adjacent
// papers in a chain: slotA is that author's slot on the earlier paper,
// slotB their slot on the later one. An ORCID-id match between the two
// slots scores multiplicatively on each id's source priority; a mismatch
// invalidates the whole realization; otherwise the score blends affiliation
// overlap and spelled-out-name detail. The realization is also invalid if
// the two slots' names don't equate under the non-transitive name relation.
func (r *Ranker) scoreLink(doc1 *records.Document, slotA int, doc2 *records.Document, slotB int) (float64, bool) {
	name1, err1 := r.space.Parse(nameAt(doc1, slotA))
	name2, err2 := r.space.Parse(nameAt(doc2, slotB))
	if err1 != nil || err2 != nil || !name1.Equal(name2) {
		return 0, false
	}

	orcid1 := orcidAt(doc1, slotA)
	orcid2 := orcidAt(doc2, slotB)
	if orcid1 != "" && orcid2 != "" {
		if orcid1 != orcid2 {
			return 0, false
		}
		return r.orcidSourceScore(srcAt(doc1, slotA)) * r.orcidSourceScore(srcAt(doc2, slotB)), true
	}

	affil1 := normalizeAffiliation(affilAt(doc1, slotA))
	affil2 := normalizeAffiliation(affilAt(doc2, slotB))
	affilScore := affiliationOverlap(affil1, affil2)

	detail1 := name1.LevelOfDetail()
	detail2 := name2.LevelOfDetail()
	detail := float64(detail1)
	if detail2 < detail1 {
		detail = float64(detail2)
	}
	detailScore := detail / r.scoring.DetailDivisor

	return affilScore*r.scoring.AffiliationWeight + detailScore*r.scoring.DetailWeight, true
}

func nameAt(doc *records.Document, idx int) string {
	if idx < 0 || idx >= len(doc.Authors) {
		return ""
	}
	return doc.Authors[idx]
}

// orcidSourceScore implements the src-priority decay
// "score = 1 - decay*(priority-1)"; OrcidNone never reaches here since its
// presence is already excluded by the ORCID-match branch above.
func (r *Ranker) orcidSourceScore(src records.OrcidSource) float64 {
	return 1 - r.scoring.OrcidDecayPerExtraSource*float64(int(src)-1)
}

func orcidAt(doc *records.Document, idx int) string {
	if idx < 0 || idx >= len(doc.OrcidIDs) {
		return ""
	}
	return doc.OrcidIDs[idx]
}

func srcAt(doc *records.Document, idx int) records.OrcidSource {
	if idx < 0 || idx >= len(doc.OrcidSrcs) {
		return records.OrcidNone
	}
	return doc.OrcidSrcs[idx]
}

func affilAt(doc *records.Document, idx int) string {
	if idx < 0 || idx >= len(doc.Affiliations) {
		return ""
	}
	return doc.Affiliations[idx]
}
