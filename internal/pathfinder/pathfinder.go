// Package pathfinder implements the bidirectional breadth-first search over
// the author coauthorship graph: construction and validation of the
// source/destination names and exclusion list, the frontier-expansion run
// itself, and the final bidirectional-link-then-prune graph construction
// that the route ranker consumes.
package pathfinder

import (
	"context"
	"sort"

	"github.com/svank/appa-backend/internal/adsclient"
	"github.com/svank/appa-backend/internal/logbuddy"
	"github.com/svank/appa-backend/internal/name"
	"github.com/svank/appa-backend/internal/records"
)

// maxIterations is the BFS iteration cap used when no caller-supplied
// maximum is given; config.Config exposes a configurable override.
const maxIterations = 9

// Repository is the subset of repository.Repository the PathFinder needs.
type Repository interface {
	GetAuthorRecord(ctx context.Context, author *name.Name) (*records.AuthorRecord, error)
	GetAuthorRecordByOrcidID(ctx context.Context, orcidID string) (*records.AuthorRecord, error)
	NotifyOfUpcomingAuthorRequest(ctx context.Context, authors ...*name.Name)
}

// PathFinder owns one bidirectional BFS run. Its Nodes arena and all graph
// state live only for the duration of the run; nothing here is safe to
// share across calls to Run.
type PathFinder struct {
	repo  Repository
	space *name.Space
	log   *logbuddy.Buddy

	maxIterations int

	src, dest *Node
	nodes     map[string]*Node // keyed by the node Name's qualified full form

	excludedBibcodes map[string]bool
	excludedNames    []*name.Name

	OriginalSrc  string
	OriginalDest string
}

// New validates src, dest and exclusions and seeds the graph with the two
// endpoint nodes. It performs no network I/O beyond resolving ORCID ids to
// names, which happens lazily in Run so progress reporting can begin
// first.
func New(space *name.Space, log *logbuddy.Buddy, repo Repository, maxIter int, srcRaw, destRaw string, exclusions []string) (*PathFinder, error) {
	if maxIter <= 0 {
		maxIter = maxIterations
	}

	srcName, srcOrcid, err := parseEndpoint(space, srcRaw)
	if err != nil {
		return nil, errInvalidCharInName(srcRaw, err)
	}
	destName, destOrcid, err := parseEndpoint(space, destRaw)
	if err != nil {
		return nil, errInvalidCharInName(destRaw, err)
	}

	if isStrict(srcName, true) {
		return nil, errSrcInvalidLtGt()
	}
	if isStrict(destName, true) {
		return nil, errDestInvalidLtGt()
	}
	if srcOrcid == "" && destOrcid == "" && srcName.Equal(destName) {
		return nil, errSrcIsDest()
	}

	excludedBibcodes := make(map[string]bool)
	var excludedNames []*name.Name
	for _, raw := range exclusions {
		if raw == "" {
			continue
		}
		if adsclient.IsBibcode(raw) {
			excludedBibcodes[raw] = true
			continue
		}
		n, perr := space.Parse(raw)
		if perr != nil {
			continue
		}
		excludedNames = append(excludedNames, n)
	}

	pf := &PathFinder{
		repo:             repo,
		space:            space,
		log:              log,
		maxIterations:    maxIter,
		nodes:            make(map[string]*Node),
		excludedBibcodes: excludedBibcodes,
		excludedNames:    excludedNames,
		OriginalSrc:      srcRaw,
		OriginalDest:     destRaw,
	}

	pf.src = pf.internNode(srcName)
	pf.src.distFromSrc = 0
	pf.dest = pf.internNode(destName)
	pf.dest.distFromDest = 0

	// ORCID-resolved src/dest require a second equality check once the
	// network has told us their canonical publishing name.
	if srcOrcid != "" || destOrcid != "" {
		pf.src.pendingOrcid = srcOrcid
		pf.dest.pendingOrcid = destOrcid
	}

	return pf, nil
}

func parseEndpoint(space *name.Space, raw string) (*name.Name, string, error) {
	if adsclient.IsOrcidID(raw) {
		id := adsclient.NormalizeOrcidID(raw)
		// The Name used to seed the graph node is a placeholder until Run
		// resolves the ORCID id to its canonical publishing name; it must
		// not go through ordinary parsing, which would filter the id's
		// digits and hyphens down to an empty last name.
		return name.ReservedPlaceholder(id), id, nil
	}
	n, err := space.Parse(raw)
	return n, "", err
}

func isStrict(n *name.Name, _ bool) bool {
	if n.AllowSameSpecific() {
		return false
	}
	return n.RequireMoreSpecific() || n.RequireLessSpecific()
}

func (pf *PathFinder) internNode(n *name.Name) *Node {
	key := n.QualifiedFullName()
	if existing, ok := pf.nodes[key]; ok {
		return existing
	}
	node := newNode(n)
	pf.nodes[key] = node
	return node
}

// NumNodes reports the size of the explored graph, for tests.
func (pf *PathFinder) NumNodes() int { return len(pf.nodes) }

// Src returns the pruned graph's source node, for the route ranker.
func (pf *PathFinder) Src() *Node { return pf.src }

// Dest returns the pruned graph's destination node, for the route ranker.
func (pf *PathFinder) Dest() *Node { return pf.dest }

// ExcludedNames returns the parsed exclusion Names, for the route ranker's
// author-index fill-in step.
func (pf *PathFinder) ExcludedNames() []*name.Name { return pf.excludedNames }

// Run executes the bidirectional BFS and then prunes the graph down to
// shortest-path edges only.
func (pf *PathFinder) Run(ctx context.Context) error {
	if pf.log != nil {
		pf.log.OnStartPathFinding()
		defer pf.log.OnStopPathFinding()
	}

	if err := pf.resolveOrcidEndpoints(ctx); err != nil {
		return err
	}

	srcRec, err := pf.repo.GetAuthorRecord(ctx, pf.src.Name)
	if err != nil {
		return err
	}
	if pf.isEmptyForEndpoint(srcRec, pf.src) {
		return errSrcEmpty()
	}
	destRec, err := pf.repo.GetAuthorRecord(ctx, pf.dest.Name)
	if err != nil {
		return err
	}
	if pf.isEmptyForEndpoint(destRec, pf.dest) {
		return errDestEmpty()
	}

	nextSrc := []*name.Name{pf.src.Name}
	nextDest := []*name.Name{pf.dest.Name}

	connecting := make(map[*Node]bool)
	iterations := 0
	for {
		if len(nextSrc) == 0 || len(nextDest) == 0 {
			return errNoAuthorsToExpand()
		}

		expandingFromSrc := len(nextSrc) <= len(nextDest)
		var frontier []*name.Name
		if expandingFromSrc {
			frontier, nextSrc = nextSrc, nil
		} else {
			frontier, nextDest = nextDest, nil
		}

		if len(frontier) > 1 {
			pf.repo.NotifyOfUpcomingAuthorRequest(ctx, frontier...)
		}

		for _, authorName := range frontier {
			parent := pf.internNode(authorName)
			rec, err := pf.repo.GetAuthorRecord(ctx, authorName)
			if err != nil {
				return err
			}
			parentDist := parent.Dist(expandingFromSrc)
			okBibcodes, allOK := pf.okBibcodesFor(rec)

			coauthorKeys := make([]string, 0, len(rec.Coauthors))
			for k := range rec.Coauthors {
				coauthorKeys = append(coauthorKeys, k)
			}
			sort.Strings(coauthorKeys)

			for _, coauthorStr := range coauthorKeys {
				shared := rec.Coauthors[coauthorStr]
				filtered := filterBibcodes(shared, okBibcodes, allOK)
				if len(filtered) == 0 {
					continue
				}
				coauthorName, perr := pf.space.Parse(coauthorStr)
				if perr != nil {
					continue
				}
				if isExcludedName(coauthorName, pf.excludedNames) {
					continue
				}

				key := coauthorName.QualifiedFullName()
				node, exists := pf.nodes[key]
				updated := false
				if !exists {
					node = newNode(coauthorName)
					pf.nodes[key] = node
					node.SetDist(parentDist+1, expandingFromSrc)
					addEdge(node, parent, expandingFromSrc, filtered)
					updated = true
					if expandingFromSrc {
						nextSrc = append(nextSrc, coauthorName)
					} else {
						nextDest = append(nextDest, coauthorName)
					}
				} else if node.Dist(expandingFromSrc) > parentDist+1 {
					edgeBibcodes := filtered
					proceed := true
					if len(node.legalBibcodes) > 0 {
						edgeBibcodes = intersectBibcodes(filtered, node.legalBibcodes)
						proceed = len(edgeBibcodes) > 0
					}
					if proceed {
						node.SetDist(parentDist+1, expandingFromSrc)
						addEdge(node, parent, expandingFromSrc, edgeBibcodes)
						updated = true
						if expandingFromSrc {
							nextSrc = append(nextSrc, coauthorName)
						} else {
							nextDest = append(nextDest, coauthorName)
						}
					}
				}

				if updated && pf.nodeConnects(node, expandingFromSrc) {
					connecting[node] = true
				}
			}
		}

		iterations++
		if len(connecting) > 0 {
			break
		}
		if iterations >= pf.maxIterations {
			return errTooFar()
		}
	}

	pf.produceFinalGraph(connecting)
	return nil
}

// produceFinalGraph implements the "Final graph construction".
// Edges are already recorded bidirectionally as they're discovered (see
// addEdge), so the first pass here only needs to propagate each node's
// still-unknown distance from the far side outward from the connecting
// nodes. The second pass walks forward from src along kept toward-dest
// edges, dropping each toward-dest edge whose far end is not one step
// farther from src and each toward-src edge whose far end is not one step
// farther from dest; edges of nodes that walk does not reach are left as
// they are. Finally it drops from pf.nodes any non-endpoint node left with
// no neighbors on one side (other nodes' links to it are not removed).
func (pf *PathFinder) produceFinalGraph(connecting map[*Node]bool) {
	toWalk := make([]*Node, 0, len(connecting))
	for n := range connecting {
		toWalk = append(toWalk, n)
	}
	visited := make(map[*Node]bool)
	for len(toWalk) > 0 {
		node := toWalk[len(toWalk)-1]
		toWalk = toWalk[:len(toWalk)-1]
		if visited[node] {
			continue
		}
		visited[node] = true

		for neighbor := range node.linksTowardSrc {
			if !visited[neighbor] {
				toWalk = append(toWalk, neighbor)
			}
			if node.distFromDest+1 < neighbor.distFromDest {
				neighbor.distFromDest = node.distFromDest + 1
			}
		}
		for neighbor := range node.linksTowardDest {
			if !visited[neighbor] {
				toWalk = append(toWalk, neighbor)
			}
			if node.distFromSrc+1 < neighbor.distFromSrc {
				neighbor.distFromSrc = node.distFromSrc + 1
			}
		}
	}

	pruneFrom := []*Node{pf.src}
	for len(pruneFrom) > 0 {
		node := pruneFrom[len(pruneFrom)-1]
		pruneFrom = pruneFrom[:len(pruneFrom)-1]

		for neighbor := range node.linksTowardDest {
			if neighbor.distFromSrc != node.distFromSrc+1 {
				delete(node.linksTowardDest, neighbor)
				delete(neighbor.linksTowardSrc, node)
			} else {
				pruneFrom = append(pruneFrom, neighbor)
			}
		}
		for neighbor := range node.linksTowardSrc {
			if neighbor.distFromDest != node.distFromDest+1 {
				delete(node.linksTowardSrc, neighbor)
				delete(neighbor.linksTowardDest, node)
			}
		}
	}

	for key, node := range pf.nodes {
		if node == pf.src || node == pf.dest {
			continue
		}
		if len(node.linksTowardSrc) == 0 || len(node.linksTowardDest) == 0 {
			delete(pf.nodes, key)
		}
	}
}

func (pf *PathFinder) nodeConnects(node *Node, expandingFromSrc bool) bool {
	if len(node.linksTowardSrc) > 0 && len(node.linksTowardDest) > 0 {
		return true
	}
	if expandingFromSrc && node == pf.dest {
		return true
	}
	if !expandingFromSrc && node == pf.src {
		return true
	}
	return false
}

// resolveOrcidEndpoints turns a pending ORCID id on src or dest into the
// canonical publishing Name that ORCID id resolves to.
func (pf *PathFinder) resolveOrcidEndpoints(ctx context.Context) error {
	if pf.src.pendingOrcid != "" {
		rec, err := pf.repo.GetAuthorRecordByOrcidID(ctx, pf.src.pendingOrcid)
		if err != nil {
			return err
		}
		if err := pf.rebindOrcidNode(pf.src, rec); err != nil {
			return err
		}
	}
	if pf.dest.pendingOrcid != "" {
		rec, err := pf.repo.GetAuthorRecordByOrcidID(ctx, pf.dest.pendingOrcid)
		if err != nil {
			return err
		}
		if err := pf.rebindOrcidNode(pf.dest, rec); err != nil {
			return err
		}
	}
	if pf.src.pendingOrcid != "" || pf.dest.pendingOrcid != "" {
		if pf.src.Name.Equal(pf.dest.Name) {
			return errSrcIsDestAfterOrcid()
		}
	}
	return nil
}

func (pf *PathFinder) rebindOrcidNode(node *Node, rec *records.AuthorRecord) error {
	resolved, err := pf.space.Parse(rec.NameString)
	if err != nil {
		return errInvalidCharInName(rec.NameString, err)
	}
	delete(pf.nodes, node.Name.QualifiedFullName())
	node.Name = resolved
	node.legalBibcodes = make(map[string]bool, len(rec.Bibcodes))
	for _, bc := range rec.Bibcodes {
		node.legalBibcodes[bc] = true
	}
	pf.nodes[resolved.QualifiedFullName()] = node
	return nil
}

func (pf *PathFinder) isEmptyForEndpoint(rec *records.AuthorRecord, node *Node) bool {
	if rec == nil || len(rec.Bibcodes) == 0 {
		return true
	}
	if isExcludedName(node.Name, pf.excludedNames) {
		return true
	}
	ok, allOK := pf.okBibcodesFor(rec)
	if allOK {
		return false
	}
	return len(ok) == 0
}

// okBibcodesFor computes the ok_bibcodes set for rec: the union
// over non-excluded aliases of appears_as[alias], minus excluded bibcodes.
// The second return value is true when the sentinel "all" applies (the
// request has no excluded names or bibcodes at all), in which case the set
// is nil and should not be consulted.
func (pf *PathFinder) okBibcodesFor(rec *records.AuthorRecord) (map[string]bool, bool) {
	if len(pf.excludedNames) == 0 && len(pf.excludedBibcodes) == 0 {
		return nil, true
	}

	union := make(map[string]bool)
	for alias, bibcodes := range rec.AppearsAs {
		aliasName, err := pf.space.Parse(alias)
		if err != nil {
			continue
		}
		if isExcludedName(aliasName, pf.excludedNames) {
			continue
		}
		for _, bc := range bibcodes {
			if !pf.excludedBibcodes[bc] {
				union[bc] = true
			}
		}
	}
	return union, false
}

func isExcludedName(n *name.Name, excluded []*name.Name) bool {
	for _, e := range excluded {
		if n.Equal(e) {
			return true
		}
	}
	return false
}

func filterBibcodes(shared []string, ok map[string]bool, allOK bool) []string {
	if allOK {
		return shared
	}
	out := make([]string, 0, len(shared))
	for _, bc := range shared {
		if ok[bc] {
			out = append(out, bc)
		}
	}
	return out
}

func intersectBibcodes(a []string, b map[string]bool) []string {
	out := make([]string, 0, len(a))
	for _, bc := range a {
		if b[bc] {
			out = append(out, bc)
		}
	}
	return out
}
