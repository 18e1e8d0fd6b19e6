package pathfinder

import (
	"math"
	"sort"

	"github.com/svank/appa-backend/internal/name"
)

// infinity stands in for an unset distance field (distFromSrc/distFromDest
// start here). Kept well clear of math.MaxInt so a +1 during expansion never
// overflows.
const infinity = math.MaxInt32 / 2

// Node is one named vertex in the PathFinder's graph, which is allowed to
// contain cycles. A Node is owned by exactly one PathFinder run and is never
// shared across runs; it hashes by the identity of its interned Name, not by
// its mutable link maps.
type Node struct {
	Name *name.Name

	distFromSrc  int
	distFromDest int

	// linksTowardSrc/linksTowardDest map a neighbor Node to the sorted
	// bibcodes of the papers that justify that edge.
	linksTowardSrc  map[*Node][]string
	linksTowardDest map[*Node][]string

	// legalBibcodes restricts which papers may justify an edge into this
	// node; only set on src/dest when they were resolved via ORCID id,
	// per the PathNode field list.
	legalBibcodes map[string]bool

	// pendingOrcid holds a normalized ORCID id between node construction
	// and PathFinder.resolveOrcidEndpoints, when src or dest was given as
	// an ORCID id rather than a name string.
	pendingOrcid string
}

func newNode(n *name.Name) *Node {
	return &Node{
		Name:            n,
		distFromSrc:     infinity,
		distFromDest:    infinity,
		linksTowardSrc:  make(map[*Node][]string),
		linksTowardDest: make(map[*Node][]string),
	}
}

func (n *Node) Dist(fromSrc bool) int {
	if fromSrc {
		return n.distFromSrc
	}
	return n.distFromDest
}

func (n *Node) SetDist(d int, fromSrc bool) {
	if fromSrc {
		n.distFromSrc = d
	} else {
		n.distFromDest = d
	}
}

func (n *Node) Links(fromSrc bool) map[*Node][]string {
	if fromSrc {
		return n.linksTowardSrc
	}
	return n.linksTowardDest
}

// addEdge records that n and neighbor are connected by bibcodes, on the side
// named by towardSrc (true: neighbor lies toward src from n's perspective).
// The edge is recorded from both ends so later bidirectional walks (final
// graph construction) need not guess direction.
func addEdge(n, neighbor *Node, towardSrc bool, bibcodes []string) {
	if towardSrc {
		n.linksTowardSrc[neighbor] = mergeBibcodes(n.linksTowardSrc[neighbor], bibcodes)
		neighbor.linksTowardDest[n] = mergeBibcodes(neighbor.linksTowardDest[n], bibcodes)
	} else {
		n.linksTowardDest[neighbor] = mergeBibcodes(n.linksTowardDest[neighbor], bibcodes)
		neighbor.linksTowardSrc[n] = mergeBibcodes(neighbor.linksTowardSrc[n], bibcodes)
	}
}

func mergeBibcodes(existing, add []string) []string {
	seen := make(map[string]bool, len(existing)+len(add))
	out := make([]string, 0, len(existing)+len(add))
	for _, b := range existing {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	for _, b := range add {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	sort.Strings(out)
	return out
}
