package name

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Space is a process-wide-by-convention (but freely constructible) name
// intern table plus its synonym set, kept as a small object so tests can
// construct a fresh instance rather than relying on package-level globals.
type Space struct {
	mu     sync.Mutex
	intern map[string]*Name

	synonyms *Dict[*Name]
}

// NewSpace returns a fresh, empty Space.
func NewSpace() *Space {
	return &Space{
		intern:   make(map[string]*Name),
		synonyms: NewDict[*Name](),
	}
}

// Parse converts a raw name string, in "Last[, First Middle ...]" form, into
// a Name. A second call with an equal raw string (after normalization)
// returns the identical *Name.
func (s *Space) Parse(raw string) (*Name, error) {
	return s.parse(raw, nil, false)
}

// ParseParts builds a Name from an already-split last name and given-name
// tokens, e.g. ParseParts("Last", "First", "M").
func (s *Space) ParseParts(last string, given ...string) (*Name, error) {
	return s.parse(last, given, false)
}

// ParsePreserve parses raw without interning or case/ASCII normalization,
// for rendering original-case display strings. The returned Name is not
// suitable for equality comparisons against normally-parsed Names.
func (s *Space) ParsePreserve(raw string) (*Name, error) {
	return s.parse(raw, nil, true)
}

func (s *Space) parse(raw string, givenArgs []string, preserve bool) (*Name, error) {
	mods, err := parseModifierPrefix(raw)
	if err != nil {
		return nil, &InvalidName{Raw: raw, Reason: err.Error()}
	}

	original := raw
	body := raw[mods.consumed:]

	var last string
	var given []string
	if len(givenArgs) > 0 {
		last = body
		given = append([]string(nil), givenArgs...)
		original = last
		if len(given) > 0 {
			original = last + ", " + strings.Join(given, " ")
		}
	} else {
		last, given = parseRaw(body)
	}

	if !preserve {
		last = normalizeLast(last)
		given = normalizeGiven(given)
	} else {
		last = strings.TrimSpace(last)
		for i := range given {
			given[i] = strings.TrimSpace(given[i])
		}
	}

	if last == "" {
		return nil, &InvalidName{Raw: raw, Reason: "computed last name is empty"}
	}

	if preserve {
		return &Name{
			lastName:     last,
			givenNames:   given,
			originalName: original,
		}, nil
	}

	key := internKey(mods, last, given)

	s.mu.Lock()
	if existing, ok := s.intern[key]; ok {
		s.mu.Unlock()
		return existing, nil
	}

	n := &Name{
		lastName:            last,
		givenNames:          given,
		requireExact:        mods.requireExact,
		requireMoreSpecific: mods.requireMoreSpecific,
		requireLessSpecific: mods.requireLessSpecific,
		allowSameSpecific:   mods.allowSameSpecific,
		allowSynonym:        mods.allowSynonym,
		originalName:        original,
	}
	s.intern[key] = n
	s.mu.Unlock()

	if n.allowSynonym {
		if canonical, ok := s.synonyms.Get(n); ok {
			n.synonym = canonical
		}
	}

	return n, nil
}

// LoadSynonymLines registers one synonym family per non-empty, non-'#' line
// of semicolon-separated name strings. The most detailed,
// then longest, then reverse-alphabetical name in a family becomes
// canonical; the rest map to it.
func (s *Space) LoadSynonymLines(lines []string) error {
	type candidate struct {
		levelOfDetail int
		lastLen       int
		givenLen      int
		fullLen       int
		full          string
		n             *Name
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || !strings.Contains(line, ";") {
			continue
		}
		parts := strings.Split(line, ";")
		candidates := make([]candidate, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			n, err := s.Parse("@" + p)
			if err != nil {
				return fmt.Errorf("synonym line %q: %w", line, err)
			}
			candidates = append(candidates, candidate{
				levelOfDetail: n.LevelOfDetail(),
				lastLen:       len(n.LastName()),
				givenLen:      len(n.GivenNames()),
				fullLen:       len(n.FullName()),
				full:          n.FullName(),
				n:             n,
			})
		}
		if len(candidates) < 2 {
			continue
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if a.levelOfDetail != b.levelOfDetail {
				return a.levelOfDetail > b.levelOfDetail
			}
			if a.lastLen != b.lastLen {
				return a.lastLen > b.lastLen
			}
			if a.givenLen != b.givenLen {
				return a.givenLen > b.givenLen
			}
			if a.fullLen != b.fullLen {
				return a.fullLen > b.fullLen
			}
			return a.full > b.full
		})

		canonical := candidates[0].n
		canonical, err := s.Parse(canonical.FullName())
		if err != nil {
			return err
		}
		for _, variant := range candidates[1:] {
			s.synonyms.Set(variant.n, canonical)
		}
	}

	// Names already interned before this load picked up a stale (nil)
	// synonym pointer and an equality cache computed without it; both must
	// be invalidated.
	s.mu.Lock()
	for _, n := range s.intern {
		if n.allowSynonym {
			if canonical, ok := s.synonyms.Get(n); ok {
				n.synonym = canonical
			}
		}
		n.eqMu.Lock()
		n.eqCache = nil
		n.eqMu.Unlock()
	}
	s.mu.Unlock()
	return nil
}

// LoadSynonymFiles reads each file's lines and calls LoadSynonymLines.
func (s *Space) LoadSynonymFiles(paths []string) error {
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("opening synonym file %s: %w", p, err)
		}
		var lines []string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		err = scanner.Err()
		f.Close()
		if err != nil {
			return fmt.Errorf("reading synonym file %s: %w", p, err)
		}
		if err := s.LoadSynonymLines(lines); err != nil {
			return err
		}
	}
	return nil
}
