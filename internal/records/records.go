// Package records defines the two record types the repository and cache
// layers traffic in: Document (one publication) and AuthorRecord (one
// author's aggregated publication history).
package records

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// OrcidSource identifies which ADS field an author's ORCID id was taken
// from, in priority order pub > user > other.
type OrcidSource int

const (
	OrcidNone OrcidSource = 0
	OrcidPub  OrcidSource = 1
	OrcidUser OrcidSource = 2
	OrcidOther OrcidSource = 3
)

// Document is one publication as returned by the ADS client, trimmed to the
// fields the pathfinder and ranker need.
type Document struct {
	Bibcode string

	Title        string
	Authors      []string
	Affiliations []string
	Doctype      string
	Keywords     []string
	Publication  string
	PubDate      string

	CitationCount int
	ReadCount     int

	OrcidIDs    []string
	OrcidSrcs   []OrcidSource

	CreatedAt time.Time
}

// Copy returns a deep copy so a caller can mutate it without affecting the
// cached original.
func (d *Document) Copy() *Document {
	out := *d
	out.Authors = append([]string(nil), d.Authors...)
	out.Affiliations = append([]string(nil), d.Affiliations...)
	out.Keywords = append([]string(nil), d.Keywords...)
	out.OrcidIDs = append([]string(nil), d.OrcidIDs...)
	out.OrcidSrcs = append([]OrcidSource(nil), d.OrcidSrcs...)
	return &out
}

// DeleteAuthor removes author slot i from every per-author list, keeping the
// per-author slices equal in length.
func (d *Document) DeleteAuthor(i int) {
	d.Authors = append(d.Authors[:i], d.Authors[i+1:]...)
	if i < len(d.Affiliations) {
		d.Affiliations = append(d.Affiliations[:i], d.Affiliations[i+1:]...)
	}
	if i < len(d.OrcidIDs) {
		d.OrcidIDs = append(d.OrcidIDs[:i], d.OrcidIDs[i+1:]...)
	}
	if i < len(d.OrcidSrcs) {
		d.OrcidSrcs = append(d.OrcidSrcs[:i], d.OrcidSrcs[i+1:]...)
	}
}

// CompressedDocument is the on-disk/wire shape of a Document: trailing empty
// affiliation and ORCID slots are trimmed, and the ORCID-source list is
// packed into a comma-separated string.
type CompressedDocument struct {
	Bibcode       string
	Title         string
	Authors       []string
	Affiliations  []string
	Doctype       string
	Keywords      []string
	Publication   string
	PubDate       string
	CitationCount int
	ReadCount     int
	OrcidIDs      []string
	OrcidSrc      string
	CreatedAtUnix int64
	Version       int
}

// CurrentDocumentVersion is bumped whenever CompressedDocument's shape
// changes incompatibly; the cache façade deletes and misses records from an
// older version.
const CurrentDocumentVersion = 1

// Compress trims trailing empty affiliation/ORCID slots and packs the
// ORCID-source list, for compact storage.
func (d *Document) Compress() *CompressedDocument {
	affils := trimTrailingEmpty(d.Affiliations)
	orcids := trimTrailingEmpty(d.OrcidIDs)

	srcs := make([]string, len(d.OrcidSrcs))
	for i, s := range d.OrcidSrcs {
		srcs[i] = strconv.Itoa(int(s))
	}

	return &CompressedDocument{
		Bibcode:       d.Bibcode,
		Title:         d.Title,
		Authors:       append([]string(nil), d.Authors...),
		Affiliations:  affils,
		Doctype:       d.Doctype,
		Keywords:      append([]string(nil), d.Keywords...),
		Publication:   d.Publication,
		PubDate:       d.PubDate,
		CitationCount: d.CitationCount,
		ReadCount:     d.ReadCount,
		OrcidIDs:      orcids,
		OrcidSrc:      strings.Join(srcs, ","),
		CreatedAtUnix: d.CreatedAt.Unix(),
		Version:       CurrentDocumentVersion,
	}
}

// Decompress is Compress's inverse, padding affiliation/ORCID slots back out
// to len(Authors) with "" and OrcidNone.
func (c *CompressedDocument) Decompress() *Document {
	n := len(c.Authors)
	affils := padTo(c.Affiliations, n, "")
	orcids := padTo(c.OrcidIDs, n, "")

	var srcs []OrcidSource
	if c.OrcidSrc != "" {
		for _, tok := range strings.Split(c.OrcidSrc, ",") {
			v, _ := strconv.Atoi(tok)
			srcs = append(srcs, OrcidSource(v))
		}
	}
	for len(srcs) < n {
		srcs = append(srcs, OrcidNone)
	}

	return &Document{
		Bibcode:       c.Bibcode,
		Title:         c.Title,
		Authors:       append([]string(nil), c.Authors...),
		Affiliations:  affils,
		Doctype:       c.Doctype,
		Keywords:      append([]string(nil), c.Keywords...),
		Publication:   c.Publication,
		PubDate:       c.PubDate,
		CitationCount: c.CitationCount,
		ReadCount:     c.ReadCount,
		OrcidIDs:      orcids,
		OrcidSrcs:     srcs,
		CreatedAt:     time.Unix(c.CreatedAtUnix, 0).UTC(),
	}
}

func trimTrailingEmpty(s []string) []string {
	end := len(s)
	for end > 0 && s[end-1] == "" {
		end--
	}
	out := make([]string, end)
	copy(out, s[:end])
	return out
}

func padTo(s []string, n int, fill string) []string {
	out := make([]string, n)
	copy(out, s)
	for i := len(s); i < n; i++ {
		out[i] = fill
	}
	return out
}

// AuthorRecord is one author's aggregated publication history: the
// bibcodes they've authored, the name-strings they appear under
// (appears-as), and their coauthors.
type AuthorRecord struct {
	NameString string // the unmodified query name this record is filed under

	Bibcodes []string

	// AppearsAs maps a name-string under which this author appears on a
	// document to the sorted bibcodes using that form.
	AppearsAs map[string][]string

	// Coauthors maps a coauthor's name-string to the sorted bibcodes shared
	// with this author.
	Coauthors map[string][]string

	CreatedAt time.Time
}

// NewAuthorRecord returns an empty record for the given query name-string.
func NewAuthorRecord(nameString string) *AuthorRecord {
	return &AuthorRecord{
		NameString: nameString,
		AppearsAs:  make(map[string][]string),
		Coauthors:  make(map[string][]string),
		CreatedAt:  time.Now(),
	}
}

// Copy returns a deep copy.
func (a *AuthorRecord) Copy() *AuthorRecord {
	out := &AuthorRecord{
		NameString: a.NameString,
		Bibcodes:   append([]string(nil), a.Bibcodes...),
		AppearsAs:  make(map[string][]string, len(a.AppearsAs)),
		Coauthors:  make(map[string][]string, len(a.Coauthors)),
		CreatedAt:  a.CreatedAt,
	}
	for k, v := range a.AppearsAs {
		out.AppearsAs[k] = append([]string(nil), v...)
	}
	for k, v := range a.Coauthors {
		out.Coauthors[k] = append([]string(nil), v...)
	}
	return out
}

// AddBibcode records bc as one of this author's publications if not already
// present, preserving de-duplication.
func (a *AuthorRecord) AddBibcode(bc string) {
	for _, b := range a.Bibcodes {
		if b == bc {
			return
		}
	}
	a.Bibcodes = append(a.Bibcodes, bc)
}

// IndexFromDocuments rebuilds the AppearsAs and Coauthor indices from scratch
// given the full set of documents this record's bibcodes point to and a
// same-name predicate for deciding which author slot on each document is
// "this" author.
func (a *AuthorRecord) IndexFromDocuments(docs map[string]*Document, isSelf func(nameString string) bool) {
	a.AppearsAs = make(map[string][]string)
	a.Coauthors = make(map[string][]string)

	for _, bc := range a.Bibcodes {
		doc, ok := docs[bc]
		if !ok {
			continue
		}
		for _, authorName := range doc.Authors {
			if isSelf(authorName) {
				a.AppearsAs[authorName] = appendUnique(a.AppearsAs[authorName], bc)
			} else {
				a.Coauthors[authorName] = appendUnique(a.Coauthors[authorName], bc)
			}
		}
	}

	for k := range a.AppearsAs {
		sort.Strings(a.AppearsAs[k])
	}
	for k := range a.Coauthors {
		sort.Strings(a.Coauthors[k])
	}
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

// CompressedAuthorRecord is the on-disk shape of an AuthorRecord: posting
// lists are rewritten from bibcode strings to indices into a per-record
// bibcode table.
type CompressedAuthorRecord struct {
	NameString    string
	Bibcodes      []string
	AppearsAs     map[string]string // name -> comma-separated indices
	Coauthors     map[string]string
	CreatedAtUnix int64
	Version       int
}

const CurrentAuthorRecordVersion = 1

// Compress rewrites posting lists into index form against a's own bibcode
// list.
func (a *AuthorRecord) Compress() *CompressedAuthorRecord {
	index := make(map[string]int, len(a.Bibcodes))
	for i, bc := range a.Bibcodes {
		index[bc] = i
	}

	compressPosting := func(m map[string][]string) map[string]string {
		out := make(map[string]string, len(m))
		for name, bibcodes := range m {
			idxs := make([]string, 0, len(bibcodes))
			for _, bc := range bibcodes {
				if i, ok := index[bc]; ok {
					idxs = append(idxs, strconv.Itoa(i))
				}
			}
			out[name] = strings.Join(idxs, ",")
		}
		return out
	}

	return &CompressedAuthorRecord{
		NameString:    a.NameString,
		Bibcodes:      append([]string(nil), a.Bibcodes...),
		AppearsAs:     compressPosting(a.AppearsAs),
		Coauthors:     compressPosting(a.Coauthors),
		CreatedAtUnix: a.CreatedAt.Unix(),
		Version:       CurrentAuthorRecordVersion,
	}
}

// Decompress is Compress's inverse.
func (c *CompressedAuthorRecord) Decompress() *AuthorRecord {
	expandPosting := func(m map[string]string) map[string][]string {
		out := make(map[string][]string, len(m))
		for name, packed := range m {
			if packed == "" {
				out[name] = nil
				continue
			}
			toks := strings.Split(packed, ",")
			bibcodes := make([]string, 0, len(toks))
			for _, t := range toks {
				i, err := strconv.Atoi(t)
				if err != nil || i < 0 || i >= len(c.Bibcodes) {
					continue
				}
				bibcodes = append(bibcodes, c.Bibcodes[i])
			}
			out[name] = bibcodes
		}
		return out
	}

	return &AuthorRecord{
		NameString: c.NameString,
		Bibcodes:   append([]string(nil), c.Bibcodes...),
		AppearsAs:  expandPosting(c.AppearsAs),
		Coauthors:  expandPosting(c.Coauthors),
		CreatedAt:  time.Unix(c.CreatedAtUnix, 0).UTC(),
	}
}
