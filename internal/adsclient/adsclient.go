// Package adsclient is an HTTP client for the ADS (Astrophysics Data
// System) search API, with the prefetch-batching behavior the pathfinder
// relies on to amortize one network round trip across many queued author
// names.
package adsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	name "github.com/svank/appa-backend/internal/name"
	"github.com/svank/appa-backend/internal/records"
)

// requestedFields are the ADS document fields the client asks for.
var requestedFields = []string{
	"bibcode", "title", "author", "aff", "doctype", "keyword", "pub", "date",
	"citation_count", "read_count", "orcid_pub", "orcid_user", "orcid_other",
}

var allowedDoctypes = []string{"article", "eprint", "inbook", "book", "software"}

// MaximumResponseSize and EstimatedDocumentsPerAuthor set the prefetch batch
// size.3: floor(2000/300) - 1 = 5.
const (
	MaximumResponseSize         = 2000
	EstimatedDocumentsPerAuthor = 300
)

// BatchSize is the number of additional (prefetched) names that may ride
// along with a single requested author.
func BatchSize() int {
	n := MaximumResponseSize/EstimatedDocumentsPerAuthor - 1
	if n < 0 {
		return 0
	}
	return n
}

// ADSError is raised when the ADS response body itself describes an error.
type ADSError struct {
	Key     string
	Message string
}

func (e *ADSError) Error() string { return fmt.Sprintf("ADS error (%s): %s", e.Key, e.Message) }

// ADSRateLimitError is raised when the response headers indicate the rate
// limit has been exhausted.
type ADSRateLimitError struct {
	Limit     string
	ResetTime string
}

func (e *ADSRateLimitError) Error() string {
	return fmt.Sprintf("ADS rate limit %s exhausted, resets at %s", e.Limit, e.ResetTime)
}

// NetworkTimer is notified of each completed ADS round trip, for
// logbuddy-style stats accumulation.
type NetworkTimer interface {
	OnNetworkComplete(time.Duration)
	OnAuthorQueriedFromADS(n int)
}

// Client queries the ADS search API, coalescing queued author names from
// its prefetch queue into OR-queries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	space      *name.Space
	timer      NetworkTimer

	mu            sync.Mutex
	prefetchQueue []string
	prefetchSet   map[string]bool
}

// New returns a client against baseURL, authenticating with token, parsing
// names through space. timer may be nil.
func New(baseURL, token string, space *name.Space, timer NetworkTimer) *Client {
	return &Client{
		httpClient:  &http.Client{},
		baseURL:     baseURL,
		token:       token,
		space:       space,
		timer:       timer,
		prefetchSet: make(map[string]bool),
	}
}

// AddAuthorsToPrefetchQueue enqueues names to piggy-back onto a future
// query rather than issuing a dedicated request for each one.
func (c *Client) AddAuthorsToPrefetchQueue(names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range names {
		if c.prefetchSet[n] {
			continue
		}
		c.prefetchSet[n] = true
		c.prefetchQueue = append(c.prefetchQueue, n)
	}
}

func (c *Client) selectAuthorsToPrefetch() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := BatchSize()
	if n > len(c.prefetchQueue) {
		n = len(c.prefetchQueue)
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		v := c.prefetchQueue[0]
		c.prefetchQueue = c.prefetchQueue[1:]
		delete(c.prefetchSet, v)
		out = append(out, v)
	}
	return out
}

func (c *Client) authHeader() string { return "Bearer " + c.token }

// GetDocument fetches a single publication by bibcode.
func (c *Client) GetDocument(ctx context.Context, bibcode string) (*records.Document, error) {
	params := url.Values{}
	params.Set("q", "bibcode:"+bibcode)
	params.Set("fl", strings.Join(requestedFields, ","))

	body, _, err := c.doRequest(ctx, params, 1)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("adsclient: decoding response: %w", err)
	}
	if parsed.Error != nil {
		return nil, &ADSError{Key: "ads_error", Message: parsed.Error.Msg}
	}
	if len(parsed.Response.Docs) == 0 {
		return nil, fmt.Errorf("adsclient: no document found for bibcode %s", bibcode)
	}
	doc, _ := c.articleToDocument(parsed.Response.Docs[0])
	return doc, nil
}

// GetPapersForOrcidID fetches every document carrying orcidID and builds an
// AuthorRecord for it, resolving the author's display name to the
// most-detailed form actually observed on those documents.
func (c *Client) GetPapersForOrcidID(ctx context.Context, orcidID string) (*records.AuthorRecord, []*records.Document, error) {
	orcidID = NormalizeOrcidID(orcidID)
	query := fmt.Sprintf("orcid:(%s)", orcidID)

	docs, err := c.queryForAuthor(ctx, query, 1)
	if err != nil {
		return nil, nil, err
	}

	ar := records.NewAuthorRecord(orcidID)
	seen := map[string]*name.Name{}
	for _, doc := range docs {
		idx := indexOf(doc.OrcidIDs, orcidID)
		if idx < 0 {
			continue
		}
		ar.AddBibcode(doc.Bibcode)
		authorName := doc.Authors[idx]
		if _, err := c.space.Parse(authorName); err == nil {
			seen[authorName] = nil
		}
	}

	if len(seen) > 0 {
		best := ""
		bestDetail, bestLen := -1, -1
		for raw := range seen {
			n, err := c.space.Parse(raw)
			if err != nil {
				continue
			}
			d, l := n.LevelOfDetail(), len(n.FullName())
			if d > bestDetail || (d == bestDetail && l > bestLen) {
				best, bestDetail, bestLen = raw, d, l
			}
		}
		if best != "" {
			ar.NameString = best
		}
	}

	return ar, docs, nil
}

// GetPapersForAuthor fetches every document by queryAuthor, piggy-backing
// queued prefetch names into the same request, and returns the requested
// author's own record, every non-empty record built for a piggy-backed
// name, and every document retrieved.
func (c *Client) GetPapersForAuthor(ctx context.Context, queryAuthor string) (*records.AuthorRecord, []*records.AuthorRecord, []*records.Document, error) {
	queryName, err := c.space.Parse(queryAuthor)
	if err != nil {
		return nil, nil, nil, err
	}

	prefetchRaw := c.selectAuthorsToPrefetch()
	queryAuthors := []*name.Name{queryName}
	seenSelf := false
	for _, raw := range prefetchRaw {
		n, err := c.space.Parse(raw)
		if err != nil {
			continue
		}
		if n == queryName {
			seenSelf = true
		}
		queryAuthors = append(queryAuthors, n)
	}
	if seenSelf {
		// Avoid double-counting the requested author if it was also queued.
		filtered := queryAuthors[:0]
		added := false
		for _, n := range queryAuthors {
			if n == queryName {
				if added {
					continue
				}
				added = true
			}
			filtered = append(filtered, n)
		}
		queryAuthors = filtered
	}

	var parts []string
	for _, a := range queryAuthors {
		part := `"` + a.FullName() + `"`
		if a.RequireExactMatch() {
			part = "=" + part
		}
		parts = append(parts, part)
	}
	query := fmt.Sprintf("author:(%s)", strings.Join(parts, " OR "))

	docs, err := c.queryForAuthor(ctx, query, len(queryAuthors))
	if err != nil {
		return nil, nil, nil, err
	}

	dict := name.NewDict[*records.AuthorRecord]()
	for _, a := range queryAuthors {
		dict.Set(a, records.NewAuthorRecord(a.OriginalName()))
	}

	for _, doc := range docs {
		for _, authorRaw := range doc.Authors {
			n, err := c.space.Parse(authorRaw)
			if err != nil {
				continue
			}
			if rec, ok := dict.Get(n); ok {
				rec.AddBibcode(doc.Bibcode)
			}
		}
	}

	rec, _ := dict.Get(queryName)

	piggybacked := make([]*records.AuthorRecord, 0, len(queryAuthors))
	for _, a := range queryAuthors {
		if a == queryName {
			continue
		}
		if r, ok := dict.Get(a); ok && len(r.Bibcodes) > 0 {
			piggybacked = append(piggybacked, r)
		}
	}

	return rec, piggybacked, docs, nil
}

func (c *Client) queryForAuthor(ctx context.Context, query string, nAuthors int) ([]*records.Document, error) {
	params := url.Values{}
	params.Set("q", query)
	doctypeFilter := make([]string, len(allowedDoctypes))
	for i, dt := range allowedDoctypes {
		doctypeFilter[i] = "doctype:" + dt
	}
	params["fq"] = []string{strings.Join(doctypeFilter, " OR "), "database:astronomy"}
	params.Set("start", "0")
	params.Set("rows", strconv.Itoa(MaximumResponseSize))
	params.Set("fl", strings.Join(requestedFields, ","))
	params.Set("sort", "date+asc")

	if c.timer != nil {
		c.timer.OnAuthorQueriedFromADS(nAuthors)
	}
	return c.doQueryForAuthorPaged(ctx, params, nAuthors)
}

func (c *Client) doQueryForAuthorPaged(ctx context.Context, params url.Values, nAuthors int) ([]*records.Document, error) {
	body, _, err := c.doRequest(ctx, params, nAuthors)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("adsclient: decoding response: %w", err)
	}
	if parsed.Error != nil {
		return nil, &ADSError{Key: "ads_error", Message: parsed.Error.Msg}
	}

	docs := make([]*records.Document, 0, len(parsed.Response.Docs))
	for _, art := range parsed.Response.Docs {
		doc, ok := c.articleToDocument(art)
		if ok {
			docs = append(docs, doc)
		}
	}

	start, _ := strconv.Atoi(params.Get("start"))
	if parsed.Response.NumFound > len(docs)+start {
		params.Set("start", strconv.Itoa(start+len(docs)))
		more, err := c.doQueryForAuthorPaged(ctx, params, nAuthors)
		if err != nil {
			return nil, err
		}
		docs = append(docs, more...)
	}
	return docs, nil
}

// doRequest issues the HTTP GET, times it via the NetworkTimer, and checks
// for rate-limit exhaustion.
func (c *Client) doRequest(ctx context.Context, params url.Values, nAuthors int) ([]byte, http.Header, error) {
	u := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", c.authHeader())

	connectTimeout := 6 * time.Second
	readTimeout := time.Duration(6*nAuthors) * time.Second
	httpClient := &http.Client{Timeout: connectTimeout + readTimeout}

	start := time.Now()
	resp, err := httpClient.Do(req)
	elapsed := time.Since(start)
	if c.timer != nil {
		c.timer.OnNetworkComplete(elapsed)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("adsclient: request failed: %w", err)
	}
	defer resp.Body.Close()

	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		if n, err := strconv.Atoi(remaining); err == nil && n <= 1 {
			reset := resp.Header.Get("X-RateLimit-Reset")
			resetTime := reset
			if secs, err := strconv.ParseInt(reset, 10, 64); err == nil {
				resetTime = time.Unix(secs, 0).UTC().Format("2006-01-02 15:04:05 UTC")
			}
			return nil, nil, &ADSRateLimitError{
				Limit:     resp.Header.Get("X-RateLimit-Limit"),
				ResetTime: resetTime,
			}
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("adsclient: reading body: %w", err)
	}
	return body, resp.Header, nil
}

type searchResponse struct {
	Response struct {
		NumFound int       `json:"numFound"`
		Docs     []article `json:"docs"`
	} `json:"response"`
	Error *struct {
		Msg string `json:"msg"`
	} `json:"error,omitempty"`
}

type article struct {
	Bibcode       string   `json:"bibcode"`
	Title         []string `json:"title"`
	Author        []string `json:"author"`
	Aff           []string `json:"aff"`
	Doctype       string   `json:"doctype"`
	Keyword       []string `json:"keyword"`
	Pub           string   `json:"pub"`
	Date          string   `json:"date"`
	CitationCount int      `json:"citation_count"`
	ReadCount     int      `json:"read_count"`
	OrcidPub      []string `json:"orcid_pub"`
	OrcidUser     []string `json:"orcid_user"`
	OrcidOther    []string `json:"orcid_other"`
}

// articleToDocument converts one ADS search hit into a Document, resolving
// ORCID priority, unescaping HTML entities, and filtering invalid author
// names in-place.
func (c *Client) articleToDocument(a article) (*records.Document, bool) {
	n := len(a.Author)
	orcidPub := padOrcid(a.OrcidPub, n)
	orcidUser := padOrcid(a.OrcidUser, n)
	orcidOther := padOrcid(a.OrcidOther, n)

	orcidIDs := make([]string, n)
	orcidSrcs := make([]records.OrcidSource, n)
	for i := 0; i < n; i++ {
		switch {
		case orcidPub[i] != "" && IsOrcidID(orcidPub[i]):
			orcidIDs[i] = NormalizeOrcidID(orcidPub[i])
			orcidSrcs[i] = records.OrcidPub
		case orcidUser[i] != "" && IsOrcidID(orcidUser[i]):
			orcidIDs[i] = NormalizeOrcidID(orcidUser[i])
			orcidSrcs[i] = records.OrcidUser
		case orcidOther[i] != "" && IsOrcidID(orcidOther[i]):
			orcidIDs[i] = NormalizeOrcidID(orcidOther[i])
			orcidSrcs[i] = records.OrcidOther
		default:
			orcidIDs[i] = ""
			orcidSrcs[i] = records.OrcidNone
		}
	}

	affils := make([]string, n)
	for i := 0; i < n; i++ {
		if i < len(a.Aff) && a.Aff[i] != "-" {
			affils[i] = html.UnescapeString(a.Aff[i])
		}
	}

	authors := make([]string, n)
	for i, au := range a.Author {
		authors[i] = html.UnescapeString(au)
	}

	title := "[No title given]"
	if len(a.Title) > 0 {
		title = html.UnescapeString(a.Title[0])
	}
	pub := a.Pub
	if pub == "" {
		pub = "[Publication not given]"
	}
	keywords := make([]string, len(a.Keyword))
	for i, k := range a.Keyword {
		keywords[i] = html.UnescapeString(k)
	}

	doc := &records.Document{
		Bibcode:       a.Bibcode,
		Title:         title,
		Authors:       authors,
		Affiliations:  affils,
		Doctype:       a.Doctype,
		Keywords:      keywords,
		Publication:   pub,
		PubDate:       a.Date,
		CitationCount: a.CitationCount,
		ReadCount:     a.ReadCount,
		OrcidIDs:      orcidIDs,
		OrcidSrcs:     orcidSrcs,
		CreatedAt:     time.Now(),
	}

	// Remove authors whose names don't parse, or parse to a non-name
	// placeholder.
	var badIndices []int
	for i, au := range doc.Authors {
		n, err := c.space.Parse(au)
		if err != nil {
			badIndices = append(badIndices, i)
			continue
		}
		if n.FullName() == "et al" || n.FullName() == "anonymous" {
			badIndices = append(badIndices, i)
		}
	}
	for i := len(badIndices) - 1; i >= 0; i-- {
		doc.DeleteAuthor(badIndices[i])
	}

	return doc, true
}

func padOrcid(list []string, n int) []string {
	out := make([]string, n)
	for i := 0; i < n && i < len(list); i++ {
		if list[i] == "-" {
			out[i] = ""
		} else {
			out[i] = list[i]
		}
	}
	return out
}

func indexOf(list []string, v string) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}

var bibcodeYearRe = regexp.MustCompile(`^\d{4}`)

// IsBibcode reports whether value has the 19-character ADS bibcode shape
// (first four characters are a year).
func IsBibcode(value string) bool {
	return len(value) == 19 && bibcodeYearRe.MatchString(value)
}

var orcidDigitsRe = regexp.MustCompile(`^\d+$`)

// IsOrcidID reports whether value is a syntactically valid ORCID
// identifier, with or without hyphens, per the ISO 7064 mod-11-2 checksum.
func IsOrcidID(value string) bool {
	value = strings.TrimSpace(value)
	if len(value) == 19 {
		if value[4] != '-' || value[9] != '-' || value[14] != '-' {
			return false
		}
		value = strings.ReplaceAll(value, "-", "")
	}
	if len(value) != 16 {
		return false
	}
	checkChar := value[15]
	digits := value[:15]
	if !orcidDigitsRe.MatchString(digits) {
		return false
	}
	if !(checkChar == 'X' || checkChar == 'x' || (checkChar >= '0' && checkChar <= '9')) {
		return false
	}

	total := 0
	for _, r := range digits {
		total = (total + int(r-'0')) * 2
	}
	remainder := total % 11
	result := (12 - remainder) % 11
	expected := byte('0' + result)
	if result == 10 {
		expected = 'X'
	}
	return checkChar == expected || (checkChar >= 'a' && checkChar-32 == expected)
}

// NormalizeOrcidID inserts hyphens into a bare 16-character ORCID id and
// uppercases a trailing 'x' checksum character.
func NormalizeOrcidID(value string) string {
	value = strings.TrimSpace(value)
	value = strings.ReplaceAll(value, "-", "")
	if len(value) != 16 {
		return value
	}
	if value[15] == 'x' {
		value = value[:15] + "X"
	}
	return fmt.Sprintf("%s-%s-%s-%s", value[0:4], value[4:8], value[8:12], value[12:16])
}
