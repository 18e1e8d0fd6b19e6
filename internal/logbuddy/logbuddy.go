// Package logbuddy is a stats-accumulating logger for one path-finding run:
// it counts ADS queries, documents, and authors as they happen, times the
// run, and periodically pushes a progress.Record snapshot so the
// get_progress HTTP endpoint has something fresh to read.
package logbuddy

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/gedex/inflector"

	"github.com/svank/appa-backend/internal/progress"
)

// PushFunc publishes a progress snapshot under key, e.g. to the result
// cache's progress store.
type PushFunc func(key string, snap progress.Record)

// Buddy is one run's logger and stats accumulator. Every method takes mu,
// so concurrent calls on one Buddy are safe; its stats cover a single
// path-finding request.
type Buddy struct {
	mu sync.Mutex

	progressKey     string
	lastCacheUpdate time.Time
	push            PushFunc

	nDocsLoaded      int
	nDocsRelevant    int
	nAuthorsQueried  int
	nDocsQueried     int
	nNetworkQueries  int
	nAuthorsFromADS  int
	nCoauthorsSeen   int

	distance     int
	nConnections int

	timeWaitingNetwork  []time.Duration
	timeWaitingAuthor   time.Duration
	timeWaitingDoc      time.Duration
	timeStoringToCache  time.Duration
	timePreparingResult time.Duration

	startTime time.Time
	stopTime  time.Time
	complete  bool
}

// debounceInterval matches the "at most every 250 ms" progress
// cache write cadence.
const debounceInterval = 250 * time.Millisecond

// New returns a fresh Buddy. push may be nil, in which case progress
// snapshots are computed but not published anywhere (useful in tests).
func New(push PushFunc) *Buddy {
	return &Buddy{distance: -1, nConnections: -1, push: push}
}

// SetProgressKey assigns the key snapshots are published under and forces an
// immediate publish.
func (b *Buddy) SetProgressKey(key string) {
	b.mu.Lock()
	b.progressKey = key
	b.mu.Unlock()
	b.updateProgressCache(true)
}

// Snapshot returns the current stats snapshot directly, for assembling the
// result JSON's stats object once a run has finished.
func (b *Buddy) Snapshot() progress.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Buddy) snapshotLocked() progress.Record {
	return progress.Record{
		NADSQueries:         b.nNetworkQueries,
		NAuthorsQueried:     b.nAuthorsQueried,
		NDocsQueried:        b.nDocsQueried,
		NDocsRelevant:       b.nDocsRelevant,
		NDocsLoaded:         b.nDocsLoaded,
		PathFindingComplete: b.complete,
	}.Snapshot()
}

func (b *Buddy) updateProgressCache(force bool) {
	b.mu.Lock()
	key := b.progressKey
	if key == "" {
		b.mu.Unlock()
		return
	}
	now := time.Now()
	if !force && now.Sub(b.lastCacheUpdate) < debounceInterval {
		b.mu.Unlock()
		return
	}
	b.lastCacheUpdate = now
	snap := b.snapshotLocked()
	push := b.push
	b.mu.Unlock()

	if push != nil {
		push(key, snap)
	}
}

// OnDocQueried records n more documents queried against ADS.
func (b *Buddy) OnDocQueried(n int) {
	b.mu.Lock()
	b.nDocsQueried += n
	b.mu.Unlock()
	b.updateProgressCache(false)
}

// OnDocLoaded records n more documents loaded (cache or ADS).
func (b *Buddy) OnDocLoaded(n int) {
	b.mu.Lock()
	b.nDocsLoaded += n
	b.mu.Unlock()
	b.updateProgressCache(false)
}

// SetNDocsRelevant records the final relevant-document count for this run.
func (b *Buddy) SetNDocsRelevant(n int) {
	b.mu.Lock()
	b.nDocsRelevant = n
	b.mu.Unlock()
	b.updateProgressCache(false)
}

// OnAuthorQueried records n more authors queried.
func (b *Buddy) OnAuthorQueried(n int) {
	b.mu.Lock()
	b.nAuthorsQueried += n
	b.mu.Unlock()
	b.updateProgressCache(false)
}

// OnCoauthorSeen records n more coauthor name-strings encountered.
func (b *Buddy) OnCoauthorSeen(n int) {
	b.mu.Lock()
	b.nCoauthorsSeen += n
	b.mu.Unlock()
}

// OnNetworkComplete records one ADS round trip of the given duration.
func (b *Buddy) OnNetworkComplete(d time.Duration) {
	b.mu.Lock()
	b.nNetworkQueries++
	b.timeWaitingNetwork = append(b.timeWaitingNetwork, d)
	b.mu.Unlock()
	b.updateProgressCache(false)
}

// OnAuthorQueriedFromADS records n authors that required a live ADS query
// (as opposed to a cache hit).
func (b *Buddy) OnAuthorQueriedFromADS(n int) {
	b.mu.Lock()
	b.nAuthorsFromADS += n
	b.mu.Unlock()
}

// OnAuthorLoadTimed adds d to the cumulative time spent loading authors from
// cache.
func (b *Buddy) OnAuthorLoadTimed(d time.Duration) {
	b.mu.Lock()
	b.timeWaitingAuthor += d
	b.mu.Unlock()
}

// OnDocLoadTimed adds d to the cumulative time spent loading documents from
// cache.
func (b *Buddy) OnDocLoadTimed(d time.Duration) {
	b.mu.Lock()
	b.timeWaitingDoc += d
	b.mu.Unlock()
}

// OnCacheStoreTimed adds d to the cumulative time spent writing to cache.
func (b *Buddy) OnCacheStoreTimed(d time.Duration) {
	b.mu.Lock()
	b.timeStoringToCache += d
	b.mu.Unlock()
}

// OnStartPathFinding marks the start of the BFS phase.
func (b *Buddy) OnStartPathFinding() {
	b.mu.Lock()
	b.startTime = time.Now()
	b.mu.Unlock()
	b.updateProgressCache(false)
}

// OnStopPathFinding marks the BFS phase complete.
func (b *Buddy) OnStopPathFinding() {
	b.mu.Lock()
	b.stopTime = time.Now()
	b.complete = true
	b.mu.Unlock()
	b.updateProgressCache(true)
}

// OnResultPrepared records how long ranking and JSON assembly took.
func (b *Buddy) OnResultPrepared(d time.Duration) {
	b.mu.Lock()
	b.timePreparingResult = d
	b.mu.Unlock()
}

// SetDistance records the final shortest-path distance found, or -1.
func (b *Buddy) SetDistance(d int) {
	b.mu.Lock()
	b.distance = d
	b.mu.Unlock()
}

// SetNConnections records how many connecting nodes the BFS found.
func (b *Buddy) SetNConnections(n int) {
	b.mu.Lock()
	b.nConnections = n
	b.mu.Unlock()
}

// SearchTime returns the BFS phase's wall-clock duration, or -1 if it hasn't
// completed.
func (b *Buddy) SearchTime() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.startTime.IsZero() || b.stopTime.IsZero() {
		return -1
	}
	return b.stopTime.Sub(b.startTime)
}

// LogStats writes a human-readable summary of the run to stdout, colorized
// and with pluralized nouns.
func (b *Buddy) LogStats() {
	b.mu.Lock()
	defer b.mu.Unlock()

	info := color.New(color.FgCyan).SprintFunc()
	fmt.Printf("%s\n", info(fmt.Sprintf(
		"%d connections found w/ distance %d", b.nConnections, b.distance)))

	docsWord := inflector.Pluralize("doc")
	if b.nDocsQueried == 1 {
		docsWord = inflector.Singularize(docsWord)
	}
	authorsWord := inflector.Pluralize("author")
	if b.nAuthorsQueried == 1 {
		authorsWord = inflector.Singularize(authorsWord)
	}
	fmt.Printf("%d %s and %d %s queried\n", b.nDocsQueried, docsWord, b.nAuthorsQueried, authorsWord)

	coauthorWord := inflector.Pluralize("coauthor name")
	fmt.Printf("%d %s seen\n", b.nCoauthorsSeen, coauthorWord)

	if b.nDocsRelevant >= 0 {
		fmt.Printf("%d %s returned\n", b.nDocsRelevant, inflector.Pluralize("doc"))
	}

	if len(b.timeWaitingNetwork) == 0 {
		fmt.Println("0 network queries")
		return
	}

	sorted := append([]time.Duration(nil), b.timeWaitingNetwork...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	minD, maxD := sorted[0], sorted[len(sorted)-1]
	medD := median(sorted)
	warn := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s\n", warn(fmt.Sprintf(
		"%d network queries: min %s, median %s, max %s",
		len(sorted), minD, medD, maxD)))
}

func median(sorted []time.Duration) time.Duration {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	lo, hi := sorted[n/2-1], sorted[n/2]
	return time.Duration(math.Round(float64(lo+hi) / 2))
}
