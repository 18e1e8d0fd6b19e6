package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/svank/appa-backend/internal/records"
)

// Facade is the in-process half of the two-layer cache design: it
// deflate-compresses records before handing them to a Backing, memoizes the
// decompressed form in memory, and delegates everything durable to the
// Backing. Safe for concurrent readers; the in-memory tables are guarded by
// mu, CacheDocuments/CacheAuthors write through the backing's batch scope,
// and single-record writes go to the backing directly.
type Facade struct {
	backing Backing

	maxAge     time.Duration
	maxAgeAuto time.Duration

	// byteBudget caps the combined size of the compressed blobs behind
	// loadedDocuments/loadedAuthors. Zero means unbounded. It only ever
	// evicts the in-memory copy; the backing record is untouched, so an
	// evicted entry is simply reloaded (and decompressed) on next use.
	byteBudget uint64

	mu              sync.RWMutex
	loadedDocuments map[string]*records.Document
	loadedAuthors   map[string]*records.AuthorRecord
	loadedAt        map[string]time.Time // keyed "doc:"+bibcode or "author:"+key
	loadedBytes     map[string]int       // same keys as loadedAt
	curBytes        uint64
}

// NewFacade wraps backing with in-process memoization. maxAge and
// maxAgeAuto mirror the MAX_AGE (full staleness) and
// MAX_AGE_AUTO (in-memory-only eviction on refresh, slightly shorter).
// byteBudget bounds the in-process memoization layer's size (sized by the
// caller from config.Config.CacheByteBudget); zero disables the budget.
func NewFacade(backing Backing, maxAge, maxAgeAuto time.Duration, byteBudget uint64) *Facade {
	return &Facade{
		backing:         backing,
		maxAge:          maxAge,
		maxAgeAuto:      maxAgeAuto,
		byteBudget:      byteBudget,
		loadedDocuments: make(map[string]*records.Document),
		loadedAuthors:   make(map[string]*records.AuthorRecord),
		loadedAt:        make(map[string]time.Time),
		loadedBytes:     make(map[string]int),
	}
}

// recordSizeLocked registers key as occupying n bytes of the memoization
// budget and evicts the entries with the oldest loadedAt time until curBytes
// is back under byteBudget. loadedAt is the time a record was cached through
// this facade, or the record's own CreatedAt when it was loaded from the
// backing; memory hits do not update it. Callers must hold f.mu.
func (f *Facade) recordSizeLocked(key string, n int) {
	if old, ok := f.loadedBytes[key]; ok {
		f.curBytes -= uint64(old)
	}
	f.loadedBytes[key] = n
	f.curBytes += uint64(n)

	if f.byteBudget == 0 {
		return
	}
	for f.curBytes > f.byteBudget {
		oldestKey, oldestAt := "", time.Time{}
		for k, at := range f.loadedAt {
			if oldestKey == "" || at.Before(oldestAt) {
				oldestKey, oldestAt = k, at
			}
		}
		if oldestKey == "" || oldestKey == key {
			return
		}
		f.evictMemoKeyLocked(oldestKey)
	}
}

// evictMemoKeyLocked drops key's in-memory copy without touching the
// backing. Callers must hold f.mu.
func (f *Facade) evictMemoKeyLocked(key string) {
	if n, ok := f.loadedBytes[key]; ok {
		f.curBytes -= uint64(n)
	}
	delete(f.loadedBytes, key)
	delete(f.loadedAt, key)
	if len(key) > 4 && key[:4] == "doc:" {
		delete(f.loadedDocuments, key[4:])
	} else if len(key) > 7 && key[:7] == "author:" {
		delete(f.loadedAuthors, key[7:])
	}
}

func docMemoKey(bibcode string) string { return "doc:" + bibcode }
func authorMemoKey(key string) string  { return "author:" + key }

// compressAndDeflate JSON-marshals a records.CompressedDocument or
// records.CompressedAuthorRecord and deflates the result, the wire form
// both StoreDocument and StoreAuthor persist.
func compressAndDeflate(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return DeflateCompress(data)
}

// CacheDocument compresses, deflates and persists doc, keeping the
// uncompressed form in memory.
func (f *Facade) CacheDocument(ctx context.Context, doc *records.Document) error {
	data, err := compressAndDeflate(doc.Compress())
	if err != nil {
		return err
	}
	if err := f.backing.StoreDocument(ctx, doc.Bibcode, data); err != nil {
		return err
	}
	f.mu.Lock()
	f.loadedDocuments[doc.Bibcode] = doc
	f.loadedAt[docMemoKey(doc.Bibcode)] = time.Now()
	f.recordSizeLocked(docMemoKey(doc.Bibcode), len(data))
	f.mu.Unlock()
	return nil
}

// CacheDocuments persists docs together through a single batch scope,
// buffering the compressed, deflated blobs and flushing them to the
// backing in one pass rather than one file write per record. Used after a
// multi-author prefetch query, which can return many documents at once.
func (f *Facade) CacheDocuments(ctx context.Context, docs []*records.Document) error {
	if len(docs) == 0 {
		return nil
	}
	batch := f.backing.Batch()
	sizes := make(map[string]int, len(docs))
	for _, doc := range docs {
		data, err := compressAndDeflate(doc.Compress())
		if err != nil {
			return err
		}
		if err := batch.StoreDocument(ctx, doc.Bibcode, data); err != nil {
			return err
		}
		sizes[doc.Bibcode] = len(data)
	}
	if err := batch.Commit(ctx); err != nil {
		return err
	}

	f.mu.Lock()
	now := time.Now()
	for _, doc := range docs {
		f.loadedDocuments[doc.Bibcode] = doc
		f.loadedAt[docMemoKey(doc.Bibcode)] = now
		f.recordSizeLocked(docMemoKey(doc.Bibcode), sizes[doc.Bibcode])
	}
	f.mu.Unlock()
	return nil
}

// LoadDocument returns doc from memory, or from the backing on a memory
// miss, deleting and returning CacheMiss if the stored record is stale or
// the wrong version.
func (f *Facade) LoadDocument(ctx context.Context, bibcode string) (*records.Document, error) {
	f.mu.RLock()
	doc, ok := f.loadedDocuments[bibcode]
	loadedAt, hasTime := f.loadedAt[docMemoKey(bibcode)]
	f.mu.RUnlock()
	if ok {
		if hasTime && time.Since(loadedAt) > f.maxAge {
			_ = f.DeleteDocument(ctx, bibcode)
			return nil, &CacheMiss{Key: bibcode}
		}
		return doc, nil
	}

	deflated, err := f.backing.LoadDocument(ctx, bibcode)
	if err != nil {
		return nil, err
	}
	data, err := DeflateDecompress(deflated)
	if err != nil {
		return nil, err
	}
	var compressed records.CompressedDocument
	if err := json.Unmarshal(data, &compressed); err != nil {
		return nil, err
	}
	if compressed.Version != records.CurrentDocumentVersion {
		_ = f.DeleteDocument(ctx, bibcode)
		return nil, &CacheMiss{Key: bibcode}
	}
	decompressed := compressed.Decompress()
	if time.Since(decompressed.CreatedAt) > f.maxAge {
		_ = f.DeleteDocument(ctx, bibcode)
		return nil, &CacheMiss{Key: bibcode}
	}

	f.mu.Lock()
	f.loadedDocuments[bibcode] = decompressed
	f.loadedAt[docMemoKey(bibcode)] = decompressed.CreatedAt
	f.recordSizeLocked(docMemoKey(bibcode), len(deflated))
	f.mu.Unlock()
	return decompressed, nil
}

// LoadDocuments is a best-effort bulk load; missing/stale keys are skipped
// rather than failing the whole batch. Callers must not assume the result
// is ordered the same as bibcodes, or the same length.
func (f *Facade) LoadDocuments(ctx context.Context, bibcodes []string) []*records.Document {
	out := make([]*records.Document, 0, len(bibcodes))
	for _, bc := range bibcodes {
		if d, err := f.LoadDocument(ctx, bc); err == nil {
			out = append(out, d)
		}
	}
	return out
}

// DeleteDocument removes doc from both layers.
func (f *Facade) DeleteDocument(ctx context.Context, bibcode string) error {
	f.mu.Lock()
	f.evictMemoKeyLocked(docMemoKey(bibcode))
	f.mu.Unlock()
	return f.backing.DeleteDocument(ctx, bibcode)
}

// CacheAuthor compresses, deflates and persists author under cacheKey (the
// author's unmodified query name-string).
func (f *Facade) CacheAuthor(ctx context.Context, cacheKey string, author *records.AuthorRecord) error {
	if err := ValidateKey(cacheKey); err != nil {
		return err
	}
	data, err := compressAndDeflate(author.Compress())
	if err != nil {
		return err
	}
	if err := f.backing.StoreAuthor(ctx, cacheKey, data); err != nil {
		return err
	}
	f.mu.Lock()
	f.loadedAuthors[cacheKey] = author
	f.loadedAt[authorMemoKey(cacheKey)] = time.Now()
	f.recordSizeLocked(authorMemoKey(cacheKey), len(data))
	f.mu.Unlock()
	return nil
}

// CacheAuthors mirrors CacheDocuments for author records, keyed by each
// record's own NameString, batching every write into a single flush. Used
// to persist the piggy-backed records a multi-author prefetch query
// returns alongside the one actually requested.
func (f *Facade) CacheAuthors(ctx context.Context, authors []*records.AuthorRecord) error {
	if len(authors) == 0 {
		return nil
	}
	batch := f.backing.Batch()
	sizes := make(map[string]int, len(authors))
	for _, a := range authors {
		if err := ValidateKey(a.NameString); err != nil {
			return err
		}
		data, err := compressAndDeflate(a.Compress())
		if err != nil {
			return err
		}
		if err := batch.StoreAuthor(ctx, a.NameString, data); err != nil {
			return err
		}
		sizes[a.NameString] = len(data)
	}
	if err := batch.Commit(ctx); err != nil {
		return err
	}

	f.mu.Lock()
	now := time.Now()
	for _, a := range authors {
		f.loadedAuthors[a.NameString] = a
		f.loadedAt[authorMemoKey(a.NameString)] = now
		f.recordSizeLocked(authorMemoKey(a.NameString), sizes[a.NameString])
	}
	f.mu.Unlock()
	return nil
}

// LoadAuthor mirrors LoadDocument's memory/backing/staleness logic.
func (f *Facade) LoadAuthor(ctx context.Context, cacheKey string) (*records.AuthorRecord, error) {
	if err := ValidateKey(cacheKey); err != nil {
		return nil, err
	}

	f.mu.RLock()
	author, ok := f.loadedAuthors[cacheKey]
	loadedAt, hasTime := f.loadedAt[authorMemoKey(cacheKey)]
	f.mu.RUnlock()
	if ok {
		if hasTime && time.Since(loadedAt) > f.maxAge {
			_ = f.DeleteAuthor(ctx, cacheKey)
			return nil, &CacheMiss{Key: cacheKey}
		}
		return author, nil
	}

	deflated, err := f.backing.LoadAuthor(ctx, cacheKey)
	if err != nil {
		return nil, err
	}
	data, err := DeflateDecompress(deflated)
	if err != nil {
		return nil, err
	}
	var compressed records.CompressedAuthorRecord
	if err := json.Unmarshal(data, &compressed); err != nil {
		return nil, err
	}
	if compressed.Version != records.CurrentAuthorRecordVersion {
		_ = f.DeleteAuthor(ctx, cacheKey)
		return nil, &CacheMiss{Key: cacheKey}
	}
	decompressed := compressed.Decompress()
	if time.Since(decompressed.CreatedAt) > f.maxAge {
		_ = f.DeleteAuthor(ctx, cacheKey)
		return nil, &CacheMiss{Key: cacheKey}
	}

	f.mu.Lock()
	f.loadedAuthors[cacheKey] = decompressed
	f.loadedAt[authorMemoKey(cacheKey)] = decompressed.CreatedAt
	f.recordSizeLocked(authorMemoKey(cacheKey), len(deflated))
	f.mu.Unlock()
	return decompressed, nil
}

// DeleteAuthor removes author from both layers.
func (f *Facade) DeleteAuthor(ctx context.Context, cacheKey string) error {
	f.mu.Lock()
	f.evictMemoKeyLocked(authorMemoKey(cacheKey))
	f.mu.Unlock()
	return f.backing.DeleteAuthor(ctx, cacheKey)
}

// AuthorIsInCache reports whether key is cached, in memory or in the
// backing store.
func (f *Facade) AuthorIsInCache(ctx context.Context, key string) bool {
	f.mu.RLock()
	_, ok := f.loadedAuthors[key]
	f.mu.RUnlock()
	if ok {
		return true
	}
	results, err := f.backing.AuthorsAreInCache(ctx, []string{key})
	return err == nil && len(results) == 1 && results[0]
}

// Refresh prunes in-memory entries older than maxAgeAuto, then delegates
// bulk staleness cleanup to the backing.
func (f *Facade) Refresh(ctx context.Context) error {
	f.mu.Lock()
	now := time.Now()
	var stale []string
	for key, at := range f.loadedAt {
		if now.Sub(at) > f.maxAgeAuto {
			stale = append(stale, key)
		}
	}
	for _, key := range stale {
		f.evictMemoKeyLocked(key)
	}
	f.mu.Unlock()

	return f.backing.ClearStaleData(ctx, true, true, false, false)
}

// StoreResult persists a rendered JSON result under key.
func (f *Facade) StoreResult(ctx context.Context, key string, data []byte) error {
	return f.backing.StoreResult(ctx, key, data)
}

// ResultIsInCache reports whether a result is already cached under key,
// without loading or validating its age.
func (f *Facade) ResultIsInCache(ctx context.Context, key string) bool {
	ok, err := f.backing.ResultIsInCache(ctx, key)
	return err == nil && ok
}

// StoreProgress publishes a progress snapshot under key. Progress is never
// memoized in-process: every write and read goes straight to the backing, so
// get_progress observes the same state find_route's goroutine just wrote.
func (f *Facade) StoreProgress(ctx context.Context, key string, data []byte) error {
	return f.backing.StoreProgress(ctx, key, data)
}

// LoadProgress loads a previously stored progress snapshot.
func (f *Facade) LoadProgress(ctx context.Context, key string) ([]byte, error) {
	return f.backing.LoadProgress(ctx, key)
}

// LoadResult loads a previously stored result. When storedAt is non-nil and
// reports a time older than ttl, the result is invalidated and LoadResult
// fails with CacheMiss; with a nil storedAt the result's age is not checked.
func (f *Facade) LoadResult(ctx context.Context, key string, ttl time.Duration, storedAt func([]byte) time.Time) ([]byte, error) {
	data, err := f.backing.LoadResult(ctx, key)
	if err != nil {
		return nil, err
	}
	if storedAt != nil && time.Since(storedAt(data)) > ttl {
		_ = f.backing.StoreResult(ctx, key, nil) // best-effort invalidate
		return nil, &CacheMiss{Key: key}
	}
	return data, nil
}
