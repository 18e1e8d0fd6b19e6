// Package repository orchestrates the cache facade and the ADS client: it
// is the only component that knows when to trust a cached record, when to
// derive one from a broader cached record, and when to fall through to a
// live ADS query.
package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/svank/appa-backend/internal/adsclient"
	"github.com/svank/appa-backend/internal/cache"
	"github.com/svank/appa-backend/internal/logbuddy"
	"github.com/svank/appa-backend/internal/name"
	"github.com/svank/appa-backend/internal/records"
)

// ADSClient is the subset of adsclient.Client the repository depends on,
// so tests can substitute a fake.
type ADSClient interface {
	GetDocument(ctx context.Context, bibcode string) (*records.Document, error)
	GetPapersForAuthor(ctx context.Context, queryAuthor string) (*records.AuthorRecord, []*records.AuthorRecord, []*records.Document, error)
	GetPapersForOrcidID(ctx context.Context, orcidID string) (*records.AuthorRecord, []*records.Document, error)
	AddAuthorsToPrefetchQueue(names ...string)
}

// Repository is the cache/ADS orchestration layer: every author/document
// lookup checks the cache facade first and falls through to the ADS client
// on a miss. A Repository is safe for concurrent readers; it should own its
// own ADSClient when running concurrently with other Repository instances.
type Repository struct {
	facade         *cache.Facade
	ads            ADSClient
	space          *name.Space
	log            *logbuddy.Buddy
	workerPoolSize int
}

// New returns a Repository over facade and ads. log may be nil.
// workerPoolSize bounds the goroutines used to warm multiple piggy-backed
// authors' coauthor/alias indices concurrently after a multi-author ADS
// query; values below 1 are treated as 1.
func New(facade *cache.Facade, ads ADSClient, space *name.Space, log *logbuddy.Buddy, workerPoolSize int) *Repository {
	if workerPoolSize < 1 {
		workerPoolSize = 1
	}
	return &Repository{facade: facade, ads: ads, space: space, log: log, workerPoolSize: workerPoolSize}
}

// Refresh refreshes the shared facade (see cache.Facade.Refresh). Callers
// sharing one facade across Repositories need to refresh it only once;
// cmd/appaserver does so at startup and never calls this per request.
func (r *Repository) Refresh(ctx context.Context) error {
	return r.facade.Refresh(ctx)
}

// GetAuthorRecord returns the AuthorRecord for author, trying the cache,
// then derivation from a cached broader record, then a live ADS query.
func (r *Repository) GetAuthorRecord(ctx context.Context, author *name.Name) (*records.AuthorRecord, error) {
	cacheKey := author.OriginalName()
	rec, err := r.facade.LoadAuthor(ctx, cacheKey)
	if err == nil {
		r.onAuthorLoaded(rec)
		return rec, nil
	}
	var miss *cache.CacheMiss
	if !errors.As(err, &miss) {
		return nil, err
	}

	if derived, derr := r.tryGeneratingAuthorRecord(ctx, author); derr == nil && derived != nil {
		r.onAuthorLoaded(derived)
		return derived, nil
	}

	fetched, piggybacked, docs, ferr := r.ads.GetPapersForAuthor(ctx, author.OriginalName())
	if ferr != nil {
		return nil, ferr
	}
	if err := r.facade.CacheDocuments(ctx, docs); err != nil {
		return nil, err
	}

	r.warmPiggybacked(piggybacked)
	toCache := piggybacked
	if fetched != nil {
		r.fillInCoauthors(fetched, author)
		if len(fetched.Bibcodes) > 0 {
			toCache = append(toCache, fetched)
		}
	}
	if err := r.facade.CacheAuthors(ctx, toCache); err != nil {
		return nil, err
	}

	r.onAuthorLoaded(fetched)
	return fetched, nil
}

// GetAuthorRecordByOrcidID mirrors GetAuthorRecord, for an ORCID-identified
// author.
func (r *Repository) GetAuthorRecordByOrcidID(ctx context.Context, orcidID string) (*records.AuthorRecord, error) {
	rec, err := r.facade.LoadAuthor(ctx, orcidID)
	if err == nil {
		r.onAuthorLoaded(rec)
		return rec, nil
	}
	var miss *cache.CacheMiss
	if !errors.As(err, &miss) {
		return nil, err
	}

	fetched, docs, ferr := r.ads.GetPapersForOrcidID(ctx, orcidID)
	if ferr != nil {
		return nil, ferr
	}
	if err := r.facade.CacheDocuments(ctx, docs); err != nil {
		return nil, err
	}

	self, perr := r.space.Parse(fetched.NameString)
	if perr == nil {
		r.fillInCoauthors(fetched, self)
	}
	if len(fetched.Bibcodes) > 0 {
		if err := r.facade.CacheAuthor(ctx, orcidID, fetched); err != nil {
			return nil, err
		}
	}

	r.onAuthorLoaded(fetched)
	return fetched, nil
}

// GetDocument returns a Document by bibcode, via cache or ADS.
func (r *Repository) GetDocument(ctx context.Context, bibcode string) (*records.Document, error) {
	doc, err := r.facade.LoadDocument(ctx, bibcode)
	if err == nil {
		return doc, nil
	}
	var miss *cache.CacheMiss
	if !errors.As(err, &miss) {
		return nil, err
	}

	doc, err = r.ads.GetDocument(ctx, bibcode)
	if err != nil {
		return nil, err
	}
	if err := r.facade.CacheDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// NotifyOfUpcomingAuthorRequest filters out names already cached or
// derivable, and enqueues the rest into the ADS client's prefetch queue.
func (r *Repository) NotifyOfUpcomingAuthorRequest(ctx context.Context, authors ...*name.Name) {
	var toQueue []string
	for _, a := range authors {
		if r.facade.AuthorIsInCache(ctx, a.OriginalName()) {
			continue
		}
		if r.canGenerateFromCache(ctx, a) {
			continue
		}
		toQueue = append(toQueue, a.OriginalName())
	}
	if len(toQueue) > 0 {
		r.ads.AddAuthorsToPrefetchQueue(toQueue...)
	}
}

// NotifyOfUpcomingDocumentRequest bulk-warms the document cache; misses are
// not an error.
func (r *Repository) NotifyOfUpcomingDocumentRequest(ctx context.Context, bibcodes ...string) {
	r.facade.LoadDocuments(ctx, bibcodes)
}

func (r *Repository) canGenerateFromCache(ctx context.Context, author *name.Name) bool {
	if !(author.RequireExactMatch() || author.RequireMoreSpecific() || author.RequireLessSpecific()) {
		return false
	}
	return r.facade.AuthorIsInCache(ctx, author.FullName())
}

// tryGeneratingAuthorRecord derives a modifier-qualified name's record from
// an already-cached unmodified record when possible, avoiding an ADS query.
func (r *Repository) tryGeneratingAuthorRecord(ctx context.Context, author *name.Name) (*records.AuthorRecord, error) {
	if !(author.RequireExactMatch() || author.RequireMoreSpecific() || author.RequireLessSpecific()) {
		return nil, nil
	}

	broad, err := r.facade.LoadAuthor(ctx, author.FullName())
	if err != nil {
		return nil, nil
	}

	docs := r.facade.LoadDocuments(ctx, broad.Bibcodes)
	if len(docs) != len(broad.Bibcodes) {
		return nil, nil
	}

	derived := records.NewAuthorRecord(author.OriginalName())
	for _, doc := range docs {
		for _, coauthorRaw := range doc.Authors {
			n, perr := r.space.Parse(coauthorRaw)
			if perr != nil {
				continue
			}
			if n.Equal(author) {
				derived.AddBibcode(doc.Bibcode)
				break
			}
		}
	}

	r.fillInCoauthors(derived, author)
	if err := r.facade.CacheAuthor(ctx, derived.NameString, derived); err != nil {
		return nil, err
	}
	return derived, nil
}

// warmPiggybacked fills in the coauthor/alias indices for every piggy-backed
// author record concurrently, bounded by workerPoolSize, since each record's
// indices are independent and the shared facade only needs read access.
func (r *Repository) warmPiggybacked(piggybacked []*records.AuthorRecord) {
	if len(piggybacked) == 0 {
		return
	}
	sem := make(chan struct{}, r.workerPoolSize)
	var wg sync.WaitGroup
	for _, p := range piggybacked {
		p := p
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if pn, perr := r.space.Parse(p.NameString); perr == nil {
				r.fillInCoauthors(p, pn)
			}
		}()
	}
	wg.Wait()
}

// fillInCoauthors rebuilds rec's appears-as/coauthor indices from its
// currently cached documents.
func (r *Repository) fillInCoauthors(rec *records.AuthorRecord, self *name.Name) {
	ctx := context.Background()
	docs := r.facade.LoadDocuments(ctx, rec.Bibcodes)
	docsByBibcode := make(map[string]*records.Document, len(docs))
	for _, d := range docs {
		docsByBibcode[d.Bibcode] = d
	}
	rec.IndexFromDocuments(docsByBibcode, func(nameString string) bool {
		n, err := r.space.Parse(nameString)
		return err == nil && n.Equal(self)
	})
}

func (r *Repository) onAuthorLoaded(rec *records.AuthorRecord) {
	if r.log == nil || rec == nil {
		return
	}
	r.log.OnAuthorQueried(1)
	r.log.OnDocQueried(len(rec.Bibcodes))
}
