package cache

import "context"

// Batch is a scoped writer returned by Backing.Batch: writes issued through
// it are buffered and flushed together, either when Commit is called or
// when an internal size/byte budget forces an intermediate flush.
type Batch interface {
	StoreDocument(ctx context.Context, key string, data []byte) error
	StoreAuthor(ctx context.Context, key string, data []byte) error
	Commit(ctx context.Context) error
}

// Backing is the pluggable, durable half of the two-layer cache design. It
// stores opaque, already-compressed byte blobs; the facade is responsible
// for the compress/decompress and in-process memoization layered on top.
type Backing interface {
	StoreDocument(ctx context.Context, key string, data []byte) error
	LoadDocument(ctx context.Context, key string) ([]byte, error)
	DeleteDocument(ctx context.Context, key string) error
	LoadDocuments(ctx context.Context, keys []string) ([][]byte, error)

	StoreAuthor(ctx context.Context, key string, data []byte) error
	LoadAuthor(ctx context.Context, key string) ([]byte, error)
	DeleteAuthor(ctx context.Context, key string) error
	AuthorsAreInCache(ctx context.Context, keys []string) ([]bool, error)

	StoreProgress(ctx context.Context, key string, data []byte) error
	LoadProgress(ctx context.Context, key string) ([]byte, error)
	DeleteProgress(ctx context.Context, key string) error

	StoreResult(ctx context.Context, key string, data []byte) error
	LoadResult(ctx context.Context, key string) ([]byte, error)
	ResultIsInCache(ctx context.Context, key string) (bool, error)

	// ClearStaleData removes expired entries from the selected stores. Each
	// store is scanned only if the corresponding flag is true.
	ClearStaleData(ctx context.Context, authors, documents, progress, results bool) error

	// Batch opens a write-buffering scope. Callers must call Commit (or let
	// the returned Batch's owner flush it) before abandoning it.
	Batch() Batch
}
