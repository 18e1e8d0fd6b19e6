package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/flate"
)

// FSBacking is a Backing implementation storing one file per key under
// subdirectories, one flat directory per record kind, since author/document
// counts here don't warrant a trie-of-directories layout.
type FSBacking struct {
	root string

	mu               sync.RWMutex
	authorDirContents map[string]bool
	docDirContents    map[string]bool

	batchByteBudget int
}

const (
	authorsSubdir   = "authors"
	documentsSubdir = "documents"
	progressSubdir  = "progress"
	resultsSubdir   = "results"

	staleAge = 31 * 24 * time.Hour
)

// NewFSBacking creates (if needed) the four subdirectories under root and
// returns a backing cache rooted there.
func NewFSBacking(root string) (*FSBacking, error) {
	fs := &FSBacking{root: root, batchByteBudget: defaultBatchByteBudget}
	if err := fs.refreshDirs(); err != nil {
		return nil, err
	}
	return fs, nil
}

// SetBatchByteBudget overrides the batch flush threshold (bytes of buffered
// writes a Batch accumulates before an automatic Commit), normally sized by
// the caller from config.Config.CacheByteBudget. Values <= 0 are ignored.
func (fs *FSBacking) SetBatchByteBudget(n int) {
	if n <= 0 {
		return
	}
	fs.mu.Lock()
	fs.batchByteBudget = n
	fs.mu.Unlock()
}

func (fs *FSBacking) refreshDirs() error {
	for _, sub := range []string{authorsSubdir, documentsSubdir, progressSubdir, resultsSubdir} {
		if err := os.MkdirAll(filepath.Join(fs.root, sub), 0o755); err != nil {
			return fmt.Errorf("cache: creating %s: %w", sub, err)
		}
	}

	authorEntries, err := os.ReadDir(filepath.Join(fs.root, authorsSubdir))
	if err != nil {
		return err
	}
	docEntries, err := os.ReadDir(filepath.Join(fs.root, documentsSubdir))
	if err != nil {
		return err
	}

	fs.mu.Lock()
	fs.authorDirContents = direntSet(authorEntries)
	fs.docDirContents = direntSet(docEntries)
	fs.mu.Unlock()
	return nil
}

func direntSet(entries []os.DirEntry) map[string]bool {
	out := make(map[string]bool, len(entries))
	for _, e := range entries {
		out[e.Name()] = true
	}
	return out
}

func (fs *FSBacking) path(sub, key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(fs.root, sub, key), nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		if os.IsNotExist(err) {
			if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
				return mkErr
			}
			return os.WriteFile(path, data, 0o644)
		}
		return err
	}
	return nil
}

func readFile(path, key string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &CacheMiss{Key: key}
		}
		return nil, err
	}
	return data, nil
}

func (fs *FSBacking) StoreDocument(_ context.Context, key string, data []byte) error {
	p, err := fs.path(documentsSubdir, key)
	if err != nil {
		return err
	}
	if err := writeFile(p, data); err != nil {
		return err
	}
	fs.mu.Lock()
	fs.docDirContents[key] = true
	fs.mu.Unlock()
	return nil
}

func (fs *FSBacking) LoadDocument(_ context.Context, key string) ([]byte, error) {
	p, err := fs.path(documentsSubdir, key)
	if err != nil {
		return nil, err
	}
	return readFile(p, key)
}

func (fs *FSBacking) DeleteDocument(_ context.Context, key string) error {
	p, err := fs.path(documentsSubdir, key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	fs.mu.Lock()
	delete(fs.docDirContents, key)
	fs.mu.Unlock()
	return nil
}

func (fs *FSBacking) LoadDocuments(ctx context.Context, keys []string) ([][]byte, error) {
	out := make([][]byte, 0, len(keys))
	for _, k := range keys {
		data, err := fs.LoadDocument(ctx, k)
		if err != nil {
			if _, ok := err.(*CacheMiss); ok {
				continue
			}
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

func (fs *FSBacking) StoreAuthor(_ context.Context, key string, data []byte) error {
	p, err := fs.path(authorsSubdir, key)
	if err != nil {
		return err
	}
	if err := writeFile(p, data); err != nil {
		return err
	}
	fs.mu.Lock()
	fs.authorDirContents[key] = true
	fs.mu.Unlock()
	return nil
}

func (fs *FSBacking) LoadAuthor(_ context.Context, key string) ([]byte, error) {
	p, err := fs.path(authorsSubdir, key)
	if err != nil {
		return nil, err
	}
	return readFile(p, key)
}

func (fs *FSBacking) DeleteAuthor(_ context.Context, key string) error {
	p, err := fs.path(authorsSubdir, key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	fs.mu.Lock()
	delete(fs.authorDirContents, key)
	fs.mu.Unlock()
	return nil
}

func (fs *FSBacking) AuthorsAreInCache(_ context.Context, keys []string) ([]bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make([]bool, len(keys))
	for i, k := range keys {
		out[i] = fs.authorDirContents[k]
	}
	return out, nil
}

func (fs *FSBacking) StoreProgress(_ context.Context, key string, data []byte) error {
	p, err := fs.path(progressSubdir, key)
	if err != nil {
		return err
	}
	return writeFile(p, data)
}

func (fs *FSBacking) LoadProgress(_ context.Context, key string) ([]byte, error) {
	p, err := fs.path(progressSubdir, key)
	if err != nil {
		return nil, err
	}
	return readFile(p, key)
}

func (fs *FSBacking) DeleteProgress(_ context.Context, key string) error {
	p, err := fs.path(progressSubdir, key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (fs *FSBacking) StoreResult(_ context.Context, key string, data []byte) error {
	p, err := fs.path(resultsSubdir, key)
	if err != nil {
		return err
	}
	return writeFile(p, data)
}

func (fs *FSBacking) LoadResult(_ context.Context, key string) ([]byte, error) {
	p, err := fs.path(resultsSubdir, key)
	if err != nil {
		return nil, err
	}
	return readFile(p, key)
}

func (fs *FSBacking) ResultIsInCache(_ context.Context, key string) (bool, error) {
	p, err := fs.path(resultsSubdir, key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// ClearStaleData does not rely on loads to evict expired data; it walks
// every entry's mtime directly and removes anything older than staleAge.
func (fs *FSBacking) ClearStaleData(_ context.Context, authors, documents, progress, results bool) error {
	clean := func(sub string) error {
		dir := filepath.Join(fs.root, sub)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			info, err := e.Info()
			if err != nil {
				continue
			}
			if time.Since(info.ModTime()) > staleAge {
				_ = os.Remove(filepath.Join(dir, e.Name()))
			}
		}
		return nil
	}

	if authors {
		if err := clean(authorsSubdir); err != nil {
			return err
		}
	}
	if documents {
		if err := clean(documentsSubdir); err != nil {
			return err
		}
	}
	if progress {
		if err := clean(progressSubdir); err != nil {
			return err
		}
	}
	if results {
		if err := clean(resultsSubdir); err != nil {
			return err
		}
	}
	return fs.refreshDirs()
}

// fsBatch buffers writes in memory and flushes them to the owning FSBacking
// on Commit, or automatically once batchByteBudget is exceeded.
type fsBatch struct {
	fs     *FSBacking
	budget int
	mu     sync.Mutex
	docs   map[string][]byte
	auths  map[string][]byte
	bytes  int
}

const defaultBatchByteBudget = 8 << 20 // 8 MiB, overridden by SetBatchByteBudget

func (fs *FSBacking) Batch() Batch {
	fs.mu.RLock()
	budget := fs.batchByteBudget
	fs.mu.RUnlock()
	return &fsBatch{fs: fs, budget: budget, docs: make(map[string][]byte), auths: make(map[string][]byte)}
}

func (b *fsBatch) StoreDocument(ctx context.Context, key string, data []byte) error {
	b.mu.Lock()
	b.docs[key] = data
	b.bytes += len(data)
	over := b.bytes > b.budget
	b.mu.Unlock()
	if over {
		return b.Commit(ctx)
	}
	return nil
}

func (b *fsBatch) StoreAuthor(ctx context.Context, key string, data []byte) error {
	b.mu.Lock()
	b.auths[key] = data
	b.bytes += len(data)
	over := b.bytes > b.budget
	b.mu.Unlock()
	if over {
		return b.Commit(ctx)
	}
	return nil
}

func (b *fsBatch) Commit(ctx context.Context) error {
	b.mu.Lock()
	docs, auths := b.docs, b.auths
	b.docs = make(map[string][]byte)
	b.auths = make(map[string][]byte)
	b.bytes = 0
	b.mu.Unlock()

	for k, v := range docs {
		if err := b.fs.StoreDocument(ctx, k, v); err != nil {
			return err
		}
	}
	for k, v := range auths {
		if err := b.fs.StoreAuthor(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}

// DeflateCompress compresses data with DEFLATE, via klauspost/compress's
// flate implementation (a faster drop-in for the standard library's
// compress/flate).
func DeflateCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeflateDecompress reverses DeflateCompress.
func DeflateDecompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return io.ReadAll(r)
}
