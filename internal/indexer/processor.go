package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/maypok86/otter"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/tsdoc/internal/doc"
	"github.com/mvp-joe/tsdoc/internal/parser"
	"github.com/mvp-joe/tsdoc/internal/symbols"
)

const (
	defaultWorkers       = 4
	defaultCacheCapacity = 2048
)

// cachedFile is a cache entry; it is only valid for the same content hash.
type cachedFile struct {
	hash string
	docs *doc.FileDocs
}

// Processor handles the read → hash → parse → document pipeline.
// It is safe for concurrent use.
type Processor struct {
	rootDir   string
	parser    *parser.Parser
	generator *doc.Generator
	cache     otter.Cache[string, cachedFile]
	workers   int
	progress  ProgressReporter
}

// NewProcessor creates a new Processor instance.
func NewProcessor(rootDir string, opts doc.Options, workers, cacheCapacity int, progress ProgressReporter) (*Processor, error) {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if cacheCapacity <= 0 {
		cacheCapacity = defaultCacheCapacity
	}
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}

	cache, err := otter.MustBuilder[string, cachedFile](cacheCapacity).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build parse cache: %w", err)
	}

	return &Processor{
		rootDir:   rootDir,
		parser:    parser.New(),
		generator: doc.NewGenerator(opts),
		cache:     cache,
		workers:   workers,
		progress:  progress,
	}, nil
}

// ExtractFile documents one file. Relative paths are resolved against the
// root directory. Unchanged files are served from the cache.
func (p *Processor) ExtractFile(ctx context.Context, path string) (*doc.FileDocs, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	absPath, relPath, err := p.paths(path)
	if err != nil {
		return nil, err
	}

	src, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", relPath, err)
	}
	return p.extract(ctx, relPath, src)
}

// ExtractSource documents in-memory source. name selects the dialect by
// extension and becomes the node filename; it defaults to TypeScript.
func (p *Processor) ExtractSource(ctx context.Context, name string, src []byte) (*doc.FileDocs, error) {
	return p.extract(ctx, filepath.ToSlash(name), src)
}

func (p *Processor) extract(ctx context.Context, relPath string, src []byte) (*doc.FileDocs, error) {
	hash := hashContent(src)
	if entry, ok := p.cache.Get(relPath); ok && entry.hash == hash {
		return entry.docs, nil
	}

	mod, err := p.parser.Parse(ctx, relPath, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", relPath, err)
	}

	nodes := p.generator.Generate(symbols.NewModuleInfo(mod))
	if nodes == nil {
		nodes = []doc.Node{}
	}
	docs := &doc.FileDocs{Path: relPath, Hash: hash, Nodes: nodes}

	p.cache.Set(relPath, cachedFile{hash: hash, docs: docs})
	return docs, nil
}

// ProcessFiles documents files with a bounded worker pool. Results keep
// the input order; files that fail are returned as FileErrors and do not
// stop the run. Only cancellation aborts it.
func (p *Processor) ProcessFiles(ctx context.Context, files []string) ([]*doc.FileDocs, []*FileError, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	p.progress.OnFileProcessingStart(len(files))

	results := make([]*doc.FileDocs, len(files))
	var (
		mu       sync.Mutex
		failures []*FileError
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			docs, err := p.ExtractFile(gctx, file)
			p.progress.OnFileProcessed(file)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				log.Printf("Warning: %v\n", err)
				mu.Lock()
				failures = append(failures, &FileError{Path: file, Err: err})
				mu.Unlock()
				return nil
			}
			results[i] = docs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	// errgroup cancels gctx only on error, so check the parent too
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	out := make([]*doc.FileDocs, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, failures, nil
}

// Invalidate drops a file from the cache.
func (p *Processor) Invalidate(path string) {
	if _, relPath, err := p.paths(path); err == nil {
		p.cache.Delete(relPath)
	}
}

// CacheStats returns the cache hit and miss counts.
func (p *Processor) CacheStats() (hits, misses int64) {
	stats := p.cache.Stats()
	return stats.Hits(), stats.Misses()
}

// Close releases the cache.
func (p *Processor) Close() {
	p.cache.Close()
}

// paths returns the absolute path and the slash-separated root-relative path.
func (p *Processor) paths(path string) (string, string, error) {
	absPath := path
	if !filepath.IsAbs(path) {
		absPath = filepath.Join(p.rootDir, path)
	}
	rel, err := filepath.Rel(p.rootDir, absPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to get relative path for %s: %w", path, err)
	}
	return absPath, filepath.ToSlash(rel), nil
}

func hashContent(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}
