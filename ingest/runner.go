package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/veridian-labs/vigia/core"
	"github.com/veridian-labs/vigia/storage"
)

// Splitter derives retrieval-sized chunks from parsed documents.
// Both split.TokenSplitter and split.WindowSplitter satisfy it; a Runner is
// configured with exactly one.
type Splitter interface {
	Split(docs []core.Document) []core.Document
}

// Report summarizes one ingestion run.
type Report struct {
	Discovered int // resources matching the pattern
	Skipped    int // sources already in the ledger
	Unmatched  int // resources with no registered strategy
	Failed     int // resources whose parse failed
	Ingested   int // sources processed in this run
	Chunks     int // chunks persisted in this run
}

// Runner orchestrates one ingestion batch.
type Runner struct {
	registry *Registry
	resolver Resolver
	ledger   storage.Ledger
	store    storage.VectorStore
	splitter Splitter
	pool     *ants.Pool
	logger   *slog.Logger
	progress func(sourceID string)

	// runMu enforces the single-owner discipline around the ledger
	// check-then-write sequence: overlapping runs in one process would
	// otherwise race into duplicate ingestion.
	runMu sync.Mutex
}

// Option configures a Runner.
type Option func(*Runner) error

// WithPoolSize sets the worker pool size for concurrent parsing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(r *Runner) error {
		if size < 1 {
			size = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithProgress sets a callback invoked after each source is fully
// persisted and recorded.
func WithProgress(fn func(sourceID string)) Option {
	return func(r *Runner) error {
		r.progress = fn
		return nil
	}
}

// NewRunner creates an ingestion runner.
func NewRunner(
	registry *Registry,
	resolver Resolver,
	ledger storage.Ledger,
	store storage.VectorStore,
	splitter Splitter,
	opts ...Option,
) (*Runner, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if resolver == nil {
		return nil, ErrResolverRequired
	}
	if ledger == nil {
		return nil, ErrLedgerRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		registry: registry,
		resolver: resolver,
		ledger:   ledger,
		store:    store,
		splitter: splitter,
		pool:     pool,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}

	return r, nil
}

// parseJob is one resource scheduled for parsing in this run.
type parseJob struct {
	sourceID string
	resource Resource
	strategy Strategy

	docs   []core.Document
	failed bool
}

// Run executes one ingestion batch for the given discovery pattern.
//
// Per-resource parse failures and unresolved strategies are logged and
// skipped. Persistence failures abort the run and are returned; sources
// whose ledger record was not yet written remain re-ingestable. A run that
// discovers no resources or parses zero documents completes as a no-op.
func (r *Runner) Run(ctx context.Context, pattern string) (*Report, error) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	report := &Report{}

	resources, err := r.resolver.Resolve(pattern)
	if err != nil {
		return report, fmt.Errorf("resolve pattern %q: %w", pattern, err)
	}
	report.Discovered = len(resources)
	if len(resources) == 0 {
		r.logger.Warn("no resources found for pattern, skipping ingestion", "pattern", pattern)
		return report, nil
	}

	jobs, err := r.schedule(ctx, resources, report)
	if err != nil {
		return report, err
	}

	r.parseAll(ctx, jobs)

	total := 0
	for _, job := range jobs {
		if job.failed {
			report.Failed++
			continue
		}
		total += len(job.docs)
	}
	if total == 0 {
		r.logger.Info("no documents were ingested")
		return report, nil
	}
	r.logger.Info("splitting documents into chunks", "documents", total)

	for _, job := range jobs {
		if job.failed {
			continue
		}
		if err := r.persistSource(ctx, job, report); err != nil {
			return report, err
		}
	}

	r.logger.Info("ingestion run complete",
		"sources", report.Ingested, "chunks", report.Chunks,
		"skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// schedule filters out already-ingested and unmatched resources.
func (r *Runner) schedule(ctx context.Context, resources []Resource, report *Report) ([]*parseJob, error) {
	jobs := make([]*parseJob, 0, len(resources))
	for _, res := range resources {
		sourceID := SourceID(res)

		exists, err := r.ledger.Exists(ctx, sourceID)
		if err != nil {
			return nil, fmt.Errorf("ledger lookup for %s: %w", sourceID, err)
		}
		if exists {
			r.logger.Debug("source already ingested, skipping", "source", sourceID)
			report.Skipped++
			continue
		}

		strategy, ok := r.registry.Resolve(res.Name())
		if !ok {
			r.logger.Warn("no ingestion strategy for file, skipping", "file", res.Name())
			report.Unmatched++
			continue
		}

		jobs = append(jobs, &parseJob{sourceID: sourceID, resource: res, strategy: strategy})
	}
	return jobs, nil
}

// parseAll parses the scheduled resources concurrently.
func (r *Runner) parseAll(ctx context.Context, jobs []*parseJob) {
	var wg sync.WaitGroup
	for _, job := range jobs {
		job := job
		wg.Add(1)
		task := func() {
			defer wg.Done()
			docs, err := job.strategy.Parse(ctx, job.resource)
			if err != nil {
				r.logger.Error("failed to ingest data from resource",
					"source", job.sourceID, "err", err)
				job.failed = true
				return
			}
			job.docs = docs
		}
		if err := r.pool.Submit(task); err != nil {
			// Pool unavailable; parse on the calling goroutine.
			task()
		}
	}
	wg.Wait()
}

// persistSource splits and persists one source's documents, then records it
// in the ledger. The ledger write deliberately follows persistence: a crash
// in between re-ingests the source on the next run instead of losing it.
func (r *Runner) persistSource(ctx context.Context, job *parseJob, report *Report) error {
	category, _, _ := strings.Cut(job.sourceID, "/")
	docs := make([]core.Document, 0, len(job.docs))
	for _, doc := range job.docs {
		if doc.Blank() {
			continue
		}
		if doc.Metadata == nil {
			doc.Metadata = make(map[string]string, 2)
		}
		if doc.Meta(core.MetaSourceID) == "" {
			doc.Metadata[core.MetaSourceID] = job.sourceID
		}
		if doc.Meta(core.MetaCategory) == "" {
			doc.Metadata[core.MetaCategory] = category
		}
		docs = append(docs, doc)
	}

	chunks := r.splitter.Split(docs)
	if len(chunks) > 0 {
		if err := r.store.Add(ctx, chunks); err != nil {
			return fmt.Errorf("persist chunks for %s: %w", job.sourceID, err)
		}
	}

	if err := r.ledger.Save(ctx, job.sourceID, time.Now().UTC()); err != nil {
		return fmt.Errorf("record ingestion of %s: %w", job.sourceID, err)
	}

	report.Ingested++
	report.Chunks += len(chunks)
	if r.progress != nil {
		r.progress(job.sourceID)
	}
	return nil
}

// Release releases the parsing worker pool.
// The runner should not be used after calling Release.
func (r *Runner) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}
