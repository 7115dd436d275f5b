package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/cryptopulse/internal/domain/errs"
	"github.com/guttosm/cryptopulse/internal/logger"
	"github.com/guttosm/cryptopulse/internal/storage"
)

// Invalidator is the cache side of the "ingestion cycle completed" event.
// The pipeline calls it exactly once after all file tasks have finished,
// so subsequent queries recompute from the updated storage.
type Invalidator interface {
	InvalidateAll()
}

// Pipeline turns a directory of delimited input files into durable,
// deduplicated rows on a best-effort, partial-failure-tolerant basis.
//
// It must be invoked at most once at a time (mutual exclusion across cycles
// is the scheduler's concern); within a cycle, file tasks run concurrently
// and independently.
type Pipeline struct {
	repo        storage.PricesRepository
	invalidator Invalidator
	dir         string
	suffix      string
	batchSize   int
	maxParallel int // 0 = one task per file
}

// NewPipeline wires a Pipeline. batchSize must be positive; maxParallel of 0
// lets the task count scale with the number of discovered files, which suits
// the I/O-bound workload.
func NewPipeline(repo storage.PricesRepository, invalidator Invalidator, dir, suffix string, batchSize, maxParallel int) *Pipeline {
	return &Pipeline{
		repo:        repo,
		invalidator: invalidator,
		dir:         dir,
		suffix:      suffix,
		batchSize:   batchSize,
		maxParallel: maxParallel,
	}
}

// CycleReport summarizes one completed import cycle.
type CycleReport struct {
	Files       int
	FailedFiles int
	TotalRows   int
	Inserted    int64
	Skipped     int
	Elapsed     time.Duration
}

// Run executes one import cycle:
//
//  1. Validate the input directory; unusable directory → *errs.DirectoryError,
//     cycle aborted without touching storage or caches.
//  2. Discover files by suffix, non-recursively. None found → no-op cycle.
//  3. Fan each file out onto its own task. A failing file is logged and
//     counted; it never blocks or fails sibling files or the cycle.
//  4. Stream-parse and batch-upsert each file (see processFile).
//  5. After all tasks finish, invalidate the stats caches once.
//
// Run is safe to invoke repeatedly: the (symbol, timestamp) upsert key makes
// re-ingestion of the same or overlapping files a no-op.
func (p *Pipeline) Run(ctx context.Context) (CycleReport, error) {
	start := time.Now()
	var rep CycleReport

	files, err := p.discover()
	if err != nil {
		logger.L().Error().Str("dir", p.dir).Err(err).Msg("import cycle aborted")
		return rep, err
	}
	if len(files) == 0 {
		logger.L().Warn().Str("dir", p.dir).Str("suffix", p.suffix).Msg("no input files found")
		return rep, nil
	}
	rep.Files = len(files)

	limit := len(files)
	if p.maxParallel > 0 && p.maxParallel < limit {
		limit = p.maxParallel
	}
	logger.L().Info().Int("files", len(files)).Int("max_parallel", limit).Str("dir", p.dir).Msg("import cycle start")

	// Plain errgroup: workers always return nil, so one bad file cannot
	// cancel its siblings.
	var g errgroup.Group
	sem := make(chan struct{}, limit)

	var mu sync.Mutex // guards the shared counters below

	for i, file := range files {
		idx := i
		f := file
		sem <- struct{}{}

		g.Go(func() error {
			defer func() { <-sem }()
			fileStart := time.Now()
			base := filepath.Base(f)
			logger.L().Info().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Msg("file start")

			fr, err := processFile(ctx, f, p.repo, p.batchSize)
			mu.Lock()
			rep.TotalRows += fr.Total
			rep.Inserted += fr.Inserted
			rep.Skipped += fr.Skipped
			if err != nil {
				rep.FailedFiles++
			}
			mu.Unlock()

			if err != nil {
				logger.L().Error().Str("file", base).Dur("elapsed", time.Since(fileStart)).Err(err).Msg("file failed")
				return nil
			}
			logger.L().Info().
				Int("idx", idx+1).
				Int("total", len(files)).
				Str("file", base).
				Int("rows", fr.Total).
				Int64("inserted", fr.Inserted).
				Int("skipped", fr.Skipped).
				Dur("elapsed", time.Since(fileStart)).
				Msg("file done")
			return nil
		})
	}

	_ = g.Wait()

	// One bulk eviction per cycle, not per file.
	p.invalidator.InvalidateAll()

	rep.Elapsed = time.Since(start)
	logger.L().Info().
		Int("files", rep.Files).
		Int("failed_files", rep.FailedFiles).
		Int("rows", rep.TotalRows).
		Int64("inserted", rep.Inserted).
		Int("skipped", rep.Skipped).
		Dur("elapsed", rep.Elapsed).
		Msg("import cycle done")

	return rep, nil
}

// discover validates the input directory and lists the files matching the
// configured suffix, non-recursively.
func (p *Pipeline) discover() ([]string, error) {
	info, err := os.Stat(p.dir)
	if err != nil {
		return nil, &errs.DirectoryError{Dir: p.dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &errs.DirectoryError{Dir: p.dir, Err: os.ErrInvalid}
	}

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, &errs.DirectoryError{Dir: p.dir, Err: err}
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), p.suffix) {
			files = append(files, filepath.Join(p.dir, e.Name()))
		}
	}
	return files, nil
}
