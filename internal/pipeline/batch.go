package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/trackscrape/internal/model"
)

// LookupFunc performs one lookup. Service.Lookup satisfies it.
type LookupFunc func(ctx context.Context, query string) (*model.TrackReport, error)

// defaultBatchConcurrency is used when no concurrency option is given.
const defaultBatchConcurrency = 2

// BatchProcessor runs several lookups concurrently.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding batch
// functionality to Service because it keeps Service focused on a single
// lookup, which is all the API server ever needs.
type BatchProcessor struct {
	lookup      LookupFunc
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent lookups.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(lookup LookupFunc, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		lookup:      lookup,
		concurrency: defaultBatchConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch looks up every query, at most concurrency at a time.
// Reports are returned in query order, including failed ones; a failed
// lookup does not stop the others. The error is non-nil only when the
// context was cancelled before every lookup started.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, queries []string) ([]*model.TrackReport, error) {
	bp.logger.Info("starting batch processing",
		"total_queries", len(queries),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.TrackReport, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, query := range queries {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("looking up query",
				"query", query,
				"index", i+1,
				"total", len(queries),
			)

			report, err := bp.lookup(ctx, query)
			results[i] = report

			if err != nil {
				bp.logger.Warn("lookup failed",
					"query", query,
					"error", err,
				)
				return nil
			}

			bp.logger.Info("lookup completed", "query", query)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_queries", len(queries),
		"elapsed", time.Since(startTime),
	)

	return results, err
}
