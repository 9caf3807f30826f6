package importer

import (
	"context"
	"fmt"

	"github.com/harborlabs/medcatalog-backend/internal/feed"
	"github.com/harborlabs/medcatalog-backend/pkg/logger"
	"github.com/harborlabs/medcatalog-backend/pkg/metrics"
	"go.uber.org/multierr"
)

// RunSummary reports what one pipeline run did. ChunkErrors aggregates the
// contained per-chunk failures; it is not the run's error.
type RunSummary struct {
	Chunks        int
	FailedChunks  int
	RowsProcessed int
	RowsDropped   int
	RowsSkipped   int
	ChunkErrors   error
}

// Pipeline streams the feed in fixed-size chunks and drives each chunk
// through merge and write. Consumption of the stream is suspended while a
// chunk is in flight, so chunks are processed strictly in file order and at
// most one chunk's rows are held in memory.
//
// A chunk failure is contained: it is logged, counted, and the stream
// resumes with the next chunk. Only a stream read failure or cancellation
// aborts the run, and cancellation takes effect at chunk boundaries only.
type Pipeline struct {
	merger    *Merger
	writer    chunkWriter
	chunkSize int
	logg      *logger.Logger
	metrics   *metrics.ImportMetrics
}

// NewPipeline builds a pipeline for one run.
func NewPipeline(merger *Merger, writer chunkWriter, chunkSize int, logg *logger.Logger, importMetrics *metrics.ImportMetrics) (*Pipeline, error) {
	if merger == nil {
		return nil, fmt.Errorf("merger required")
	}
	if writer == nil {
		return nil, fmt.Errorf("writer required")
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive")
	}
	return &Pipeline{
		merger:    merger,
		writer:    writer,
		chunkSize: chunkSize,
		logg:      logg,
		metrics:   importMetrics,
	}, nil
}

// Run consumes the scanner to exhaustion. The returned error is non-nil
// only for the run-aborting cases: stream read failure or cancellation.
func (p *Pipeline) Run(ctx context.Context, sc *feed.Scanner) (*RunSummary, error) {
	summary := &RunSummary{}
	chunk := make([]feed.Row, 0, p.chunkSize)

	for sc.Scan() {
		chunk = append(chunk, sc.Row())
		if len(chunk) < p.chunkSize {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		p.processChunk(ctx, summary, chunk)
		chunk = chunk[:0]
	}
	if err := sc.Err(); err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	if len(chunk) > 0 {
		p.processChunk(ctx, summary, chunk)
	}

	return summary, nil
}

func (p *Pipeline) processChunk(ctx context.Context, summary *RunSummary, chunk []feed.Row) {
	ordinal := summary.Chunks
	summary.Chunks++
	if p.logg != nil {
		ctx = p.logg.WithChunk(ctx, ordinal)
	}
	if p.metrics != nil {
		p.metrics.IncChunk()
	}

	products, dropped, err := p.merger.Plan(ctx, chunk)
	if err == nil {
		err = p.writer.WriteChunk(ctx, ordinal, products)
	}
	if err != nil {
		// Rows the merger already dropped stay dropped; only the rest of
		// the chunk is lost to the failure.
		summary.FailedChunks++
		summary.RowsDropped += dropped
		summary.RowsSkipped += len(chunk) - dropped
		summary.ChunkErrors = multierr.Append(summary.ChunkErrors,
			fmt.Errorf("chunk %d: %w", ordinal, err))
		if p.logg != nil {
			p.logg.Error(ctx, "chunk failed, continuing with next chunk", err)
		}
		if p.metrics != nil {
			p.metrics.IncChunkFailure()
			p.metrics.AddRows(metrics.RowOutcomeDropped, dropped)
			p.metrics.AddRows(metrics.RowOutcomeSkipped, len(chunk)-dropped)
		}
		return
	}

	summary.RowsDropped += dropped
	summary.RowsProcessed += len(chunk) - dropped
	if p.metrics != nil {
		p.metrics.AddRows(metrics.RowOutcomeDropped, dropped)
		p.metrics.AddRows(metrics.RowOutcomeProcessed, len(chunk)-dropped)
	}
}
