package importer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/harborlabs/medcatalog-backend/internal/enhance"
	"github.com/harborlabs/medcatalog-backend/internal/feed"
	"github.com/harborlabs/medcatalog-backend/pkg/config"
	pkgerrors "github.com/harborlabs/medcatalog-backend/pkg/errors"
	"github.com/harborlabs/medcatalog-backend/pkg/logger"
	"github.com/harborlabs/medcatalog-backend/pkg/metrics"
	"gorm.io/gorm"
)

// ServiceParams collects the dependencies of the import service.
type ServiceParams struct {
	DB       *gorm.DB
	Source   feed.Source
	Enhancer enhance.Enhancer
	Logger   *logger.Logger
	Metrics  *metrics.ImportMetrics
	Config   config.ImportConfig
}

// Service orchestrates one catalog import run: open the feed source, stream
// it through the chunked pipeline and report a summary. At most one run is
// active per service instance; resolver caches are created fresh per run.
type Service struct {
	db       *gorm.DB
	source   feed.Source
	enhancer enhance.Enhancer
	logg     *logger.Logger
	metrics  *metrics.ImportMetrics
	cfg      config.ImportConfig

	running atomic.Bool
}

// NewService validates the dependencies and builds the service.
func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db required")
	}
	if params.Source == nil {
		return nil, fmt.Errorf("feed source required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Config.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive")
	}
	return &Service{
		db:       params.DB,
		source:   params.Source,
		enhancer: params.Enhancer,
		logg:     params.Logger,
		metrics:  params.Metrics,
		cfg:      params.Config,
	}, nil
}

// Run executes one import synchronously. The returned error covers only the
// run-aborting cases; contained chunk failures live in the summary.
func (s *Service) Run(ctx context.Context) (*RunSummary, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "an import run is already active")
	}
	defer s.running.Store(false)

	runID := uuid.NewString()
	ctx = s.logg.WithRunID(ctx, runID)
	start := time.Now()
	s.logg.Info(ctx, "catalog import starting")

	stream, err := s.source.Open(ctx)
	if err != nil {
		s.logg.Error(ctx, "catalog import could not open feed", err)
		return nil, err
	}
	defer func() { _ = stream.Close() }()

	repo := NewRepository(s.db)
	merger := NewMerger(repo, NewResolver(repo), s.enhancer, s.logg, s.cfg)
	pipeline, err := NewPipeline(merger, NewWriter(s.db), s.cfg.ChunkSize, s.logg, s.metrics)
	if err != nil {
		return nil, err
	}

	summary, err := pipeline.Run(ctx, feed.NewScanner(stream))
	duration := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveRunDuration(duration)
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"chunks":         summary.Chunks,
		"failed_chunks":  summary.FailedChunks,
		"rows_processed": summary.RowsProcessed,
		"rows_dropped":   summary.RowsDropped,
		"rows_skipped":   summary.RowsSkipped,
		"duration_ms":    duration.Milliseconds(),
	})
	if err != nil {
		s.logg.Error(ctx, "catalog import aborted", err)
		return summary, err
	}
	if summary.ChunkErrors != nil {
		s.logg.Warn(ctx, "catalog import completed with failed chunks")
	} else {
		s.logg.Info(ctx, "catalog import completed")
	}
	return summary, nil
}

// StartAsync kicks off a run in the background and returns once it is
// scheduled. The run carries no deadline: a large feed takes as long as it
// takes, and only the feed handshake is bounded by the configured timeout.
func (s *Service) StartAsync() error {
	if s.running.Load() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "an import run is already active")
	}
	go func() {
		ctx := context.Background()
		if _, err := s.Run(ctx); err != nil {
			s.logg.Error(ctx, "background catalog import failed", err)
		}
	}()
	return nil
}
