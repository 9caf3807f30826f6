package cron

import (
	"context"
	"fmt"

	"github.com/harborlabs/medcatalog-backend/internal/importer"
)

// importRunner is the slice of the import service the job needs.
type importRunner interface {
	Run(ctx context.Context) (*importer.RunSummary, error)
}

// CatalogImportJob runs the catalog feed import on the cron cadence.
// Contained chunk failures do not fail the job; only a run-aborting error
// (feed unreachable, stream read failure) does.
type CatalogImportJob struct {
	runner importRunner
}

// NewCatalogImportJob wires the job to the import service.
func NewCatalogImportJob(runner importRunner) (*CatalogImportJob, error) {
	if runner == nil {
		return nil, fmt.Errorf("import runner required")
	}
	return &CatalogImportJob{runner: runner}, nil
}

// Name identifies the job in logs and metrics.
func (j *CatalogImportJob) Name() string { return "catalog_import" }

// Run executes one import run.
func (j *CatalogImportJob) Run(ctx context.Context) error {
	_, err := j.runner.Run(ctx)
	return err
}
