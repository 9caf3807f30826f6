package importer

import (
	"context"
	"fmt"

	"github.com/harborlabs/medcatalog-backend/pkg/db/models"
	pkgerrors "github.com/harborlabs/medcatalog-backend/pkg/errors"
	"gorm.io/gorm"
)

// chunkWriter applies one chunk's upsert records. The pipeline depends on
// this seam so chunk failures can be exercised in isolation.
type chunkWriter interface {
	WriteChunk(ctx context.Context, ordinal int, products []models.Product) error
}

// Writer persists a chunk's products as a single batched upsert inside one
// transaction. A failed batch is reported with its size and chunk ordinal
// and is never retried here.
type Writer struct {
	db *gorm.DB
}

// NewWriter builds a writer over the given GORM DB.
func NewWriter(db *gorm.DB) *Writer {
	return &Writer{db: db}
}

func (w *Writer) WriteChunk(ctx context.Context, ordinal int, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return NewRepository(tx).UpsertProducts(ctx, products)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err,
			fmt.Sprintf("upserting %d products for chunk %d", len(products), ordinal))
	}
	return nil
}
