package importer

import (
	"context"

	"github.com/harborlabs/medcatalog-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertColumns are the product fields the import owns. Everything else,
// the generated document id included, is written once at creation and left
// alone on later runs.
var upsertColumns = []string{
	"name",
	"description",
	"vendor_id",
	"manufacturer_id",
	"available",
	"images",
	"variants",
	"updated_at",
}

// Repository wires together the persistence helpers used by the import
// pipeline: reference-entity get-or-create and the batched product upsert.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindVendorByName loads a vendor by its unique name.
func (r *Repository) FindVendorByName(ctx context.Context, name string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// CreateVendorIfAbsent inserts the vendor, silently yielding to an existing
// row with the same name. Callers re-read after a conflict to learn the
// winning row's id.
func (r *Repository) CreateVendorIfAbsent(ctx context.Context, vendor *models.Vendor) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(vendor).Error
}

// FindManufacturerByID loads a manufacturer by its external id.
func (r *Repository) FindManufacturerByID(ctx context.Context, manufacturerID string) (*models.Manufacturer, error) {
	var manufacturer models.Manufacturer
	if err := r.db.WithContext(ctx).First(&manufacturer, "manufacturer_id = ?", manufacturerID).Error; err != nil {
		return nil, err
	}
	return &manufacturer, nil
}

// CreateManufacturerIfAbsent inserts the manufacturer, keeping the stored
// name when a row with the same id already exists.
func (r *Repository) CreateManufacturerIfAbsent(ctx context.Context, manufacturer *models.Manufacturer) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "manufacturer_id"}},
			DoNothing: true,
		}).
		Create(manufacturer).Error
}

// ListProductsByProductIDs batch-fetches the stored products for a chunk's
// external product id set in one query.
func (r *Repository) ListProductsByProductIDs(ctx context.Context, productIDs []string) ([]models.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// UpsertProducts applies one batched conditional write: insert new products
// whole, and for existing product ids overwrite only the owned columns.
func (r *Repository) UpsertProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(&products).Error
}
