package importer

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/harborlabs/medcatalog-backend/internal/enhance"
	"github.com/harborlabs/medcatalog-backend/internal/feed"
	"github.com/harborlabs/medcatalog-backend/pkg/config"
	"github.com/harborlabs/medcatalog-backend/pkg/db/models"
	"github.com/harborlabs/medcatalog-backend/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Column positions in the 26-column feed layout used by line().
const (
	colSiteSource     = 0
	colItemID         = 1
	colManufacturerID = 2
	colMfrName        = 4
	colProductID      = 5
	colProductName    = 6
	colProductDesc    = 7
	colMfrItemCode    = 8
	colItemDesc       = 9
	colImageFileName  = 10
	colImageURL       = 11
	colPackaging      = 13
	colUnitPrice      = 14
	colQuantityOnHand = 15
	colAvailability   = 17
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Vendor{}, &models.Manufacturer{}, &models.Product{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return gdb
}

// newConstrainedTestDB builds the schema with the same foreign keys the SQL
// migrations declare, and turns sqlite foreign key enforcement on, so tests
// exercise the referential constraints the production schema carries.
func newConstrainedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	ddl := []string{
		`CREATE TABLE vendors (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			site_source TEXT,
			created_at  DATETIME
		)`,
		`CREATE TABLE manufacturers (
			manufacturer_id TEXT PRIMARY KEY,
			name            TEXT,
			created_at      DATETIME
		)`,
		`CREATE TABLE products (
			id              TEXT PRIMARY KEY,
			product_id      TEXT NOT NULL UNIQUE,
			name            TEXT NOT NULL,
			description     TEXT NOT NULL DEFAULT '',
			vendor_id       TEXT REFERENCES vendors (id),
			manufacturer_id TEXT REFERENCES manufacturers (manufacturer_id),
			available       BOOLEAN NOT NULL DEFAULT FALSE,
			images          TEXT,
			variants        TEXT,
			options         TEXT,
			category        TEXT,
			company         TEXT,
			namespace       TEXT,
			status          TEXT,
			created_at      DATETIME,
			updated_at      DATETIME
		)`,
	}
	for _, stmt := range ddl {
		if err := gdb.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return gdb
}

func newTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "importer-test", Output: io.Discard})
}

func testImportConfig(chunkSize int) config.ImportConfig {
	return config.ImportConfig{
		ChunkSize:        chunkSize,
		FeedTimeout:      time.Minute,
		DefaultCategory:  "medical-supplies",
		DefaultCompany:   "harborlabs",
		DefaultNamespace: "catalog",
		DefaultStatus:    "active",
		DefaultCurrency:  "USD",
	}
}

// stringSource serves a fixed feed document.
type stringSource struct {
	data string
}

func (s stringSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(s.data)), nil
}

// line builds one 26-column feed line from the given column values.
func line(cols map[int]string) string {
	fields := make([]string, feed.FieldCount)
	for i, v := range cols {
		fields[i] = v
	}
	return strings.Join(fields, "\t")
}

// feedDoc prepends the discarded header line.
func feedDoc(lines ...string) string {
	return "header\n" + strings.Join(lines, "\n") + "\n"
}

// acmeCols is the canonical single-row fixture; tests override fields as
// needed.
func acmeCols() map[int]string {
	return map[int]string{
		colSiteSource:     "AcmeMed",
		colItemID:         "I1",
		colManufacturerID: "M1",
		colMfrName:        "Acme",
		colProductID:      "P1",
		colProductName:    "Gauze",
		colMfrItemCode:    "C1",
		colItemDesc:       "Sterile 4x4",
		colPackaging:      "Box10",
		colUnitPrice:      "5.50",
		colQuantityOnHand: "3",
		colAvailability:   "available",
	}
}

func newTestService(t *testing.T, gdb *gorm.DB, feedData string, chunkSize int) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:       gdb,
		Source:   stringSource{data: feedData},
		Enhancer: enhance.NewTolerant(nil, nil),
		Logger:   newTestLogger(),
		Config:   testImportConfig(chunkSize),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustGetProduct(t *testing.T, gdb *gorm.DB, productID string) models.Product {
	t.Helper()
	var product models.Product
	if err := gdb.First(&product, "product_id = ?", productID).Error; err != nil {
		t.Fatalf("load product %s: %v", productID, err)
	}
	return product
}

func countRows(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
