package importer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/harborlabs/medcatalog-backend/internal/feed"
	"github.com/harborlabs/medcatalog-backend/pkg/db/models"
)

func TestResolveVendorCreatesOnce(t *testing.T) {
	gdb := newTestDB(t)
	resolver := NewResolver(NewRepository(gdb))

	first, err := resolver.ResolveVendor(context.Background(), "AcmeMed")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	second, err := resolver.ResolveVendor(context.Background(), "AcmeMed")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if first != second {
		t.Fatalf("expected the same vendor id, got %s and %s", first, second)
	}
	if n := countRows(t, gdb, &models.Vendor{}); n != 1 {
		t.Fatalf("expected 1 vendor, got %d", n)
	}
}

func TestResolveVendorSurvivesLostInsertRace(t *testing.T) {
	gdb := newTestDB(t)

	// Two resolvers with independent caches stand in for concurrent runs.
	a := NewResolver(NewRepository(gdb))
	b := NewResolver(NewRepository(gdb))

	idA, err := a.ResolveVendor(context.Background(), "AcmeMed")
	if err != nil {
		t.Fatalf("resolve a: %v", err)
	}
	idB, err := b.ResolveVendor(context.Background(), "AcmeMed")
	if err != nil {
		t.Fatalf("resolve b: %v", err)
	}
	if idA != idB {
		t.Fatalf("both resolutions must converge on one row, got %s and %s", idA, idB)
	}
	if n := countRows(t, gdb, &models.Vendor{}); n != 1 {
		t.Fatalf("expected 1 vendor, got %d", n)
	}
}

func TestResolveVendorRequiresSiteSource(t *testing.T) {
	resolver := NewResolver(NewRepository(newTestDB(t)))
	if _, err := resolver.ResolveVendor(context.Background(), "   "); err == nil {
		t.Fatal("expected an error for a blank site source")
	}
}

func TestResolveManufacturerPassthrough(t *testing.T) {
	gdb := newTestDB(t)
	resolver := NewResolver(NewRepository(gdb))

	id, err := resolver.ResolveManufacturer(context.Background(), "M1", "Acme")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != "M1" {
		t.Fatalf("expected identity passthrough, got %q", id)
	}

	// A later encounter must not rewrite the stored name.
	if _, err := resolver.ResolveManufacturer(context.Background(), "M1", "Acme Renamed"); err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	var manufacturer models.Manufacturer
	if err := gdb.First(&manufacturer, "manufacturer_id = ?", "M1").Error; err != nil {
		t.Fatalf("load manufacturer: %v", err)
	}
	if manufacturer.Name != "Acme" {
		t.Fatalf("expected first-write-wins name, got %q", manufacturer.Name)
	}
}

func TestResolveManufacturerBlankID(t *testing.T) {
	resolver := NewResolver(NewRepository(newTestDB(t)))

	id, err := resolver.ResolveManufacturer(context.Background(), "", "Acme")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty id passthrough, got %q", id)
	}
}

func TestMissingDocumentIDRegenerated(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	merger := NewMerger(repo, NewResolver(repo), nil, newTestLogger(), testImportConfig(10))

	rep := feed.Row{SiteSource: "AcmeMed", ProductID: "P1", ItemID: "I1", ProductName: "Gauze"}
	product := models.Product{ProductID: "P1", Name: "old"}
	merger.applyUpdate(context.Background(), &product, rep, uuid.New(), "M1", nil)

	if product.ID == uuid.Nil {
		t.Fatal("expected a regenerated document id")
	}
}
