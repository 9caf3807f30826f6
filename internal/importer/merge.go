package importer

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/harborlabs/medcatalog-backend/internal/enhance"
	"github.com/harborlabs/medcatalog-backend/internal/feed"
	"github.com/harborlabs/medcatalog-backend/pkg/config"
	"github.com/harborlabs/medcatalog-backend/pkg/db/models"
	"github.com/harborlabs/medcatalog-backend/pkg/logger"
	"gorm.io/datatypes"
)

// group is one product's worth of rows within a chunk. The first row seen
// for a product id is its representative: product-level fields come from it.
type group struct {
	productID string
	rows      []feed.Row
}

// groupRows buckets a chunk's rows by product id, preserving first-seen
// group order and file order within each group. Rows without the required
// identifiers are dropped with a warning and the dropped count is returned.
func groupRows(ctx context.Context, logg *logger.Logger, rows []feed.Row) ([]group, int) {
	index := make(map[string]int, len(rows))
	groups := make([]group, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		if !row.HasIdentity() {
			dropped++
			if logg != nil {
				logg.Warn(logg.WithFields(ctx, map[string]any{
					"product_id": row.ProductID,
					"item_id":    row.ItemID,
				}), "dropping row without product or item id")
			}
			continue
		}
		id := strings.TrimSpace(row.ProductID)
		if i, ok := index[id]; ok {
			groups[i].rows = append(groups[i].rows, row)
			continue
		}
		index[id] = len(groups)
		groups = append(groups, group{productID: id, rows: []feed.Row{row}})
	}

	return groups, dropped
}

// Merger turns a chunk of rows into upsert-ready product records: it
// resolves reference entities, batch-fetches the chunk's stored products
// and merges incoming variants into them.
type Merger struct {
	repo     *Repository
	resolver *Resolver
	enhancer enhance.Enhancer
	logg     *logger.Logger
	cfg      config.ImportConfig
}

// NewMerger builds a merger for one pipeline run.
func NewMerger(repo *Repository, resolver *Resolver, enhancer enhance.Enhancer, logg *logger.Logger, cfg config.ImportConfig) *Merger {
	return &Merger{
		repo:     repo,
		resolver: resolver,
		enhancer: enhancer,
		logg:     logg,
		cfg:      cfg,
	}
}

// Plan produces the chunk's upsert records plus the number of rows dropped
// for missing identity or an unresolvable vendor. Any store failure fails
// the whole chunk.
func (m *Merger) Plan(ctx context.Context, rows []feed.Row) ([]models.Product, int, error) {
	groups, dropped := groupRows(ctx, m.logg, rows)
	if len(groups) == 0 {
		return nil, dropped, nil
	}

	productIDs := make([]string, 0, len(groups))
	for _, g := range groups {
		productIDs = append(productIDs, g.productID)
	}
	stored, err := m.repo.ListProductsByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, dropped, err
	}
	existing := make(map[string]models.Product, len(stored))
	for _, p := range stored {
		existing[p.ProductID] = p
	}

	upserts := make([]models.Product, 0, len(groups))
	for _, g := range groups {
		rep := g.rows[0]

		if strings.TrimSpace(rep.SiteSource) == "" {
			dropped += len(g.rows)
			if m.logg != nil {
				m.logg.Warn(m.logg.WithProductID(ctx, g.productID),
					"dropping rows without a site source, vendor cannot be resolved")
			}
			continue
		}

		vendorID, err := m.resolver.ResolveVendor(ctx, rep.SiteSource)
		if err != nil {
			return nil, dropped, err
		}
		manufacturerID, err := m.resolver.ResolveManufacturer(ctx, rep.ManufacturerID, rep.ManufacturerName)
		if err != nil {
			return nil, dropped, err
		}

		incoming := make([]models.Variant, 0, len(g.rows))
		for _, row := range g.rows {
			incoming = append(incoming, BuildVariant(row, m.cfg.DefaultCurrency))
		}

		product, ok := existing[g.productID]
		if !ok {
			upserts = append(upserts, m.newProduct(ctx, g.productID, rep, vendorID, manufacturerID, incoming))
			continue
		}
		m.applyUpdate(ctx, &product, rep, vendorID, manufacturerID, incoming)
		upserts = append(upserts, product)
	}

	return upserts, dropped, nil
}

// applyUpdate refreshes the owned fields of a stored product from the
// representative row and merges the incoming variants into its list.
func (m *Merger) applyUpdate(ctx context.Context, product *models.Product, rep feed.Row, vendorID uuid.UUID, manufacturerID string, incoming []models.Variant) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
		if m.logg != nil {
			m.logg.Error(m.logg.WithProductID(ctx, product.ProductID),
				"stored product was missing its document id, regenerating", nil)
		}
	}

	product.Name = rep.ProductName
	product.Description = rep.ProductDescription
	product.VendorID = vendorID
	product.ManufacturerID = manufacturerRef(manufacturerID)
	product.Available = rep.InStock()
	product.Images = datatypes.NewJSONSlice([]models.ProductImage{productImageFromRow(rep)})
	product.Variants = datatypes.NewJSONSlice(mergeVariants(product.Variants, incoming))
}

// newProduct constructs a first-encounter product with its generated
// document id and fixed catalog defaults. An empty description goes through
// the enhancement collaborator; its failure keeps the original.
func (m *Merger) newProduct(ctx context.Context, productID string, rep feed.Row, vendorID uuid.UUID, manufacturerID string, incoming []models.Variant) models.Product {
	description := rep.ProductDescription
	if strings.TrimSpace(description) == "" && m.enhancer != nil {
		enhanced, err := m.enhancer.Enhance(ctx, rep.ProductName, description)
		if err == nil {
			description = enhanced
		}
	}

	return models.Product{
		ID:             uuid.New(),
		ProductID:      productID,
		Name:           rep.ProductName,
		Description:    description,
		VendorID:       vendorID,
		ManufacturerID: manufacturerRef(manufacturerID),
		Available:      rep.InStock(),
		Images:         datatypes.NewJSONSlice([]models.ProductImage{productImageFromRow(rep)}),
		Variants:       datatypes.NewJSONSlice(mergeVariants(nil, incoming)),
		Options:        datatypes.NewJSONSlice([]models.ProductOption{{Name: "Packaging"}}),
		Category:       m.cfg.DefaultCategory,
		Company:        m.cfg.DefaultCompany,
		Namespace:      m.cfg.DefaultNamespace,
		Status:         m.cfg.DefaultStatus,
	}
}

// manufacturerRef maps a blank manufacturer id to NULL so the products
// foreign key is satisfied for rows without one.
func manufacturerRef(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func productImageFromRow(row feed.Row) models.ProductImage {
	image := imageFromRow(row)
	return models.ProductImage{FileName: image.FileName, CDNLink: image.CDNLink}
}

// mergeVariants unions stored and incoming variants by sku. Stored variants
// keep their position and are replaced wholesale only when price,
// availability or description changed; unseen skus append in file order.
func mergeVariants(stored, incoming []models.Variant) []models.Variant {
	merged := make([]models.Variant, len(stored))
	copy(merged, stored)

	index := make(map[string]int, len(merged))
	for i, v := range merged {
		index[v.SKU] = i
	}

	for _, in := range incoming {
		if i, ok := index[in.SKU]; ok {
			if variantChanged(merged[i], in) {
				merged[i] = in
			}
			continue
		}
		index[in.SKU] = len(merged)
		merged = append(merged, in)
	}

	return merged
}

func variantChanged(stored, incoming models.Variant) bool {
	return !stored.Price.Equal(incoming.Price) ||
		stored.Available != incoming.Available ||
		stored.Description != incoming.Description
}
