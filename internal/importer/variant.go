package importer

import (
	"strings"

	"github.com/google/uuid"
	"github.com/harborlabs/medcatalog-backend/internal/feed"
	"github.com/harborlabs/medcatalog-backend/pkg/db/models"
)

// BuildVariant derives the sellable variant encoded in one feed row. The
// SKU is the concatenation of item id, manufacturer item code and packaging
// with no delimiter; stored products already carry skus in this shape, so
// the scheme must stay stable across runs.
func BuildVariant(row feed.Row, currency string) models.Variant {
	price := row.UnitPriceDecimal()
	return models.Variant{
		ID:        uuid.NewString(),
		Available: row.InStock(),
		Attributes: models.VariantAttributes{
			Packaging:   row.Packaging,
			Description: row.ItemDescription,
		},
		Cost:                 price,
		Currency:             currency,
		Description:          row.ItemDescription,
		ManufacturerItemCode: row.ManufacturerItemCode,
		ManufacturerItemID:   row.ItemID,
		Packaging:            row.Packaging,
		Price:                price,
		OptionName:           row.Packaging,
		SKU:                  buildSKU(row),
		Active:               true,
		Images:               []models.VariantImage{imageFromRow(row)},
		ItemCode:             row.NDCItemCode,
	}
}

func buildSKU(row feed.Row) string {
	return row.ItemID + row.ManufacturerItemCode + row.Packaging
}

// imageFromRow always yields exactly one image entry. A missing image URL
// becomes a nil CDN link rather than an empty string.
func imageFromRow(row feed.Row) models.VariantImage {
	image := models.VariantImage{FileName: row.ImageFileName}
	if url := strings.TrimSpace(row.ImageURL); url != "" {
		image.CDNLink = &url
	}
	return image
}
