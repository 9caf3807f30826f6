package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product is the persisted catalog entry for one external product id.
// ID is generated once at creation and never rewritten afterwards; the
// import only touches the fields it owns (name, description, vendor and
// manufacturer references, availability, images, variants).
// ManufacturerID is nil when the feed row carried no manufacturer id, so
// the manufacturers foreign key holds without a placeholder row.
type Product struct {
	ID             uuid.UUID                          `gorm:"column:id;type:uuid;primaryKey"`
	ProductID      string                             `gorm:"column:product_id;uniqueIndex;not null"`
	Name           string                             `gorm:"column:name;not null"`
	Description    string                             `gorm:"column:description"`
	VendorID       uuid.UUID                          `gorm:"column:vendor_id;type:uuid"`
	ManufacturerID *string                            `gorm:"column:manufacturer_id"`
	Available      bool                               `gorm:"column:available;not null;default:false"`
	Images         datatypes.JSONSlice[ProductImage]  `gorm:"column:images"`
	Variants       datatypes.JSONSlice[Variant]       `gorm:"column:variants"`
	Options        datatypes.JSONSlice[ProductOption] `gorm:"column:options"`
	Category       string                             `gorm:"column:category"`
	Company        string                             `gorm:"column:company"`
	Namespace      string                             `gorm:"column:namespace"`
	Status         string                             `gorm:"column:status"`
	CreatedAt      time.Time                          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                          `gorm:"column:updated_at;autoUpdateTime"`
}

// Variant is one sellable unit of a product, identified by SKU within its
// product. Variants are value objects: the merge either keeps the stored
// variant untouched or replaces it wholesale.
type Variant struct {
	ID                   string            `json:"id"`
	Available            bool              `json:"available"`
	Attributes           VariantAttributes `json:"attributes"`
	Cost                 decimal.Decimal   `json:"cost"`
	Currency             string            `json:"currency"`
	Description          string            `json:"description"`
	ManufacturerItemCode string            `json:"manufacturerItemCode"`
	ManufacturerItemID   string            `json:"manufacturerItemId"`
	Packaging            string            `json:"packaging"`
	Price                decimal.Decimal   `json:"price"`
	OptionName           string            `json:"optionName"`
	SKU                  string            `json:"sku"`
	Active               bool              `json:"active"`
	Images               []VariantImage    `json:"images"`
	ItemCode             string            `json:"itemCode"`
}

// VariantAttributes are the selectable attribute values for a variant.
type VariantAttributes struct {
	Packaging   string `json:"packaging"`
	Description string `json:"description"`
}

// VariantImage carries the feed-supplied image reference. CDNLink is nil
// when the feed row has no image URL.
type VariantImage struct {
	FileName string  `json:"fileName"`
	CDNLink  *string `json:"cdnLink"`
}

// ProductImage mirrors VariantImage at the product level.
type ProductImage struct {
	FileName string  `json:"fileName"`
	CDNLink  *string `json:"cdnLink"`
}

// ProductOption is a selectable attribute list generated once at product
// creation and left untouched by updates.
type ProductOption struct {
	Name string `json:"name"`
}
