package feed

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldCount is the number of columns in the supplier feed.
const FieldCount = 26

// Row is one line of the supplier feed with its fixed 26-column layout.
// All fields are raw strings as delivered; the parse helpers below own the
// lenient numeric conversions the pipeline relies on.
type Row struct {
	SiteSource            string
	ItemID                string
	ManufacturerID        string
	ManufacturerCode      string
	ManufacturerName      string
	ProductID             string
	ProductName           string
	ProductDescription    string
	ManufacturerItemCode  string
	ItemDescription       string
	ImageFileName         string
	ImageURL              string
	NDCItemCode           string
	Packaging             string
	UnitPrice             string
	QuantityOnHand        string
	PriceDescription      string
	Availability          string
	PrimaryCategoryID     string
	PrimaryCategoryName   string
	SecondaryCategoryID   string
	SecondaryCategoryName string
	GenericCategoryID     string
	GenericCategoryName   string
	IsRx                  string
	IsHazmat              string
}

// rowFromFields maps an ordered column slice onto the fixed field layout.
// Missing trailing columns become empty strings; extra columns are ignored.
func rowFromFields(fields []string) Row {
	var padded [FieldCount]string
	copy(padded[:], fields)
	return Row{
		SiteSource:            padded[0],
		ItemID:                padded[1],
		ManufacturerID:        padded[2],
		ManufacturerCode:      padded[3],
		ManufacturerName:      padded[4],
		ProductID:             padded[5],
		ProductName:           padded[6],
		ProductDescription:    padded[7],
		ManufacturerItemCode:  padded[8],
		ItemDescription:       padded[9],
		ImageFileName:         padded[10],
		ImageURL:              padded[11],
		NDCItemCode:           padded[12],
		Packaging:             padded[13],
		UnitPrice:             padded[14],
		QuantityOnHand:        padded[15],
		PriceDescription:      padded[16],
		Availability:          padded[17],
		PrimaryCategoryID:     padded[18],
		PrimaryCategoryName:   padded[19],
		SecondaryCategoryID:   padded[20],
		SecondaryCategoryName: padded[21],
		GenericCategoryID:     padded[22],
		GenericCategoryName:   padded[23],
		IsRx:                  padded[24],
		IsHazmat:              padded[25],
	}
}

// HasIdentity reports whether the row carries the identifiers required for
// grouping. Rows without them are dropped with a warning, never an error.
func (r Row) HasIdentity() bool {
	return strings.TrimSpace(r.ProductID) != "" && strings.TrimSpace(r.ItemID) != ""
}

// UnitPriceDecimal parses the unit price leniently: unparsable values are
// zero, never an error.
func (r Row) UnitPriceDecimal() decimal.Decimal {
	parsed, err := decimal.NewFromString(strings.TrimSpace(r.UnitPrice))
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

// InStock reports whether quantity-on-hand parses as an integer strictly
// greater than zero. Unparsable values count as out of stock.
func (r Row) InStock() bool {
	qty, err := strconv.Atoi(strings.TrimSpace(r.QuantityOnHand))
	if err != nil {
		return false
	}
	return qty > 0
}
