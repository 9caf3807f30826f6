package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is a distributor site the catalog feed originates from.
// Identity key is Name (derived from the feed's site source); vendors are
// created on first encounter and never mutated by the import pipeline.
type Vendor struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name       string    `gorm:"column:name;uniqueIndex;not null"`
	SiteSource string    `gorm:"column:site_source;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
