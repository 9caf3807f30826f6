package models

import "time"

// Manufacturer is keyed by the feed's manufacturer id. The name is written
// once at creation and never updated on later encounters (first write wins).
type Manufacturer struct {
	ManufacturerID string    `gorm:"column:manufacturer_id;primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
