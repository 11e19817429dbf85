package models

import (
	"time"

	"github.com/google/uuid"
)

// MenuItem is a purchasable canteen item. Stock is mutated by checkout
// decrements here and by the canteen's own inventory tooling; rows are
// never deleted during checkout, only decremented.
type MenuItem struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string    `gorm:"column:name;not null"`
	Description       string    `gorm:"column:description;not null;default:''"`
	Category          string    `gorm:"column:category;not null"`
	PricePaise        int       `gorm:"column:price_paise;not null"`
	QuantityAvailable int       `gorm:"column:quantity_available;not null;default:0"`
	ImageURL          *string   `gorm:"column:image_url"`
	Serves            int       `gorm:"column:serves;not null;default:1"`
	Rating            *float64  `gorm:"column:rating"`
	CanteenName       string    `gorm:"column:canteen_name;not null;default:''"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
