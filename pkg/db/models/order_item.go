package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is an order line snapshotted at checkout time. PricePaise is
// the cart-snapshot price, never re-read from the live MenuItem; the
// MenuItem association is loaded for display fields only.
type OrderItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	MenuItemID uuid.UUID `gorm:"column:menu_item_id;type:uuid;not null"`
	Quantity   int       `gorm:"column:quantity;not null"`
	PricePaise int       `gorm:"column:price_paise;not null"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
