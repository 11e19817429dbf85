package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one pending selection: (user, menu item, quantity).
// Quantity is always positive; an update to zero or below deletes the row.
type CartItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_user_item"`
	MenuItemID uuid.UUID `gorm:"column:menu_item_id;type:uuid;not null;uniqueIndex:idx_cart_user_item"`
	Quantity   int       `gorm:"column:quantity;not null"`
	MenuItem   *MenuItem `gorm:"foreignKey:MenuItemID"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
