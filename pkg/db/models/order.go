package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/PrasannaVit-21/chummaOrder/pkg/enums"
)

// Order is the persisted purchase header. The checkout flow creates it in
// status pending; every later status/payment transition belongs to the
// fulfillment side and is only observed here.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	TotalPaise    int                 `gorm:"column:total_paise;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
