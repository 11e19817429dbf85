package models

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors the identity rows managed by the external auth provider.
// This service only reads the id and display name.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FullName  string    `gorm:"column:full_name;not null"`
	Email     string    `gorm:"column:email;not null;unique"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
