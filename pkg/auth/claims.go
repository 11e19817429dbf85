package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenClaims is the typed JWT issued by the external auth provider.
// This service consumes only the user identity and display name.
type AccessTokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name,omitempty"`
	jwt.RegisteredClaims
}
