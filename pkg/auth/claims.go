package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ProfileClaims identifies the cart profile whose storage scope a client owns.
type ProfileClaims struct {
	ProfileID uuid.UUID `json:"profile_id"`
	jwt.RegisteredClaims
}
