package auth

import (
	"fmt"
	"time"

	"github.com/angelmondragon/cartstore/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// MintProfileToken signs a token binding the client to profileID.
func MintProfileToken(cfg config.ProfileConfig, now time.Time, profileID uuid.UUID) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("profile secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("profile issuer is required")
	}
	if profileID == uuid.Nil {
		return "", fmt.Errorf("profile id is required")
	}

	claims := ProfileClaims{
		ProfileID: profileID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   cfg.Issuer,
			Subject:  profileID.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl := cfg.TTL(); ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing profile token: %w", err)
	}
	return signed, nil
}

// ParseProfileToken validates the token string and returns typed claims.
func ParseProfileToken(cfg config.ProfileConfig, tokenString string) (*ProfileClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("profile secret is required")
	}

	claims := &ProfileClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}
	if claims.ProfileID == uuid.Nil {
		return nil, fmt.Errorf("profile token carries no profile id")
	}
	return claims, nil
}
