package jwtutil

import (
	"cmms-service/pkg/config"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	secret          = []byte("cmms-secret-key")
	expirationHours = 24
)

// Initialize configures the signing key and token lifetime
func Initialize(cfg *config.JWTConfig) {
	if cfg.SigningKey != "" {
		secret = []byte(cfg.SigningKey)
	}
	if cfg.ExpirationHours > 0 {
		expirationHours = cfg.ExpirationHours
	}
}

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	Email        string `json:"email"`
	UserID       uint   `json:"user_id"`
	TenantID     *uint  `json:"tenant_id,omitempty"` // Primary tenant for scoping
	TenantName   string `json:"tenant_name,omitempty"`
	Role         string `json:"role,omitempty"` // User's primary role
	IsSuperAdmin bool   `json:"is_super_admin,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a JWT token with user, tenant and role information
func GenerateToken(email string, userID uint, tenantID *uint, tenantName, role string, isSuperAdmin bool) (string, error) {
	claims := UserClaims{
		Email:        email,
		UserID:       userID,
		TenantID:     tenantID,
		TenantName:   tenantName,
		Role:         role,
		IsSuperAdmin: isSuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * time.Duration(expirationHours))),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
