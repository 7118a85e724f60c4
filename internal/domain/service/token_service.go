package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by a bearer token.
type Claims struct {
	UserID    uint      `json:"uid"`
	SessionID uuid.UUID `json:"-"`
	Abilities []string  `json:"abilities"`
	jwt.RegisteredClaims
}

// IssuedToken is a freshly signed bearer token together with the values the session row stores.
type IssuedToken struct {
	Token     string     // The secret handed to the client. Never persisted.
	Hash      string     // Hex SHA-256 of Token, used as the lookup key.
	SessionID uuid.UUID  // Also carried as the token's jti.
	ExpiresAt *time.Time // Nil when tokens do not expire.
}

// TokenService defines the interface for generating and validating bearer tokens.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// Issue signs a new token for the user with the given abilities.
	Issue(userID uint, abilities []string) (*IssuedToken, error)

	// ValidateToken checks the signature and expiry of a token string.
	ValidateToken(tokenString string) (*Claims, error)

	// HashToken returns the lookup hash of a token string.
	HashToken(tokenString string) string
}
