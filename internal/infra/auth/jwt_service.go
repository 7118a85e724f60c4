package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"catalog/config"
	"catalog/internal/domain/service"
)

const tokenIssuer = "catalog"

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Tokens are signed, but authority comes from the stored session: a valid signature alone
// does not authenticate a request.
type jwtService struct {
	secret []byte
	ttl    time.Duration // Zero means issued tokens carry no exp claim.
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("token signing secret must be provided")
	}

	var ttl time.Duration
	if cfg.Auth != nil && cfg.Auth.TokenTTL > 0 {
		ttl = cfg.Auth.TokenTTL
	}

	return &jwtService{
		secret: []byte(cfg.SecretKey.Access),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token for the user. The session id is embedded as jti so every
// token is unique even when issued within the same second.
func (s *jwtService) Issue(userID uint, abilities []string) (*service.IssuedToken, error) {
	sessionID, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate session id")
	}

	now := s.now()
	claims := &service.Claims{
		UserID:    userID,
		Abilities: abilities,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        sessionID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	var expiresAt *time.Time
	if s.ttl > 0 {
		exp := now.Add(s.ttl)
		expiresAt = &exp
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign token")
	}

	return &service.IssuedToken{
		Token:     token,
		Hash:      s.HashToken(token),
		SessionID: sessionID,
		ExpiresAt: expiresAt,
	}, nil
}

// ValidateToken checks the validity of a token string against the signing secret.
func (s *jwtService) ValidateToken(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, errors.Wrap(err, "token carries an invalid jti")
	}
	claims.SessionID = sessionID

	if claims.Subject != strconv.FormatUint(uint64(claims.UserID), 10) {
		return nil, errors.New("token subject mismatch")
	}

	return claims, nil
}

// HashToken returns the hex encoded SHA-256 digest of the token.
func (s *jwtService) HashToken(tokenString string) string {
	sum := sha256.Sum256([]byte(tokenString))

	return hex.EncodeToString(sum[:])
}
