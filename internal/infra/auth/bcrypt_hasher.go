// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"catalog/config"
	domainerrors "catalog/internal/domain/errors"
	"catalog/internal/domain/service"
)

const defaultMinPasswordLength = 8

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy *config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	var policy *config.PasswordStrengthConfig
	if cfg != nil && cfg.PasswordStrength != nil && cfg.PasswordStrength.Enabled {
		policy = cfg.PasswordStrength
	}

	return &bcryptHasher{
		cost:   cost,
		policy: policy,
	}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage(err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength checks the password against the configured policy.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	if h.policy == nil {
		return nil
	}

	minLength := h.policy.MinLength
	if minLength <= 0 {
		minLength = defaultMinPasswordLength
	}

	var problems []string
	if len([]rune(password)) < minLength {
		problems = append(problems, "too short")
	}

	var hasLetter, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasNumber = true
		case strings.ContainsRune(h.policy.SpecialChars, r):
			hasSpecial = true
		}
	}

	if h.policy.RequireLetter && !hasLetter {
		problems = append(problems, "must contain a letter")
	}
	if h.policy.RequireNumbers && !hasNumber {
		problems = append(problems, "must contain a number")
	}
	if h.policy.RequireSpecial && !hasSpecial {
		problems = append(problems, "must contain one of "+h.policy.SpecialChars)
	}

	if len(problems) > 0 {
		return domainerrors.ErrPasswordStrength.WithDetails(strings.Join(problems, ", "))
	}

	return nil
}
