package auth

import (
	"testing"

	"catalog/config"
	domainerrors "catalog/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func strictConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost},
		PasswordStrength: &config.PasswordStrengthConfig{
			Enabled:        true,
			MinLength:      8,
			RequireLetter:  true,
			RequireNumbers: true,
			RequireSpecial: true,
			SpecialChars:   "!$#%",
		},
	}
}

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost}})

	password := "secret"
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	// Verify the hash can be checked
	assert.True(t, hasher.Check(password, hash))
}

func TestBcryptHasher_DefaultCost(t *testing.T) {
	hasher := NewBcryptHasher(nil)

	hash, err := hasher.Hash("secret")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestBcryptHasher_HashTooLong(t *testing.T) {
	hasher := NewBcryptHasher(strictConfig())

	// bcrypt rejects inputs longer than 72 bytes
	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}

	_, err := hasher.Hash(string(long))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := NewBcryptHasher(strictConfig())
	password := "Passw0rd!"

	// Generate hash
	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	// Test correct password
	assert.True(t, hasher.Check(password, hash))

	// Test incorrect password
	assert.False(t, hasher.Check("Wrong0rd!", hash))

	// Test empty password
	assert.False(t, hasher.Check("", hash))

	// Test with invalid hash
	assert.False(t, hasher.Check(password, "invalid_hash"))
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := NewBcryptHasher(strictConfig())

	validPasswords := []string{
		"Passw0rd!",
		"abcdefg1$",
		"1234567a#",
		"zzzzzz9%",
	}
	for _, password := range validPasswords {
		assert.NoError(t, hasher.ValidatePasswordStrength(password), "Expected no error for valid password: %s", password)
	}

	weakPasswords := []string{
		"a1!",       // Too short
		"password!", // No number
		"12345678!", // No letter
		"Password1", // No special character
		"Passw0rd@", // Special character outside the allowed set
	}
	for _, password := range weakPasswords {
		err := hasher.ValidatePasswordStrength(password)
		assert.Error(t, err, "Expected error for weak password: %s", password)
		assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
	}
}

func TestBcryptHasher_ValidatePasswordStrength_Disabled(t *testing.T) {
	cfg := strictConfig()
	cfg.PasswordStrength.Enabled = false
	hasher := NewBcryptHasher(cfg)

	assert.NoError(t, hasher.ValidatePasswordStrength("x"))
	assert.NoError(t, NewBcryptHasher(nil).ValidatePasswordStrength(""))
}

func TestBcryptHasher_ValidatePasswordStrength_Details(t *testing.T) {
	hasher := NewBcryptHasher(strictConfig())

	err := hasher.ValidatePasswordStrength("abc")
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PASSWORD_STRENGTH", appErr.ErrorCode())
	assert.Contains(t, appErr.Details(), "too short")
	assert.Contains(t, appErr.Details(), "must contain a number")
}
