// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"catalog/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// TokenOutput carries a freshly issued bearer token.
type TokenOutput struct {
	Token string
	User  *entity.User
}

// Principal is the authenticated caller of a protected request.
type Principal struct {
	User    *entity.User
	Session *entity.Session
}

// AuthUsecase issues, resolves and revokes bearer tokens.
type AuthUsecase interface {
	// Register creates the user and issues its first token in one transaction.
	Register(ctx context.Context, input *RegisterInput) (*TokenOutput, error)

	// Login verifies the credentials, revokes every token of the user and issues exactly one new token.
	// Concurrent logins of the same user are serialized.
	Login(ctx context.Context, input *LoginInput) (*TokenOutput, error)

	// Authenticate resolves a bearer token to its user. Unknown, revoked or expired tokens fail.
	Authenticate(ctx context.Context, token string) (*Principal, error)

	// Logout revokes the session the caller authenticated with.
	Logout(ctx context.Context, principal *Principal) error
}
