// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"catalog/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// List returns every user ordered by id.
	List(ctx context.Context) ([]*entity.User, error)

	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByEmailForUpdate reads the user from the primary and locks the row until the
	// surrounding transaction ends. Concurrent callers for the same user are serialized.
	FindByEmailForUpdate(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update overwrites name, email and password hash of an existing user.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes the user. Returns ErrUserNotFound when no row matched.
	Delete(ctx context.Context, id uint) error
}
