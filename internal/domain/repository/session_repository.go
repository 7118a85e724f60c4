package repository

import (
	"context"

	"catalog/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrSessionNotFound is returned when no session matches a token hash or id.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository stores the bearer token sessions of users.
type SessionRepository interface {
	// Create persists a new session.
	Create(ctx context.Context, session *entity.Session) error

	// FindByTokenHash retrieves a session by the hash of its bearer token.
	// Expired sessions are returned as-is; the caller decides what to do with them.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error)

	// Delete removes a single session by id. Returns ErrSessionNotFound when no row matched.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByUserID removes every session of the user and reports how many were removed.
	// Removing zero sessions is not an error.
	DeleteByUserID(ctx context.Context, userID uint) (int64, error)

	// CountByUserID returns the number of stored sessions of the user, expired ones included.
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}
