package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// AbilityAll grants every ability. Issued tokens always carry it.
const AbilityAll = "*"

// Session is one active authenticated session of a user, represented on the wire by a bearer token.
// At most one session exists per user; a new login supersedes the previous one.
type Session struct {
	ID        uuid.UUID  // The unique ID for this session, also carried as the token's jti.
	UserID    uint       // Links this session to the User it belongs to.
	Name      string     // Client label of the token, e.g. "app_token".
	TokenHash string     // SHA-256 hash of the bearer token; the token itself is never stored.
	Abilities []string   // Granted abilities, always ["*"] today.
	ExpiresAt *time.Time // Nil when the token never expires.
	CreatedAt time.Time
}

// IsExpired reports whether the session is past its expiry at now.
func (s *Session) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && !s.ExpiresAt.After(now)
}

// Can reports whether the session grants the ability.
func (s *Session) Can(ability string) bool {
	return slices.Contains(s.Abilities, AbilityAll) || slices.Contains(s.Abilities, ability)
}
