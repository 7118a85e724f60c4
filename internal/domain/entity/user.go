// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is an account of the catalog API. Email is unique and used as the login key.
type User struct {
	ID           uint      // Database generated identifier.
	Name         string    // Display name.
	Email        string    // Unique login identifier.
	PasswordHash string    // bcrypt hash; the plaintext is never stored nor returned.
	CreatedAt    time.Time // Timestamp of when this user account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this user's data.
}
