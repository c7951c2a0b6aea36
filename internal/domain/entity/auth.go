// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderType identifies how a credential authenticates a user.
type ProviderType string

const (
	// ProviderTypeEmail is the email/password credential.
	ProviderTypeEmail ProviderType = "email"
	// ProviderTypeGoogle is a linked Google account.
	ProviderTypeGoogle ProviderType = "google"
)

// Authentication represents a single method of logging in (a credential).
// For example, a user's email/password is one record, while a linked Google account is another.
type Authentication struct {
	ID             uuid.UUID    // The unique ID for this specific authentication record itself.
	UserID         uuid.UUID    // Links this authentication method to the User it belongs to.
	Provider       ProviderType // The authentication provider, e.g., "email", "google".
	ProviderUserID string       // The email for "email", the 'sub' claim for "google".
	PasswordHash   string       // Stores the bcrypt-hashed password, only used when the Provider is "email".
	CreatedAt      time.Time
}

// SessionRecord is the server-side half of a signed-in session as kept by the session store.
type SessionRecord struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsExpired reports whether the session is past its expiry at the given instant.
func (s *SessionRecord) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
