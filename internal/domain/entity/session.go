package entity

import (
	domainerrors "medistore/internal/domain/errors"

	"github.com/google/uuid"
)

// Session is the verified identity attached to a request.
type Session struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	EmailVerified bool      `json:"emailVerified"`
	Banned        bool      `json:"banned"`
}

// IsAdmin reports whether the session belongs to an administrator.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// Authorize checks the session against a route's declared role set.
// An empty role set admits any signed-in, verified, non-banned user.
func (s *Session) Authorize(required Roles) error {
	if s == nil {
		return domainerrors.ErrUnauthorized
	}
	if s.Banned {
		return domainerrors.ErrUserBanned
	}
	if !s.EmailVerified {
		return domainerrors.ErrEmailNotVerified
	}
	if len(required) > 0 && !required.Contains(s.Role) {
		return domainerrors.ErrForbidden
	}

	return nil
}
