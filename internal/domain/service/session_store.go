package service

import (
	"context"

	"medistore/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrSessionNotFound is returned when a session is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps server-side session records.
type SessionStore interface {
	// Create stores a session until its ExpiresAt.
	Create(ctx context.Context, session *entity.SessionRecord) error

	// Get returns a live session or ErrSessionNotFound.
	Get(ctx context.Context, id uuid.UUID) (*entity.SessionRecord, error)

	// Delete removes a single session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByUser removes every session of the user.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
