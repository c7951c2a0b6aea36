package service

import (
	"context"
	"net/http"

	"medistore/internal/domain/entity"
)

// SessionVerifier resolves request credentials to the caller's session.
// It returns (nil, nil) when the request carries no valid session, so callers
// can decide between anonymous access and ErrUnauthorized.
type SessionVerifier interface {
	VerifySession(ctx context.Context, header http.Header) (*entity.Session, error)
}
