package repository

import (
	"context"

	"medistore/internal/domain/entity"

	"github.com/google/uuid"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// Create persists a new review.
	Create(ctx context.Context, review *entity.Review) error

	// FindByMedicine returns a medicine's reviews, newest first, with the reviewer name and image.
	FindByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*entity.Review, error)
}
