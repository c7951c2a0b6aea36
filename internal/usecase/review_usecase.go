package usecase

import (
	"context"

	"github.com/google/uuid"

	"medistore/internal/domain/entity"
)

// AddReviewInput defines a review submitted by a customer.
type AddReviewInput struct {
	MedicineID uuid.UUID
	Rating     int
	Comment    string
}

// ReviewUsecase defines purchase-gated review operations.
type ReviewUsecase interface {
	AddReview(ctx context.Context, userID uuid.UUID, input *AddReviewInput) (*entity.Review, error)
	GetMedicineReviews(ctx context.Context, medicineID uuid.UUID) ([]*entity.Review, error)
}
