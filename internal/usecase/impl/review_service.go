package impl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "medistore/internal/delivery/context"
	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/repository"
	"medistore/internal/usecase"
)

type reviewService struct {
	reviewRepo repository.ReviewRepository
	orderRepo  repository.OrderRepository
	logger     *slog.Logger
}

// ReviewServiceParams holds dependencies for ReviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	ReviewRepo repository.ReviewRepository
	OrderRepo  repository.OrderRepository
	Logger     *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		reviewRepo: params.ReviewRepo,
		orderRepo:  params.OrderRepo,
		logger:     params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AddReview records a review. The purchase check runs before any input validation.
func (srv *reviewService) AddReview(ctx context.Context, userID uuid.UUID, input *usecase.AddReviewInput) (*entity.Review, error) {
	purchased, err := srv.orderRepo.HasDeliveredItem(ctx, userID, input.MedicineID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check purchase history")
	}
	if !purchased {
		return nil, domainerrors.ErrNotPurchased
	}

	if input.Rating < entity.MinRating || input.Rating > entity.MaxRating {
		return nil, domainerrors.ErrValidationFailed.WithDetails("rating must be between 1 and 5")
	}

	review := &entity.Review{
		UserID:     userID,
		MedicineID: input.MedicineID,
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
	}
	if err := srv.reviewRepo.Create(ctx, review); err != nil {
		return nil, errors.Wrap(err, "failed to create review")
	}

	srv.log(ctx).Info("Review added",
		slog.Any("review_id", review.ID),
		slog.Any("medicine_id", review.MedicineID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// GetMedicineReviews lists a medicine's reviews, newest first.
func (srv *reviewService) GetMedicineReviews(ctx context.Context, medicineID uuid.UUID) ([]*entity.Review, error) {
	reviews, err := srv.reviewRepo.FindByMedicine(ctx, medicineID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	return reviews, nil
}
