package postgres

import (
	"context"

	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/repository"
	"medistore/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// reviewRepository implements the repository.ReviewRepository interface.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{
		db: db,
	}
}

// Create persists a new review.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Omit("User").Create(reviewM).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("rating must be between 1 and 5")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	review.CreatedAt = reviewM.CreatedAt

	return nil
}

// FindByMedicine returns a medicine's reviews, newest first, with the reviewer's name and image.
func (repo *reviewRepository) FindByMedicine(ctx context.Context, medicineID uuid.UUID) ([]*entity.Review, error) {
	var reviewModels []*model.ReviewModel
	if err := repo.db.WithContext(ctx).
		Preload("User").
		Where("medicine_id = ?", medicineID).
		Order("created_at DESC, id DESC").
		Find(&reviewModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find reviews by medicine")
	}

	reviews := make([]*entity.Review, 0, len(reviewModels))
	for _, reviewM := range reviewModels {
		reviews = append(reviews, toReviewDomain(reviewM))
	}

	return reviews, nil
}

// --- Mapper Functions ---

// toReviewDomain converts a GORM ReviewModel to a domain Review entity.
func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	review := &entity.Review{
		ID:         data.ID,
		UserID:     data.UserID,
		MedicineID: data.MedicineID,
		Rating:     data.Rating,
		Comment:    data.Comment,
		CreatedAt:  data.CreatedAt,
	}
	if data.User != nil {
		review.ReviewerName = data.User.Name
		review.ReviewerImage = data.User.Image
	}

	return review
}

// fromReviewDomain converts a domain Review entity to a GORM ReviewModel.
func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:         data.ID,
		UserID:     data.UserID,
		MedicineID: data.MedicineID,
		Rating:     data.Rating,
		Comment:    data.Comment,
		CreatedAt:  data.CreatedAt,
	}
}
