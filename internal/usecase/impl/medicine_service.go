package impl

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "medistore/internal/delivery/context"
	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/repository"
	"medistore/internal/domain/service"
	"medistore/internal/usecase"
)

// medicineService implements the MedicineUsecase interface.
type medicineService struct {
	txManager    repository.TransactionManager
	medicineRepo repository.MedicineRepository
	qrService    service.QRCodeService
	logger       *slog.Logger
}

// MedicineServiceParams holds dependencies for MedicineService, injected by Fx.
type MedicineServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	MedicineRepo repository.MedicineRepository
	QRService    service.QRCodeService
	Logger       *slog.Logger
}

// NewMedicineService is the constructor for medicineService.
func NewMedicineService(params MedicineServiceParams) usecase.MedicineUsecase {
	return &medicineService{
		txManager:    params.TxManager,
		medicineRepo: params.MedicineRepo,
		qrService:    params.QRService,
		logger:       params.Logger,
	}
}

func (srv *medicineService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// buildMedicineFilter turns raw query parameters into a repository filter and the effective page.
func buildMedicineFilter(input *usecase.ListMedicinesInput) (repository.MedicineFilter, int, int, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	take := input.Take
	if take <= 0 {
		take = usecase.DefaultPageSize
	}
	if take > usecase.MaxPageSize {
		take = usecase.MaxPageSize
	}
	// Keep the offset within a 32-bit range; pages beyond it are simply empty.
	if maxPage := math.MaxInt32/take + 1; page > maxPage {
		page = maxPage
	}

	filter := repository.MedicineFilter{
		Search:       strings.TrimSpace(input.Search),
		Manufacturer: strings.TrimSpace(input.Manufacturer),
		Offset:       (page - 1) * take,
		Limit:        take,
		OrderBy:      repository.MedicineOrderNewest,
	}

	for _, tag := range input.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			filter.Tags = append(filter.Tags, tag)
		}
	}

	switch input.Stock {
	case "true":
		filter.Stock = repository.StockAvailable
	case "false":
		filter.Stock = repository.StockUnavailable
	default:
		filter.Stock = repository.StockAny
	}

	if input.SellerID != "" {
		sellerID, err := uuid.Parse(input.SellerID)
		if err != nil {
			return filter, 0, 0, domainerrors.ErrValidationFailed.WithDetails("sellerID must be a UUID")
		}
		filter.SellerID = &sellerID
	}

	if input.Category != "" {
		category := entity.Category(input.Category)
		if !category.IsValid() {
			return filter, 0, 0, domainerrors.ErrValidationFailed.WithDetails("unknown category " + input.Category)
		}
		filter.Category = category
	}

	if input.OrderBy != "" {
		orderBy := repository.MedicineOrder(input.OrderBy)
		if !orderBy.IsValid() {
			return filter, 0, 0, domainerrors.ErrValidationFailed.WithDetails("unknown orderBy " + input.OrderBy)
		}
		filter.OrderBy = orderBy
	}

	return filter, page, take, nil
}

// ListMedicines returns one page of the catalog matching every given condition.
func (srv *medicineService) ListMedicines(ctx context.Context, input *usecase.ListMedicinesInput) (*usecase.ListMedicinesOutput, error) {
	started := time.Now()

	if input == nil {
		input = &usecase.ListMedicinesInput{}
	}
	filter, page, take, err := buildMedicineFilter(input)
	if err != nil {
		return nil, err
	}

	medicines, total, err := srv.medicineRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list medicines")
	}

	totalPages := int((total + int64(take) - 1) / int64(take))

	return &usecase.ListMedicinesOutput{
		Data: medicines,
		Meta: usecase.PageMeta{
			TotalItem:    total,
			CurrentPage:  page,
			ItemsPerPage: take,
			TotalPages:   totalPages,
			TimeTaken:    time.Since(started).Milliseconds(),
		},
	}, nil
}

// GetMedicine returns a single catalog entry.
func (srv *medicineService) GetMedicine(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	medicine, err := srv.medicineRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMedicineNotFound) {
			return nil, domainerrors.ErrMedicineNotFound
		}

		return nil, errors.Wrap(err, "failed to find medicine")
	}

	return medicine, nil
}

func validateMedicine(medicine *entity.Medicine) error {
	switch {
	case strings.TrimSpace(medicine.Name) == "":
		return domainerrors.ErrValidationFailed.WithDetails("name is required")
	case medicine.Price < 0:
		return domainerrors.ErrValidationFailed.WithDetails("price must not be negative")
	case medicine.Stock < 0:
		return domainerrors.ErrValidationFailed.WithDetails("stock must not be negative")
	case !medicine.Category.IsValid():
		return domainerrors.ErrValidationFailed.WithDetails("unknown category " + string(medicine.Category))
	}

	return nil
}

// CreateMedicine adds a catalog entry owned by the caller.
func (srv *medicineService) CreateMedicine(ctx context.Context, session *entity.Session, input *usecase.CreateMedicineInput) (*entity.Medicine, error) {
	if session == nil {
		return nil, domainerrors.ErrUnauthorized
	}

	category := input.Category
	if category == "" {
		category = entity.CategoryOthers
	}

	medicine := &entity.Medicine{
		Name:         strings.TrimSpace(input.Name),
		Description:  input.Description,
		Price:        input.Price,
		Stock:        input.Stock,
		Manufacturer: strings.TrimSpace(input.Manufacturer),
		Category:     category,
		Tags:         input.Tags,
		SellerID:     session.UserID,
	}
	if err := validateMedicine(medicine); err != nil {
		return nil, err
	}

	if err := srv.medicineRepo.Create(ctx, medicine); err != nil {
		return nil, errors.Wrap(err, "failed to create medicine")
	}

	srv.log(ctx).Info("Medicine created", slog.Any("medicine_id", medicine.ID), slog.Any("seller_id", session.UserID))

	return medicine, nil
}

// canManage reports whether the session may modify the medicine.
func canManage(session *entity.Session, medicine *entity.Medicine) bool {
	return session.IsAdmin() || medicine.IsOwnedBy(session.UserID)
}

func applyMedicinePatch(medicine *entity.Medicine, input *usecase.UpdateMedicineInput) {
	if input.Name != nil {
		medicine.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		medicine.Description = *input.Description
	}
	if input.Price != nil {
		medicine.Price = *input.Price
	}
	if input.Stock != nil {
		medicine.Stock = *input.Stock
	}
	if input.Manufacturer != nil {
		medicine.Manufacturer = strings.TrimSpace(*input.Manufacturer)
	}
	if input.Category != nil {
		medicine.Category = *input.Category
	}
	if input.Tags != nil {
		medicine.Tags = *input.Tags
	}
}

// UpdateMedicine applies a partial update. Only the owning seller or an ADMIN may change a medicine.
// The row is locked so the update cannot interleave with a concurrent stock decrement.
func (srv *medicineService) UpdateMedicine(ctx context.Context, session *entity.Session, id uuid.UUID, input *usecase.UpdateMedicineInput) (*entity.Medicine, error) {
	if session == nil {
		return nil, domainerrors.ErrUnauthorized
	}

	var updated *entity.Medicine
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		medicineRepo := repoFactory.MedicineRepo()

		medicine, err := medicineRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrMedicineNotFound) {
				return domainerrors.ErrMedicineNotFound
			}

			return errors.Wrap(err, "failed to lock medicine")
		}

		if !canManage(session, medicine) {
			return domainerrors.ErrForbidden.WithDetails("only the seller or an admin can change this medicine")
		}

		applyMedicinePatch(medicine, input)
		if err := validateMedicine(medicine); err != nil {
			return err
		}

		if err := medicineRepo.Update(ctx, medicine); err != nil {
			return errors.Wrap(err, "failed to update medicine")
		}

		updated, err = medicineRepo.FindByID(ctx, id)

		return errors.Wrap(err, "failed to reload medicine")
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Medicine updated", slog.Any("medicine_id", id), slog.Any("user_id", session.UserID))

	return updated, nil
}

// DeleteMedicine removes a medicine. Only the owning seller or an ADMIN may delete it.
func (srv *medicineService) DeleteMedicine(ctx context.Context, session *entity.Session, id uuid.UUID) error {
	if session == nil {
		return domainerrors.ErrUnauthorized
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		medicineRepo := repoFactory.MedicineRepo()

		medicine, err := medicineRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrMedicineNotFound) {
				return domainerrors.ErrMedicineNotFound
			}

			return errors.Wrap(err, "failed to lock medicine")
		}

		if !canManage(session, medicine) {
			return domainerrors.ErrForbidden.WithDetails("only the seller or an admin can delete this medicine")
		}

		return errors.Wrap(medicineRepo.Delete(ctx, id), "failed to delete medicine")
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Info("Medicine deleted", slog.Any("medicine_id", id), slog.Any("user_id", session.UserID))

	return nil
}

// MedicineQRCode renders the shelf-label QR code of an existing medicine.
func (srv *medicineService) MedicineQRCode(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if _, err := srv.GetMedicine(ctx, id); err != nil {
		return nil, err
	}

	png, err := srv.qrService.GenerateMedicineQR(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate medicine QR code")
	}

	return png, nil
}
