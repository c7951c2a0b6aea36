package usecase

import (
	"context"

	"github.com/google/uuid"

	"medistore/internal/domain/entity"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// --- Input DTOs ---

// ListMedicinesInput carries the raw catalog query parameters.
type ListMedicinesInput struct {
	Search       string
	Tags         []string
	Stock        string // "true", "false"; anything else is ignored.
	SellerID     string
	Manufacturer string
	Category     string
	Page         int // 1-based
	Take         int
	OrderBy      string
}

// CreateMedicineInput defines a new catalog entry.
type CreateMedicineInput struct {
	Name         string
	Description  string
	Price        int64
	Stock        int
	Manufacturer string
	Category     entity.Category
	Tags         []string
}

// UpdateMedicineInput is a partial update; nil fields are left unchanged.
type UpdateMedicineInput struct {
	Name         *string
	Description  *string
	Price        *int64
	Stock        *int
	Manufacturer *string
	Category     *entity.Category
	Tags         *[]string
}

// --- Output DTOs ---

// PageMeta describes a page of a list result.
type PageMeta struct {
	TotalItem    int64 `json:"totalItem"`
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalPages   int   `json:"totalPages"`
	TimeTaken    int64 `json:"timeTaken"` // milliseconds
}

// ListMedicinesOutput is one page of the catalog.
type ListMedicinesOutput struct {
	Data []*entity.Medicine
	Meta PageMeta
}

// MedicineUsecase defines catalog operations.
type MedicineUsecase interface {
	ListMedicines(ctx context.Context, input *ListMedicinesInput) (*ListMedicinesOutput, error)
	GetMedicine(ctx context.Context, id uuid.UUID) (*entity.Medicine, error)
	CreateMedicine(ctx context.Context, session *entity.Session, input *CreateMedicineInput) (*entity.Medicine, error)
	UpdateMedicine(ctx context.Context, session *entity.Session, id uuid.UUID, input *UpdateMedicineInput) (*entity.Medicine, error)
	DeleteMedicine(ctx context.Context, session *entity.Session, id uuid.UUID) error
	// MedicineQRCode renders a PNG QR code linking to the medicine's storefront page.
	MedicineQRCode(ctx context.Context, id uuid.UUID) ([]byte, error)
}
