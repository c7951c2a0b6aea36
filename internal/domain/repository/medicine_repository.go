package repository

import (
	"context"

	"medistore/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// ErrMedicineNotFound is returned when a medicine does not exist.
	ErrMedicineNotFound = errors.New("medicine not found")
	// ErrStockConflict is returned when a guarded stock decrement matched no row.
	ErrStockConflict = errors.New("stock changed concurrently or is insufficient")
)

// StockFilter is the tri-state stock availability filter.
type StockFilter int

const (
	StockAny StockFilter = iota
	StockAvailable
	StockUnavailable
)

// MedicineOrder is the sort order of a catalog listing.
type MedicineOrder string

const (
	MedicineOrderNewest    MedicineOrder = "newest"
	MedicineOrderOldest    MedicineOrder = "oldest"
	MedicineOrderPriceAsc  MedicineOrder = "price_asc"
	MedicineOrderPriceDesc MedicineOrder = "price_desc"
	MedicineOrderNameAsc   MedicineOrder = "name_asc"
	MedicineOrderNameDesc  MedicineOrder = "name_desc"
	MedicineOrderStockDesc MedicineOrder = "stock_desc"
)

// IsValid checks if the sort order is supported.
func (o MedicineOrder) IsValid() bool {
	switch o {
	case MedicineOrderNewest, MedicineOrderOldest, MedicineOrderPriceAsc, MedicineOrderPriceDesc,
		MedicineOrderNameAsc, MedicineOrderNameDesc, MedicineOrderStockDesc:
		return true
	default:
		return false
	}
}

// MedicineFilter is the conjunctive predicate of a catalog listing.
// Zero values disable a condition.
type MedicineFilter struct {
	Search       string
	Tags         []string
	Stock        StockFilter
	SellerID     *uuid.UUID
	Manufacturer string
	Category     entity.Category
	Offset       int
	Limit        int
	OrderBy      MedicineOrder
}

// MedicineRepository defines persistence operations for the catalog.
type MedicineRepository interface {
	// List returns the page selected by the filter and the total number of matches.
	List(ctx context.Context, filter MedicineFilter) ([]*entity.Medicine, int64, error)

	// FindByID retrieves a single medicine.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error)

	// FindByIDForUpdate retrieves a medicine and locks its row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Medicine, error)

	// Create persists a new medicine with its tags.
	Create(ctx context.Context, medicine *entity.Medicine) error

	// Update overwrites a medicine's fields and replaces its tags.
	Update(ctx context.Context, medicine *entity.Medicine) error

	// Delete removes a medicine.
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock subtracts quantity only if enough stock remains; otherwise ErrStockConflict.
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error

	// IncrementStock returns quantity to the medicine's stock.
	IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error
}
