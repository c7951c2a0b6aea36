package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a medicine in the catalog.
type Category string

const (
	CategoryPrescription Category = "prescription"
	CategoryOTC          Category = "otc"
	CategorySupplement   Category = "supplement"
	CategoryDevice       Category = "device"
	CategoryCosmetic     Category = "cosmetic"
	CategoryOthers       Category = "others"
)

// IsValid checks if the Category is a known value.
func (c Category) IsValid() bool {
	switch c {
	case CategoryPrescription, CategoryOTC, CategorySupplement, CategoryDevice, CategoryCosmetic, CategoryOthers:
		return true
	default:
		return false
	}
}

// Medicine is a catalog entry owned by a seller.
// Price is expressed in minor currency units; Stock never drops below zero.
type Medicine struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	Stock        int       `json:"stock"`
	Manufacturer string    `json:"manufacturer"`
	Category     Category  `json:"category"`
	Tags         []string  `json:"tags"`
	SellerID     uuid.UUID `json:"sellerID"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsOwnedBy reports whether the given user is the seller of the medicine.
func (m *Medicine) IsOwnedBy(userID uuid.UUID) bool {
	return m != nil && m.SellerID == userID
}

// InStock reports whether at least the given quantity can be allocated.
func (m *Medicine) InStock(quantity int) bool {
	return m != nil && m.Stock >= quantity
}
