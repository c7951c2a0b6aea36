package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicineModel mirrors the 'medicines' table. Stock can never go negative.
type MedicineModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null;index"`
	Description  string    `gorm:"type:text;not null"`
	Price        int64     `gorm:"not null;check:chk_medicines_price,price >= 0"`
	Stock        int       `gorm:"not null;default:0;check:chk_medicines_stock,stock >= 0"`
	Manufacturer string    `gorm:"type:varchar(255);not null;index"`
	Category     string    `gorm:"type:varchar(50);not null;index"`
	SellerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time

	Tags []MedicineTagModel `gorm:"foreignKey:MedicineID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (MedicineModel) TableName() string {
	return "medicines"
}

// MedicineTagModel mirrors the 'medicine_tags' table, one row per (medicine, tag).
type MedicineTagModel struct {
	MedicineID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Tag        string    `gorm:"type:varchar(100);primaryKey;index"`
}

// TableName explicitly sets the table name for GORM.
func (MedicineTagModel) TableName() string {
	return "medicine_tags"
}
