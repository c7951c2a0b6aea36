package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewModel mirrors the 'reviews' table.
type ReviewModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	MedicineID uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating     int       `gorm:"not null;check:chk_reviews_rating,rating BETWEEN 1 AND 5"`
	Comment    string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"index"`

	User *UserModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}

// All returns every model in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&AuthenticationModel{},
		&MedicineModel{},
		&MedicineTagModel{},
		&OrderModel{},
		&OrderItemModel{},
		&ReviewModel{},
		&UserDeviceModel{},
	}
}
