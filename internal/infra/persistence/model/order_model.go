package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderModel mirrors the 'orders' table.
type OrderModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	TotalPrice int64     `gorm:"not null"`
	Status     string    `gorm:"type:varchar(20);not null;default:PENDING;index"`
	CreatedAt  time.Time `gorm:"index"`
	UpdatedAt  time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel mirrors the 'order_items' table. Rows are immutable once written.
type OrderItemModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	MedicineID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   int       `gorm:"not null;check:chk_order_items_quantity,quantity > 0"`
	Price      int64     `gorm:"not null"`
	// LineNo keeps items in the order they were submitted.
	LineNo int `gorm:"not null;default:0"`

	Medicine *MedicineModel `gorm:"foreignKey:MedicineID;constraint:OnDelete:RESTRICT"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}
