package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. IDs are generated by the application.
type UserModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email         string    `gorm:"type:varchar(255);unique;not null"`
	Name          string    `gorm:"type:varchar(100);not null"`
	Image         string    `gorm:"type:varchar(512)"`
	Role          string    `gorm:"type:varchar(20);not null;default:CUSTOMER"`
	EmailVerified bool      `gorm:"not null;default:false"`
	Banned        bool      `gorm:"not null;default:false"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time

	Authentications []AuthenticationModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
