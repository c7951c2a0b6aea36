package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's rating of a medicine they received.
type Review struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"userId"`
	MedicineID    uuid.UUID `json:"medicineId"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	ReviewerName  string    `json:"reviewerName,omitempty"`
	ReviewerImage string    `json:"reviewerImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
