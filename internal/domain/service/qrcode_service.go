package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateMedicineQR generates a PNG QR code pointing at the medicine's storefront page
	GenerateMedicineQR(medicineID uuid.UUID) ([]byte, error)

	// ParseMedicineQR parses QR code data and returns the medicine ID
	ParseMedicineQR(qrData string) (uuid.UUID, error)
}
