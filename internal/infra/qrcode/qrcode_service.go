// Package qrcode renders shelf-label QR codes for medicines.
package qrcode

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"

	"medistore/config"
	"medistore/internal/domain/service"
)

const (
	defaultSize    = 256
	medicinePath   = "/medicine/"
	defaultBaseURL = "http://localhost:3000"
)

type qrcodeService struct {
	baseURL              string
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeServiceFromConfig builds the service from application configuration.
func NewQRCodeServiceFromConfig(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return NewQRCodeService(cfg.PublicBaseURL, defaultSize, "M")
	}

	return NewQRCodeService(cfg.PublicBaseURL, cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(baseURL string, size int, errorCorrectionLevel string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if size <= 0 {
		size = defaultSize
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &qrcodeService{
		baseURL:              strings.TrimRight(baseURL, "/"),
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// MedicineURL returns the storefront page encoded in a medicine's QR code.
func (s *qrcodeService) MedicineURL(medicineID uuid.UUID) string {
	return s.baseURL + medicinePath + medicineID.String()
}

// GenerateMedicineQR generates a PNG QR code for the medicine's storefront page
func (s *qrcodeService) GenerateMedicineQR(medicineID uuid.UUID) ([]byte, error) {
	qrCode, err := qrcode.New(s.MedicineURL(medicineID), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseMedicineQR extracts the medicine ID from a scanned storefront URL
func (s *qrcodeService) ParseMedicineQR(qrData string) (uuid.UUID, error) {
	parsed, err := url.Parse(strings.TrimSpace(qrData))
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse QR code URL")
	}

	idx := strings.LastIndex(parsed.Path, medicinePath)
	if idx < 0 {
		return uuid.Nil, errors.Errorf("not a medicine QR code: %s", qrData)
	}

	medicineID, err := uuid.Parse(strings.Trim(parsed.Path[idx+len(medicinePath):], "/"))
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse medicine ID")
	}

	return medicineID, nil
}
