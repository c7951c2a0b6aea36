package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"medistore/internal/delivery/api/response"
	"medistore/internal/domain/entity"
	"medistore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// MedicineHandlerParams holds dependencies for MedicineHandler, injected by Fx.
type MedicineHandlerParams struct {
	fx.In

	MedicineUC usecase.MedicineUsecase
	Logger     *slog.Logger
}

// MedicineHandler serves the catalog endpoints.
type MedicineHandler struct {
	medicineUC usecase.MedicineUsecase
	logger     *slog.Logger
}

// NewMedicineHandler is the constructor for MedicineHandler
func NewMedicineHandler(params MedicineHandlerParams) *MedicineHandler {
	return &MedicineHandler{
		medicineUC: params.MedicineUC,
		logger:     params.Logger,
	}
}

// CreateMedicineRequest is the body of a new catalog entry.
type CreateMedicineRequest struct {
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description"`
	Price        int64           `json:"price" validate:"gte=0"`
	Stock        int             `json:"stock" validate:"gte=0"`
	Manufacturer string          `json:"manufacturer"`
	Category     entity.Category `json:"category"`
	Tags         []string        `json:"tags"`
}

// UpdateMedicineRequest is a partial update; omitted fields are left unchanged.
type UpdateMedicineRequest struct {
	Name         *string          `json:"name" validate:"omitnil,min=1"`
	Description  *string          `json:"description"`
	Price        *int64           `json:"price" validate:"omitnil,gte=0"`
	Stock        *int             `json:"stock" validate:"omitnil,gte=0"`
	Manufacturer *string          `json:"manufacturer"`
	Category     *entity.Category `json:"category"`
	Tags         *[]string        `json:"tags"`
}

// ListMedicines returns one page of the catalog.
// Query: search, tags (comma separated), stock, sellerID, manufacturer, category, page, take, orderBy.
func (h *MedicineHandler) ListMedicines(c echo.Context) error {
	input := &usecase.ListMedicinesInput{
		Search:       c.QueryParam("search"),
		Tags:         splitTags(c.QueryParam("tags")),
		Stock:        c.QueryParam("stock"),
		SellerID:     c.QueryParam("sellerID"),
		Manufacturer: c.QueryParam("manufacturer"),
		Category:     c.QueryParam("category"),
		Page:         queryInt(c, "page"),
		Take:         queryInt(c, "take"),
		OrderBy:      c.QueryParam("orderBy"),
	}

	output, err := h.medicineUC.ListMedicines(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Page(c, output.Data, response.PageMetaInfo{
		TotalItem:    output.Meta.TotalItem,
		CurrentPage:  output.Meta.CurrentPage,
		ItemsPerPage: output.Meta.ItemsPerPage,
		TotalPages:   output.Meta.TotalPages,
		TimeTaken:    output.Meta.TimeTaken,
	}, "Medicines retrieved successfully")
}

// GetMedicine returns one medicine.
func (h *MedicineHandler) GetMedicine(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	medicine, err := h.medicineUC.GetMedicine(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, medicine, "Medicine retrieved successfully")
}

// GetMedicineQR serves a PNG QR code linking to the medicine's storefront page.
func (h *MedicineHandler) GetMedicineQR(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	png, err := h.medicineUC.MedicineQRCode(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// CreateMedicine adds a medicine owned by the caller.
func (h *MedicineHandler) CreateMedicine(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	var req CreateMedicineRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	medicine, err := h.medicineUC.CreateMedicine(c.Request().Context(), session, &usecase.CreateMedicineInput{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Stock:        req.Stock,
		Manufacturer: req.Manufacturer,
		Category:     req.Category,
		Tags:         req.Tags,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, medicine, "Medicine created successfully")
}

// UpdateMedicine patches a medicine owned by the caller, or any medicine for ADMIN.
func (h *MedicineHandler) UpdateMedicine(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateMedicineRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	medicine, err := h.medicineUC.UpdateMedicine(c.Request().Context(), session, id, &usecase.UpdateMedicineInput{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Stock:        req.Stock,
		Manufacturer: req.Manufacturer,
		Category:     req.Category,
		Tags:         req.Tags,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, medicine, "Medicine updated successfully")
}

// DeleteMedicine removes a medicine owned by the caller, or any medicine for ADMIN.
func (h *MedicineHandler) DeleteMedicine(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.medicineUC.DeleteMedicine(c.Request().Context(), session, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Medicine deleted successfully")
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}

	tags := make([]string, 0)
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}
