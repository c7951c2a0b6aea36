package handler

import (
	"log/slog"
	"net/http"

	"medistore/internal/delivery/api/response"
	"medistore/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ReviewHandlerParams holds dependencies for ReviewHandler, injected by Fx.
type ReviewHandlerParams struct {
	fx.In

	ReviewUC usecase.ReviewUsecase
	Logger   *slog.Logger
}

// ReviewHandler serves the review endpoints.
type ReviewHandler struct {
	reviewUC usecase.ReviewUsecase
	logger   *slog.Logger
}

// NewReviewHandler is the constructor for ReviewHandler
func NewReviewHandler(params ReviewHandlerParams) *ReviewHandler {
	return &ReviewHandler{
		reviewUC: params.ReviewUC,
		logger:   params.Logger,
	}
}

// AddReviewRequest is the body of a review. The rating range is checked after the purchase check.
type AddReviewRequest struct {
	MedicineID uuid.UUID `json:"medicineId" validate:"required"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
}

// AddReview records a review of a medicine the caller has received.
func (h *ReviewHandler) AddReview(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	var req AddReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.reviewUC.AddReview(c.Request().Context(), session.UserID, &usecase.AddReviewInput{
		MedicineID: req.MedicineID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, review, "Review added successfully")
}

// GetMedicineReviews lists the reviews of a medicine.
func (h *ReviewHandler) GetMedicineReviews(c echo.Context) error {
	medicineID, err := pathID(c, "medicineId")
	if err != nil {
		return err
	}

	reviews, err := h.reviewUC.GetMedicineReviews(c.Request().Context(), medicineID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, reviews, "Reviews retrieved successfully")
}
