package handler

import (
	"log/slog"
	"net/http"

	"medistore/internal/delivery/api/response"
	"medistore/internal/domain/entity"
	"medistore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// OrderHandlerParams holds dependencies for OrderHandler, injected by Fx.
type OrderHandlerParams struct {
	fx.In

	OrderUC usecase.OrderUsecase
	Logger  *slog.Logger
}

// OrderHandler serves the order endpoints.
type OrderHandler struct {
	orderUC usecase.OrderUsecase
	logger  *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler
func NewOrderHandler(params OrderHandlerParams) *OrderHandler {
	return &OrderHandler{
		orderUC: params.OrderUC,
		logger:  params.Logger,
	}
}

// OrderItemRequest is one cart line. Prices are never accepted from the client.
type OrderItemRequest struct {
	MedicineID string `json:"medicineId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
}

// CreateOrderRequest is the cart submitted at checkout.
type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest moves an order to a new status.
type UpdateOrderStatusRequest struct {
	Status entity.OrderStatus `json:"status" validate:"required"`
}

// CreateOrder places an order for the caller.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := &usecase.CreateOrderInput{Items: make([]usecase.OrderItemInput, 0, len(req.Items))}
	for _, item := range req.Items {
		input.Items = append(input.Items, usecase.OrderItemInput{
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
		})
	}

	order, err := h.orderUC.CreateOrder(c.Request().Context(), session.UserID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order, "Order placed successfully")
}

// GetMyOrders lists the caller's own orders.
func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	orders, err := h.orderUC.GetMyOrders(c.Request().Context(), session.UserID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "Orders retrieved successfully")
}

// GetSellerOrders lists orders containing the caller's medicines, or every order for ADMIN.
func (h *OrderHandler) GetSellerOrders(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	orders, err := h.orderUC.GetSellerOrders(c.Request().Context(), session.UserID, session.Role)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "Orders retrieved successfully")
}

// GetOrder returns one order visible to the caller.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	order, err := h.orderUC.GetOrder(c.Request().Context(), session, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order retrieved successfully")
}

// UpdateOrderStatus changes the status of an order.
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	session, err := currentSession(c)
	if err != nil {
		return err
	}

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req UpdateOrderStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.orderUC.UpdateOrderStatus(c.Request().Context(), session, id, req.Status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order status updated successfully")
}
