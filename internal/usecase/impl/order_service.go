package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"

	deliverycontext "medistore/internal/delivery/context"
	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/repository"
	"medistore/internal/domain/service"
	"medistore/internal/usecase"
)

// publishTimeout bounds the post-commit event publication.
const publishTimeout = 5 * time.Second

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	orderRepo repository.OrderRepository
	publisher service.EventPublisher
	logger    *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	OrderRepo repository.OrderRepository
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager: params.TxManager,
		orderRepo: params.OrderRepo,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

type orderLine struct {
	medicineID uuid.UUID
	quantity   int
}

// parseOrderItems validates the cart before any row is touched.
func parseOrderItems(input *usecase.CreateOrderInput) ([]orderLine, error) {
	if input == nil || len(input.Items) == 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("order must contain at least one item")
	}

	lines := make([]orderLine, 0, len(input.Items))
	for idx, item := range input.Items {
		medicineID, err := uuid.Parse(item.MedicineID)
		if err != nil {
			return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("items[%d]: invalid medicine id", idx))
		}
		if item.Quantity <= 0 {
			return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("items[%d]: quantity must be positive", idx))
		}
		lines = append(lines, orderLine{medicineID: medicineID, quantity: item.Quantity})
	}

	return lines, nil
}

// lineTotal multiplies price by quantity, reporting overflow.
func lineTotal(price int64, quantity int) (int64, bool) {
	if price < 0 || quantity <= 0 {
		return 0, false
	}
	if price != 0 && int64(quantity) > math.MaxInt64/price {
		return 0, false
	}

	return price * int64(quantity), true
}

func insufficientStock(medicine *entity.Medicine, requested int) error {
	return domainerrors.ErrInsufficientStock.WithDetails(
		fmt.Sprintf("%s: requested %d, available %d", medicine.Name, requested, medicine.Stock),
	)
}

// CreateOrder reserves stock for every item in input order and records a PENDING order.
// Each medicine row is locked before its stock is checked, and the decrement is guarded
// by the stock it was checked against, so concurrent orders cannot oversell.
func (srv *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, input *usecase.CreateOrderInput) (*entity.Order, error) {
	lines, err := parseOrderItems(input)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Creating order", slog.Any("user_id", userID), slog.Int("items", len(lines)))

	var order *entity.Order
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		medicineRepo := repoFactory.MedicineRepo()

		var total int64
		items := make([]*entity.OrderItem, 0, len(lines))
		for _, line := range lines {
			medicine, err := medicineRepo.FindByIDForUpdate(ctx, line.medicineID)
			if err != nil {
				if errors.Is(err, repository.ErrMedicineNotFound) {
					return domainerrors.ErrMedicineNotFound.WithDetails(fmt.Sprintf("medicine %s does not exist", line.medicineID))
				}

				return errors.Wrap(err, "failed to lock medicine")
			}

			if !medicine.InStock(line.quantity) {
				return insufficientStock(medicine, line.quantity)
			}

			amount, ok := lineTotal(medicine.Price, line.quantity)
			if !ok || total > math.MaxInt64-amount {
				return domainerrors.ErrValidationFailed.WithDetails("order total is too large")
			}
			total += amount

			if err := medicineRepo.DecrementStock(ctx, medicine.ID, line.quantity); err != nil {
				if errors.Is(err, repository.ErrStockConflict) {
					return insufficientStock(medicine, line.quantity)
				}

				return errors.Wrap(err, "failed to decrement stock")
			}
			medicine.Stock -= line.quantity

			items = append(items, &entity.OrderItem{
				MedicineID: medicine.ID,
				Quantity:   line.quantity,
				Price:      medicine.Price,
				Medicine:   medicine,
			})
		}

		order = &entity.Order{
			UserID:     userID,
			TotalPrice: total,
			Status:     entity.OrderStatusPending,
			Items:      items,
		}
		if err := repoFactory.OrderRepo().Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Order rejected", slog.Any("user_id", userID), slog.Any("error", err))

		return nil, err
	}

	srv.log(ctx).Info("Order created",
		slog.Any("order_id", order.ID),
		slog.Any("user_id", userID),
		slog.Int64("total_price", order.TotalPrice),
	)
	srv.publish(ctx, entity.NewOrderEvent(entity.OrderEventCreated, order, ""))

	return order, nil
}

// publish sends an order event after commit. Failures are logged and never surfaced.
func (srv *orderService) publish(ctx context.Context, event *entity.OrderEvent) {
	event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := srv.publisher.PublishOrderEvent(pubCtx, event); err != nil {
		srv.log(ctx).Error("Failed to publish order event",
			slog.String("event_id", event.EventID),
			slog.String("type", string(event.Type)),
			slog.String("order_id", event.OrderID),
			slog.Any("error", err),
		)
	}
}

// GetMyOrders returns the caller's orders, newest first.
func (srv *orderService) GetMyOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list user orders")
	}

	return orders, nil
}

// GetSellerOrders returns every order for ADMIN, otherwise the orders containing the seller's medicines.
func (srv *orderService) GetSellerOrders(ctx context.Context, userID uuid.UUID, role entity.Role) ([]*entity.Order, error) {
	var (
		orders []*entity.Order
		err    error
	)
	if role == entity.RoleAdmin {
		orders, err = srv.orderRepo.FindAll(ctx)
	} else {
		orders, err = srv.orderRepo.FindBySeller(ctx, userID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to list seller orders")
	}

	return orders, nil
}

// canView reports whether the session may see the order.
func canView(session *entity.Session, order *entity.Order) bool {
	return session.IsAdmin() || order.IsOwnedBy(session.UserID) || order.HasSeller(session.UserID)
}

// GetOrder returns one order visible to its owner, a seller of one of its medicines, or ADMIN.
func (srv *orderService) GetOrder(ctx context.Context, session *entity.Session, orderID uuid.UUID) (*entity.Order, error) {
	if session == nil {
		return nil, domainerrors.ErrUnauthorized
	}

	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	if !canView(session, order) {
		return nil, domainerrors.ErrForbidden.WithDetails("order is not visible to this account")
	}

	return order, nil
}

// UpdateOrderStatus applies one transition of the order state machine with the order row locked.
// Cancelling a PENDING order releases its reserved stock in the same transaction.
func (srv *orderService) UpdateOrderStatus(ctx context.Context, session *entity.Session, orderID uuid.UUID, status entity.OrderStatus) (*entity.Order, error) {
	if session == nil {
		return nil, domainerrors.ErrUnauthorized
	}
	if !status.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf("unknown order status %q", status))
	}

	var (
		order    *entity.Order
		previous entity.OrderStatus
	)
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		var err error
		order, err = orderRepo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return domainerrors.ErrOrderNotFound
			}

			return errors.Wrap(err, "failed to lock order")
		}

		if !session.IsAdmin() && !order.HasSeller(session.UserID) {
			return domainerrors.ErrForbidden.WithDetails("order does not contain your medicines")
		}

		previous = order.Status
		if !previous.CanTransitionTo(status) {
			return domainerrors.ErrInvalidTransition.WithDetails(fmt.Sprintf("%s -> %s", previous, status))
		}

		if status == entity.OrderStatusCancelled {
			medicineRepo := repoFactory.MedicineRepo()
			for _, item := range order.Items {
				if err := medicineRepo.IncrementStock(ctx, item.MedicineID, item.Quantity); err != nil {
					return errors.Wrap(err, "failed to restore stock")
				}
			}
		}

		if err := orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
			return errors.Wrap(err, "failed to update order status")
		}
		order.Status = status
		order.UpdatedAt = time.Now().UTC()

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Order status update rejected",
			slog.Any("order_id", orderID),
			slog.String("status", status.String()),
			slog.Any("error", err),
		)

		return nil, err
	}

	srv.log(ctx).Info("Order status updated",
		slog.Any("order_id", orderID),
		slog.String("from", previous.String()),
		slog.String("to", status.String()),
	)
	srv.publish(ctx, entity.NewOrderEvent(entity.OrderEventStatusChanged, order, previous))

	return order, nil
}
