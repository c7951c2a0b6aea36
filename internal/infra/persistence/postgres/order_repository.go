package postgres

import (
	"context"

	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/repository"
	"medistore/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// withItems preloads items in submission order together with their medicines.
func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no ASC")
		}).
		Preload("Items.Medicine").
		Preload("Items.Medicine.Tags")
}

// Create persists an order and its items.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = entity.OrderStatusPending
	}
	orderM := fromOrderDomain(order)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(orderM).Error; err != nil {
			return err
		}
		if len(orderM.Items) == 0 {
			return nil
		}

		return tx.Omit(clause.Associations).Create(&orderM.Items).Error
	})
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrMedicineNotFound.WrapMessage("order references an unknown medicine")
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid order item")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt
	for idx, item := range order.Items {
		item.ID = orderM.Items[idx].ID
		item.OrderID = order.ID
	}

	return nil
}

// FindByID retrieves an order with items and medicines.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := repo.db.WithContext(ctx).
		Scopes(withItems).
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// FindByIDForUpdate locks the order row, then loads its items. Must run inside a transaction.
func (repo *orderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to lock order")
	}

	var items []model.OrderItemModel
	if err := repo.db.WithContext(ctx).
		Preload("Medicine").
		Where("order_id = ?", id).
		Order("line_no ASC").
		Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load order items")
	}
	orderM.Items = items

	return toOrderDomain(&orderM), nil
}

// FindByUser returns the user's orders, newest first.
func (repo *orderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	return repo.findOrders(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	})
}

// FindBySeller returns orders with at least one item sold by the seller, newest first.
func (repo *orderRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]*entity.Order, error) {
	sellerOrderIDs := repo.db.
		Model(&model.OrderItemModel{}).
		Select("order_items.order_id").
		Joins("JOIN medicines ON medicines.id = order_items.medicine_id").
		Where("medicines.seller_id = ?", sellerID)

	return repo.findOrders(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("id IN (?)", sellerOrderIDs)
	})
}

// FindAll returns every order, newest first.
func (repo *orderRepository) FindAll(ctx context.Context) ([]*entity.Order, error) {
	return repo.findOrders(ctx, func(db *gorm.DB) *gorm.DB {
		return db
	})
}

func (repo *orderRepository) findOrders(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*entity.Order, error) {
	var orderModels []*model.OrderModel
	if err := repo.db.WithContext(ctx).
		Scopes(scope, withItems).
		Order("created_at DESC, id DESC").
		Find(&orderModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find orders")
	}

	orders := make([]*entity.Order, 0, len(orderModels))
	for _, orderM := range orderModels {
		orders = append(orders, toOrderDomain(orderM))
	}

	return orders, nil
}

// UpdateStatus overwrites the order status.
func (repo *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.OrderStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", id).
		Update("status", string(status))

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}

	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// HasDeliveredItem reports whether the user has a DELIVERED order containing the medicine.
func (repo *orderRepository) HasDeliveredItem(ctx context.Context, userID, medicineID uuid.UUID) (bool, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.OrderItemModel{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.medicine_id = ?",
			userID, string(entity.OrderStatusDelivered), medicineID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to check delivered purchase")
	}

	return count > 0, nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel (with loaded items) to a domain Order entity.
func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	items := make([]*entity.OrderItem, 0, len(data.Items))
	for idx := range data.Items {
		itemM := &data.Items[idx]
		items = append(items, &entity.OrderItem{
			ID:         itemM.ID,
			OrderID:    itemM.OrderID,
			MedicineID: itemM.MedicineID,
			Quantity:   itemM.Quantity,
			Price:      itemM.Price,
			Medicine:   toMedicineDomain(itemM.Medicine),
		})
	}

	return &entity.Order{
		ID:         data.ID,
		UserID:     data.UserID,
		TotalPrice: data.TotalPrice,
		Status:     entity.OrderStatus(data.Status),
		Items:      items,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

// fromOrderDomain converts a domain Order entity to a GORM OrderModel, assigning item IDs and line numbers.
func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	items := make([]model.OrderItemModel, 0, len(data.Items))
	for idx, item := range data.Items {
		itemID := item.ID
		if itemID == uuid.Nil {
			itemID = uuid.New()
		}
		items = append(items, model.OrderItemModel{
			ID:         itemID,
			OrderID:    data.ID,
			MedicineID: item.MedicineID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			LineNo:     idx,
		})
	}

	return &model.OrderModel{
		ID:         data.ID,
		UserID:     data.UserID,
		TotalPrice: data.TotalPrice,
		Status:     string(data.Status),
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
		Items:      items,
	}
}
