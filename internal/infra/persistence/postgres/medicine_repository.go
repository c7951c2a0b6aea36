package postgres

import (
	"context"
	"strings"

	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/repository"
	"medistore/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var medicineOrderClauses = map[repository.MedicineOrder]string{
	repository.MedicineOrderNewest:    "created_at DESC, id DESC",
	repository.MedicineOrderOldest:    "created_at ASC, id ASC",
	repository.MedicineOrderPriceAsc:  "price ASC, id ASC",
	repository.MedicineOrderPriceDesc: "price DESC, id DESC",
	repository.MedicineOrderNameAsc:   "name ASC, id ASC",
	repository.MedicineOrderNameDesc:  "name DESC, id DESC",
	repository.MedicineOrderStockDesc: "stock DESC, id DESC",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// medicineRepository implements the repository.MedicineRepository interface.
type medicineRepository struct {
	db *gorm.DB
}

// NewMedicineRepository is the constructor for medicineRepository.
func NewMedicineRepository(db *gorm.DB) repository.MedicineRepository {
	return &medicineRepository{
		db: db,
	}
}

// List returns one page of medicines matching every condition of the filter, plus the total match count.
func (repo *medicineRepository) List(ctx context.Context, filter repository.MedicineFilter) ([]*entity.Medicine, int64, error) {
	scope := repo.filterScope(filter)

	var total int64
	if err := repo.db.WithContext(ctx).
		Model(&model.MedicineModel{}).
		Scopes(scope).
		Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count medicines")
	}

	orderBy, ok := medicineOrderClauses[filter.OrderBy]
	if !ok {
		orderBy = medicineOrderClauses[repository.MedicineOrderNewest]
	}

	query := repo.db.WithContext(ctx).
		Scopes(scope).
		Preload("Tags").
		Order(orderBy)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var medicineModels []*model.MedicineModel
	if err := query.Find(&medicineModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list medicines")
	}

	medicines := make([]*entity.Medicine, 0, len(medicineModels))
	for _, medicineM := range medicineModels {
		medicines = append(medicines, toMedicineDomain(medicineM))
	}

	return medicines, total, nil
}

func (repo *medicineRepository) filterScope(filter repository.MedicineFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search := strings.TrimSpace(filter.Search); search != "" {
			pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
			db = db.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
		}

		if tags := normalizeTags(filter.Tags); len(tags) > 0 {
			// Superset match: the medicine must carry every requested tag.
			withAllTags := repo.db.
				Model(&model.MedicineTagModel{}).
				Select("medicine_id").
				Where("tag IN ?", tags).
				Group("medicine_id").
				Having("COUNT(DISTINCT tag) = ?", len(tags))
			db = db.Where("id IN (?)", withAllTags)
		}

		switch filter.Stock {
		case repository.StockAvailable:
			db = db.Where("stock > 0")
		case repository.StockUnavailable:
			db = db.Where("stock <= 0")
		case repository.StockAny:
		}

		if filter.SellerID != nil {
			db = db.Where("seller_id = ?", *filter.SellerID)
		}
		if filter.Manufacturer != "" {
			db = db.Where("manufacturer = ?", filter.Manufacturer)
		}
		if filter.Category != "" {
			db = db.Where("category = ?", string(filter.Category))
		}

		return db
	}
}

// FindByID retrieves a single medicine with its tags.
func (repo *medicineRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	var medicineM model.MedicineModel
	if err := repo.db.WithContext(ctx).
		Preload("Tags").
		Where("id = ?", id).
		First(&medicineM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMedicineNotFound
		}

		return nil, errors.Wrap(err, "failed to find medicine by id")
	}

	return toMedicineDomain(&medicineM), nil
}

// FindByIDForUpdate reads the medicine and its tags with SELECT ... FOR UPDATE. Must run inside a transaction.
// Tags are loaded because Update rewrites them from the returned medicine.
func (repo *medicineRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	var medicineM model.MedicineModel
	if err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Tags").
		Where("id = ?", id).
		First(&medicineM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMedicineNotFound
		}

		return nil, errors.Wrap(err, "failed to lock medicine")
	}

	return toMedicineDomain(&medicineM), nil
}

// Create persists a new medicine and its tags atomically.
func (repo *medicineRepository) Create(ctx context.Context, medicine *entity.Medicine) error {
	if medicine.ID == uuid.Nil {
		medicine.ID = uuid.New()
	}
	medicine.Tags = normalizeTags(medicine.Tags)
	medicineM := fromMedicineDomain(medicine)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(medicineM).Error; err != nil {
			return err
		}

		return replaceTags(tx, medicine.ID, medicine.Tags)
	})
	if err != nil {
		if isCheckConstraintViolation(err) || isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid medicine data")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create medicine")
	}

	medicine.CreatedAt = medicineM.CreatedAt
	medicine.UpdatedAt = medicineM.UpdatedAt

	return nil
}

// Update overwrites the editable fields of a medicine and replaces its tags.
func (repo *medicineRepository) Update(ctx context.Context, medicine *entity.Medicine) error {
	medicine.Tags = normalizeTags(medicine.Tags)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.MedicineModel{}).
			Where("id = ?", medicine.ID).
			Updates(map[string]any{
				"name":         medicine.Name,
				"description":  medicine.Description,
				"price":        medicine.Price,
				"stock":        medicine.Stock,
				"manufacturer": medicine.Manufacturer,
				"category":     string(medicine.Category),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repository.ErrMedicineNotFound
		}

		return replaceTags(tx, medicine.ID, medicine.Tags)
	})
	if err != nil {
		if errors.Is(err, repository.ErrMedicineNotFound) {
			return err
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid medicine data")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update medicine")
	}

	return nil
}

// Delete removes a medicine and its tags. Medicines referenced by orders cannot be deleted.
func (repo *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("medicine_id = ?", id).Delete(&model.MedicineTagModel{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&model.MedicineModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repository.ErrMedicineNotFound
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrMedicineNotFound) {
			return err
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("medicine is referenced by existing orders")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete medicine")
	}

	return nil
}

// DecrementStock subtracts quantity with a guarded update; zero affected rows means not enough stock.
func (repo *medicineRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.MedicineModel{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))

	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return repository.ErrStockConflict
		}

		return errors.Wrap(result.Error, "failed to decrement stock")
	}

	if result.RowsAffected == 0 {
		return repository.ErrStockConflict
	}

	return nil
}

// IncrementStock returns quantity to a medicine's stock.
func (repo *medicineRepository) IncrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.MedicineModel{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", quantity))

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to increment stock")
	}

	if result.RowsAffected == 0 {
		return repository.ErrMedicineNotFound
	}

	return nil
}

func replaceTags(tx *gorm.DB, medicineID uuid.UUID, tags []string) error {
	if err := tx.Where("medicine_id = ?", medicineID).Delete(&model.MedicineTagModel{}).Error; err != nil {
		return err
	}

	if len(tags) == 0 {
		return nil
	}

	rows := make([]model.MedicineTagModel, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, model.MedicineTagModel{MedicineID: medicineID, Tag: tag})
	}

	return tx.Create(&rows).Error
}

// normalizeTags trims, drops empties and removes duplicates while keeping first-seen order.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}

	return normalized
}

// --- Mapper Functions ---

// toMedicineDomain converts a GORM MedicineModel to a domain Medicine entity.
func toMedicineDomain(data *model.MedicineModel) *entity.Medicine {
	if data == nil {
		return nil
	}

	tags := make([]string, 0, len(data.Tags))
	for _, tag := range data.Tags {
		tags = append(tags, tag.Tag)
	}

	return &entity.Medicine{
		ID:           data.ID,
		Name:         data.Name,
		Description:  data.Description,
		Price:        data.Price,
		Stock:        data.Stock,
		Manufacturer: data.Manufacturer,
		Category:     entity.Category(data.Category),
		Tags:         tags,
		SellerID:     data.SellerID,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromMedicineDomain converts a domain Medicine entity to a GORM MedicineModel. Tags are written separately.
func fromMedicineDomain(data *entity.Medicine) *model.MedicineModel {
	if data == nil {
		return nil
	}

	return &model.MedicineModel{
		ID:           data.ID,
		Name:         data.Name,
		Description:  data.Description,
		Price:        data.Price,
		Stock:        data.Stock,
		Manufacturer: data.Manufacturer,
		Category:     string(data.Category),
		SellerID:     data.SellerID,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
