package postgres

import (
	"context"
	"testing"

	"medistore/internal/domain/entity"
	domainerrors "medistore/internal/domain/errors"
	"medistore/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func medicineNames(medicines []*entity.Medicine) []string {
	names := make([]string, 0, len(medicines))
	for _, m := range medicines {
		names = append(names, m.Name)
	}

	return names
}

func TestMedicineRepository_ListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewMedicineRepository(db)
	ctx := context.Background()

	sellerA := seedUser(t, db, "seller-a", entity.RoleSeller)
	sellerB := seedUser(t, db, "seller-b", entity.RoleSeller)

	seedMedicine(t, db, &entity.Medicine{
		Name: "Paracetamol 500mg", Description: "Fast pain relief", Price: 500, Stock: 10,
		Manufacturer: "Acme", Category: entity.CategoryOTC, Tags: []string{"pain", "fever"}, SellerID: sellerA.ID,
	})
	seedMedicine(t, db, &entity.Medicine{
		Name: "Vitamin C", Description: "Daily immunity support", Price: 300, Stock: 0,
		Manufacturer: "Nutra", Category: entity.CategorySupplement, Tags: []string{"immunity"}, SellerID: sellerA.ID,
	})
	seedMedicine(t, db, &entity.Medicine{
		Name: "Ibuprofen", Description: "Anti-inflammatory tablets", Price: 800, Stock: 5,
		Manufacturer: "Acme", Category: entity.CategoryOTC, Tags: []string{"pain"}, SellerID: sellerA.ID,
	})
	seedMedicine(t, db, &entity.Medicine{
		Name: "Amoxicillin", Description: "Antibiotic capsules", Price: 1200, Stock: 3,
		Manufacturer: "Medix", Category: entity.CategoryPrescription, Tags: []string{"antibiotic"}, SellerID: sellerB.ID,
	})

	tests := []struct {
		name      string
		filter    repository.MedicineFilter
		wantNames []string
		wantTotal int64
	}{
		{
			name:      "case-insensitive search over name and description",
			filter:    repository.MedicineFilter{Search: "PAIN", OrderBy: repository.MedicineOrderNameAsc},
			wantNames: []string{"Paracetamol 500mg"},
			wantTotal: 1,
		},
		{
			name:      "tags must all be present",
			filter:    repository.MedicineFilter{Tags: []string{"pain", "fever"}},
			wantNames: []string{"Paracetamol 500mg"},
			wantTotal: 1,
		},
		{
			name:      "single tag",
			filter:    repository.MedicineFilter{Tags: []string{"pain"}, OrderBy: repository.MedicineOrderNameAsc},
			wantNames: []string{"Ibuprofen", "Paracetamol 500mg"},
			wantTotal: 2,
		},
		{
			name:      "out of stock only",
			filter:    repository.MedicineFilter{Stock: repository.StockUnavailable},
			wantNames: []string{"Vitamin C"},
			wantTotal: 1,
		},
		{
			name:      "in stock sorted by stock",
			filter:    repository.MedicineFilter{Stock: repository.StockAvailable, OrderBy: repository.MedicineOrderStockDesc},
			wantNames: []string{"Paracetamol 500mg", "Ibuprofen", "Amoxicillin"},
			wantTotal: 3,
		},
		{
			name:      "seller",
			filter:    repository.MedicineFilter{SellerID: &sellerB.ID},
			wantNames: []string{"Amoxicillin"},
			wantTotal: 1,
		},
		{
			name: "manufacturer and category",
			filter: repository.MedicineFilter{
				Manufacturer: "Acme", Category: entity.CategoryOTC, OrderBy: repository.MedicineOrderPriceAsc,
			},
			wantNames: []string{"Paracetamol 500mg", "Ibuprofen"},
			wantTotal: 2,
		},
		{
			name:      "pagination keeps the full total",
			filter:    repository.MedicineFilter{OrderBy: repository.MedicineOrderPriceDesc, Limit: 2, Offset: 1},
			wantNames: []string{"Ibuprofen", "Paracetamol 500mg"},
			wantTotal: 4,
		},
		{
			name:      "like wildcards are literal",
			filter:    repository.MedicineFilter{Search: "%"},
			wantNames: []string{},
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			medicines, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Equal(t, tt.wantNames, medicineNames(medicines))
		})
	}
}

func TestMedicineRepository_FindByIDLoadsTags(t *testing.T) {
	db := newTestDB(t)
	repo := NewMedicineRepository(db)
	seller := seedUser(t, db, "seller", entity.RoleSeller)

	created := seedMedicine(t, db, &entity.Medicine{
		Name: "Cetirizine", Description: "Allergy relief", Price: 250, Stock: 4,
		Manufacturer: "Acme", Tags: []string{" allergy ", "allergy", ""}, SellerID: seller.ID,
	})

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"allergy"}, found.Tags)
	assert.Equal(t, seller.ID, found.SellerID)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrMedicineNotFound)
}

func TestMedicineRepository_StockGuard(t *testing.T) {
	db := newTestDB(t)
	repo := NewMedicineRepository(db)
	ctx := context.Background()
	seller := seedUser(t, db, "seller", entity.RoleSeller)
	medicine := seedMedicine(t, db, &entity.Medicine{
		Name: "Aspirin", Description: "Tablets", Price: 100, Stock: 5, Manufacturer: "Acme", SellerID: seller.ID,
	})

	require.NoError(t, repo.DecrementStock(ctx, medicine.ID, 3))
	assert.ErrorIs(t, repo.DecrementStock(ctx, medicine.ID, 3), repository.ErrStockConflict)

	found, err := repo.FindByID(ctx, medicine.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Stock)

	require.NoError(t, repo.IncrementStock(ctx, medicine.ID, 3))
	found, err = repo.FindByID(ctx, medicine.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Stock)

	assert.ErrorIs(t, repo.IncrementStock(ctx, uuid.New(), 1), repository.ErrMedicineNotFound)
}

func TestMedicineRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewMedicineRepository(db)
	ctx := context.Background()
	seller := seedUser(t, db, "seller", entity.RoleSeller)
	medicine := seedMedicine(t, db, &entity.Medicine{
		Name: "Loratadine", Description: "Tablets", Price: 300, Stock: 5, Manufacturer: "Acme",
		Tags: []string{"allergy"}, SellerID: seller.ID,
	})

	medicine.Name = "Loratadine 10mg"
	medicine.Stock = 0
	medicine.Tags = []string{"allergy", "non-drowsy"}
	require.NoError(t, repo.Update(ctx, medicine))

	found, err := repo.FindByID(ctx, medicine.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loratadine 10mg", found.Name)
	assert.Equal(t, 0, found.Stock)
	assert.ElementsMatch(t, []string{"allergy", "non-drowsy"}, found.Tags)

	missing := &entity.Medicine{ID: uuid.New(), Name: "ghost", Category: entity.CategoryOTC}
	assert.ErrorIs(t, repo.Update(ctx, missing), repository.ErrMedicineNotFound)

	require.NoError(t, repo.Delete(ctx, medicine.ID))
	_, err = repo.FindByID(ctx, medicine.ID)
	assert.ErrorIs(t, err, repository.ErrMedicineNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, medicine.ID), repository.ErrMedicineNotFound)
}

func TestMedicineRepository_DeleteReferencedByOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seller := seedUser(t, db, "seller", entity.RoleSeller)
	customer := seedUser(t, db, "customer", entity.RoleCustomer)
	medicine := seedMedicine(t, db, &entity.Medicine{
		Name: "Omeprazole", Description: "Capsules", Price: 400, Stock: 5, Manufacturer: "Acme", SellerID: seller.ID,
	})

	require.NoError(t, NewOrderRepository(db).Create(ctx, &entity.Order{
		UserID:     customer.ID,
		TotalPrice: 400,
		Items:      []*entity.OrderItem{{MedicineID: medicine.ID, Quantity: 1, Price: 400}},
	}))

	err := NewMedicineRepository(db).Delete(ctx, medicine.ID)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}
