package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	found := make([]*catalog.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			found = append(found, product)
		}
	}
	return found, nil
}

func (r *fakeProductRepo) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	for _, product := range r.products {
		if product.SKU == sku {
			return product, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]*catalog.Product, int64, error) {
	all := make([]*catalog.Product, 0, len(r.products))
	for _, product := range r.products {
		all = append(all, product)
	}
	return all, int64(len(all)), nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func TestProductService_Create(t *testing.T) {
	service := NewProductService(newFakeProductRepo())

	created, err := service.Create(context.Background(), CreateProductRequest{
		Name:  "Wireless Mouse",
		SKU:   "mou-001",
		Price: decimal.NewFromFloat(99.90),
		Stock: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, "Wireless Mouse", created.Name)
	assert.Equal(t, "MOU-001", created.SKU)
	assert.Equal(t, 10, created.Stock)
}

func TestProductService_Create_DuplicateSKU(t *testing.T) {
	service := NewProductService(newFakeProductRepo())

	_, err := service.Create(context.Background(), CreateProductRequest{
		Name: "Mouse", SKU: "MOU-001", Price: decimal.NewFromFloat(10), Stock: 1,
	})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), CreateProductRequest{
		Name: "Another Mouse", SKU: "MOU-001", Price: decimal.NewFromFloat(20), Stock: 1,
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	service := NewProductService(newFakeProductRepo())

	_, err := service.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductService_Update(t *testing.T) {
	repo := newFakeProductRepo()
	service := NewProductService(repo)

	created, err := service.Create(context.Background(), CreateProductRequest{
		Name: "Mouse", SKU: "MOU-001", Price: decimal.NewFromFloat(10), Stock: 5,
	})
	require.NoError(t, err)

	newName := "Gaming Mouse"
	newPrice := decimal.NewFromFloat(149.90)
	newStock := 8
	updated, err := service.Update(context.Background(), created.ID, UpdateProductRequest{
		Name:  &newName,
		Price: &newPrice,
		Stock: &newStock,
	})
	require.NoError(t, err)

	assert.Equal(t, "Gaming Mouse", updated.Name)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, 8, updated.Stock)
	// untouched fields stay
	assert.Equal(t, "MOU-001", updated.SKU)
}

func TestProductService_Delete(t *testing.T) {
	repo := newFakeProductRepo()
	service := NewProductService(repo)

	created, err := service.Create(context.Background(), CreateProductRequest{
		Name: "Mouse", SKU: "MOU-001", Price: decimal.NewFromFloat(10), Stock: 5,
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))
	_, err = service.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = service.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
