package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	domaintrade "github.com/storefront/backend/internal/domain/trade"
)

func paidEventForProduct(t *testing.T, repo *fakeProductRepo, qty int) (*catalog.Product, *domaintrade.OrderPaidEvent) {
	t.Helper()

	product, err := catalog.NewProduct("Mouse", "", "MOU-001", valueobject.NewMoneyBRLFromFloat(50), 10)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), product))

	cart := domaintrade.NewCart(uuid.New())
	require.NoError(t, cart.AddItem(product.Snapshot(), qty))
	order, err := cart.ToOrder()
	require.NoError(t, err)

	return product, domaintrade.NewOrderPaidEvent(order)
}

func TestStockHandler_DeductsOnPaid(t *testing.T) {
	repo := newFakeProductRepo()
	handler := NewStockHandler(repo, zap.NewNop())
	product, event := paidEventForProduct(t, repo, 3)

	require.NoError(t, handler.Handle(context.Background(), event))
	assert.Equal(t, 7, product.Stock)
}

func TestStockHandler_UnknownProductIsSkipped(t *testing.T) {
	repo := newFakeProductRepo()
	handler := NewStockHandler(repo, zap.NewNop())

	cart := domaintrade.NewCart(uuid.New())
	require.NoError(t, cart.AddItem(catalog.ProductSnapshot{ProductID: uuid.New(), Name: "Ghost"}, 1))
	order, err := cart.ToOrder()
	require.NoError(t, err)

	assert.NoError(t, handler.Handle(context.Background(), domaintrade.NewOrderPaidEvent(order)))
}

func TestStockHandler_OversellDoesNotFailEvent(t *testing.T) {
	repo := newFakeProductRepo()
	handler := NewStockHandler(repo, zap.NewNop())
	product, event := paidEventForProduct(t, repo, 3)

	// stock dropped between payment and event delivery
	require.NoError(t, product.SetStock(1))
	require.NoError(t, handler.Handle(context.Background(), event))
	assert.Equal(t, 1, product.Stock)
}

func TestStockHandler_RestoresOnPaidCancel(t *testing.T) {
	repo := newFakeProductRepo()
	handler := NewStockHandler(repo, zap.NewNop())

	product, err := catalog.NewProduct("Mouse", "", "MOU-001", valueobject.NewMoneyBRLFromFloat(50), 7)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), product))

	cart := domaintrade.NewCart(uuid.New())
	require.NoError(t, cart.AddItem(product.Snapshot(), 3))
	order, err := cart.ToOrder()
	require.NoError(t, err)

	require.NoError(t, handler.Handle(context.Background(), domaintrade.NewOrderCanceledEvent(order, true)))
	assert.Equal(t, 10, product.Stock)
}

func TestStockHandler_UnpaidCancelIsIgnored(t *testing.T) {
	repo := newFakeProductRepo()
	handler := NewStockHandler(repo, zap.NewNop())

	product, err := catalog.NewProduct("Mouse", "", "MOU-001", valueobject.NewMoneyBRLFromFloat(50), 7)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), product))

	cart := domaintrade.NewCart(uuid.New())
	require.NoError(t, cart.AddItem(product.Snapshot(), 3))
	order, err := cart.ToOrder()
	require.NoError(t, err)

	require.NoError(t, handler.Handle(context.Background(), domaintrade.NewOrderCanceledEvent(order, false)))
	assert.Equal(t, 7, product.Stock)
}
