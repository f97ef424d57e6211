package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/trade"
	"github.com/storefront/backend/internal/infrastructure/cache"
)

// MockOrderRepository implements trade.OrderRepository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter trade.OrderFilter) ([]*trade.Order, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*trade.Order), args.Get(1).(int64), args.Error(2)
}

// stubGateway returns canned charge and refund results and records the
// last charge request it received
type stubGateway struct {
	chargeResult payment.ChargeResult
	chargeErr    error
	lastCharge   payment.ChargeRequest
}

func (g *stubGateway) Charge(ctx context.Context, req payment.ChargeRequest) (payment.ChargeResult, error) {
	g.lastCharge = req
	return g.chargeResult, g.chargeErr
}

func (g *stubGateway) Refund(ctx context.Context, transactionID string) (payment.RefundResult, error) {
	return payment.RefundResult{Status: payment.RefundStatusRefunded}, nil
}

type orderTestEnv struct {
	router    *gin.Engine
	cartRepo  trade.CartRepository
	orderRepo *MockOrderRepository
}

func setupOrderRouter(t *testing.T, p identity.Principal, gateway payment.Gateway) orderTestEnv {
	t.Helper()
	cartRepo := cache.NewInMemoryCartStore()
	orderRepo := new(MockOrderRepository)
	registry := payment.NewRegistry(map[payment.Method]payment.Gateway{
		payment.MethodCreditCard: gateway,
		payment.MethodBoleto:     gateway,
	})
	orderService := tradeapp.NewOrderService(cartRepo, orderRepo, registry, zaptest.NewLogger(t))

	router := setupTestRouter(p)
	NewOrderHandler(orderService).RegisterRoutes(router.Group("/api/v1"))
	return orderTestEnv{router: router, cartRepo: cartRepo, orderRepo: orderRepo}
}

func fillCart(t *testing.T, cartRepo trade.CartRepository, userID uuid.UUID) {
	t.Helper()
	product := newStoredProduct(t, "Wireless Mouse", "MOU-001", "99.90", 25)
	cart, err := cartRepo.Load(context.Background(), userID)
	assert.NoError(t, err)
	assert.NoError(t, cart.AddItem(product.Snapshot(), 2))
	assert.NoError(t, cartRepo.Save(context.Background(), cart))
}

func paidOrder(t *testing.T, userID uuid.UUID) *trade.Order {
	t.Helper()
	product := newStoredProduct(t, "Wireless Mouse", "MOU-001", "99.90", 25)
	cart := trade.NewCart(userID)
	assert.NoError(t, cart.AddItem(product.Snapshot(), 2))
	order, err := cart.ToOrder()
	assert.NoError(t, err)
	assert.NoError(t, order.AssignPaymentMethod(payment.MethodCreditCard))
	assert.NoError(t, order.RecordPaymentResult(payment.ChargeResult{
		Status:        payment.GatewayStatusPaid,
		TransactionID: "tx-1001",
	}))
	return order
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOrderHandler_Create_Success(t *testing.T) {
	p := customerPrincipal()
	env := setupOrderRouter(t, p, &stubGateway{
		chargeResult: payment.ChargeResult{Status: payment.GatewayStatusPaid, TransactionID: "tx-1001"},
	})
	fillCart(t, env.cartRepo, p.UserID)
	env.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil)

	w := postJSON(env.router, "/api/v1/orders", tradeapp.CreateOrderRequest{
		PaymentMethod: "credit_card",
		Card: &tradeapp.CardDataRequest{
			Number:         "4111111111111111",
			HolderName:     "Ana Souza",
			ExpirationDate: "1227",
			CVV:            "123",
		},
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data tradeapp.OrderSummaryResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(trade.OrderStatusPaid), resp.Data.Status)
	assert.Equal(t, "tx-1001", resp.Data.PaymentID)

	// The cart must be empty once the order is committed
	cart, err := env.cartRepo.Load(context.Background(), p.UserID)
	assert.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func TestOrderHandler_Create_BoletoReturnsSlip(t *testing.T) {
	p := customerPrincipal()
	gateway := &stubGateway{
		chargeResult: payment.ChargeResult{
			Status:        payment.GatewayStatusWaitingPayment,
			TransactionID: "tx-2002",
			BoletoURL:     "https://pagar.me/boletos/2002.pdf",
			BoletoBarcode: "03399.63290 64000.000006 00125.201020 4 56140000017832",
		},
	}
	env := setupOrderRouter(t, p, gateway)
	fillCart(t, env.cartRepo, p.UserID)
	env.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil)

	w := postJSON(env.router, "/api/v1/orders", tradeapp.CreateOrderRequest{
		PaymentMethod: "boleto",
		Customer: tradeapp.CustomerRequest{
			Name:  "Maria Lima",
			Email: "maria@example.com",
		},
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data tradeapp.OrderSummaryResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(trade.OrderStatusAwaitingPayment), resp.Data.Status)
	assert.Equal(t, "https://pagar.me/boletos/2002.pdf", resp.Data.BoletoURL)
	assert.Equal(t, "03399.63290 64000.000006 00125.201020 4 56140000017832", resp.Data.BoletoBarcode)

	// The gateway must receive the buyer so it can issue the boleto
	assert.Equal(t, "Maria Lima", gateway.lastCharge.Customer.Name)
	assert.Equal(t, "maria@example.com", gateway.lastCharge.Customer.Email)
}

func TestOrderHandler_Create_EmptyCart(t *testing.T) {
	p := customerPrincipal()
	env := setupOrderRouter(t, p, &stubGateway{
		chargeResult: payment.ChargeResult{Status: payment.GatewayStatusPaid},
	})

	w := postJSON(env.router, "/api/v1/orders", tradeapp.CreateOrderRequest{PaymentMethod: "boleto"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.orderRepo.AssertNotCalled(t, "Save")
}

func TestOrderHandler_Create_MissingPaymentMethod(t *testing.T) {
	p := customerPrincipal()
	env := setupOrderRouter(t, p, &stubGateway{})
	fillCart(t, env.cartRepo, p.UserID)

	w := postJSON(env.router, "/api/v1/orders", tradeapp.CreateOrderRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_Create_Declined(t *testing.T) {
	p := customerPrincipal()
	env := setupOrderRouter(t, p, &stubGateway{chargeErr: payment.ErrPaymentDeclined})
	fillCart(t, env.cartRepo, p.UserID)

	w := postJSON(env.router, "/api/v1/orders", tradeapp.CreateOrderRequest{PaymentMethod: "boleto"})

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	env.orderRepo.AssertNotCalled(t, "Save")

	// A declined charge must leave the cart intact
	cart, err := env.cartRepo.Load(context.Background(), p.UserID)
	assert.NoError(t, err)
	assert.False(t, cart.IsEmpty())
}

func TestOrderHandler_GetByID_OwnOrder(t *testing.T) {
	p := customerPrincipal()
	env := setupOrderRouter(t, p, &stubGateway{})
	order := paidOrder(t, p.UserID)
	env.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	req := httptest.NewRequest("GET", "/api/v1/orders/"+order.ID.String(), nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data tradeapp.OrderResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, order.ID, resp.Data.ID)
	assert.Len(t, resp.Data.Items, 1)
}

func TestOrderHandler_GetByID_OtherUsersOrderHidden(t *testing.T) {
	p := customerPrincipal()
	env := setupOrderRouter(t, p, &stubGateway{})
	order := paidOrder(t, uuid.New())
	env.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	req := httptest.NewRequest("GET", "/api/v1/orders/"+order.ID.String(), nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderHandler_List_CustomerScopedToOwnOrders(t *testing.T) {
	p := customerPrincipal()
	env := setupOrderRouter(t, p, &stubGateway{})
	env.orderRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(filter trade.OrderFilter) bool {
		return filter.UserID != nil && *filter.UserID == p.UserID
	})).Return([]*trade.Order{paidOrder(t, p.UserID)}, int64(1), nil)

	req := httptest.NewRequest("GET", "/api/v1/orders?status=paid", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env.orderRepo.AssertExpectations(t)
}

func TestOrderHandler_List_InvalidDateFilter(t *testing.T) {
	p := customerPrincipal()
	env := setupOrderRouter(t, p, &stubGateway{})

	req := httptest.NewRequest("GET", "/api/v1/orders?created_from=yesterday", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.orderRepo.AssertNotCalled(t, "FindAll")
}

func TestOrderHandler_Cancel_RefundsPaidOrder(t *testing.T) {
	p := customerPrincipal()
	env := setupOrderRouter(t, p, &stubGateway{})
	order := paidOrder(t, p.UserID)
	env.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	env.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil)

	w := postJSON(env.router, "/api/v1/orders/"+order.ID.String()+"/cancel", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data tradeapp.OrderResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(trade.OrderStatusCanceled), resp.Data.Status)
}

func TestOrderHandler_UpdateStatus_AdminOnly(t *testing.T) {
	p := customerPrincipal()
	env := setupOrderRouter(t, p, &stubGateway{})

	body, _ := json.Marshal(tradeapp.UpdateOrderStatusRequest{Status: "shipped"})
	req := httptest.NewRequest("PUT", "/api/v1/orders/"+uuid.NewString()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	env.orderRepo.AssertNotCalled(t, "Save")
}

func TestOrderHandler_UpdateStatus_Success(t *testing.T) {
	p := adminPrincipal()
	env := setupOrderRouter(t, p, &stubGateway{})
	order := paidOrder(t, uuid.New())
	env.orderRepo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	env.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil)

	body, _ := json.Marshal(tradeapp.UpdateOrderStatusRequest{Status: "shipped"})
	req := httptest.NewRequest("PUT", "/api/v1/orders/"+order.ID.String()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data tradeapp.OrderResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, string(trade.OrderStatusShipped), resp.Data.Status)
}
