package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
)

func setupCartRouter(p identity.Principal, productRepo *MockProductRepository) *gin.Engine {
	router := setupTestRouter(p)
	cartService := tradeapp.NewCartService(cache.NewInMemoryCartStore(), productRepo)
	NewCartHandler(cartService).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func addItemBody(t *testing.T, productID uuid.UUID, quantity int) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(tradeapp.AddCartItemRequest{
		ProductID: productID,
		Quantity:  quantity,
	})
	assert.NoError(t, err)
	return bytes.NewReader(body)
}

func TestCartHandler_Get_EmptyCart(t *testing.T) {
	p := customerPrincipal()
	router := setupCartRouter(p, new(MockProductRepository))

	req := httptest.NewRequest("GET", "/api/v1/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data tradeapp.CartResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, p.UserID, resp.Data.UserID)
	assert.Empty(t, resp.Data.Items)
	assert.True(t, resp.Data.Total.IsZero())
}

func TestCartHandler_AddItem_Success(t *testing.T) {
	p := customerPrincipal()
	product := newStoredProduct(t, "Wireless Mouse", "MOU-001", "99.90", 25)

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := setupCartRouter(p, productRepo)

	req := httptest.NewRequest("POST", "/api/v1/cart/items", addItemBody(t, product.ID, 2))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data tradeapp.CartResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Items, 1)
	assert.Equal(t, 2, resp.Data.Items[0].Quantity)
	assert.True(t, resp.Data.Total.Equal(decimal.RequireFromString("199.80")))
}

func TestCartHandler_AddItem_InsufficientStock(t *testing.T) {
	p := customerPrincipal()
	product := newStoredProduct(t, "Wireless Mouse", "MOU-001", "99.90", 1)

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := setupCartRouter(p, productRepo)

	req := httptest.NewRequest("POST", "/api/v1/cart/items", addItemBody(t, product.ID, 5))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCartHandler_AddItem_UnknownProduct(t *testing.T) {
	p := customerPrincipal()

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	router := setupCartRouter(p, productRepo)

	req := httptest.NewRequest("POST", "/api/v1/cart/items", addItemBody(t, uuid.New(), 1))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartHandler_UpdateAndRemoveItem(t *testing.T) {
	p := customerPrincipal()
	product := newStoredProduct(t, "Wireless Mouse", "MOU-001", "99.90", 25)

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := setupCartRouter(p, productRepo)

	req := httptest.NewRequest("POST", "/api/v1/cart/items", addItemBody(t, product.ID, 2))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	body, _ := json.Marshal(tradeapp.UpdateCartItemRequest{Quantity: 5})
	req = httptest.NewRequest("PUT", "/api/v1/cart/items/"+product.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data tradeapp.CartResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Data.Items[0].Quantity)

	req = httptest.NewRequest("DELETE", "/api/v1/cart/items/"+product.ID.String(), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Items)
}

func TestCartHandler_Clear(t *testing.T) {
	p := customerPrincipal()
	product := newStoredProduct(t, "Wireless Mouse", "MOU-001", "99.90", 25)

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := setupCartRouter(p, productRepo)

	req := httptest.NewRequest("POST", "/api/v1/cart/items", addItemBody(t, product.ID, 2))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("DELETE", "/api/v1/cart", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data tradeapp.CartResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Items)
}
