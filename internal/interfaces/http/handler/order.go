package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
	adminOnly    gin.HandlerFunc
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		adminOnly:    middleware.AdminOnly(),
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("", h.Create)
	orders.GET("", h.List)
	orders.GET("/:id", h.GetByID)
	orders.POST("/:id/cancel", h.Cancel)
	orders.PUT("/:id/status", h.adminOnly, h.UpdateStatus)
}

// orderListRequest binds the order listing query string
type orderListRequest struct {
	dto.ListRequest
	Status      string `form:"status"`
	CreatedFrom string `form:"created_from"`
	CreatedTo   string `form:"created_to"`
}

// Create converts the caller's cart into an order and charges it
func (h *OrderHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req tradeapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), p, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID retrieves an order. Customers see only their own orders.
func (h *OrderHandler) GetByID(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List returns a paginated order listing. Customers are restricted to
// their own orders; admins see everything.
func (h *OrderHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var listReq orderListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BindError(c, err)
		return
	}
	listReq.Normalize()

	query := tradeapp.OrderListQuery{
		Status:   listReq.Status,
		Page:     listReq.Page,
		PageSize: listReq.PageSize,
	}
	if listReq.CreatedFrom != "" {
		from, err := time.Parse(time.RFC3339, listReq.CreatedFrom)
		if err != nil {
			h.BadRequest(c, "Invalid created_from format, expected RFC3339")
			return
		}
		query.CreatedFrom = &from
	}
	if listReq.CreatedTo != "" {
		to, err := time.Parse(time.RFC3339, listReq.CreatedTo)
		if err != nil {
			h.BadRequest(c, "Invalid created_to format, expected RFC3339")
			return
		}
		query.CreatedTo = &to
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), p, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, listReq.Page, listReq.PageSize)
}

// Cancel cancels an order, refunding it first when it was paid
func (h *OrderHandler) Cancel(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus sets an order's status directly. Admin only.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
