package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	integrationapp "github.com/storefront/backend/internal/application/integration"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// SyncHandler handles marketplace synchronization endpoints
type SyncHandler struct {
	BaseHandler
	syncService *integrationapp.SyncService
	adminOnly   gin.HandlerFunc
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService *integrationapp.SyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		adminOnly:   middleware.AdminOnly(),
	}
}

// RegisterRoutes registers marketplace sync routes. The sync operation
// is reachable under both the products and marketplaces prefixes.
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/products/sync", h.adminOnly, h.Sync)

	marketplaces := rg.Group("/marketplaces")
	marketplaces.POST("/sync", h.adminOnly, h.Sync)
	marketplaces.GET("/:code/orders", h.adminOnly, h.Orders)
}

// Sync publishes the requested products to the requested marketplaces
// and returns a per-product, per-marketplace report.
func (h *SyncHandler) Sync(c *gin.Context) {
	var req integrationapp.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	report, err := h.syncService.SyncWithMarketplaces(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// Orders pulls one marketplace's external orders, optionally limited to
// those placed since the given RFC3339 timestamp.
func (h *SyncHandler) Orders(c *gin.Context) {
	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.BadRequest(c, "Invalid since format, expected RFC3339")
			return
		}
		since = &parsed
	}

	orders, err := h.syncService.FetchMarketplaceOrders(c.Request.Context(), c.Param("code"), since)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}
