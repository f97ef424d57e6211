package integration

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/integration"
)

// Outcome status values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// SyncRequest names the products and marketplaces to fan out over
type SyncRequest struct {
	ProductIDs   []uuid.UUID `json:"product_ids"`
	Marketplaces []string    `json:"marketplaces"`
}

// SyncOutcome is the result of publishing one product to one marketplace
type SyncOutcome struct {
	Status     string `json:"status"`
	ExternalID string `json:"external_id,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ProductSyncResult aggregates one product's outcomes across the
// requested marketplaces. For an unknown product id, Status and Message
// are set and no per-marketplace attempts are made.
type ProductSyncResult struct {
	Status       string                 `json:"status,omitempty"`
	Message      string                 `json:"message,omitempty"`
	Marketplaces map[string]SyncOutcome `json:"marketplaces,omitempty"`
}

// SyncReport maps product ids to their per-marketplace outcomes
type SyncReport map[string]ProductSyncResult

func listingFromProduct(product *catalog.Product) integration.Listing {
	return integration.Listing{
		ProductID:   product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		SKU:         product.SKU,
	}
}

// ExternalOrderResponse is one order as reported by a marketplace
type ExternalOrderResponse struct {
	ExternalID     string          `json:"external_id"`
	ExternalStatus string          `json:"external_status"`
	Total          decimal.Decimal `json:"total"`
	PlacedAt       time.Time       `json:"placed_at"`
}
