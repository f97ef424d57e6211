package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// MarketplaceCode identifies one external marketplace
type MarketplaceCode string

const (
	MarketplaceMercadoLivre MarketplaceCode = "mercado_livre"
	MarketplaceAmazon       MarketplaceCode = "amazon"
	MarketplaceShopee       MarketplaceCode = "shopee"
	MarketplaceMagalu       MarketplaceCode = "magalu"
)

// IsValid checks if the code names a known marketplace
func (c MarketplaceCode) IsValid() bool {
	switch c {
	case MarketplaceMercadoLivre, MarketplaceAmazon, MarketplaceShopee, MarketplaceMagalu:
		return true
	}
	return false
}

// String returns the string representation of MarketplaceCode
func (c MarketplaceCode) String() string {
	return string(c)
}

// Listing is the product view sent to a marketplace when publishing
type Listing struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	SKU         string          `json:"sku"`
}

// PublishResult is the outcome of publishing one listing to one marketplace
type PublishResult struct {
	ExternalID string
}

// ExternalOrder is an order as reported by a marketplace
type ExternalOrder struct {
	ExternalID     string
	ExternalStatus string
	Total          decimal.Decimal
	PlacedAt       time.Time
}

// Connector is the capability contract for one external marketplace
type Connector interface {
	Code() MarketplaceCode
	Publish(ctx context.Context, listing Listing) (PublishResult, error)
	FetchOrders(ctx context.Context, since *time.Time) ([]ExternalOrder, error)
}

var ErrUnsupportedMarketplace = shared.NewDomainError("UNSUPPORTED_MARKETPLACE", "Marketplace is not supported")

// Registry maps marketplace codes to connector implementations. The
// mapping is closed at startup.
type Registry struct {
	connectors map[MarketplaceCode]Connector
}

// NewRegistry creates a registry from the given connectors
func NewRegistry(connectors ...Connector) *Registry {
	byCode := make(map[MarketplaceCode]Connector, len(connectors))
	for _, c := range connectors {
		byCode[c.Code()] = c
	}
	return &Registry{connectors: byCode}
}

// Resolve returns the connector for the code
func (r *Registry) Resolve(code MarketplaceCode) (Connector, error) {
	c, ok := r.connectors[code]
	if !ok {
		return nil, ErrUnsupportedMarketplace
	}
	return c, nil
}

// Codes returns the registered marketplace codes
func (r *Registry) Codes() []MarketplaceCode {
	codes := make([]MarketplaceCode, 0, len(r.connectors))
	for c := range r.connectors {
		codes = append(codes, c)
	}
	return codes
}
