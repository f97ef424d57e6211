package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/integration"
)

const amazonDefaultBaseURL = "https://sellingpartnerapi-na.amazon.com"

// AmazonConfig contains configuration for the Amazon Selling Partner API
type AmazonConfig struct {
	// AccessToken is the LWA access token
	AccessToken string
	// SellerID is the merchant identifier
	SellerID string
	// MarketplaceID is the Amazon marketplace identifier (A2Q3Y263D00KWC for Brazil)
	MarketplaceID string
	// APIBaseURL overrides the production endpoint, mainly for tests
	APIBaseURL string
	// TimeoutSeconds bounds each HTTP call; defaults to 30
	TimeoutSeconds int
}

// Errors for configuration validation
var (
	ErrAmazonMissingAccessToken = errors.New("amazon: missing access token")
	ErrAmazonMissingSellerID    = errors.New("amazon: missing seller ID")
)

// Validate validates the configuration and fills defaults
func (c *AmazonConfig) Validate() error {
	if c.AccessToken == "" {
		return ErrAmazonMissingAccessToken
	}
	if c.SellerID == "" {
		return ErrAmazonMissingSellerID
	}
	if c.MarketplaceID == "" {
		c.MarketplaceID = "A2Q3Y263D00KWC"
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = amazonDefaultBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// amazonListingAttributes is a reduced listings-items attribute set
type amazonListingAttributes struct {
	Title       string          `json:"item_name"`
	Description string          `json:"product_description,omitempty"`
	Price       decimal.Decimal `json:"list_price"`
	Quantity    int             `json:"fulfillment_availability_quantity"`
}

// amazonListingRequest is the PUT listings-items payload
type amazonListingRequest struct {
	ProductType string                  `json:"productType"`
	Attributes  amazonListingAttributes `json:"attributes"`
}

// amazonListingResponse is the subset of the listings response we consume
type amazonListingResponse struct {
	SKU    string `json:"sku"`
	Status string `json:"status"`
}

// amazonOrdersResponse is the GET /orders/v0/orders envelope
type amazonOrdersResponse struct {
	Payload struct {
		Orders []struct {
			AmazonOrderID string `json:"AmazonOrderId"`
			OrderStatus   string `json:"OrderStatus"`
			OrderTotal    struct {
				Amount decimal.Decimal `json:"Amount"`
			} `json:"OrderTotal"`
			PurchaseDate time.Time `json:"PurchaseDate"`
		} `json:"Orders"`
	} `json:"payload"`
}

// amazonErrorResponse is the API error envelope
type amazonErrorResponse struct {
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// AmazonAdapter implements integration.Connector for Amazon
type AmazonAdapter struct {
	config     *AmazonConfig
	httpClient *http.Client
}

// NewAmazonAdapter creates a new Amazon adapter
func NewAmazonAdapter(config *AmazonConfig) (*AmazonAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &AmazonAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Code returns the marketplace code this adapter handles
func (a *AmazonAdapter) Code() integration.MarketplaceCode {
	return integration.MarketplaceAmazon
}

// Publish upserts a listing keyed by SKU. Amazon identifies listings by
// seller SKU, so the SKU doubles as the external ID.
func (a *AmazonAdapter) Publish(ctx context.Context, listing integration.Listing) (integration.PublishResult, error) {
	body := amazonListingRequest{
		ProductType: "PRODUCT",
		Attributes: amazonListingAttributes{
			Title:       listing.Name,
			Description: listing.Description,
			Price:       listing.Price,
			Quantity:    listing.Stock,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return integration.PublishResult{}, fmt.Errorf("amazon: failed to marshal listing: %w", err)
	}

	path := fmt.Sprintf("/listings/2021-08-01/items/%s/%s?marketplaceIds=%s",
		a.config.SellerID, url.PathEscape(listing.SKU), a.config.MarketplaceID)
	respBody, err := a.doRequest(ctx, http.MethodPut, path, bytes.NewReader(payload))
	if err != nil {
		return integration.PublishResult{}, err
	}

	var resp amazonListingResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return integration.PublishResult{}, fmt.Errorf("amazon: failed to parse response: %w", err)
	}

	externalID := resp.SKU
	if externalID == "" {
		externalID = listing.SKU
	}
	return integration.PublishResult{ExternalID: externalID}, nil
}

// FetchOrders lists orders created after since
func (a *AmazonAdapter) FetchOrders(ctx context.Context, since *time.Time) ([]integration.ExternalOrder, error) {
	query := url.Values{}
	query.Set("MarketplaceIds", a.config.MarketplaceID)
	if since != nil {
		query.Set("CreatedAfter", since.Format(time.RFC3339))
	}

	respBody, err := a.doRequest(ctx, http.MethodGet, "/orders/v0/orders?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp amazonOrdersResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("amazon: failed to parse response: %w", err)
	}

	orders := make([]integration.ExternalOrder, 0, len(resp.Payload.Orders))
	for _, o := range resp.Payload.Orders {
		orders = append(orders, integration.ExternalOrder{
			ExternalID:     o.AmazonOrderID,
			ExternalStatus: o.OrderStatus,
			Total:          o.OrderTotal.Amount,
			PlacedAt:       o.PurchaseDate,
		})
	}
	return orders, nil
}

func (a *AmazonAdapter) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.config.APIBaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("amazon: failed to create request: %w", err)
	}
	req.Header.Set("x-amz-access-token", a.config.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarketplaceUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("amazon: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr amazonErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && len(apiErr.Errors) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrMarketplaceRequestFailed, apiErr.Errors[0].Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrMarketplaceRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

// Ensure AmazonAdapter implements integration.Connector
var _ integration.Connector = (*AmazonAdapter)(nil)
