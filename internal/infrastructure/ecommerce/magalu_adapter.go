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

const magaluDefaultBaseURL = "https://api.magalu.com"

// MagaluConfig contains configuration for the Magalu seller API
type MagaluConfig struct {
	// AccessToken is the OAuth access token
	AccessToken string
	// APIBaseURL overrides the production endpoint, mainly for tests
	APIBaseURL string
	// TimeoutSeconds bounds each HTTP call; defaults to 30
	TimeoutSeconds int
}

var (
	ErrMagaluMissingAccessToken = errors.New("magalu: missing access token")
)

// Validate validates the configuration and fills defaults
func (c *MagaluConfig) Validate() error {
	if c.AccessToken == "" {
		return ErrMagaluMissingAccessToken
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = magaluDefaultBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// magaluSKURequest is the POST /seller/v1/portfolios/skus payload
type magaluSKURequest struct {
	SKU         string          `json:"sku"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// magaluSKUResponse is the subset of the SKU object we consume
type magaluSKUResponse struct {
	ID string `json:"id"`
}

// magaluOrdersResponse is the GET /seller/v1/orders envelope
type magaluOrdersResponse struct {
	Results []struct {
		ID        string          `json:"id"`
		Status    string          `json:"status"`
		Total     decimal.Decimal `json:"total"`
		CreatedAt time.Time       `json:"created_at"`
	} `json:"results"`
}

// magaluErrorResponse is the API error envelope
type magaluErrorResponse struct {
	Message string `json:"message"`
}

// MagaluAdapter implements integration.Connector for Magalu
type MagaluAdapter struct {
	config     *MagaluConfig
	httpClient *http.Client
}

// NewMagaluAdapter creates a new Magalu adapter
func NewMagaluAdapter(config *MagaluConfig) (*MagaluAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &MagaluAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Code returns the marketplace code this adapter handles
func (a *MagaluAdapter) Code() integration.MarketplaceCode {
	return integration.MarketplaceMagalu
}

// Publish creates a listing as a portfolio SKU
func (a *MagaluAdapter) Publish(ctx context.Context, listing integration.Listing) (integration.PublishResult, error) {
	body := magaluSKURequest{
		SKU:         listing.SKU,
		Title:       listing.Name,
		Description: listing.Description,
		Price:       listing.Price,
		Stock:       listing.Stock,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return integration.PublishResult{}, fmt.Errorf("magalu: failed to marshal sku: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, "/seller/v1/portfolios/skus", bytes.NewReader(payload))
	if err != nil {
		return integration.PublishResult{}, err
	}

	var resp magaluSKUResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return integration.PublishResult{}, fmt.Errorf("magalu: failed to parse response: %w", err)
	}

	externalID := resp.ID
	if externalID == "" {
		externalID = listing.SKU
	}
	return integration.PublishResult{ExternalID: externalID}, nil
}

// FetchOrders lists orders created after since
func (a *MagaluAdapter) FetchOrders(ctx context.Context, since *time.Time) ([]integration.ExternalOrder, error) {
	path := "/seller/v1/orders"
	if since != nil {
		query := url.Values{}
		query.Set("created_at__gte", since.Format(time.RFC3339))
		path += "?" + query.Encode()
	}

	respBody, err := a.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp magaluOrdersResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("magalu: failed to parse response: %w", err)
	}

	orders := make([]integration.ExternalOrder, 0, len(resp.Results))
	for _, o := range resp.Results {
		orders = append(orders, integration.ExternalOrder{
			ExternalID:     o.ID,
			ExternalStatus: o.Status,
			Total:          o.Total,
			PlacedAt:       o.CreatedAt,
		})
	}
	return orders, nil
}

func (a *MagaluAdapter) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.config.APIBaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("magalu: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)
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
		return nil, fmt.Errorf("magalu: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr magaluErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrMarketplaceRequestFailed, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrMarketplaceRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

// Ensure MagaluAdapter implements integration.Connector
var _ integration.Connector = (*MagaluAdapter)(nil)
