package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/integration"
)

// mercadoLivreItemRequest is the POST /items payload
type mercadoLivreItemRequest struct {
	Title             string          `json:"title"`
	Price             decimal.Decimal `json:"price"`
	CurrencyID        string          `json:"currency_id"`
	AvailableQuantity int             `json:"available_quantity"`
	SellerCustomField string          `json:"seller_custom_field"`
	Description       string          `json:"description,omitempty"`
}

// mercadoLivreItemResponse is the subset of the item object we consume
type mercadoLivreItemResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// mercadoLivreOrderSearchResponse is the GET /orders/search envelope
type mercadoLivreOrderSearchResponse struct {
	Results []struct {
		ID          int64           `json:"id"`
		Status      string          `json:"status"`
		TotalAmount decimal.Decimal `json:"total_amount"`
		DateCreated time.Time       `json:"date_created"`
	} `json:"results"`
}

// mercadoLivreErrorResponse is the API error envelope
type mercadoLivreErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// MercadoLivreAdapter implements integration.Connector for Mercado Livre
type MercadoLivreAdapter struct {
	config     *MercadoLivreConfig
	httpClient *http.Client
}

// NewMercadoLivreAdapter creates a new Mercado Livre adapter
func NewMercadoLivreAdapter(config *MercadoLivreConfig) (*MercadoLivreAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &MercadoLivreAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// Code returns the marketplace code this adapter handles
func (a *MercadoLivreAdapter) Code() integration.MarketplaceCode {
	return integration.MarketplaceMercadoLivre
}

// Publish creates a listing as a Mercado Livre item
func (a *MercadoLivreAdapter) Publish(ctx context.Context, listing integration.Listing) (integration.PublishResult, error) {
	body := mercadoLivreItemRequest{
		Title:             listing.Name,
		Price:             listing.Price,
		CurrencyID:        "BRL",
		AvailableQuantity: listing.Stock,
		SellerCustomField: listing.SKU,
		Description:       listing.Description,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return integration.PublishResult{}, fmt.Errorf("mercadolivre: failed to marshal item: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, "/items", bytes.NewReader(payload))
	if err != nil {
		return integration.PublishResult{}, err
	}

	var resp mercadoLivreItemResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return integration.PublishResult{}, fmt.Errorf("mercadolivre: failed to parse response: %w", err)
	}

	return integration.PublishResult{ExternalID: resp.ID}, nil
}

// FetchOrders lists orders for the configured seller, optionally
// created after since
func (a *MercadoLivreAdapter) FetchOrders(ctx context.Context, since *time.Time) ([]integration.ExternalOrder, error) {
	query := url.Values{}
	query.Set("seller", a.config.SellerID)
	if since != nil {
		query.Set("order.date_created.from", since.Format(time.RFC3339))
	}

	respBody, err := a.doRequest(ctx, http.MethodGet, "/orders/search?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp mercadoLivreOrderSearchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("mercadolivre: failed to parse response: %w", err)
	}

	orders := make([]integration.ExternalOrder, 0, len(resp.Results))
	for _, result := range resp.Results {
		orders = append(orders, integration.ExternalOrder{
			ExternalID:     fmt.Sprintf("%d", result.ID),
			ExternalStatus: result.Status,
			Total:          result.TotalAmount,
			PlacedAt:       result.DateCreated,
		})
	}
	return orders, nil
}

func (a *MercadoLivreAdapter) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.config.APIBaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("mercadolivre: failed to create request: %w", err)
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
		return nil, fmt.Errorf("mercadolivre: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr mercadoLivreErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrMarketplaceRequestFailed, apiErr.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrMarketplaceRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

// Ensure MercadoLivreAdapter implements integration.Connector
var _ integration.Connector = (*MercadoLivreAdapter)(nil)
