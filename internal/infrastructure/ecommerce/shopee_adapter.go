package ecommerce

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/integration"
)

const shopeeDefaultBaseURL = "https://partner.shopeemobile.com"

// ShopeeConfig contains configuration for the Shopee Open Platform API
type ShopeeConfig struct {
	// PartnerID identifies the developer application
	PartnerID int64
	// PartnerKey signs every request
	PartnerKey string
	// ShopID identifies the seller shop
	ShopID int64
	// AccessToken is the shop-level OAuth token
	AccessToken string
	// APIBaseURL overrides the production endpoint, mainly for tests
	APIBaseURL string
	// TimeoutSeconds bounds each HTTP call; defaults to 30
	TimeoutSeconds int
}

// Errors for configuration validation
var (
	ErrShopeeMissingPartnerID   = errors.New("shopee: missing partner ID")
	ErrShopeeMissingPartnerKey  = errors.New("shopee: missing partner key")
	ErrShopeeMissingShopID      = errors.New("shopee: missing shop ID")
	ErrShopeeMissingAccessToken = errors.New("shopee: missing access token")
)

// Validate validates the configuration and fills defaults
func (c *ShopeeConfig) Validate() error {
	if c.PartnerID == 0 {
		return ErrShopeeMissingPartnerID
	}
	if c.PartnerKey == "" {
		return ErrShopeeMissingPartnerKey
	}
	if c.ShopID == 0 {
		return ErrShopeeMissingShopID
	}
	if c.AccessToken == "" {
		return ErrShopeeMissingAccessToken
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = shopeeDefaultBaseURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// shopeeAddItemRequest is the /api/v2/product/add_item payload
type shopeeAddItemRequest struct {
	ItemName      string          `json:"item_name"`
	Description   string          `json:"description"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	NormalStock   int             `json:"normal_stock"`
	ItemSKU       string          `json:"item_sku"`
}

// shopeeResponse is the common Shopee response envelope
type shopeeResponse struct {
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Resp    json.RawMessage `json:"response"`
}

// IsSuccess reports whether the envelope carries no error
func (r *shopeeResponse) IsSuccess() bool {
	return r.Error == ""
}

type shopeeAddItemResponse struct {
	ItemID int64 `json:"item_id"`
}

type shopeeOrderListResponse struct {
	OrderList []struct {
		OrderSN     string          `json:"order_sn"`
		OrderStatus string          `json:"order_status"`
		TotalAmount decimal.Decimal `json:"total_amount"`
		CreateTime  int64           `json:"create_time"`
	} `json:"order_list"`
}

// ShopeeAdapter implements integration.Connector for Shopee
type ShopeeAdapter struct {
	config     *ShopeeConfig
	httpClient *http.Client

	// now is swappable for deterministic signatures in tests
	now func() time.Time
}

// NewShopeeAdapter creates a new Shopee adapter
func NewShopeeAdapter(config *ShopeeConfig) (*ShopeeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &ShopeeAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		now: time.Now,
	}, nil
}

// Code returns the marketplace code this adapter handles
func (a *ShopeeAdapter) Code() integration.MarketplaceCode {
	return integration.MarketplaceShopee
}

// Publish creates a listing as a Shopee item
func (a *ShopeeAdapter) Publish(ctx context.Context, listing integration.Listing) (integration.PublishResult, error) {
	body := shopeeAddItemRequest{
		ItemName:      listing.Name,
		Description:   listing.Description,
		OriginalPrice: listing.Price,
		NormalStock:   listing.Stock,
		ItemSKU:       listing.SKU,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return integration.PublishResult{}, fmt.Errorf("shopee: failed to marshal item: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, "/api/v2/product/add_item", nil, bytes.NewReader(payload))
	if err != nil {
		return integration.PublishResult{}, err
	}

	var item shopeeAddItemResponse
	if err := json.Unmarshal(respBody, &item); err != nil {
		return integration.PublishResult{}, fmt.Errorf("shopee: failed to parse response: %w", err)
	}

	return integration.PublishResult{ExternalID: strconv.FormatInt(item.ItemID, 10)}, nil
}

// FetchOrders lists orders created after since
func (a *ShopeeAdapter) FetchOrders(ctx context.Context, since *time.Time) ([]integration.ExternalOrder, error) {
	query := url.Values{}
	if since != nil {
		query.Set("time_from", strconv.FormatInt(since.Unix(), 10))
	}

	respBody, err := a.doRequest(ctx, http.MethodGet, "/api/v2/order/get_order_list", query, nil)
	if err != nil {
		return nil, err
	}

	var list shopeeOrderListResponse
	if err := json.Unmarshal(respBody, &list); err != nil {
		return nil, fmt.Errorf("shopee: failed to parse response: %w", err)
	}

	orders := make([]integration.ExternalOrder, 0, len(list.OrderList))
	for _, o := range list.OrderList {
		orders = append(orders, integration.ExternalOrder{
			ExternalID:     o.OrderSN,
			ExternalStatus: o.OrderStatus,
			Total:          o.TotalAmount,
			PlacedAt:       time.Unix(o.CreateTime, 0),
		})
	}
	return orders, nil
}

// sign computes the shop-level request signature:
// HMAC-SHA256(partner_id + path + timestamp + access_token + shop_id)
func (a *ShopeeAdapter) sign(path string, timestamp int64) string {
	base := fmt.Sprintf("%d%s%d%s%d",
		a.config.PartnerID, path, timestamp, a.config.AccessToken, a.config.ShopID)
	mac := hmac.New(sha256.New, []byte(a.config.PartnerKey))
	mac.Write([]byte(base))
	return hex.EncodeToString(mac.Sum(nil))
}

func (a *ShopeeAdapter) doRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) ([]byte, error) {
	timestamp := a.now().Unix()
	if query == nil {
		query = url.Values{}
	}
	query.Set("partner_id", strconv.FormatInt(a.config.PartnerID, 10))
	query.Set("shop_id", strconv.FormatInt(a.config.ShopID, 10))
	query.Set("access_token", a.config.AccessToken)
	query.Set("timestamp", strconv.FormatInt(timestamp, 10))
	query.Set("sign", a.sign(path, timestamp))

	req, err := http.NewRequestWithContext(ctx, method, a.config.APIBaseURL+path+"?"+query.Encode(), body)
	if err != nil {
		return nil, fmt.Errorf("shopee: failed to create request: %w", err)
	}
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
		return nil, fmt.Errorf("shopee: failed to read response: %w", err)
	}

	var envelope shopeeResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("shopee: failed to parse response: %w", err)
	}
	if !envelope.IsSuccess() {
		return nil, fmt.Errorf("%w: %s - %s", ErrMarketplaceRequestFailed, envelope.Error, envelope.Message)
	}

	return envelope.Resp, nil
}

// Ensure ShopeeAdapter implements integration.Connector
var _ integration.Connector = (*ShopeeAdapter)(nil)
