package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/storefront/backend/internal/domain/payment"
)

const stripeDefaultBaseURL = "https://api.stripe.com/v1"

// Stripe charge statuses
const (
	stripeStatusSucceeded = "succeeded"
	stripeStatusPending   = "pending"
)

// StripeConfig contains configuration for the Stripe REST API
type StripeConfig struct {
	// APIKey is the secret key sent as a bearer token
	APIKey string
	// APIBaseURL overrides the production endpoint, mainly for tests
	APIBaseURL string
}

var (
	ErrStripeMissingAPIKey = errors.New("stripe: missing API key")
)

// Validate validates the configuration and fills defaults
func (c *StripeConfig) Validate() error {
	if c.APIKey == "" {
		return ErrStripeMissingAPIKey
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = stripeDefaultBaseURL
	}
	return nil
}

// stripeChargeResponse is the subset of the charge object we consume
type stripeChargeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// stripeRefundResponse is the subset of the refund object we consume
type stripeRefundResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// stripeErrorResponse is Stripe's error envelope
type stripeErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// StripeAdapter implements payment.Gateway for Stripe's charges API.
// It handles tokenized charges; raw card data never reaches Stripe.
type StripeAdapter struct {
	config     *StripeConfig
	httpClient *http.Client
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(config *StripeConfig) (*StripeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &StripeAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Charge creates a charge from a client-side token
func (a *StripeAdapter) Charge(ctx context.Context, req payment.ChargeRequest) (payment.ChargeResult, error) {
	if req.Token == "" {
		return payment.ChargeResult{}, payment.ErrPaymentDeclined
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.Amount.Amount().Shift(2).IntPart(), 10))
	form.Set("currency", strings.ToLower(string(req.Amount.Currency())))
	form.Set("source", req.Token)
	if req.Customer.Email != "" {
		form.Set("receipt_email", req.Customer.Email)
	}

	var resp stripeChargeResponse
	if err := a.doRequest(ctx, "/charges", form, &resp); err != nil {
		return payment.ChargeResult{}, err
	}

	return payment.ChargeResult{
		Status:        mapStripeStatus(resp.Status),
		TransactionID: resp.ID,
	}, nil
}

// Refund refunds a charge in full
func (a *StripeAdapter) Refund(ctx context.Context, transactionID string) (payment.RefundResult, error) {
	form := url.Values{}
	form.Set("charge", transactionID)

	var resp stripeRefundResponse
	if err := a.doRequest(ctx, "/refunds", form, &resp); err != nil {
		return payment.RefundResult{}, err
	}

	if resp.Status != stripeStatusSucceeded && resp.Status != stripeStatusPending {
		return payment.RefundResult{Status: payment.RefundStatusFailed}, nil
	}
	return payment.RefundResult{Status: payment.RefundStatusRefunded}, nil
}

func (a *StripeAdapter) doRequest(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.APIBaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("stripe: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("stripe: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr stripeErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%w: %s", ErrGatewayRequestFailed, apiErr.Error.Message)
		}
		return fmt.Errorf("%w: HTTP %d", ErrGatewayRequestFailed, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("stripe: failed to parse response: %w", err)
	}
	return nil
}

// mapStripeStatus maps a Stripe charge status to our status
func mapStripeStatus(status string) payment.GatewayStatus {
	switch status {
	case stripeStatusSucceeded:
		return payment.GatewayStatusPaid
	case stripeStatusPending:
		return payment.GatewayStatusWaitingPayment
	default:
		return payment.GatewayStatusDeclined
	}
}

// Ensure StripeAdapter implements payment.Gateway
var _ payment.Gateway = (*StripeAdapter)(nil)
