package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/storefront/backend/internal/domain/payment"
)

// Gateway transport errors
var (
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
	ErrGatewayRequestFailed = errors.New("payment gateway request failed")
)

// PagarmeAdapter implements payment.Gateway for the Pagarme API.
// It handles the credit_card and boleto methods.
type PagarmeAdapter struct {
	config     *PagarmeConfig
	httpClient *http.Client
}

// NewPagarmeAdapter creates a new Pagarme adapter
func NewPagarmeAdapter(config *PagarmeConfig) (*PagarmeAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &PagarmeAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Charge creates a transaction. Boleto charges come back as
// waiting_payment; card charges settle synchronously.
func (a *PagarmeAdapter) Charge(ctx context.Context, req payment.ChargeRequest) (payment.ChargeResult, error) {
	body := pagarmeTransactionRequest{
		APIKey:        a.config.APIKey,
		Amount:        req.Amount.Amount().Shift(2).IntPart(),
		PaymentMethod: string(req.Method),
	}
	if req.Customer.Name != "" || req.Customer.Email != "" {
		body.Customer = &pagarmeCustomer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
		}
	}
	if req.Method == payment.MethodCreditCard {
		if req.Card == nil {
			return payment.ChargeResult{}, payment.ErrPaymentDeclined
		}
		body.CardNumber = req.Card.Number
		body.CardHolderName = req.Card.HolderName
		body.CardExpirationDate = req.Card.ExpirationDate
		body.CardCVV = req.Card.CVV
	}

	var resp pagarmeTransactionResponse
	if err := a.doRequest(ctx, "/transactions", body, &resp); err != nil {
		return payment.ChargeResult{}, err
	}

	return payment.ChargeResult{
		Status:        mapPagarmeStatus(resp.Status),
		TransactionID: strconv.FormatInt(resp.TID, 10),
		BoletoURL:     resp.BoletoURL,
		BoletoBarcode: resp.BoletoBarcode,
	}, nil
}

// Refund refunds a transaction in full
func (a *PagarmeAdapter) Refund(ctx context.Context, transactionID string) (payment.RefundResult, error) {
	path := "/transactions/" + transactionID + "/refund"
	body := pagarmeRefundRequest{APIKey: a.config.APIKey}

	var resp pagarmeTransactionResponse
	if err := a.doRequest(ctx, path, body, &resp); err != nil {
		return payment.RefundResult{}, err
	}

	if resp.Status != pagarmeStatusRefunded {
		return payment.RefundResult{Status: payment.RefundStatusFailed}, nil
	}
	return payment.RefundResult{Status: payment.RefundStatusRefunded}, nil
}

func (a *PagarmeAdapter) doRequest(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("pagarme: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.APIBaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("pagarme: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("pagarme: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr pagarmeErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && len(apiErr.Errors) > 0 {
			return fmt.Errorf("%w: %s", ErrGatewayRequestFailed, apiErr.Errors[0].Message)
		}
		return fmt.Errorf("%w: HTTP %d", ErrGatewayRequestFailed, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("pagarme: failed to parse response: %w", err)
	}
	return nil
}

// mapPagarmeStatus maps a Pagarme transaction status to our status
func mapPagarmeStatus(status string) payment.GatewayStatus {
	switch status {
	case pagarmeStatusPaid:
		return payment.GatewayStatusPaid
	case pagarmeStatusWaitingPayment:
		return payment.GatewayStatusWaitingPayment
	default:
		return payment.GatewayStatusDeclined
	}
}

// Ensure PagarmeAdapter implements payment.Gateway
var _ payment.Gateway = (*PagarmeAdapter)(nil)
