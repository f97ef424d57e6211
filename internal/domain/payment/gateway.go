package payment

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Method identifies how an order is paid. Each method routes to exactly
// one gateway registered at startup.
type Method string

const (
	MethodCreditCard Method = "credit_card"
	MethodBoleto     Method = "boleto"
	MethodStripe     Method = "stripe"
)

// IsValid checks if the method is a supported payment method
func (m Method) IsValid() bool {
	switch m {
	case MethodCreditCard, MethodBoleto, MethodStripe:
		return true
	}
	return false
}

// String returns the string representation of Method
func (m Method) String() string {
	return string(m)
}

// GatewayStatus is the external status a gateway reports for a charge
type GatewayStatus string

const (
	GatewayStatusPaid           GatewayStatus = "paid"
	GatewayStatusWaitingPayment GatewayStatus = "waiting_payment"
	GatewayStatusDeclined       GatewayStatus = "declined"
)

// RefundStatus is the external status a gateway reports for a refund
type RefundStatus string

const (
	RefundStatusRefunded RefundStatus = "refunded"
	RefundStatusFailed   RefundStatus = "failed"
)

// CardData carries card details for credit_card charges
type CardData struct {
	Number         string `json:"number"`
	HolderName     string `json:"holder_name"`
	ExpirationDate string `json:"expiration_date"`
	CVV            string `json:"cvv"`
}

// Customer identifies the buyer to the gateway. Boleto issuance needs
// it; card gateways attach it to the charge for receipts and dispute
// handling.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ChargeRequest is the gateway-agnostic charge input. Gateways read only
// the fields their method needs.
type ChargeRequest struct {
	Method   Method
	Amount   valueobject.Money
	Customer Customer
	Card     *CardData
	Token    string
}

// ChargeResult is the normalized outcome of a charge attempt. BoletoURL
// and BoletoBarcode are set only for boleto charges; the buyer needs
// them to pay the slip.
type ChargeResult struct {
	Status        GatewayStatus
	TransactionID string
	BoletoURL     string
	BoletoBarcode string
}

// RefundResult is the normalized outcome of a refund attempt
type RefundResult struct {
	Status RefundStatus
}

// Gateway is the capability contract for an external payment processor
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
	Refund(ctx context.Context, transactionID string) (RefundResult, error)
}

var (
	ErrUnsupportedMethod = shared.NewDomainError("UNSUPPORTED_PAYMENT_METHOD", "Payment method is not supported")
	ErrPaymentDeclined   = shared.NewDomainError("PAYMENT_DECLINED", "Payment was declined by the gateway")
)

// Registry maps payment methods to gateway implementations. The mapping
// is closed at startup; there is no runtime registration after wiring.
type Registry struct {
	gateways map[Method]Gateway
}

// NewRegistry creates a registry from method to gateway bindings
func NewRegistry(bindings map[Method]Gateway) *Registry {
	gateways := make(map[Method]Gateway, len(bindings))
	for method, gw := range bindings {
		gateways[method] = gw
	}
	return &Registry{gateways: gateways}
}

// Resolve returns the gateway bound to the method
func (r *Registry) Resolve(method Method) (Gateway, error) {
	if !method.IsValid() {
		return nil, ErrUnsupportedMethod
	}
	gw, ok := r.gateways[method]
	if !ok {
		return nil, ErrUnsupportedMethod
	}
	return gw, nil
}

// Methods returns the registered payment methods
func (r *Registry) Methods() []Method {
	methods := make([]Method, 0, len(r.gateways))
	for m := range r.gateways {
		methods = append(methods, m)
	}
	return methods
}
