package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/trade"
)

// AddCartItemRequest is the input for adding a product to the cart
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// UpdateCartItemRequest is the input for changing a line's quantity
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartItemResponse is one line of a cart
type CartItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse is the full cart view
type CartResponse struct {
	UserID    uuid.UUID          `json:"user_id"`
	Items     []CartItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ToCartResponse converts a cart to its response form
func ToCartResponse(cart *trade.Cart) CartResponse {
	items := make([]CartItemResponse, len(cart.Items))
	for i, line := range cart.Items {
		items[i] = CartItemResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal(),
		}
	}
	return CartResponse{
		UserID:    cart.UserID,
		Items:     items,
		Total:     cart.Total().Amount(),
		UpdatedAt: cart.UpdatedAt,
	}
}

// CardDataRequest carries card details for credit_card payments
type CardDataRequest struct {
	Number         string `json:"number"`
	HolderName     string `json:"holder_name"`
	ExpirationDate string `json:"expiration_date"`
	CVV            string `json:"cvv"`
}

// CustomerRequest identifies the buyer to the payment gateway
type CustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateOrderRequest is the input for converting the cart into an order
type CreateOrderRequest struct {
	PaymentMethod string           `json:"payment_method"`
	Customer      CustomerRequest  `json:"customer"`
	Card          *CardDataRequest `json:"card,omitempty"`
	Token         string           `json:"token,omitempty"`
}

// OrderItemResponse is one frozen line of an order
type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse is the full order view
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"user_id"`
	Items         []OrderItemResponse `json:"items"`
	Total         decimal.Decimal     `json:"total"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	PaymentID     string              `json:"payment_id,omitempty"`
	BoletoURL     string              `json:"boleto_url,omitempty"`
	BoletoBarcode string              `json:"boleto_barcode,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// OrderSummaryResponse is the compact view returned on order creation
type OrderSummaryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	PaymentID     string          `json:"payment_id,omitempty"`
	BoletoURL     string          `json:"boleto_url,omitempty"`
	BoletoBarcode string          `json:"boleto_barcode,omitempty"`
}

// UpdateOrderStatusRequest is the administrative status update input
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderListQuery narrows order listings
type OrderListQuery struct {
	Status      string     `json:"status"`
	CreatedFrom *time.Time `json:"created_from"`
	CreatedTo   *time.Time `json:"created_to"`
	Page        int        `json:"page"`
	PageSize    int        `json:"page_size"`
}

// ToOrderResponse converts an order to its response form
func ToOrderResponse(order *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, line := range order.Items {
		items[i] = OrderItemResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal(),
		}
	}
	return OrderResponse{
		ID:            order.ID,
		UserID:        order.UserID,
		Items:         items,
		Total:         order.Total,
		Status:        order.Status.String(),
		PaymentMethod: order.PaymentMethod.String(),
		PaymentID:     order.PaymentID,
		BoletoURL:     order.BoletoURL,
		BoletoBarcode: order.BoletoBarcode,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// ToOrderSummaryResponse converts an order to its creation summary
func ToOrderSummaryResponse(order *trade.Order) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:            order.ID,
		Total:         order.Total,
		Status:        order.Status.String(),
		PaymentMethod: order.PaymentMethod.String(),
		PaymentID:     order.PaymentID,
		BoletoURL:     order.BoletoURL,
		BoletoBarcode: order.BoletoBarcode,
	}
}
