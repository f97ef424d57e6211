package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated  = "OrderCreated"
	EventTypeOrderPaid     = "OrderPaid"
	EventTypeOrderCanceled = "OrderCanceled"
)

// OrderLineInfo represents line information carried by order events
type OrderLineInfo struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func orderLineInfos(order *Order) []OrderLineInfo {
	lines := make([]OrderLineInfo, len(order.Items))
	for i, item := range order.Items {
		lines[i] = OrderLineInfo{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}
	return lines
}

// OrderCreatedEvent is raised when a cart is converted into an order
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID       `json:"order_id"`
	UserID  uuid.UUID       `json:"user_id"`
	Total   decimal.Decimal `json:"total"`
	Lines   []OrderLineInfo `json:"lines"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		UserID:          order.UserID,
		Total:           order.Total,
		Lines:           orderLineInfos(order),
	}
}

// OrderPaidEvent is raised when a gateway confirms payment
// This event triggers stock deduction in the catalog context
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID       `json:"order_id"`
	UserID    uuid.UUID       `json:"user_id"`
	PaymentID string          `json:"payment_id"`
	Total     decimal.Decimal `json:"total"`
	Lines     []OrderLineInfo `json:"lines"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(order *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		UserID:          order.UserID,
		PaymentID:       order.PaymentID,
		Total:           order.Total,
		Lines:           orderLineInfos(order),
	}
}

// OrderCanceledEvent is raised when an order is canceled. WasPaid tells
// subscribers whether stock had already been deducted for this order.
type OrderCanceledEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID       `json:"order_id"`
	UserID    uuid.UUID       `json:"user_id"`
	PaymentID string          `json:"payment_id"`
	WasPaid   bool            `json:"was_paid"`
	Lines     []OrderLineInfo `json:"lines"`
}

// NewOrderCanceledEvent creates a new OrderCanceledEvent
func NewOrderCanceledEvent(order *Order, wasPaid bool) *OrderCanceledEvent {
	return &OrderCanceledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCanceled, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		UserID:          order.UserID,
		PaymentID:       order.PaymentID,
		WasPaid:         wasPaid,
		Lines:           orderLineInfos(order),
	}
}
