package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending         OrderStatus = "pending"
	OrderStatusAwaitingPayment OrderStatus = "awaiting_payment"
	OrderStatusPaid            OrderStatus = "paid"
	OrderStatusShipped         OrderStatus = "shipped"
	OrderStatusDelivered       OrderStatus = "delivered"
	OrderStatusCanceled        OrderStatus = "canceled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAwaitingPayment, OrderStatusPaid,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// IsAdminSettable checks if the status belongs to the set administrators
// may assign through a status update. awaiting_payment is excluded; it is
// only ever set by the payment flow itself.
func (s OrderStatus) IsAdminSettable() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

var (
	ErrNotCancelable = shared.NewDomainError("NOT_CANCELABLE", "Order can no longer be canceled")
	ErrInvalidStatus = shared.NewDomainError("INVALID_STATUS", "Unknown order status")
)

// OrderItem is a frozen line item copied from the cart at order creation
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"type:varchar(200);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity  int             `gorm:"not null"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal returns unit price times quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is created exactly once from a non-empty cart snapshot. After
// creation its lines and total are immutable; only the status, payment
// method and payment id change, through the methods below.
type Order struct {
	shared.BaseAggregateRoot
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;references:ID"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;index"`
	PaymentMethod payment.Method  `gorm:"type:varchar(20)"`
	PaymentID     string          `gorm:"type:varchar(100)"`
	BoletoURL     string          `gorm:"type:varchar(255)"`
	BoletoBarcode string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

func newOrderFromCart(cart *Cart) *Order {
	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            cart.UserID,
		Items:             make([]OrderItem, 0, len(cart.Items)),
		Status:            OrderStatusPending,
	}

	now := time.Now()
	total := decimal.Zero
	for _, line := range cart.Items {
		item := OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			CreatedAt: now,
		}
		order.Items = append(order.Items, item)
		total = total.Add(item.Subtotal())
	}
	order.Total = total

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order
}

// AssignPaymentMethod records which payment method the order will be
// charged with. Only allowed while the order is still pending.
func (o *Order) AssignPaymentMethod(method payment.Method) error {
	if !method.IsValid() {
		return payment.ErrUnsupportedMethod
	}
	if o.Status != OrderStatusPending {
		return shared.ErrInvalidState
	}
	o.PaymentMethod = method
	o.Touch()
	return nil
}

// RecordPaymentResult applies the gateway's charge outcome to the order.
// A paid result moves the order to paid and records the transaction id;
// waiting_payment moves it to awaiting_payment. Any other result leaves
// the order untouched and returns ErrPaymentDeclined.
func (o *Order) RecordPaymentResult(result payment.ChargeResult) error {
	switch result.Status {
	case payment.GatewayStatusPaid:
		o.Status = OrderStatusPaid
		o.PaymentID = result.TransactionID
		o.Touch()
		o.AddDomainEvent(NewOrderPaidEvent(o))
		return nil
	case payment.GatewayStatusWaitingPayment:
		o.Status = OrderStatusAwaitingPayment
		o.PaymentID = result.TransactionID
		o.BoletoURL = result.BoletoURL
		o.BoletoBarcode = result.BoletoBarcode
		o.Touch()
		return nil
	default:
		return payment.ErrPaymentDeclined
	}
}

// CanCancel returns true if the order may still be canceled
func (o *Order) CanCancel() bool {
	switch o.Status {
	case OrderStatusPending, OrderStatusAwaitingPayment, OrderStatusPaid, OrderStatusCanceled:
		return true
	}
	return false
}

// RequiresRefundOnCancel returns true if canceling this order must first
// refund the charge through the original gateway
func (o *Order) RequiresRefundOnCancel() bool {
	return o.Status == OrderStatusPaid && o.PaymentID != ""
}

// Cancel transitions the order to canceled. Shipped and delivered orders
// cannot be canceled. Canceling an already-canceled order is an
// idempotent no-op. Refunding a paid order is the caller's
// responsibility and must happen before this transition is persisted.
func (o *Order) Cancel() error {
	if o.Status == OrderStatusCanceled {
		return nil
	}
	if !o.CanCancel() {
		return ErrNotCancelable
	}

	wasPaid := o.Status == OrderStatusPaid
	o.Status = OrderStatusCanceled
	o.Touch()
	o.AddDomainEvent(NewOrderCanceledEvent(o, wasPaid))

	return nil
}

// UpdateStatus sets the status to any administratively settable value.
// Unlike Cancel, this is deliberately permissive about ordering; an
// administrator may move the order to any valid status from any state.
func (o *Order) UpdateStatus(status OrderStatus) error {
	if !status.IsAdminSettable() {
		return ErrInvalidStatus
	}
	o.Status = status
	o.Touch()
	return nil
}

// GetTotalMoney returns the order total as Money
func (o *Order) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(o.Total)
}

// ItemCount returns the number of lines in the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// IsPaid returns true if the order is paid
func (o *Order) IsPaid() bool {
	return o.Status == OrderStatusPaid
}

// IsCanceled returns true if the order is canceled
func (o *Order) IsCanceled() bool {
	return o.Status == OrderStatusCanceled
}
