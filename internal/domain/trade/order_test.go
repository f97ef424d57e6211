package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	cart := NewCart(uuid.New())
	require.NoError(t, cart.AddItem(snapshot("Mouse", 50.00), 2))
	order, err := cart.ToOrder()
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func TestOrderStatus_IsValid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusAwaitingPayment, OrderStatusPaid,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled,
	} {
		assert.True(t, s.IsValid(), s.String())
	}
	assert.False(t, OrderStatus("refunded").IsValid())
}

func TestOrderStatus_IsAdminSettable(t *testing.T) {
	assert.True(t, OrderStatusPending.IsAdminSettable())
	assert.True(t, OrderStatusPaid.IsAdminSettable())
	assert.True(t, OrderStatusShipped.IsAdminSettable())
	assert.True(t, OrderStatusDelivered.IsAdminSettable())
	assert.True(t, OrderStatusCanceled.IsAdminSettable())
	assert.False(t, OrderStatusAwaitingPayment.IsAdminSettable())
	assert.False(t, OrderStatus("unknown").IsAdminSettable())
}

func TestOrder_AssignPaymentMethod(t *testing.T) {
	order := newTestOrder(t)

	require.NoError(t, order.AssignPaymentMethod(payment.MethodBoleto))
	assert.Equal(t, payment.MethodBoleto, order.PaymentMethod)

	err := order.AssignPaymentMethod(payment.Method("pix"))
	assert.ErrorIs(t, err, payment.ErrUnsupportedMethod)
	assert.Equal(t, payment.MethodBoleto, order.PaymentMethod)

	require.NoError(t, order.RecordPaymentResult(payment.ChargeResult{
		Status:        payment.GatewayStatusPaid,
		TransactionID: "tx-1",
	}))
	err = order.AssignPaymentMethod(payment.MethodCreditCard)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestOrder_RecordPaymentResult_Paid(t *testing.T) {
	order := newTestOrder(t)

	err := order.RecordPaymentResult(payment.ChargeResult{
		Status:        payment.GatewayStatusPaid,
		TransactionID: "tx1",
	})
	require.NoError(t, err)

	assert.Equal(t, OrderStatusPaid, order.Status)
	assert.Equal(t, "tx1", order.PaymentID)

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeOrderPaid, events[0].EventType())
}

func TestOrder_RecordPaymentResult_WaitingPayment(t *testing.T) {
	order := newTestOrder(t)

	err := order.RecordPaymentResult(payment.ChargeResult{
		Status:        payment.GatewayStatusWaitingPayment,
		TransactionID: "boleto-42",
		BoletoURL:     "https://pagar.me/boletos/42.pdf",
		BoletoBarcode: "03399.63290 64000.000006 00125.201020 4 56140000017832",
	})
	require.NoError(t, err)

	assert.Equal(t, OrderStatusAwaitingPayment, order.Status)
	assert.Equal(t, "boleto-42", order.PaymentID)
	assert.Equal(t, "https://pagar.me/boletos/42.pdf", order.BoletoURL)
	assert.Equal(t, "03399.63290 64000.000006 00125.201020 4 56140000017832", order.BoletoBarcode)
	assert.Empty(t, order.GetDomainEvents())
}

func TestOrder_RecordPaymentResult_Declined(t *testing.T) {
	order := newTestOrder(t)

	err := order.RecordPaymentResult(payment.ChargeResult{Status: payment.GatewayStatusDeclined})
	assert.ErrorIs(t, err, payment.ErrPaymentDeclined)

	// order state never mutates on a declined charge
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Empty(t, order.PaymentID)
	assert.Empty(t, order.GetDomainEvents())
}

func TestOrder_Cancel(t *testing.T) {
	cancelable := []OrderStatus{OrderStatusPending, OrderStatusAwaitingPayment, OrderStatusPaid}
	for _, s := range cancelable {
		t.Run(s.String(), func(t *testing.T) {
			order := newTestOrder(t)
			order.Status = s

			require.NoError(t, order.Cancel())
			assert.Equal(t, OrderStatusCanceled, order.Status)

			events := order.GetDomainEvents()
			require.Len(t, events, 1)
			assert.Equal(t, EventTypeOrderCanceled, events[0].EventType())
			assert.Equal(t, s == OrderStatusPaid, events[0].(*OrderCanceledEvent).WasPaid)
		})
	}
}

func TestOrder_Cancel_Terminal(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusShipped, OrderStatusDelivered} {
		t.Run(s.String(), func(t *testing.T) {
			order := newTestOrder(t)
			order.Status = s

			err := order.Cancel()
			assert.ErrorIs(t, err, ErrNotCancelable)
			assert.Equal(t, s, order.Status)
		})
	}
}

func TestOrder_Cancel_Idempotent(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.Cancel())
	order.ClearDomainEvents()

	require.NoError(t, order.Cancel())
	assert.Equal(t, OrderStatusCanceled, order.Status)
	assert.Empty(t, order.GetDomainEvents())
}

func TestOrder_RequiresRefundOnCancel(t *testing.T) {
	order := newTestOrder(t)
	assert.False(t, order.RequiresRefundOnCancel())

	require.NoError(t, order.RecordPaymentResult(payment.ChargeResult{
		Status:        payment.GatewayStatusPaid,
		TransactionID: "tx1",
	}))
	assert.True(t, order.RequiresRefundOnCancel())

	order.Status = OrderStatusAwaitingPayment
	assert.False(t, order.RequiresRefundOnCancel())
}

func TestOrder_UpdateStatus(t *testing.T) {
	order := newTestOrder(t)

	require.NoError(t, order.UpdateStatus(OrderStatusShipped))
	assert.Equal(t, OrderStatusShipped, order.Status)

	// admin updates are permissive about ordering
	require.NoError(t, order.UpdateStatus(OrderStatusPending))
	assert.Equal(t, OrderStatusPending, order.Status)

	err := order.UpdateStatus(OrderStatus("lost"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	err = order.UpdateStatus(OrderStatusAwaitingPayment)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOrder_TotalMatchesCart(t *testing.T) {
	cart := NewCart(uuid.New())
	require.NoError(t, cart.AddItem(catalog.ProductSnapshot{ProductID: uuid.New(), Name: "Mouse", Price: valueobject.NewMoneyBRLFromFloat(50).Amount()}, 2))
	require.NoError(t, cart.AddItem(catalog.ProductSnapshot{ProductID: uuid.New(), Name: "Keyboard", Price: valueobject.NewMoneyBRLFromFloat(120).Amount()}, 1))

	order, err := cart.ToOrder()
	require.NoError(t, err)
	assert.True(t, order.GetTotalMoney().Equals(cart.Total()))
}
