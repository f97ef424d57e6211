package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

type stubGateway struct {
	name string
}

func (g *stubGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	return ChargeResult{Status: GatewayStatusPaid, TransactionID: g.name + "-tx"}, nil
}

func (g *stubGateway) Refund(ctx context.Context, transactionID string) (RefundResult, error) {
	return RefundResult{Status: RefundStatusRefunded}, nil
}

func TestMethod_IsValid(t *testing.T) {
	assert.True(t, MethodCreditCard.IsValid())
	assert.True(t, MethodBoleto.IsValid())
	assert.True(t, MethodStripe.IsValid())
	assert.False(t, Method("paypal").IsValid())
	assert.False(t, Method("").IsValid())
}

func TestRegistry_Resolve(t *testing.T) {
	pagarme := &stubGateway{name: "pagarme"}
	stripe := &stubGateway{name: "stripe"}

	registry := NewRegistry(map[Method]Gateway{
		MethodCreditCard: pagarme,
		MethodBoleto:     pagarme,
		MethodStripe:     stripe,
	})

	gw, err := registry.Resolve(MethodCreditCard)
	require.NoError(t, err)
	assert.Same(t, pagarme, gw)

	gw, err = registry.Resolve(MethodBoleto)
	require.NoError(t, err)
	assert.Same(t, pagarme, gw)

	gw, err = registry.Resolve(MethodStripe)
	require.NoError(t, err)
	assert.Same(t, stripe, gw)
}

func TestRegistry_Resolve_Unsupported(t *testing.T) {
	registry := NewRegistry(map[Method]Gateway{
		MethodCreditCard: &stubGateway{name: "pagarme"},
	})

	_, err := registry.Resolve(Method("pix"))
	assert.ErrorIs(t, err, ErrUnsupportedMethod)

	// valid method with no binding also resolves to unsupported
	_, err = registry.Resolve(MethodStripe)
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestChargeRequest_CarriesAmount(t *testing.T) {
	req := ChargeRequest{
		Method: MethodCreditCard,
		Amount: valueobject.NewMoneyBRLFromFloat(100.00),
		Card:   &CardData{Number: "4111111111111111", HolderName: "Jo Silva", ExpirationDate: "1230", CVV: "123"},
	}
	assert.True(t, req.Amount.Equals(valueobject.NewMoneyBRLFromFloat(100)))
}
