package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid money", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(99.90), BRL)
		require.NoError(t, err)
		assert.Equal(t, BRL, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(99.90)))
	})

	t.Run("empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), "")
		assert.Error(t, err)
	})
}

func TestMoney_Add(t *testing.T) {
	a := NewMoneyBRLFromFloat(99.90)
	b := NewMoneyBRLFromFloat(50.10)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(150)))

	t.Run("currency mismatch", func(t *testing.T) {
		usd, _ := NewMoney(decimal.NewFromInt(10), USD)
		_, err := a.Add(usd)
		assert.Error(t, err)
	})
}

func TestMoney_Subtract(t *testing.T) {
	a := NewMoneyBRLFromFloat(100)
	b := NewMoneyBRLFromFloat(40)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(60)))
}

func TestMoney_MultiplyByInt(t *testing.T) {
	price := NewMoneyBRLFromFloat(50.00)
	total := price.MultiplyByInt(2)
	assert.True(t, total.Amount().Equal(decimal.NewFromInt(100)))
	assert.Equal(t, BRL, total.Currency())
}

func TestMoney_Comparisons(t *testing.T) {
	small := NewMoneyBRLFromFloat(10)
	big := NewMoneyBRLFromFloat(20)

	less, err := small.LessThan(big)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := big.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, greater)

	assert.True(t, small.Equals(NewMoneyBRLFromFloat(10)))
	assert.False(t, small.Equals(big))
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroBRL().IsZero())
	assert.True(t, NewMoneyBRLFromFloat(1).IsPositive())
	assert.True(t, NewMoneyBRLFromFloat(1).Negate().IsNegative())
}

func TestMoney_String(t *testing.T) {
	m := NewMoneyBRLFromFloat(199.8)
	assert.Equal(t, "199.80 BRL", m.String())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyBRLFromFloat(249.80)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_UnmarshalDefaultsCurrency(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"10"}`), &m))
	assert.Equal(t, DefaultCurrency, m.Currency())
}
