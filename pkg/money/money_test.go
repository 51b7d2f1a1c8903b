package money_test

import (
	"testing"

	"github.com/natepay/natepay/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	t.Run("stores USD as cents", func(t *testing.T) {
		m, err := money.New(49.45, money.USD)
		require.NoError(err)
		assert.Equal(int64(4945), m.Amount())
		assert.Equal(money.USD, m.Currency())
	})

	t.Run("defaults empty code to USD", func(t *testing.T) {
		m, err := money.New(10, "")
		require.NoError(err)
		assert.Equal(money.USD, m.Currency())
	})

	t.Run("rejects malformed code", func(t *testing.T) {
		_, err := money.New(10, "usd")
		assert.ErrorIs(err, money.ErrInvalidCurrencyCode)
	})

	t.Run("rejects excess decimal places", func(t *testing.T) {
		_, err := money.New(1.005, money.USD)
		assert.Error(err)
	})
}

func TestNewFromSmallestUnit(t *testing.T) {
	m, err := money.NewFromSmallestUnit(72000_00, money.NGN)
	require.NoError(t, err)
	assert.Equal(t, int64(7200000), m.Amount())
	assert.InDelta(t, 72000.0, m.AmountFloat(), 1e-9)
}

func TestArithmetic(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	a, err := money.New(5.49, money.USD)
	require.NoError(err)
	b, err := money.New(4.51, money.USD)
	require.NoError(err)

	sum, err := a.Add(b)
	require.NoError(err)
	assert.Equal(int64(1000), sum.Amount())

	diff, err := a.Subtract(b)
	require.NoError(err)
	assert.Equal(int64(98), diff.Amount())

	ngn, err := money.New(100, money.NGN)
	require.NoError(err)
	_, err = a.Add(ngn)
	assert.ErrorIs(err, money.ErrInvalidCurrencyCode)

	assert.True(a.IsPositive())
	assert.False(a.IsZero())
	assert.Equal(int64(-549), a.Negate().Amount())
}

func TestString(t *testing.T) {
	m, err := money.New(49.45, money.USD)
	require.NoError(t, err)
	assert.Equal(t, "49.45 USD", m.String())
}
