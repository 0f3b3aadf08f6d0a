package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates valid money", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(12.50), "USD")
		require.NoError(t, err)
		assert.Equal(t, "USD", m.Currency())
		assert.Equal(t, "12.50 USD", m.String())
	})

	t.Run("defaults currency when empty", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(5), "")
		require.NoError(t, err)
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(-0.01), "USD")
		var moneyErr *InvalidMoneyError
		require.ErrorAs(t, err, &moneyErr)
	})

	t.Run("rejects bad currency code", func(t *testing.T) {
		for _, currency := range []string{"US", "DOLLARS", "$"} {
			_, err := NewMoney(decimal.NewFromInt(1), currency)
			var moneyErr *InvalidMoneyError
			require.ErrorAs(t, err, &moneyErr, "currency %q", currency)
		}
	})
}

func TestMoneyArithmetic(t *testing.T) {
	usd := func(v float64) Money {
		m, err := MoneyFromFloat(v, "USD")
		require.NoError(t, err)
		return m
	}

	t.Run("add", func(t *testing.T) {
		sum, err := usd(10).Add(usd(2.50))
		require.NoError(t, err)
		assert.True(t, sum.Equals(usd(12.50)))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := usd(10).Subtract(usd(2.50))
		require.NoError(t, err)
		assert.True(t, diff.Equals(usd(7.50)))
	})

	t.Run("subtract below zero fails", func(t *testing.T) {
		_, err := usd(1).Subtract(usd(2))
		var moneyErr *InvalidMoneyError
		require.ErrorAs(t, err, &moneyErr)
	})

	t.Run("multiply by quantity", func(t *testing.T) {
		result, err := usd(9.99).Multiply(decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.True(t, result.Equals(usd(29.97)))
	})

	t.Run("multiply by negative factor fails", func(t *testing.T) {
		_, err := usd(5).Multiply(decimal.NewFromInt(-1))
		var moneyErr *InvalidMoneyError
		require.ErrorAs(t, err, &moneyErr)
	})

	t.Run("currency mismatch fails fast", func(t *testing.T) {
		eur, err := MoneyFromFloat(10, "EUR")
		require.NoError(t, err)

		var mismatch *CurrencyMismatchError

		_, err = usd(10).Add(eur)
		require.ErrorAs(t, err, &mismatch)

		_, err = usd(10).Subtract(eur)
		require.ErrorAs(t, err, &mismatch)

		_, err = usd(10).GreaterThan(eur)
		require.ErrorAs(t, err, &mismatch)

		_, err = usd(10).LessThan(eur)
		require.ErrorAs(t, err, &mismatch)
	})

	t.Run("comparisons", func(t *testing.T) {
		greater, err := usd(10).GreaterThan(usd(5))
		require.NoError(t, err)
		assert.True(t, greater)

		less, err := usd(5).LessThan(usd(10))
		require.NoError(t, err)
		assert.True(t, less)

		assert.False(t, usd(5).Equals(usd(10)))
		eur, _ := MoneyFromFloat(5, "EUR")
		assert.False(t, usd(5).Equals(eur))
	})

	t.Run("no floating point drift", func(t *testing.T) {
		// 0.1 + 0.2 is the classic float trap
		sum, err := usd(0.1).Add(usd(0.2))
		require.NoError(t, err)
		assert.True(t, sum.Equals(usd(0.3)))
	})
}

func TestZero(t *testing.T) {
	z := Zero("EUR")
	assert.Equal(t, "EUR", z.Currency())
	assert.Equal(t, 0.0, z.Float64())
}
