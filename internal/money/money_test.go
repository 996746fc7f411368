package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNegativeAmount(t *testing.T) {
	_, err := New(decimal.NewFromFloat(-0.01), "USD")
	assert.Error(t, err)

	m, err := New(decimal.NewFromFloat(9.99), "USD")
	require.NoError(t, err)
	assert.Equal(t, "9.99 USD", m.String())
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"$19.99", "19.99 USD"},
		{" 19.99 ", "19.99 USD"},
		{"€5.50", "5.50 USD"},
		{"1,299.00", "1299.00 USD"},
		{"", "0.00 USD"},
		{"n/a", "0.00 USD"},
		{"-3.00", "0.00 USD"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Parse(tc.in, "USD").String(), "input %q", tc.in)
	}
}

func TestAddSameCurrency(t *testing.T) {
	a := Parse("9.99", "USD")
	b := Parse("0.01", "USD")
	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "10.00 USD", sum.String())
}

func TestAddCurrencyMismatch(t *testing.T) {
	a := Parse("9.99", "USD")
	b := Parse("9.99", "EUR")
	_, err := a.Add(b)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMulInt(t *testing.T) {
	price := Parse("9.99", "USD")
	assert.Equal(t, "19.98 USD", price.MulInt(2).String())
	assert.Equal(t, "0.00 USD", price.MulInt(0).String())
}

func TestEqual(t *testing.T) {
	assert.True(t, Parse("5.00", "USD").Equal(Parse("5", "USD")))
	assert.False(t, Parse("5.00", "USD").Equal(Parse("5.00", "EUR")))
	assert.False(t, Parse("5.00", "USD").Equal(Parse("5.01", "USD")))
}
