package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrCurrencyMismatch = errors.New("cannot add different currencies")

// Money is a decimal amount with a currency tag. Zero value is not usable;
// build via New/Zero/Parse.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

func New(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("amount cannot be negative: %s", amount)
	}
	return Money{Amount: amount, Currency: currency}, nil
}

func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Parse reads a price like "$19.99" from the dataset. Unparseable or empty
// input yields zero, matching the importer's lenient row handling.
func Parse(s, currency string) Money {
	cleaned := strings.NewReplacer("$", "", "€", "", "£", "", ",", "").Replace(strings.TrimSpace(s))
	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return Zero(currency)
	}
	return Money{Amount: d, Currency: currency}
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

func (m Money) MulInt(n int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(n))), Currency: m.Currency}
}

func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}
