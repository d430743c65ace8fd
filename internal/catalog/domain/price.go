package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnitExponent is the number of decimal places stored for every currency.
const minorUnitExponent = 2

// Price is a non-negative monetary amount stored in minor units.
type Price struct {
	amount   int64
	currency string
}

// NewPrice creates a Price from an amount in minor units (cents).
func NewPrice(amount int64, currency string) (Price, error) {
	if amount < 0 {
		return Price{}, ErrInvalidPrice
	}
	code, err := normalizeCurrency(currency)
	if err != nil {
		return Price{}, err
	}
	return Price{amount: amount, currency: code}, nil
}

// ParsePrice parses a decimal amount such as "12.50" with at most two
// fractional digits.
func ParsePrice(amount, currency string) (Price, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Price{}, fmt.Errorf("%w: %q", ErrInvalidPrice, amount)
	}
	minor := d.Shift(minorUnitExponent)
	if !minor.Equal(minor.Truncate(0)) {
		return Price{}, fmt.Errorf("%w: %q has too many decimal places", ErrInvalidPrice, amount)
	}
	return NewPrice(minor.IntPart(), currency)
}

func normalizeCurrency(currency string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if len(code) != 3 {
		return "", ErrInvalidCurrency
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", ErrInvalidCurrency
		}
	}
	return code, nil
}

// Amount returns the amount in minor units.
func (p Price) Amount() int64 { return p.amount }

// Currency returns the ISO 4217 currency code.
func (p Price) Currency() string { return p.currency }

// Decimal returns the amount in major units.
func (p Price) Decimal() decimal.Decimal {
	return decimal.New(p.amount, -minorUnitExponent)
}

// String formats the price as "12.50 EUR".
func (p Price) String() string {
	return p.Decimal().StringFixed(minorUnitExponent) + " " + p.currency
}

// Equals checks if two prices have the same amount and currency.
func (p Price) Equals(other Price) bool {
	return p.amount == other.amount && p.currency == other.currency
}
