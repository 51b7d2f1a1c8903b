// Package money provides a value object for monetary amounts stored in the
// smallest currency unit. Every amount NatePay persists is USD cents; local
// currency figures are derived for display and never stored back.
package money

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Money represents a monetary value in a specific currency.
// Invariants:
//   - Amount is always stored in the smallest currency unit (cents for USD).
//   - Currency code must be valid ISO 4217 (3 uppercase letters).
//   - All arithmetic operations require matching currencies.
type Money struct {
	amount   int64
	currency Code
}

// New creates a Money from a main-unit amount, e.g. New(49.45, USD) is
// 4945 cents. Returns an error when the code is malformed or the amount
// carries more decimal places than the currency allows.
func New(amount float64, currencyCode Code) (Money, error) {
	if currencyCode == "" {
		currencyCode = USD
	}
	if !currencyCode.IsValid() {
		return Money{}, ErrInvalidCurrencyCode
	}

	smallest, err := convertToSmallestUnit(amount, currencyCode)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: smallest, currency: currencyCode}, nil
}

// NewFromSmallestUnit creates a Money directly from the smallest currency
// unit, e.g. provider amounts which are already in cents/kobo.
func NewFromSmallestUnit(amount int64, currencyCode Code) (Money, error) {
	if currencyCode == "" {
		currencyCode = USD
	}
	if !currencyCode.IsValid() {
		return Money{}, ErrInvalidCurrencyCode
	}
	return Money{amount: amount, currency: currencyCode}, nil
}

// Amount returns the amount in the smallest currency unit.
func (m Money) Amount() int64 { return m.amount }

// AmountFloat returns the amount in the main currency unit.
func (m Money) AmountFloat() float64 {
	divisor := math.Pow10(GetMeta(m.currency).Decimals)
	return float64(m.amount) / divisor
}

// Currency returns the currency of the Money object.
func (m Money) Currency() Code { return m.currency }

// Add adds another Money of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, ErrInvalidCurrencyCode
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Subtract subtracts another Money of the same currency.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, ErrInvalidCurrencyCode
	}
	return Money{amount: m.amount - other.amount, currency: m.currency}, nil
}

// Negate returns the amount with its sign flipped.
func (m Money) Negate() Money {
	return Money{amount: -m.amount, currency: m.currency}
}

// Equals reports equal amount and currency.
func (m Money) Equals(other Money) bool {
	return m.IsSameCurrency(other) && m.amount == other.amount
}

// IsSameCurrency reports whether both values share one currency.
func (m Money) IsSameCurrency(other Money) bool {
	return m.currency == other.currency
}

// IsPositive reports amount > 0.
func (m Money) IsPositive() bool { return m.amount > 0 }

// IsZero reports amount == 0.
func (m Money) IsZero() bool { return m.amount == 0 }

// String formats the amount with the currency's decimal places.
func (m Money) String() string {
	meta := GetMeta(m.currency)
	return fmt.Sprintf("%.*f %s", meta.Decimals, m.AmountFloat(), m.currency)
}

// convertToSmallestUnit converts a main-unit amount to the smallest unit
// using big.Rat to avoid floating-point drift on the boundary.
func convertToSmallestUnit(amount float64, currencyCode Code) (int64, error) {
	meta := GetMeta(currencyCode)

	amountStr := fmt.Sprintf("%.10f", amount)
	parts := strings.Split(amountStr, ".")
	if len(parts) > 1 {
		decimals := strings.TrimRight(parts[1], "0")
		if len(decimals) > meta.Decimals {
			return 0, fmt.Errorf("amount has more than %d decimal places", meta.Decimals)
		}
	}

	amountStr = fmt.Sprintf("%.*f", meta.Decimals, amount)
	amountRat, ok := new(big.Rat).SetString(amountStr)
	if !ok {
		return 0, fmt.Errorf("invalid amount format: %f", amount)
	}

	multiplier := int64(math.Pow10(meta.Decimals))
	smallestRat := new(big.Rat).Mul(amountRat, big.NewRat(multiplier, 1))
	if !smallestRat.IsInt() {
		return 0, fmt.Errorf("amount has more than %d decimal places", meta.Decimals)
	}

	smallest := smallestRat.Num()
	if !smallest.IsInt64() {
		return 0, fmt.Errorf("amount exceeds maximum safe integer value")
	}
	return smallest.Int64(), nil
}
