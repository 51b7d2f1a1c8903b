package money

import (
	"errors"
	"regexp"
)

// Code is an ISO 4217 currency code, e.g. "USD" or "NGN".
type Code string

// USD is the settlement currency for every NatePay balance. All other
// currencies appear only on charge and display paths.
const (
	USD Code = "USD"
	NGN Code = "NGN"
	GHS Code = "GHS"
	KES Code = "KES"
	ZAR Code = "ZAR"
	EGP Code = "EGP"
	GBP Code = "GBP"
	EUR Code = "EUR"
	CAD Code = "CAD"
	AUD Code = "AUD"
)

// DefaultDecimals applies to currencies without an explicit entry.
const DefaultDecimals = 2

var ErrInvalidCurrencyCode = errors.New("invalid currency code")

var codeFormat = regexp.MustCompile(`^[A-Z]{3}$`)

// Meta holds currency-specific metadata.
type Meta struct {
	Decimals int
	Symbol   string
}

var metas = map[Code]Meta{
	USD: {Decimals: 2, Symbol: "$"},
	NGN: {Decimals: 2, Symbol: "₦"},
	GHS: {Decimals: 2, Symbol: "GH₵"},
	KES: {Decimals: 2, Symbol: "KSh"},
	ZAR: {Decimals: 2, Symbol: "R"},
	EGP: {Decimals: 2, Symbol: "E£"},
	GBP: {Decimals: 2, Symbol: "£"},
	EUR: {Decimals: 2, Symbol: "€"},
	CAD: {Decimals: 2, Symbol: "C$"},
	AUD: {Decimals: 2, Symbol: "A$"},
}

// IsValid reports whether the code is three uppercase ASCII letters.
func (c Code) IsValid() bool {
	return codeFormat.MatchString(string(c))
}

func (c Code) String() string { return string(c) }

// GetMeta returns metadata for the code, falling back to DefaultDecimals
// and the code itself as symbol for currencies not listed.
func GetMeta(c Code) Meta {
	if m, ok := metas[c]; ok {
		return m
	}
	return Meta{Decimals: DefaultDecimals, Symbol: string(c)}
}
