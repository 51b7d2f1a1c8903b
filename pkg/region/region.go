// Package region holds the per-country configuration NatePay supports:
// display name, local currency, available payment providers, and — for
// cross-border countries — the approximate FX rate used for display
// conversion. Settlement is always USD; the rates here are manually
// maintained and never used for actual settlement.
package region

import (
	"sort"

	"github.com/natepay/natepay/pkg/money"
)

// Provider identifies a supported payment provider.
type Provider string

const (
	ProviderStripe   Provider = "stripe"
	ProviderPaystack Provider = "paystack"
)

// Country describes one supported country.
type Country struct {
	// Code is the ISO 3166-1 alpha-2 code, e.g. "NG".
	Code string
	Name string
	// Currency is the creator-facing display/charge currency.
	Currency money.Code
	// Providers lists the payment providers available in this country.
	Providers []Provider
	// ApproxFxRate is local units per 1 USD. Zero means the country
	// settles natively in its own currency and needs no approximation.
	ApproxFxRate float64
}

// IsCrossBorder reports whether payouts settle in USD while prices display
// in the local currency via the approximate rate.
func (c Country) IsCrossBorder() bool {
	return c.ApproxFxRate > 0 && c.Currency != money.USD
}

// Supports reports whether the given provider is available in the country.
func (c Country) Supports(p Provider) bool {
	for _, cp := range c.Providers {
		if cp == p {
			return true
		}
	}
	return false
}

var countries = map[string]Country{
	"US": {Code: "US", Name: "United States", Currency: money.USD,
		Providers: []Provider{ProviderStripe}},
	"GB": {Code: "GB", Name: "United Kingdom", Currency: money.GBP,
		Providers: []Provider{ProviderStripe}},
	"CA": {Code: "CA", Name: "Canada", Currency: money.CAD,
		Providers: []Provider{ProviderStripe}},
	"AU": {Code: "AU", Name: "Australia", Currency: money.AUD,
		Providers: []Provider{ProviderStripe}},
	"NG": {Code: "NG", Name: "Nigeria", Currency: money.NGN,
		Providers: []Provider{ProviderPaystack}, ApproxFxRate: 1600},
	"GH": {Code: "GH", Name: "Ghana", Currency: money.GHS,
		Providers: []Provider{ProviderPaystack}, ApproxFxRate: 15.5},
	"KE": {Code: "KE", Name: "Kenya", Currency: money.KES,
		Providers: []Provider{ProviderPaystack}, ApproxFxRate: 129},
	"ZA": {Code: "ZA", Name: "South Africa", Currency: money.ZAR,
		Providers: []Provider{ProviderPaystack, ProviderStripe}, ApproxFxRate: 18.2},
	"EG": {Code: "EG", Name: "Egypt", Currency: money.EGP,
		Providers: []Provider{ProviderPaystack}, ApproxFxRate: 49},
}

// Get returns the configuration for an ISO 3166-1 alpha-2 country code.
func Get(code string) (Country, bool) {
	c, ok := countries[code]
	return c, ok
}

// IsSupported reports whether the country code is configured.
func IsSupported(code string) bool {
	_, ok := countries[code]
	return ok
}

// List returns all configured countries sorted by code.
func List() []Country {
	out := make([]Country, 0, len(countries))
	for _, c := range countries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
