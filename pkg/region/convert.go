package region

import (
	"math"

	"github.com/natepay/natepay/pkg/money"
)

// LocalAmount is a display-only projection of a canonical USD amount. It
// must never be written back as a price; round-tripping it through
// LocalToUsdExact inflates the original because UsdToLocalApprox rounds up.
type LocalAmount struct {
	Amount   float64    `json:"amount"`
	Currency money.Code `json:"currency"`
	Symbol   string     `json:"symbol"`
}

// displayGranularity picks the "nice" rounding unit for a local display
// amount. Granularity scales with rate magnitude so a 72,150 NGN price
// shows as 73,000 while a 91 ZAR price shows as 95.
func displayGranularity(rate float64) float64 {
	switch {
	case rate >= 500:
		return 1000
	case rate >= 50:
		return 100
	default:
		return 5
	}
}

// UsdToLocalApprox converts a USD amount into a rounded local-currency
// display amount for a cross-border country. Rounding is always up, so the
// creator never receives less than they asked for after display rounding.
// Returns nil for non-cross-border countries, unknown codes, or unusable
// input; nil means "no approximation needed", not an error.
func UsdToLocalApprox(usd float64, countryCode string) *LocalAmount {
	c, ok := countries[countryCode]
	if !ok || !c.IsCrossBorder() {
		return nil
	}
	if usd <= 0 || math.IsNaN(usd) || math.IsInf(usd, 0) {
		return nil
	}

	raw := usd * c.ApproxFxRate
	g := displayGranularity(c.ApproxFxRate)
	// The epsilon keeps exact multiples (45 USD * 1600 = 72,000 NGN) from
	// being pushed up a whole granule by float error.
	rounded := math.Ceil(raw/g-1e-9) * g

	meta := money.GetMeta(c.Currency)
	return &LocalAmount{Amount: rounded, Currency: c.Currency, Symbol: meta.Symbol}
}

// LocalToUsdExact converts a user-typed local-currency amount into the
// exact USD amount to store, rounded to 2 decimal places. This is the only
// legitimate local→USD path: canonical USD is set once from direct input or
// one exact conversion, and display values are always derived forward from
// it. Returns nil under the same conditions as UsdToLocalApprox.
func LocalToUsdExact(local float64, countryCode string) *float64 {
	c, ok := countries[countryCode]
	if !ok || !c.IsCrossBorder() {
		return nil
	}
	if local <= 0 || math.IsNaN(local) || math.IsInf(local, 0) {
		return nil
	}

	usd := math.Round(local/c.ApproxFxRate*100) / 100
	return &usd
}

// ApproxFxRate returns the configured approximate rate for a cross-border
// country, or nil when no approximation applies.
func ApproxFxRate(countryCode string) *float64 {
	c, ok := countries[countryCode]
	if !ok || !c.IsCrossBorder() {
		return nil
	}
	rate := c.ApproxFxRate
	return &rate
}
