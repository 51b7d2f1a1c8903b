package region_test

import (
	"math"
	"testing"

	"github.com/natepay/natepay/pkg/money"
	"github.com/natepay/natepay/pkg/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsdToLocalApprox(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	t.Run("pinned NG value", func(t *testing.T) {
		la := region.UsdToLocalApprox(45, "NG")
		require.NotNil(la)
		assert.Equal(45*1600.0, la.Amount)
		assert.Equal(72000.0, la.Amount)
		assert.Equal(money.NGN, la.Currency)
		assert.Equal("₦", la.Symbol)
	})

	t.Run("rounds up to nearest 1000 for large rates", func(t *testing.T) {
		// 45.10 * 1600 = 72,160 -> 73,000
		la := region.UsdToLocalApprox(45.10, "NG")
		require.NotNil(la)
		assert.Equal(73000.0, la.Amount)
	})

	t.Run("rounds up to nearest 100 for medium rates", func(t *testing.T) {
		// 10 * 129 = 1,290 -> 1,300
		la := region.UsdToLocalApprox(10, "KE")
		require.NotNil(la)
		assert.Equal(1300.0, la.Amount)
	})

	t.Run("rounds up to nearest 5 for small rates", func(t *testing.T) {
		// 5 * 18.2 = 91 -> 95
		la := region.UsdToLocalApprox(5, "ZA")
		require.NotNil(la)
		assert.Equal(95.0, la.Amount)
	})

	t.Run("nil for native stripe countries", func(t *testing.T) {
		assert.Nil(region.UsdToLocalApprox(45, "US"))
		assert.Nil(region.UsdToLocalApprox(45, "GB"))
	})

	t.Run("nil for unknown country", func(t *testing.T) {
		assert.Nil(region.UsdToLocalApprox(45, "XX"))
		assert.Nil(region.UsdToLocalApprox(45, ""))
	})

	t.Run("nil for unusable input", func(t *testing.T) {
		assert.Nil(region.UsdToLocalApprox(0, "NG"))
		assert.Nil(region.UsdToLocalApprox(-1, "NG"))
		assert.Nil(region.UsdToLocalApprox(math.NaN(), "NG"))
	})
}

func TestLocalToUsdExact(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	t.Run("pinned ZA values", func(t *testing.T) {
		usd := region.LocalToUsdExact(900, "ZA")
		require.NotNil(usd)
		assert.Equal(49.45, *usd)

		usd = region.LocalToUsdExact(100, "ZA")
		require.NotNil(usd)
		assert.Equal(5.49, *usd)
	})

	t.Run("preserves cent precision, no whole-dollar truncation", func(t *testing.T) {
		usd := region.LocalToUsdExact(1000, "NG")
		require.NotNil(usd)
		assert.Equal(0.63, *usd)
	})

	t.Run("nil under the same non-applicable conditions", func(t *testing.T) {
		assert.Nil(region.LocalToUsdExact(900, "US"))
		assert.Nil(region.LocalToUsdExact(900, "XX"))
		assert.Nil(region.LocalToUsdExact(0, "ZA"))
		assert.Nil(region.LocalToUsdExact(math.NaN(), "ZA"))
	})
}

// Display rounding always rounds up, so converting the displayed amount
// back may only gain value, never lose it. The product code must still
// never perform this reverse conversion; see TestCanonicalUsdNoDrift.
func TestRoundingUpNeverLosesRevenue(t *testing.T) {
	amounts := []float64{0.5, 1, 4.99, 5, 10, 45, 45.10, 49.45, 99.99, 250}
	for _, c := range region.List() {
		if !c.IsCrossBorder() {
			continue
		}
		for _, usd := range amounts {
			la := region.UsdToLocalApprox(usd, c.Code)
			require.NotNil(t, la, "country %s", c.Code)
			back := region.LocalToUsdExact(la.Amount, c.Code)
			require.NotNil(t, back, "country %s", c.Code)
			assert.GreaterOrEqual(t, *back, usd,
				"country %s amount %v displayed %v", c.Code, usd, la.Amount)
		}
	}
}

// A user types 900 ZAR; the stored canonical USD must be 49.45, and
// re-displaying must derive forward from that value. Reversing the
// displayed amount instead could only inflate the canonical price.
func TestCanonicalUsdNoDrift(t *testing.T) {
	typed := 900.0

	usd := region.LocalToUsdExact(typed, "ZA")
	require.NotNil(t, usd)
	assert.Equal(t, 49.45, *usd)

	display := region.UsdToLocalApprox(*usd, "ZA")
	require.NotNil(t, display)

	// The canonical value is untouched by displaying: converting the
	// typed amount again yields the same stored USD.
	again := region.LocalToUsdExact(typed, "ZA")
	require.NotNil(t, again)
	assert.Equal(t, *usd, *again)

	// Feeding the displayed amount back in can only gain, never lose,
	// which is exactly why product code must never do it.
	inflated := region.LocalToUsdExact(display.Amount, "ZA")
	require.NotNil(t, inflated)
	assert.GreaterOrEqual(t, *inflated, *usd)
}

func TestApproxFxRate(t *testing.T) {
	rate := region.ApproxFxRate("ZA")
	require.NotNil(t, rate)
	assert.Equal(t, 18.2, *rate)

	assert.Nil(t, region.ApproxFxRate("US"))
	assert.Nil(t, region.ApproxFxRate("XX"))
}
