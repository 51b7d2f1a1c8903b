package region_test

import (
	"testing"

	"github.com/natepay/natepay/pkg/money"
	"github.com/natepay/natepay/pkg/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ng, ok := region.Get("NG")
	require.True(ok)
	assert.Equal("Nigeria", ng.Name)
	assert.Equal(money.NGN, ng.Currency)
	assert.True(ng.IsCrossBorder())
	assert.True(ng.Supports(region.ProviderPaystack))
	assert.False(ng.Supports(region.ProviderStripe))

	us, ok := region.Get("US")
	require.True(ok)
	assert.False(us.IsCrossBorder())
	assert.True(us.Supports(region.ProviderStripe))

	_, ok = region.Get("XX")
	assert.False(ok)
}

func TestList(t *testing.T) {
	all := region.List()
	assert.NotEmpty(t, all)

	// Sorted by code, and every cross-border country carries a rate with a
	// known display granularity bucket.
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Code, all[i].Code)
	}
	for _, c := range all {
		if c.IsCrossBorder() {
			assert.Positive(t, c.ApproxFxRate, "country %s", c.Code)
			assert.NotEmpty(t, c.Providers, "country %s", c.Code)
		}
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, region.IsSupported("ZA"))
	assert.False(t, region.IsSupported("FR"))
}
