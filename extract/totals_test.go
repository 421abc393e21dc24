package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanTotalsPairsNoCommas(t *testing.T) {
	span := `{"Sub Total": 120.50 "Tax": null "Total": 130.50}`

	pairs := scanTotalsPairs(span)
	require.Len(t, pairs, 3)

	require.NotNil(t, pairs["Sub Total"])
	assert.Equal(t, "120.5", pairs["Sub Total"].String())
	assert.Nil(t, pairs["Tax"])
	require.NotNil(t, pairs["Total"])
	assert.Equal(t, "130.5", pairs["Total"].String())
}

func TestScanTotalsPairsMixedSeparators(t *testing.T) {
	span := `{"Sub Total": 10, "Tax": 0.80
	"Shipping": 5 "Total": 15.80}`

	pairs := scanTotalsPairs(span)
	require.Len(t, pairs, 4)
	assert.Equal(t, "15.8", pairs["Total"].String())
}

func TestScanTotalsPairsLabelWithoutValue(t *testing.T) {
	// "Tax" is immediately followed by another label; it is recorded
	// with a nil value, not dropped.
	span := `{"Sub Total": 10 "Tax" "Total": 10}`

	pairs := scanTotalsPairs(span)
	require.Len(t, pairs, 3)
	_, present := pairs["Tax"]
	assert.True(t, present)
	assert.Nil(t, pairs["Tax"])
}

func TestScanTotalsPairsNegativeValue(t *testing.T) {
	span := `{"Total": -5.25}`

	pairs := scanTotalsPairs(span)
	require.NotNil(t, pairs["Total"])
	assert.Equal(t, "-5.25", pairs["Total"].String())
}
