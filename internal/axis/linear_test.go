package axis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearRoundTrip(t *testing.T) {
	a := &Linear{Min: 90, Max: 110, Height: 200, W: 80}

	assert.InDelta(t, 0, a.ConvertToPixel(110), 1e-9)
	assert.InDelta(t, 200, a.ConvertToPixel(90), 1e-9)
	assert.InDelta(t, 100, a.ConvertToPixel(100), 1e-9)

	for _, v := range []float64{90, 95.5, 103.25, 110, 0} {
		assert.InDelta(t, v, a.ConvertFromPixel(a.ConvertToPixel(v)), 1e-9)
	}
	assert.Equal(t, 80.0, a.Width())
}

func TestLinearPriceZeroBelowPane(t *testing.T) {
	a := &Linear{Min: 90, Max: 110, Height: 200}
	assert.InDelta(t, 1100, a.ConvertToPixel(0), 1e-9)
}

func TestLinearDegenerateRange(t *testing.T) {
	a := &Linear{Min: 100, Max: 100, Height: 200}
	assert.Equal(t, 0.0, a.ConvertToPixel(105))
	assert.Equal(t, 100.0, a.ConvertFromPixel(50))

	flat := &Linear{Min: 1, Max: 2}
	assert.Equal(t, 1.0, flat.ConvertFromPixel(10))
}

func TestParseDisplayMode(t *testing.T) {
	assert.Equal(t, Percentage, ParseDisplayMode("percentage"))
	assert.Equal(t, Absolute, ParseDisplayMode("normal"))
	assert.Equal(t, "percentage", Percentage.String())
	assert.Equal(t, "absolute", Absolute.String())
}
