package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depthview/config"
	"depthview/internal/axis"
	"depthview/internal/canvas"
	"depthview/models"
)

// testAxis maps [0, 200] onto 200 pixels, so pixel = 200 - value.
func testAxis() *axis.Linear {
	return &axis.Linear{Min: 0, Max: 200, Height: 200, W: 100, Primary: true}
}

func side(levels ...models.PriceLevel) *models.OrderBookSide {
	return models.NewOrderBookSide(levels)
}

func candles(closes ...float64) []models.KLine {
	out := make([]models.KLine, len(closes))
	for i, c := range closes {
		out[i] = models.KLine{Timestamp: int64(i), Close: c}
	}
	return out
}

func styleRef() *config.StyleConfig {
	s := config.DefaultStyle()
	return &s
}

func assertPoints(t *testing.T, want, got []canvas.Point) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, 1e-9, "point %d x", i)
		assert.InDelta(t, want[i].Y, got[i].Y, 1e-9, "point %d y", i)
	}
}
