package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"depthview/config"
	"depthview/internal/axis"
	"depthview/internal/canvas"
	"depthview/internal/overlay"
)

const sampleScene = `
pane_id: candle_pane
price_precision: 2
axis:
  min: 0
  max: 200
  width: 100
  mode: percentage
  primary: true
book:
  asks:
    items:
      - {price: 150, count: 2}
      - {price: 175, count: 3}
  bids:
    total_count: 10
    items:
      - {price: 50, count: 4}
crosshair:
  pane_id: candle_pane
  y: 190
data:
  - {timestamp: 1, close: 80}
  - {timestamp: 2, close: 100}
visible_from: 1
indicators:
  - {name: VOL, precision: 0, should_format_big_number: true}
tags:
  - price: 120
    background_color: "#F92855"
  - price: 130
    text: last
    precision: 0
sweep: 20
`

func TestParseScene(t *testing.T) {
	s, err := Parse([]byte(sampleScene))
	require.NoError(t, err)

	assert.Equal(t, "candle_pane", s.PaneID)
	assert.Equal(t, 5.0, s.Book.Asks.TotalCount, "total count defaults to the sum")
	assert.Equal(t, 10.0, s.Book.Bids.TotalCount)
	require.Len(t, s.Indicators, 1)
	assert.True(t, s.Indicators[0].ShouldFormatBigNumber)

	s.SetDefaultHeight(200)
	a := s.Axis()
	assert.Equal(t, axis.Percentage, a.DisplayMode())
	assert.Equal(t, 200.0, a.Height)
	assert.Equal(t, 100.0, a.Width())

	s.SetDefaultHeight(600)
	assert.Equal(t, 200.0, s.AxisSpec.Height, "explicit height wins")
}

func TestSnapshotBuildsRenderInput(t *testing.T) {
	s, err := Parse([]byte(sampleScene))
	require.NoError(t, err)
	s.SetDefaultHeight(200)

	style := config.DefaultStyle()
	snap := s.Snapshot(&style, 0)
	assert.Len(t, snap.DataList, 2)
	require.Len(t, snap.VisibleData, 1)
	assert.Equal(t, 100.0, snap.VisibleData[0].Close)
	assert.Equal(t, 190.0, snap.Crosshair.Y)
	require.Len(t, snap.Tags, 2)

	tag := snap.Tags[0].(*overlay.PriceTag)
	assert.Equal(t, "#F92855", tag.Style.BackgroundColor)
	assert.Equal(t, style.Crosshair.Horizontal.Text.Color, tag.Style.Color)
	assert.Equal(t, 2, tag.Precision)
	assert.Equal(t, 0, snap.Tags[1].(*overlay.PriceTag).Precision)
}

func TestSnapshotSweepWraps(t *testing.T) {
	s, err := Parse([]byte(sampleScene))
	require.NoError(t, err)
	s.SetDefaultHeight(200)

	assert.Equal(t, 10.0, s.Snapshot(nil, 1).Crosshair.Y)
	assert.Equal(t, 190.0, s.Crosshair.Y, "scene crosshair is not mutated")
}

func TestSceneRendersThroughView(t *testing.T) {
	s, err := Parse([]byte(sampleScene))
	require.NoError(t, err)
	s.SetDefaultHeight(200)

	rec := canvas.NewRecorder()
	res := s.View().Draw(rec, s.Snapshot(nil, 0))
	assert.True(t, res.Depth.Drawn)
	assert.Equal(t, 2, res.Tags)
	// pixel 190 is value 10 against a reference close of 100
	assert.Equal(t, "-90.00%", res.Label.Text)
}

func TestParseSceneValidation(t *testing.T) {
	cases := map[string]string{
		"missing pane":   "axis: {width: 10}\n",
		"zero width":     "pane_id: p\naxis: {width: 0}\n",
		"inverted range": "pane_id: p\naxis: {width: 10, min: 5, max: 1}\n",
		"bad mode":       "pane_id: p\naxis: {width: 10, mode: log}\n",
		"visible range":  "pane_id: p\naxis: {width: 10}\nvisible_from: 3\n",
		"bad yaml":       "pane_id: [\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(content))
			assert.Error(t, err)
		})
	}
}

func TestLoadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScene), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s.PricePrecision)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
