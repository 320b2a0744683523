package overlay

import (
	"depthview/config"
	"depthview/internal/axis"
	"depthview/internal/canvas"
)

// Tag is an axis annotation owned by a pane. Tags draw between the depth
// chart and the crosshair label.
type Tag interface {
	Draw(c canvas.Canvas)
}

// DrawTags draws tags in order and returns how many were handed to the
// canvas. Nil entries are skipped.
func DrawTags(c canvas.Canvas, tags []Tag) int {
	n := 0
	for _, tag := range tags {
		if tag == nil {
			continue
		}
		tag.Draw(c)
		n++
	}
	return n
}

// PriceTag marks a fixed price on the axis, e.g. the last trade. An empty
// Text shows the price with Precision decimals.
type PriceTag struct {
	Axis      axis.Mapping
	Price     float64
	Text      string
	Precision int
	Style     config.LabelTextStyle
}

func (t *PriceTag) Draw(c canvas.Canvas) {
	if t == nil || t.Axis == nil || !t.Style.Show {
		return
	}
	text := t.Text
	if text == "" {
		text = FormatPrecision(t.Price, t.Precision)
	}
	drawAxisLabel(c, t.Axis, t.Axis.ConvertToPixel(t.Price), text, t.Style)
}
