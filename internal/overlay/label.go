package overlay

import (
	"depthview/config"
	"depthview/internal/axis"
	"depthview/internal/canvas"
)

// labelBox is the outer rectangle of an axis label whose text is centred
// on y. It hugs the left edge of an origin-anchored axis and the right edge
// otherwise.
func labelBox(a axis.Mapping, textWidth, y float64, style config.LabelTextStyle) canvas.Rect {
	w := textWidth + style.PaddingLeft + style.PaddingRight + 2*style.BorderSize
	h := 2*style.BorderSize + style.Size + style.PaddingTop + style.PaddingBottom

	x := 0.0
	if !a.IsOriginPixelAnchored() {
		x = a.Width() - w
	}
	return canvas.Rect{
		X: x,
		Y: y - style.BorderSize - style.PaddingTop - style.Size/2,
		W: w,
		H: h,
	}
}

func labelFont(style config.LabelTextStyle) canvas.Font {
	return canvas.Font{Size: style.Size, Family: style.Family, Weight: style.Weight}
}

// drawAxisLabel paints the box first and the text on top of it.
func drawAxisLabel(c canvas.Canvas, a axis.Mapping, y float64, text string, style config.LabelTextStyle) canvas.Rect {
	font := labelFont(style)
	box := labelBox(a, c.MeasureText(text, font), y, style)

	c.StrokeFillRoundRect(style.BackgroundColor, style.BorderColor, style.BorderSize, box, style.BorderRadius)
	c.FillText(text, box.X+style.BorderSize+style.PaddingLeft, y, font, style.Color)
	return box
}
