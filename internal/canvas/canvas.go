// Package canvas is the drawing surface the overlay renders onto. Calls
// follow the HTML canvas model: a path is opened with BeginPath, built with
// MoveTo/LineTo/ClosePath and painted with Stroke or Fill.
package canvas

// Canvas is owned by the host for one render pass.
type Canvas interface {
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()
	// Stroke paints the current path's outline. The path is kept.
	Stroke(color string, width float64)
	// Fill paints the current path's interior. The path is kept.
	Fill(g LinearGradient)
	// StrokeFillRoundRect fills r with fill then outlines it with border.
	StrokeFillRoundRect(fill, border string, borderSize float64, r Rect, radius float64)
	// FillText draws text with its vertical middle on y.
	FillText(text string, x, y float64, font Font, color string)
	MeasureText(text string, font Font) float64
}

type Rect struct {
	X, Y, W, H float64
}

type Font struct {
	Size   float64
	Family string
	Weight string
}

type ColorStop struct {
	Offset float64
	Color  string
}

// LinearGradient runs from (X0, Y0) at offset 0 to (X1, Y1) at offset 1.
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	Stops          []ColorStop
}

func NewLinearGradient(x0, y0, x1, y1 float64) LinearGradient {
	return LinearGradient{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

func (g LinearGradient) AddColorStop(offset float64, color string) LinearGradient {
	g.Stops = append(g.Stops, ColorStop{Offset: offset, Color: color})
	return g
}
