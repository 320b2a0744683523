package axis

// Linear maps [Min, Max] onto [Height, 0] pixels: Max sits at the top of the
// pane.
type Linear struct {
	Min    float64
	Max    float64
	Height float64
	W      float64
	Mode   DisplayMode
	// Primary marks the candle pane axis.
	Primary bool
	// FromZero anchors the axis origin at pixel 0.
	FromZero bool
}

var _ Mapping = (*Linear)(nil)

func (a *Linear) span() float64 {
	return a.Max - a.Min
}

func (a *Linear) degenerate() bool {
	return a.span() == 0 || a.Height == 0
}

func (a *Linear) ConvertToPixel(value float64) float64 {
	if a.degenerate() {
		return 0
	}
	return (a.Max - value) / a.span() * a.Height
}

func (a *Linear) ConvertFromPixel(pixel float64) float64 {
	if a.degenerate() {
		return a.Min
	}
	return a.Max - pixel/a.Height*a.span()
}

func (a *Linear) Width() float64 { return a.W }

func (a *Linear) DisplayMode() DisplayMode { return a.Mode }

func (a *Linear) IsPrimaryPane() bool { return a.Primary }

func (a *Linear) IsOriginPixelAnchored() bool { return a.FromZero }
