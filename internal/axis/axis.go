// Package axis defines the price-axis pixel mapping the overlay draws
// against, plus a linear implementation for hosts that have no chart engine.
package axis

// DisplayMode selects how axis values are presented.
type DisplayMode int

const (
	Absolute DisplayMode = iota
	Percentage
)

func (m DisplayMode) String() string {
	switch m {
	case Percentage:
		return "percentage"
	default:
		return "absolute"
	}
}

// ParseDisplayMode maps "percentage" to Percentage and anything else to
// Absolute.
func ParseDisplayMode(s string) DisplayMode {
	if s == "percentage" {
		return Percentage
	}
	return Absolute
}

// Mapping converts between a domain value and a pixel on the axis.
type Mapping interface {
	ConvertToPixel(value float64) float64
	ConvertFromPixel(pixel float64) float64
	Width() float64
	DisplayMode() DisplayMode
	// IsPrimaryPane is true for the candle pane's axis.
	IsPrimaryPane() bool
	// IsOriginPixelAnchored is true when the axis starts at pixel 0, so
	// labels hug the left edge.
	IsOriginPixelAnchored() bool
}
