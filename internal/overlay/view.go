// Package overlay draws the price-axis overlay of a chart pane: the order
// book depth staircase, the pane's tags and the crosshair value label.
package overlay

import (
	"depthview/internal/axis"
	"depthview/internal/canvas"
)

// View is anything the host can ask to paint itself for one pass.
type View interface {
	Draw(c canvas.Canvas, snap *Snapshot) PassResult
	Width() float64
	Height() float64
}

// PassResult summarises what a pass put on the canvas.
type PassResult struct {
	Depth DepthResult `json:"depth"`
	Tags  int         `json:"tags"`
	Label LabelResult `json:"label"`
}

// YAxisOverlay is the overlay layer of one pane's price axis.
type YAxisOverlay struct {
	paneID string
	axis   axis.Mapping
	height float64
}

var _ View = (*YAxisOverlay)(nil)

func NewYAxisOverlay(paneID string, a axis.Mapping, height float64) *YAxisOverlay {
	return &YAxisOverlay{paneID: paneID, axis: a, height: height}
}

func (v *YAxisOverlay) PaneID() string { return v.paneID }

func (v *YAxisOverlay) Axis() axis.Mapping { return v.axis }

// Width is the axis width; the overlay covers the whole axis.
func (v *YAxisOverlay) Width() float64 { return v.axis.Width() }

func (v *YAxisOverlay) Height() float64 { return v.height }

// Draw paints the depth chart, then the tags, then the crosshair label, so
// the label ends up on top.
func (v *YAxisOverlay) Draw(c canvas.Canvas, snap *Snapshot) PassResult {
	var res PassResult
	res.Depth = DrawDepthChart(c, v.axis, snap.Book, &snap.style().YAxis)
	res.Tags = DrawTags(c, snap.Tags)
	res.Label = DrawCrosshairLabel(c, v.axis, v.paneID, snap)
	return res
}
