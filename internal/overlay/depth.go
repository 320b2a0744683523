package overlay

import (
	"depthview/config"
	"depthview/internal/axis"
	"depthview/internal/canvas"
	"depthview/models"
)

type Side string

const (
	Asks Side = "asks"
	Bids Side = "bids"
)

const depthLineWidth = 3

// DepthGeometry is the pixel outline of one book side. Steps starts at
// (0, y(items[0])) and alternates horizontal runs and vertical jumps.
type DepthGeometry struct {
	Steps []canvas.Point
	// EndX is the cumulative width after the last level.
	EndX float64
	// Baseline is price zero for asks and the pane top for bids; the path
	// starts and closes on it.
	Baseline float64
}

func (g DepthGeometry) Anchor() canvas.Point {
	return canvas.Point{X: 0, Y: g.Baseline}
}

func baseline(side Side, a axis.Mapping) float64 {
	if side == Asks {
		return a.ConvertToPixel(0)
	}
	return 0
}

// Staircase lays out one side of the book. Level i ends at the running sum
// of counts 0..i scaled by width/TotalCount, so input order matters. It
// reports false for a side with no levels or a non-positive TotalCount.
func Staircase(book *models.OrderBookSide, a axis.Mapping, side Side) (DepthGeometry, bool) {
	if !book.Drawable() {
		return DepthGeometry{}, false
	}

	items := book.Items
	g := DepthGeometry{
		Baseline: baseline(side, a),
		Steps:    make([]canvas.Point, 0, 2*len(items)),
	}
	g.Steps = append(g.Steps, canvas.Point{X: 0, Y: a.ConvertToPixel(items[0].Price)})

	scale := a.Width() / book.TotalCount
	x := 0.0
	for i, level := range items {
		x += level.Count * scale
		g.Steps = append(g.Steps, canvas.Point{X: x, Y: a.ConvertToPixel(level.Price)})
		if i+1 < len(items) {
			g.Steps = append(g.Steps, canvas.Point{X: x, Y: a.ConvertToPixel(items[i+1].Price)})
		}
	}
	g.EndX = x
	return g, true
}

func tracePath(c canvas.Canvas, g DepthGeometry) {
	c.BeginPath()
	anchor := g.Anchor()
	c.MoveTo(anchor.X, anchor.Y)
	for _, p := range g.Steps {
		c.LineTo(p.X, p.Y)
	}
}

func drawDepthLine(c canvas.Canvas, g DepthGeometry, style config.DepthChartStyle) {
	tracePath(c, g)
	c.Stroke(style.LineColor, depthLineWidth)
}

func drawDepthArea(c canvas.Canvas, g DepthGeometry, style config.DepthChartStyle, span float64) {
	tracePath(c, g)
	c.LineTo(g.EndX, g.Baseline)
	c.ClosePath()

	gradient := canvas.NewLinearGradient(span, 0, 0, 0).
		AddColorStop(0, style.ColorRight).
		AddColorStop(1, style.ColorLeft)
	c.Fill(gradient)
}

// gradientSpan is the configured span, or the axis width when unset.
func gradientSpan(style *config.YAxisStyle, a axis.Mapping) float64 {
	if style.GradientSpan > 0 {
		return style.GradientSpan
	}
	return a.Width()
}

// DepthResult says which parts of the depth chart a pass drew.
type DepthResult struct {
	Drawn bool `json:"drawn"`
	Asks  bool `json:"asks"`
	Bids  bool `json:"bids"`
}

func drawDepthSide(c canvas.Canvas, a axis.Mapping, book *models.OrderBookSide, side Side, style config.DepthChartStyle, span float64) bool {
	g, ok := Staircase(book, a, side)
	if !ok {
		return false
	}
	drawDepthLine(c, g, style)
	drawDepthArea(c, g, style, span)
	return true
}

// DrawDepthChart draws asks then bids. Both sides must be present or
// nothing is drawn.
func DrawDepthChart(c canvas.Canvas, a axis.Mapping, book models.AsksBidsSnapshot, style *config.YAxisStyle) DepthResult {
	if !book.Complete() {
		return DepthResult{}
	}

	span := gradientSpan(style, a)
	res := DepthResult{Drawn: true}
	res.Asks = drawDepthSide(c, a, book.Asks, Asks, style.AsksChart, span)
	res.Bids = drawDepthSide(c, a, book.Bids, Bids, style.BidsChart, span)
	return res
}
