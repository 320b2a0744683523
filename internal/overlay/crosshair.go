package overlay

import (
	"depthview/internal/axis"
	"depthview/internal/canvas"
)

// Reasons a crosshair label was not drawn.
const (
	SkipNoCrosshair = "no_crosshair"
	SkipOtherPane   = "other_pane"
	SkipNoData      = "no_data"
	SkipHidden      = "hidden"
)

type LabelResult struct {
	Drawn      bool        `json:"drawn"`
	Text       string      `json:"text,omitempty"`
	Rect       canvas.Rect `json:"rect"`
	SkipReason string      `json:"skipReason,omitempty"`
}

// DrawCrosshairLabel draws the value under the crosshair on the axis of
// pane paneID. Nothing is drawn when the crosshair is on another pane, the
// chart has no data or any of the crosshair, horizontal or text show flags
// is off.
func DrawCrosshairLabel(c canvas.Canvas, a axis.Mapping, paneID string, snap *Snapshot) LabelResult {
	cross := snap.Crosshair
	switch {
	case cross == nil:
		return LabelResult{SkipReason: SkipNoCrosshair}
	case cross.PaneID != paneID:
		return LabelResult{SkipReason: SkipOtherPane}
	case len(snap.DataList) == 0:
		return LabelResult{SkipReason: SkipNoData}
	}

	style := snap.style()
	if !style.LabelVisible() {
		return LabelResult{SkipReason: SkipHidden}
	}
	textStyle := style.Crosshair.Horizontal.Text

	value := a.ConvertFromPixel(cross.Y)
	text, ok := ResolveLabelFormat(a, snap).Format(value)
	if !ok && textStyle.InvalidText != "" {
		text = textStyle.InvalidText
	}

	box := drawAxisLabel(c, a, cross.Y, text, textStyle)
	return LabelResult{Drawn: true, Text: text, Rect: box}
}
