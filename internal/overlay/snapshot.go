package overlay

import (
	"depthview/config"
	"depthview/models"
)

// Snapshot is everything one render pass reads from the chart store. The
// host builds it per frame and nothing in this package mutates it.
type Snapshot struct {
	Book      models.AsksBidsSnapshot
	Style     *config.StyleConfig
	Crosshair *models.CrosshairState
	// DataList is the full candle list; an empty list suppresses the label.
	DataList []models.KLine
	// VisibleData starts at the first candle on screen. Its first close is
	// the percentage reference.
	VisibleData []models.KLine
	// Indicators and Tags belong to the pane being drawn.
	Indicators     []models.IndicatorInstance
	Tags           []Tag
	PricePrecision int
}

var defaultStyle = config.DefaultStyle()

func (s *Snapshot) style() *config.StyleConfig {
	if s.Style == nil {
		return &defaultStyle
	}
	return s.Style
}
