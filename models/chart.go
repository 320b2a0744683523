package models

// KLine is one candle of the chart data list.
type KLine struct {
	Timestamp int64   `json:"timestamp" yaml:"timestamp"`
	Open      float64 `json:"open" yaml:"open"`
	High      float64 `json:"high" yaml:"high"`
	Low       float64 `json:"low" yaml:"low"`
	Close     float64 `json:"close" yaml:"close"`
	Volume    float64 `json:"volume" yaml:"volume"`
}

// CrosshairState is where the pointer is. It only exists while the pointer
// is over a pane.
type CrosshairState struct {
	PaneID string  `json:"paneId" yaml:"pane_id"`
	Y      float64 `json:"y" yaml:"y"`
}

// IndicatorInstance is a technical indicator registered on a pane, reduced
// to what label formatting needs.
type IndicatorInstance struct {
	Name                  string `json:"name" yaml:"name"`
	Precision             int    `json:"precision" yaml:"precision"`
	ShouldFormatBigNumber bool   `json:"shouldFormatBigNumber" yaml:"should_format_big_number"`
}
