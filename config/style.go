package config

import (
	"fmt"
)

// StyleConfig is the subset of chart styles the axis overlay reads. A
// render pass treats it as immutable.
type StyleConfig struct {
	YAxis     YAxisStyle     `yaml:"y_axis"`
	Crosshair CrosshairStyle `yaml:"crosshair"`
}

type YAxisStyle struct {
	AsksChart DepthChartStyle `yaml:"asks_chart"`
	BidsChart DepthChartStyle `yaml:"bids_chart"`
	// GradientSpan is the pixel length of the depth area gradient. Zero
	// derives it from the axis width; 500 matches the legacy renders.
	GradientSpan float64 `yaml:"gradient_span"`
}

type DepthChartStyle struct {
	LineColor  string `yaml:"line_color"`
	ColorLeft  string `yaml:"color_left"`
	ColorRight string `yaml:"color_right"`
}

type CrosshairStyle struct {
	Show       bool                     `yaml:"show"`
	Horizontal CrosshairHorizontalStyle `yaml:"horizontal"`
}

type CrosshairHorizontalStyle struct {
	Show bool           `yaml:"show"`
	Text LabelTextStyle `yaml:"text"`
}

type LabelTextStyle struct {
	Show            bool    `yaml:"show"`
	Color           string  `yaml:"color"`
	Size            float64 `yaml:"size"`
	Family          string  `yaml:"family"`
	Weight          string  `yaml:"weight"`
	PaddingLeft     float64 `yaml:"padding_left"`
	PaddingRight    float64 `yaml:"padding_right"`
	PaddingTop      float64 `yaml:"padding_top"`
	PaddingBottom   float64 `yaml:"padding_bottom"`
	BorderSize      float64 `yaml:"border_size"`
	BorderColor     string  `yaml:"border_color"`
	BorderRadius    float64 `yaml:"border_radius"`
	BackgroundColor string  `yaml:"background_color"`
	// InvalidText replaces a label whose value is not finite, e.g. a
	// percentage against a zero reference close. Empty keeps "NaN%" style
	// text.
	InvalidText string `yaml:"invalid_text"`
}

func DefaultStyle() StyleConfig {
	return StyleConfig{
		YAxis: YAxisStyle{
			AsksChart: DepthChartStyle{
				LineColor:  "#F92855",
				ColorLeft:  "rgba(249, 40, 85, 0.05)",
				ColorRight: "rgba(249, 40, 85, 0.35)",
			},
			BidsChart: DepthChartStyle{
				LineColor:  "#2DC08E",
				ColorLeft:  "rgba(45, 192, 142, 0.05)",
				ColorRight: "rgba(45, 192, 142, 0.35)",
			},
		},
		Crosshair: CrosshairStyle{
			Show: true,
			Horizontal: CrosshairHorizontalStyle{
				Show: true,
				Text: LabelTextStyle{
					Show:            true,
					Color:           "#D9D9D9",
					Size:            12,
					Family:          "Helvetica Neue",
					Weight:          "normal",
					PaddingLeft:     2,
					PaddingRight:    2,
					PaddingTop:      2,
					PaddingBottom:   2,
					BorderSize:      1,
					BorderColor:     "#505050",
					BorderRadius:    2,
					BackgroundColor: "#505050",
				},
			},
		},
	}
}

// LabelVisible reports whether every crosshair flag needed for the axis
// label is on.
func (s *StyleConfig) LabelVisible() bool {
	return s.Crosshair.Show && s.Crosshair.Horizontal.Show && s.Crosshair.Horizontal.Text.Show
}

func (s *StyleConfig) Validate() error {
	if s.YAxis.GradientSpan < 0 {
		return fmt.Errorf("y_axis.gradient_span must not be negative")
	}
	for name, side := range map[string]DepthChartStyle{"asks_chart": s.YAxis.AsksChart, "bids_chart": s.YAxis.BidsChart} {
		if side.LineColor == "" || side.ColorLeft == "" || side.ColorRight == "" {
			return fmt.Errorf("y_axis.%s needs line_color, color_left and color_right", name)
		}
	}

	text := s.Crosshair.Horizontal.Text
	if text.Size <= 0 {
		return fmt.Errorf("crosshair.horizontal.text.size must be greater than 0")
	}
	if text.BorderSize < 0 || text.BorderRadius < 0 {
		return fmt.Errorf("crosshair.horizontal.text border values must not be negative")
	}
	if text.PaddingLeft < 0 || text.PaddingRight < 0 || text.PaddingTop < 0 || text.PaddingBottom < 0 {
		return fmt.Errorf("crosshair.horizontal.text paddings must not be negative")
	}
	return nil
}
