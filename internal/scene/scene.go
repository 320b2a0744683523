// Package scene loads the static frame description the host renders: the
// pane's axis, the order book, the crosshair and the candle data.
package scene

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"depthview/config"
	"depthview/internal/axis"
	"depthview/internal/overlay"
	"depthview/models"
)

type AxisSpec struct {
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Mode     string  `yaml:"mode"`
	Primary  bool    `yaml:"primary"`
	FromZero bool    `yaml:"from_zero"`
}

// TagSpec is a price tag on the axis. Colors left empty fall back to the
// crosshair label style.
type TagSpec struct {
	Price           float64 `yaml:"price"`
	Text            string  `yaml:"text"`
	Precision       *int    `yaml:"precision"`
	Color           string  `yaml:"color"`
	BackgroundColor string  `yaml:"background_color"`
	BorderColor     string  `yaml:"border_color"`
}

type Scene struct {
	PaneID         string                     `yaml:"pane_id"`
	PricePrecision int                        `yaml:"price_precision"`
	AxisSpec       AxisSpec                   `yaml:"axis"`
	Book           models.AsksBidsSnapshot    `yaml:"book"`
	Crosshair      *models.CrosshairState     `yaml:"crosshair"`
	Data           []models.KLine             `yaml:"data"`
	VisibleFrom    int                        `yaml:"visible_from"`
	Indicators     []models.IndicatorInstance `yaml:"indicators"`
	Tags           []TagSpec                  `yaml:"tags"`
	// Sweep moves the crosshair down by this many pixels per frame,
	// wrapping at the axis height.
	Sweep float64 `yaml:"sweep"`
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scene, fills missing total counts with the level sums
// and validates it.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}

	for _, book := range []*models.OrderBookSide{s.Book.Asks, s.Book.Bids} {
		if book != nil && book.TotalCount == 0 {
			book.TotalCount = book.SumCount()
		}
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scene validation failed: %w", err)
	}
	return &s, nil
}

func (s *Scene) validate() error {
	if s.PaneID == "" {
		return fmt.Errorf("pane_id is required")
	}
	if s.AxisSpec.Width <= 0 {
		return fmt.Errorf("axis.width must be greater than 0")
	}
	if s.AxisSpec.Height < 0 {
		return fmt.Errorf("axis.height must not be negative")
	}
	if s.AxisSpec.Max < s.AxisSpec.Min {
		return fmt.Errorf("axis.max must not be below axis.min")
	}
	switch s.AxisSpec.Mode {
	case "", axis.Absolute.String(), axis.Percentage.String():
	default:
		return fmt.Errorf("axis.mode %q is not supported", s.AxisSpec.Mode)
	}
	if s.VisibleFrom < 0 || s.VisibleFrom > len(s.Data) {
		return fmt.Errorf("visible_from %d is outside the %d candles", s.VisibleFrom, len(s.Data))
	}
	if s.PricePrecision < 0 {
		return fmt.Errorf("price_precision must not be negative")
	}
	return nil
}

// SetDefaultHeight fills the axis height when the scene leaves it out.
func (s *Scene) SetDefaultHeight(height float64) {
	if s.AxisSpec.Height == 0 {
		s.AxisSpec.Height = height
	}
}

func (s *Scene) Axis() *axis.Linear {
	return &axis.Linear{
		Min:      s.AxisSpec.Min,
		Max:      s.AxisSpec.Max,
		Height:   s.AxisSpec.Height,
		W:        s.AxisSpec.Width,
		Mode:     axis.ParseDisplayMode(s.AxisSpec.Mode),
		Primary:  s.AxisSpec.Primary,
		FromZero: s.AxisSpec.FromZero,
	}
}

// View builds the overlay for the scene's pane.
func (s *Scene) View() *overlay.YAxisOverlay {
	return overlay.NewYAxisOverlay(s.PaneID, s.Axis(), s.AxisSpec.Height)
}

// Snapshot is the render input of frame seq. Every call returns a fresh
// value so a pass never sees another pass's data.
func (s *Scene) Snapshot(style *config.StyleConfig, seq int64) *overlay.Snapshot {
	a := s.Axis()
	snap := &overlay.Snapshot{
		Book:           s.Book,
		Style:          style,
		DataList:       s.Data,
		VisibleData:    s.Data[s.VisibleFrom:],
		Indicators:     s.Indicators,
		PricePrecision: s.PricePrecision,
	}

	if s.Crosshair != nil {
		cross := *s.Crosshair
		if s.Sweep != 0 && a.Height > 0 {
			cross.Y = math.Mod(cross.Y+float64(seq)*s.Sweep, a.Height)
			if cross.Y < 0 {
				cross.Y += a.Height
			}
		}
		snap.Crosshair = &cross
	}

	labelStyle := config.DefaultStyle().Crosshair.Horizontal.Text
	if style != nil {
		labelStyle = style.Crosshair.Horizontal.Text
	}
	for _, spec := range s.Tags {
		snap.Tags = append(snap.Tags, spec.tag(a, labelStyle, s.PricePrecision))
	}
	return snap
}

func (t TagSpec) tag(a axis.Mapping, base config.LabelTextStyle, precision int) *overlay.PriceTag {
	style := base
	style.Show = true
	if t.Color != "" {
		style.Color = t.Color
	}
	if t.BackgroundColor != "" {
		style.BackgroundColor = t.BackgroundColor
	}
	if t.BorderColor != "" {
		style.BorderColor = t.BorderColor
	}
	if t.Precision != nil {
		precision = *t.Precision
	}
	return &overlay.PriceTag{Axis: a, Price: t.Price, Text: t.Text, Precision: precision, Style: style}
}
