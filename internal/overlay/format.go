package overlay

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"depthview/internal/axis"
)

// LabelFormat turns an axis value into label text. ok is false when the
// number behind the text is not finite.
type LabelFormat interface {
	Format(value float64) (text string, ok bool)
}

// PercentageFormat renders the change against RefClose with two decimals.
type PercentageFormat struct {
	RefClose float64
}

func (f PercentageFormat) Format(value float64) (string, bool) {
	pct := (value - f.RefClose) / f.RefClose * 100
	return FormatPrecision(pct, 2) + "%", isFinite(pct)
}

// AbsoluteFormat renders value with Precision decimals, optionally
// compacted with K/M/B suffixes.
type AbsoluteFormat struct {
	Precision int
	BigNumber bool
}

func (f AbsoluteFormat) Format(value float64) (string, bool) {
	text := FormatPrecision(value, f.Precision)
	if f.BigNumber {
		text = FormatBigNumber(text)
	}
	return text, isFinite(value)
}

// ResolveLabelFormat picks the format for the pane behind a. Percentage
// axes use the close of the first visible candle as reference; a missing
// candle makes that reference NaN. Absolute axes take the price precision
// on the candle pane and the widest indicator precision elsewhere.
func ResolveLabelFormat(a axis.Mapping, snap *Snapshot) LabelFormat {
	if a.DisplayMode() == axis.Percentage {
		ref := math.NaN()
		if len(snap.VisibleData) > 0 {
			ref = snap.VisibleData[0].Close
		}
		return PercentageFormat{RefClose: ref}
	}

	if a.IsPrimaryPane() {
		return AbsoluteFormat{Precision: snap.PricePrecision}
	}

	var f AbsoluteFormat
	for _, ind := range snap.Indicators {
		f.Precision = max(f.Precision, ind.Precision)
		f.BigNumber = f.BigNumber || ind.ShouldFormatBigNumber
	}
	return f
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func nonFiniteText(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	default:
		return "-Infinity"
	}
}

// FormatPrecision renders v with exactly precision decimals, rounding half
// away from zero. A negative value that rounds to zero keeps its sign, so
// -0.001 at two decimals is "-0.00". NaN and infinities render as "NaN",
// "Infinity" and "-Infinity".
func FormatPrecision(v float64, precision int) string {
	if !isFinite(v) {
		return nonFiniteText(v)
	}
	if precision < 0 {
		precision = 0
	}
	text := decimal.NewFromFloat(v).StringFixed(int32(precision))
	if v < 0 && !strings.HasPrefix(text, "-") {
		text = "-" + text
	}
	return text
}

var bigNumberUnits = []struct {
	threshold float64
	suffix    string
}{
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatBigNumber compacts numeric text above one thousand into K, M or B
// with up to three decimals. Smaller or non-finite values are returned as
// given and unparsable text becomes "--".
func FormatBigNumber(text string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return "--"
	}
	if !isFinite(v) {
		return text
	}
	for _, unit := range bigNumberUnits {
		if v > unit.threshold {
			return decimal.NewFromFloat(v / unit.threshold).Round(3).String() + unit.suffix
		}
	}
	return text
}
