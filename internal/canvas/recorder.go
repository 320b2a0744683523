package canvas

import "unicode/utf8"

type OpKind string

const (
	OpBeginPath OpKind = "beginPath"
	OpMoveTo    OpKind = "moveTo"
	OpLineTo    OpKind = "lineTo"
	OpClosePath OpKind = "closePath"
	OpStroke    OpKind = "stroke"
	OpFill      OpKind = "fill"
	OpRoundRect OpKind = "roundRect"
	OpText      OpKind = "text"
)

// Op is one recorded canvas call. Only the fields relevant to Kind are set.
type Op struct {
	Kind       OpKind
	X, Y       float64
	Color      string
	Width      float64
	Gradient   *LinearGradient
	Rect       Rect
	Radius     float64
	Border     string
	BorderSize float64
	Text       string
	Font       Font
}

type Point struct {
	X, Y float64
}

// Path groups the ops between two BeginPath calls.
type Path struct {
	Points  []Point
	Closed  bool
	Strokes []Op
	Fills   []Op
}

// Recorder is a Canvas that keeps every call. Text is measured as
// 0.6 * size per rune so layouts are reproducible.
type Recorder struct {
	Ops []Op
}

var _ Canvas = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) BeginPath() { r.Ops = append(r.Ops, Op{Kind: OpBeginPath}) }

func (r *Recorder) MoveTo(x, y float64) { r.Ops = append(r.Ops, Op{Kind: OpMoveTo, X: x, Y: y}) }

func (r *Recorder) LineTo(x, y float64) { r.Ops = append(r.Ops, Op{Kind: OpLineTo, X: x, Y: y}) }

func (r *Recorder) ClosePath() { r.Ops = append(r.Ops, Op{Kind: OpClosePath}) }

func (r *Recorder) Stroke(color string, width float64) {
	r.Ops = append(r.Ops, Op{Kind: OpStroke, Color: color, Width: width})
}

func (r *Recorder) Fill(g LinearGradient) {
	r.Ops = append(r.Ops, Op{Kind: OpFill, Gradient: &g})
}

func (r *Recorder) StrokeFillRoundRect(fill, border string, borderSize float64, rect Rect, radius float64) {
	r.Ops = append(r.Ops, Op{Kind: OpRoundRect, Color: fill, Border: border, BorderSize: borderSize, Rect: rect, Radius: radius})
}

func (r *Recorder) FillText(text string, x, y float64, font Font, color string) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Text: text, X: x, Y: y, Font: font, Color: color})
}

func (r *Recorder) MeasureText(text string, font Font) float64 {
	return float64(utf8.RuneCountInString(text)) * font.Size * 0.6
}

// Count returns how many ops of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Find returns the recorded ops of kind in call order.
func (r *Recorder) Find(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Paths splits the recording into paths. Ops before the first BeginPath
// are ignored, as a canvas would.
func (r *Recorder) Paths() []Path {
	var paths []Path
	var cur *Path
	for _, op := range r.Ops {
		if op.Kind == OpBeginPath {
			paths = append(paths, Path{})
			cur = &paths[len(paths)-1]
			continue
		}
		if cur == nil {
			continue
		}
		switch op.Kind {
		case OpMoveTo, OpLineTo:
			cur.Points = append(cur.Points, Point{X: op.X, Y: op.Y})
		case OpClosePath:
			cur.Closed = true
		case OpStroke:
			cur.Strokes = append(cur.Strokes, op)
		case OpFill:
			cur.Fills = append(cur.Fills, op)
		}
	}
	return paths
}

func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}
