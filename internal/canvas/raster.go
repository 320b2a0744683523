package canvas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontsOnce sync.Once
	regular   *truetype.Font
	bold      *truetype.Font
	fontsErr  error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regular, fontsErr = truetype.Parse(goregular.TTF); fontsErr != nil {
			return
		}
		bold, fontsErr = truetype.Parse(gobold.TTF)
	})
	return fontsErr
}

type faceKey struct {
	size float64
	bold bool
}

// Raster is a Canvas backed by an in-memory RGBA image. Font families are
// ignored; every label uses the Go fonts. The first unparsable color is kept
// in Err and painted as transparent.
type Raster struct {
	dc    *gg.Context
	faces map[faceKey]font.Face
	err   error
}

var _ Canvas = (*Raster)(nil)

// NewRaster allocates a width x height surface cleared to background. An
// empty background leaves it transparent.
func NewRaster(width, height int, background string) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	r := &Raster{dc: gg.NewContext(width, height), faces: make(map[faceKey]font.Face)}
	if background != "" {
		bg, err := ParseColor(background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		r.dc.SetColor(bg)
		r.dc.Clear()
	}
	return r, nil
}

func (r *Raster) color(s string) color.Color {
	c, err := ParseColor(s)
	if err != nil && r.err == nil {
		r.err = err
	}
	return c
}

func (r *Raster) face(f Font) font.Face {
	key := faceKey{size: f.Size, bold: f.Weight == "bold"}
	if face, ok := r.faces[key]; ok {
		return face
	}
	ttf := regular
	if key.bold {
		ttf = bold
	}
	face := truetype.NewFace(ttf, &truetype.Options{Size: f.Size})
	r.faces[key] = face
	return face
}

func (r *Raster) BeginPath() { r.dc.ClearPath() }

func (r *Raster) MoveTo(x, y float64) { r.dc.MoveTo(x, y) }

func (r *Raster) LineTo(x, y float64) { r.dc.LineTo(x, y) }

func (r *Raster) ClosePath() { r.dc.ClosePath() }

func (r *Raster) Stroke(c string, width float64) {
	r.dc.SetStrokeStyle(gg.NewSolidPattern(r.color(c)))
	r.dc.SetLineWidth(width)
	r.dc.StrokePreserve()
}

func (r *Raster) Fill(g LinearGradient) {
	grad := gg.NewLinearGradient(g.X0, g.Y0, g.X1, g.Y1)
	for _, stop := range g.Stops {
		grad.AddColorStop(stop.Offset, r.color(stop.Color))
	}
	r.dc.SetFillStyle(grad)
	r.dc.FillPreserve()
}

func (r *Raster) StrokeFillRoundRect(fill, border string, borderSize float64, rect Rect, radius float64) {
	r.dc.ClearPath()
	r.dc.DrawRoundedRectangle(rect.X, rect.Y, rect.W, rect.H, radius)
	r.dc.SetFillStyle(gg.NewSolidPattern(r.color(fill)))
	r.dc.FillPreserve()
	if borderSize > 0 {
		r.dc.SetStrokeStyle(gg.NewSolidPattern(r.color(border)))
		r.dc.SetLineWidth(borderSize)
		r.dc.StrokePreserve()
	}
	r.dc.ClearPath()
}

func (r *Raster) FillText(text string, x, y float64, f Font, c string) {
	r.dc.SetFontFace(r.face(f))
	r.dc.SetColor(r.color(c))
	r.dc.DrawStringAnchored(text, x, y, 0, 0.5)
}

func (r *Raster) MeasureText(text string, f Font) float64 {
	r.dc.SetFontFace(r.face(f))
	w, _ := r.dc.MeasureString(text)
	return w
}

func (r *Raster) Width() int { return r.dc.Width() }

func (r *Raster) Height() int { return r.dc.Height() }

func (r *Raster) Image() image.Image { return r.dc.Image() }

// Err returns the first color that could not be parsed.
func (r *Raster) Err() error { return r.err }

func (r *Raster) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
