package libraries

import (
	"canvas-studio-backend/internal/canvas"
	"log"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontMeasurer measures text with the Go fonts. Faces are cached per
// family and size. It implements canvas.TextMeasurer.
type FontMeasurer struct {
	mu      sync.Mutex
	regular *opentype.Font
	mono    *opentype.Font
	faces   map[faceKey]font.Face
}

type faceKey struct {
	mono bool
	size float64
}

// NewFontMeasurer parses the embedded fonts. If parsing fails the measurer
// falls back to the fixed 7x13 bitmap face, scaled to the requested size.
func NewFontMeasurer() *FontMeasurer {
	m := &FontMeasurer{faces: make(map[faceKey]font.Face)}
	var err error
	if m.regular, err = opentype.Parse(goregular.TTF); err != nil {
		log.Printf("failed to parse goregular, using basicfont: %v", err)
	}
	if m.mono, err = opentype.Parse(gomono.TTF); err != nil {
		log.Printf("failed to parse gomono, using basicfont: %v", err)
	}
	return m
}

func isMonospace(family string) bool {
	family = strings.ToLower(family)
	return strings.Contains(family, "mono") || strings.Contains(family, "courier")
}

func (m *FontMeasurer) face(fontFamily string, fontSize float64) font.Face {
	key := faceKey{mono: isMonospace(fontFamily), size: math.Round(fontSize*4) / 4}

	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.faces[key]; ok {
		return f
	}

	src := m.regular
	if key.mono {
		src = m.mono
	}
	if src == nil {
		return nil
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    key.size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		log.Printf("failed to create face at size %v: %v", key.size, err)
		return nil
	}
	m.faces[key] = f
	return f
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// MeasureText returns the extent of text laid out one line per newline.
func (m *FontMeasurer) MeasureText(text, fontFamily string, fontSize float64) canvas.Size {
	if fontSize <= 0 {
		fontSize = canvas.DefaultFontSize
	}
	lines := strings.Split(text, "\n")

	f := m.face(fontFamily, fontSize)
	if f == nil {
		// 7x13 scaled linearly.
		scale := fontSize / 13
		widest := 0.0
		for _, line := range lines {
			w := toFloat(font.MeasureString(basicfont.Face7x13, line)) * scale
			widest = math.Max(widest, w)
		}
		return canvas.Size{Width: widest, Height: float64(len(lines)) * 13 * scale}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	widest := 0.0
	for _, line := range lines {
		widest = math.Max(widest, toFloat(measureWithKern(f, line)))
	}
	lineHeight := toFloat(f.Metrics().Height)
	return canvas.Size{Width: math.Ceil(widest), Height: math.Ceil(lineHeight * float64(len(lines)))}
}

func measureWithKern(f font.Face, s string) fixed.Int26_6 {
	var advance fixed.Int26_6
	prev := rune(-1)
	for _, r := range s {
		if prev >= 0 {
			advance += f.Kern(prev, r)
		}
		if a, ok := f.GlyphAdvance(r); ok {
			advance += a
		}
		prev = r
	}
	return advance
}
