package canvas

import (
	"math"
	"strings"

	"canvas-studio-backend/internal/models"
)

const (
	DefaultMinFontSize = 8.0
	DefaultMaxFontSize = 240.0
	DefaultFontSize    = 16.0
	DefaultTextPadding = 4.0
)

// Size is a width and height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TextMeasurer measures the rendered extent of a string.
type TextMeasurer interface {
	MeasureText(text, fontFamily string, fontSize float64) Size
}

// TextBoxInput is the input to TextBoxDimensions.
type TextBoxInput struct {
	MeasuredWidth  float64
	MeasuredHeight float64
	Padding        float64
	MinWidth       float64
	MinHeight      float64
}

// TextBoxDimensions pads the measured text extent on both sides and floors
// the result at the minimum box size.
func TextBoxDimensions(in TextBoxInput) Size {
	return Size{
		Width:  math.Max(in.MinWidth, in.MeasuredWidth+in.Padding*2),
		Height: math.Max(in.MinHeight, in.MeasuredHeight+in.Padding*2),
	}
}

// FontScaleInput is the input to ScaledFontSize. Zero bounds fall back to
// DefaultMinFontSize and DefaultMaxFontSize.
type FontScaleInput struct {
	BaseFontSize float64
	WidthScale   float64
	HeightScale  float64
	ActiveAnchor Anchor
	MinFontSize  float64
	MaxFontSize  float64
}

func fontBounds(minSize, maxSize float64) (float64, float64) {
	if minSize <= 0 {
		minSize = DefaultMinFontSize
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFontSize
	}
	return minSize, maxSize
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// ScaledFontSize returns the font size after a resize. Only corner handles
// scale the text, by the geometric mean of the two scale factors; edge
// handles stretch the box and leave the font alone.
func ScaledFontSize(in FontScaleInput) float64 {
	if !in.ActiveAnchor.IsCorner() {
		return in.BaseFontSize
	}
	product := in.WidthScale * in.HeightScale
	if !(product > 0) || math.IsInf(product, 0) {
		return in.BaseFontSize
	}
	minSize, maxSize := fontBounds(in.MinFontSize, in.MaxFontSize)
	return clamp(math.Round(in.BaseFontSize*math.Sqrt(product)), minSize, maxSize)
}

// CornerTransformInput is the input to ClampedCornerTransform.
type CornerTransformInput struct {
	BaseFontSize float64
	RawWidth     float64
	RawHeight    float64
	PrevWidth    float64
	PrevHeight   float64
	ActiveAnchor Anchor
	MinFontSize  float64
	MaxFontSize  float64
	MinSize      float64
}

// CornerTransform is the box and font size to apply after a text resize.
type CornerTransform struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	FontSize float64 `json:"fontSize"`
}

// ClampedCornerTransform scales the font with a corner resize. When the
// naive font size would leave [MinFontSize, MaxFontSize], the box is
// shrunk or grown by the same ratio so that it keeps matching the text
// that is actually rendered.
func ClampedCornerTransform(in CornerTransformInput) CornerTransform {
	minSize, maxSize := fontBounds(in.MinFontSize, in.MaxFontSize)
	out := CornerTransform{
		Width:    math.Max(in.MinSize, in.RawWidth),
		Height:   math.Max(in.MinSize, in.RawHeight),
		FontSize: in.BaseFontSize,
	}
	if !in.ActiveAnchor.IsCorner() || in.PrevWidth <= 0 || in.PrevHeight <= 0 || in.BaseFontSize <= 0 {
		return out
	}

	product := (in.RawWidth / in.PrevWidth) * (in.RawHeight / in.PrevHeight)
	if !(product > 0) || math.IsInf(product, 0) {
		return out
	}
	naive := in.BaseFontSize * math.Sqrt(product)

	width, height := in.RawWidth, in.RawHeight
	font := naive
	switch {
	case naive > maxSize:
		ratio := maxSize / naive
		width, height, font = width*ratio, height*ratio, maxSize
	case naive < minSize:
		ratio := minSize / naive
		width, height, font = width*ratio, height*ratio, minSize
	default:
		font = clamp(math.Round(naive), minSize, maxSize)
	}

	out.Width = math.Max(in.MinSize, width)
	out.Height = math.Max(in.MinSize, height)
	out.FontSize = font
	return out
}

// ShouldDeleteEmptyTextOnBlur reports whether a text object left with this
// value should be removed.
func ShouldDeleteEmptyTextOnBlur(value string) bool {
	return strings.TrimSpace(value) == ""
}

// FitTextBox measures obj's text and returns the width and height patch
// that makes the box wrap it. Objects other than text are left alone.
func FitTextBox(m TextMeasurer, obj models.BoardObject, padding float64) models.ObjectPatch {
	if obj.Type != models.TypeText || m == nil {
		return models.ObjectPatch{}
	}
	measured := m.MeasureText(obj.Text, obj.FontFamily, models.FloatOr(obj.FontSize, DefaultFontSize))
	size := TextBoxDimensions(TextBoxInput{
		MeasuredWidth:  measured.Width,
		MeasuredHeight: measured.Height,
		Padding:        padding,
		MinWidth:       MinShapeSize,
		MinHeight:      MinShapeSize,
	})
	return models.ObjectPatch{
		Width:  models.Float(size.Width),
		Height: models.Float(size.Height),
	}
}
