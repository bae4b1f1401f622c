package builders

import (
	"canvas-studio-backend/internal/canvas"
	"canvas-studio-backend/internal/models"
	"context"
	"fmt"
)

// RegisterDefaultBuilders registers the stock shape builders.
func RegisterDefaultBuilders() {
	RegisterBuilder("createStickyNote", StickyNoteBuilder)
	RegisterBuilder("createShape", ShapeBuilder)
	RegisterBuilder("createFrame", FrameBuilder)
	RegisterBuilder("createText", TextBuilder)
	RegisterBuilder("createLine", LineBuilder)
}

func number(input map[string]interface{}, key string) (float64, bool) {
	switch v := input[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func numberOr(input map[string]interface{}, key string, def float64) float64 {
	if v, ok := number(input, key); ok {
		return v
	}
	return def
}

func str(input map[string]interface{}, key string) string {
	s, _ := input[key].(string)
	return s
}

func position(input map[string]interface{}) (float64, float64) {
	return numberOr(input, "x", 0), numberOr(input, "y", 0)
}

// sized reads width/height, flooring them at floor.
func sized(input map[string]interface{}, defW, defH, floor float64) (*float64, *float64) {
	w := numberOr(input, "width", defW)
	h := numberOr(input, "height", defH)
	if w < floor {
		w = floor
	}
	if h < floor {
		h = floor
	}
	return models.Float(w), models.Float(h)
}

func StickyNoteBuilder(ctx context.Context, input map[string]interface{}) (models.BoardObject, error) {
	x, y := position(input)
	w, h := sized(input, canvas.DefaultStickyWidth, canvas.DefaultStickyHeight, canvas.MinShapeSize)
	color := str(input, "color")
	if color == "" {
		color = "#fff59d"
	}
	return models.BoardObject{
		Type:   models.TypeSticky,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		Color:  color,
		Text:   str(input, "text"),
	}, nil
}

func ShapeBuilder(ctx context.Context, input map[string]interface{}) (models.BoardObject, error) {
	x, y := position(input)
	shape := models.ObjectType(str(input, "shape"))
	if shape == "" {
		shape = models.TypeRect
	}

	obj := models.BoardObject{
		Type:        shape,
		X:           x,
		Y:           y,
		Color:       str(input, "color"),
		StrokeColor: str(input, "strokeColor"),
	}
	if sw, ok := number(input, "strokeWidth"); ok {
		obj.StrokeWidth = models.Float(sw)
	}

	switch shape {
	case models.TypeRect:
		obj.Width, obj.Height = sized(input, canvas.DefaultRectWidth, canvas.DefaultRectHeight, canvas.MinShapeSize)
	case models.TypeDiamond, models.TypeTriangle:
		obj.Width, obj.Height = sized(input, canvas.DefaultPolygonSize, canvas.DefaultPolygonSize, canvas.MinShapeSize)
	case models.TypeCircle:
		r := numberOr(input, "radius", canvas.DefaultCircleRadius)
		if r < canvas.MinCircleRadius {
			r = canvas.MinCircleRadius
		}
		obj.Radius = models.Float(r)
	default:
		return models.BoardObject{}, fmt.Errorf("unsupported shape: %s", shape)
	}
	return obj, nil
}

func FrameBuilder(ctx context.Context, input map[string]interface{}) (models.BoardObject, error) {
	x, y := position(input)
	w, h := sized(input, canvas.DefaultFrameWidth, canvas.DefaultFrameHeight, canvas.MinFrameSize)
	title := str(input, "title")
	if title == "" {
		title = "Frame"
	}
	return models.BoardObject{
		Type:   models.TypeFrame,
		X:      x,
		Y:      y,
		Width:  w,
		Height: h,
		Title:  title,
	}, nil
}

func TextBuilder(ctx context.Context, input map[string]interface{}) (models.BoardObject, error) {
	text := str(input, "text")
	if canvas.ShouldDeleteEmptyTextOnBlur(text) {
		return models.BoardObject{}, fmt.Errorf("text is required")
	}
	x, y := position(input)
	w, h := sized(input, canvas.DefaultTextWidth, canvas.DefaultTextHeight, canvas.MinShapeSize)
	fontSize := numberOr(input, "fontSize", canvas.DefaultFontSize)
	return models.BoardObject{
		Type:       models.TypeText,
		X:          x,
		Y:          y,
		Width:      w,
		Height:     h,
		Text:       text,
		FontSize:   models.Float(fontSize),
		FontFamily: str(input, "fontFamily"),
		Color:      str(input, "color"),
	}, nil
}

// LineBuilder creates a free line from (x1, y1) to (x2, y2). Attaching it
// to shapes is done by the connector endpoint.
func LineBuilder(ctx context.Context, input map[string]interface{}) (models.BoardObject, error) {
	x1, ok1 := number(input, "x1")
	y1, ok2 := number(input, "y1")
	x2, ok3 := number(input, "x2")
	y2, ok4 := number(input, "y2")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return models.BoardObject{}, fmt.Errorf("x1, y1, x2 and y2 are required")
	}
	arrowEnd, _ := input["arrowEnd"].(bool)
	return models.BoardObject{
		Type:        models.TypeLine,
		X:           x1,
		Y:           y1,
		Points:      []float64{0, 0, x2 - x1, y2 - y1},
		StrokeColor: str(input, "strokeColor"),
		ArrowEnd:    arrowEnd,
	}, nil
}
