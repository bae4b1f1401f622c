// Package canvas holds the board geometry: bounding boxes, connector snap
// points, resize clamping, group transforms, frame containment, z-order and
// text box sizing. Every function is pure and total over its inputs.
package canvas

import (
	"math"

	"canvas-studio-backend/internal/models"
)

// Default sizes for objects persisted without explicit dimensions.
const (
	DefaultRectWidth    = 100.0
	DefaultRectHeight   = 80.0
	DefaultCircleRadius = 50.0
	DefaultStickyWidth  = 200.0
	DefaultStickyHeight = 150.0
	DefaultFrameWidth   = 600.0
	DefaultFrameHeight  = 400.0
	DefaultTextWidth    = 200.0
	DefaultTextHeight   = 32.0
	DefaultPolygonSize  = 100.0
	DefaultUnknownSize  = 50.0
	MinShapeSize        = 20.0
	MinFrameSize        = 80.0
	MinCircleRadius     = 10.0
)

// Point is a position in board coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned rectangle in board coordinates.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// MinSizeFor returns the smallest width/height a resize or transform may
// produce for an object of type t.
func MinSizeFor(t models.ObjectType) float64 {
	if t == models.TypeFrame {
		return MinFrameSize
	}
	return MinShapeSize
}

// boxSize returns the absolute width and height of a box-like object,
// falling back to the per-type defaults.
func boxSize(obj models.BoardObject) (float64, float64) {
	var dw, dh float64
	switch obj.Type {
	case models.TypeSticky:
		dw, dh = DefaultStickyWidth, DefaultStickyHeight
	case models.TypeFrame:
		dw, dh = DefaultFrameWidth, DefaultFrameHeight
	case models.TypeText:
		dw, dh = DefaultTextWidth, DefaultTextHeight
	case models.TypeDiamond, models.TypeTriangle:
		dw, dh = DefaultPolygonSize, DefaultPolygonSize
	default:
		dw, dh = DefaultRectWidth, DefaultRectHeight
	}
	return math.Abs(models.FloatOr(obj.Width, dw)), math.Abs(models.FloatOr(obj.Height, dh))
}

// circleRadii returns the absolute x and y radius of a circle or ellipse.
func circleRadii(obj models.BoardObject) (float64, float64) {
	r := models.FloatOr(obj.Radius, DefaultCircleRadius)
	return math.Abs(models.FloatOr(obj.RadiusX, r)), math.Abs(models.FloatOr(obj.RadiusY, r))
}

// ObjectBoundingBox returns the axis-aligned box of obj, ignoring rotation.
// Unknown types get a 50x50 box at the object's position.
func ObjectBoundingBox(obj models.BoardObject) Box {
	switch obj.Type {
	case models.TypeRect, models.TypeSticky, models.TypeFrame, models.TypeText,
		models.TypeDiamond, models.TypeTriangle:
		w, h := boxSize(obj)
		return Box{X: obj.X, Y: obj.Y, Width: w, Height: h}

	case models.TypeCircle:
		rx, ry := circleRadii(obj)
		return Box{X: obj.X - rx, Y: obj.Y - ry, Width: rx * 2, Height: ry * 2}

	case models.TypeLine, models.TypePen:
		if len(obj.Points) < 2 {
			return Box{X: obj.X, Y: obj.Y}
		}
		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for i := 0; i+1 < len(obj.Points); i += 2 {
			px := obj.X + obj.Points[i]
			py := obj.Y + obj.Points[i+1]
			minX = math.Min(minX, px)
			minY = math.Min(minY, py)
			maxX = math.Max(maxX, px)
			maxY = math.Max(maxY, py)
		}
		return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}

	default:
		return Box{X: obj.X, Y: obj.Y, Width: DefaultUnknownSize, Height: DefaultUnknownSize}
	}
}

// GroupBoundingBox returns the union of the boxes of objects, or the zero
// box when objects is empty.
func GroupBoundingBox(objects []models.BoardObject) Box {
	if len(objects) == 0 {
		return Box{}
	}

	first := ObjectBoundingBox(objects[0])
	minX, minY := first.X, first.Y
	maxX, maxY := first.Right(), first.Bottom()
	for _, obj := range objects[1:] {
		b := ObjectBoundingBox(obj)
		minX = math.Min(minX, b.X)
		minY = math.Min(minY, b.Y)
		maxX = math.Max(maxX, b.Right())
		maxY = math.Max(maxY, b.Bottom())
	}
	return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// IsFullyContained reports whether every edge of a lies within or on b.
func IsFullyContained(a, b Box) bool {
	return a.X >= b.X && a.Y >= b.Y && a.Right() <= b.Right() && a.Bottom() <= b.Bottom()
}

// RectsIntersect reports whether a and b overlap. Boxes that only touch
// along an edge do not intersect.
func RectsIntersect(a, b Box) bool {
	return a.X < b.Right() && a.Right() > b.X && a.Y < b.Bottom() && a.Bottom() > b.Y
}

// rotate rotates the local offset (dx, dy) by deg degrees and translates it
// to the world anchor (ox, oy).
func rotate(ox, oy, dx, dy, deg float64) Point {
	if deg == 0 {
		return Point{X: ox + dx, Y: oy + dy}
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Point{
		X: ox + dx*cos - dy*sin,
		Y: oy + dx*sin + dy*cos,
	}
}
