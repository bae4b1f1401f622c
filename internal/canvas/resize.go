package canvas

import (
	"math"

	"canvas-studio-backend/internal/models"
)

// Anchor names a resize handle on a transform box.
type Anchor string

const (
	AnchorTopLeft      Anchor = "top-left"
	AnchorTopCenter    Anchor = "top-center"
	AnchorTopRight     Anchor = "top-right"
	AnchorMiddleLeft   Anchor = "middle-left"
	AnchorMiddleRight  Anchor = "middle-right"
	AnchorBottomLeft   Anchor = "bottom-left"
	AnchorBottomCenter Anchor = "bottom-center"
	AnchorBottomRight  Anchor = "bottom-right"
)

// IsCorner reports whether a is one of the four corner handles.
func (a Anchor) IsCorner() bool {
	switch a {
	case AnchorTopLeft, AnchorTopRight, AnchorBottomLeft, AnchorBottomRight:
		return true
	}
	return false
}

// Valid reports whether a is a known handle name.
func (a Anchor) Valid() bool {
	switch a {
	case AnchorTopLeft, AnchorTopCenter, AnchorTopRight,
		AnchorMiddleLeft, AnchorMiddleRight,
		AnchorBottomLeft, AnchorBottomCenter, AnchorBottomRight:
		return true
	}
	return false
}

// MovesLeft reports whether dragging a moves the box's left edge.
func (a Anchor) MovesLeft() bool {
	return a == AnchorTopLeft || a == AnchorMiddleLeft || a == AnchorBottomLeft
}

// MovesTop reports whether dragging a moves the box's top edge.
func (a Anchor) MovesTop() bool {
	return a == AnchorTopLeft || a == AnchorTopCenter || a == AnchorTopRight
}

// TransformBox is the box a transformer reports while resizing. Width and
// Height are signed: a negative value is a flip in progress.
type TransformBox struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

// ResizeOptions tune BoundBoxWithAnchorPreservation.
type ResizeOptions struct {
	// AnchorBox is the box at the start of the gesture. The fixed corner is
	// taken from it so repeated steps do not drift. Defaults to the old box.
	AnchorBox *TransformBox
	// ActiveAnchor is the handle being dragged. When empty the moving side
	// is inferred from the change between the boxes.
	ActiveAnchor Anchor
	// PreserveAspectRatio scales both dimensions by one factor when either
	// falls below its minimum.
	PreserveAspectRatio bool
}

const deltaEpsilon = 1e-6

// BoundBoxWithAnchorPreservation clamps newBox so that neither dimension
// is smaller than its minimum, keeping the side opposite the dragged handle
// fixed. Boxes already at or above the minimums pass through unchanged.
// Sign is preserved, so flipped boxes are clamped by magnitude.
func BoundBoxWithAnchorPreservation(oldBox, newBox TransformBox, minWidth, minHeight float64, opts ResizeOptions) TransformBox {
	ref := oldBox
	if opts.AnchorBox != nil {
		ref = *opts.AnchorBox
	}

	var leftMoved, topMoved bool
	if opts.ActiveAnchor.Valid() {
		leftMoved = opts.ActiveAnchor.MovesLeft()
		topMoved = opts.ActiveAnchor.MovesTop()
	} else {
		leftDelta := math.Abs(newBox.X - ref.X)
		rightDelta := math.Abs((newBox.X + newBox.Width) - (ref.X + ref.Width))
		topDelta := math.Abs(newBox.Y - ref.Y)
		bottomDelta := math.Abs((newBox.Y + newBox.Height) - (ref.Y + ref.Height))
		leftMoved = leftDelta > rightDelta+deltaEpsilon
		topMoved = topDelta > bottomDelta+deltaEpsilon
	}

	// The fixed corner: right edge when the left side moves, and so on.
	anchorX := ref.X
	if leftMoved {
		anchorX = ref.X + ref.Width
	}
	anchorY := ref.Y
	if topMoved {
		anchorY = ref.Y + ref.Height
	}

	widthTooSmall := math.Abs(newBox.Width) < minWidth
	heightTooSmall := math.Abs(newBox.Height) < minHeight
	if !widthTooSmall && !heightTooSmall {
		return newBox
	}

	result := newBox

	// Degenerate or flipped boxes fall through to the per-axis clamp.
	if opts.PreserveAspectRatio && newBox.Width > 0 && newBox.Height > 0 {
		scale := math.Max(minWidth/newBox.Width, minHeight/newBox.Height)
		if !math.IsInf(scale, 0) && !math.IsNaN(scale) {
			result.Width = newBox.Width * scale
			result.Height = newBox.Height * scale
			result.X = placeFromAnchor(anchorX, result.Width, leftMoved)
			result.Y = placeFromAnchor(anchorY, result.Height, topMoved)
			return result
		}
	}

	if widthTooSmall {
		result.Width = signOf(newBox.Width) * minWidth
		result.X = placeFromAnchor(anchorX, result.Width, leftMoved)
	}
	if heightTooSmall {
		result.Height = signOf(newBox.Height) * minHeight
		result.Y = placeFromAnchor(anchorY, result.Height, topMoved)
	}
	return result
}

// placeFromAnchor returns the leading coordinate of a span of the given
// size whose fixed end is anchor.
func placeFromAnchor(anchor, size float64, moved bool) float64 {
	if moved {
		return anchor - size
	}
	return anchor
}

// signOf returns -1 for negative values and 1 otherwise, so a zero size
// clamps in the positive direction.
func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// ObjectTransformBox returns the unrotated box a transformer shows for obj.
// Circles report their bounding square around the center. Lines and pen
// strokes are not resizable.
func ObjectTransformBox(obj models.BoardObject) (TransformBox, bool) {
	switch obj.Type {
	case models.TypeCircle:
		rx, ry := circleRadii(obj)
		return TransformBox{X: obj.X - rx, Y: obj.Y - ry, Width: rx * 2, Height: ry * 2, Rotation: obj.Rotation}, true
	case models.TypeLine, models.TypePen:
		return TransformBox{}, false
	}
	w, h := boxSize(obj)
	return TransformBox{X: obj.X, Y: obj.Y, Width: w, Height: h, Rotation: obj.Rotation}, true
}

// Normalized flips negative sizes back to positive, moving the origin to
// the top-left corner.
func (b TransformBox) Normalized() TransformBox {
	if b.Width < 0 {
		b.X += b.Width
		b.Width = -b.Width
	}
	if b.Height < 0 {
		b.Y += b.Height
		b.Height = -b.Height
	}
	return b
}

// ResizePatch converts a normalized box back into fields of obj.
func ResizePatch(obj models.BoardObject, b TransformBox) models.ObjectPatch {
	if obj.Type == models.TypeCircle {
		rx := math.Max(MinCircleRadius, b.Width/2)
		ry := math.Max(MinCircleRadius, b.Height/2)
		return models.ObjectPatch{
			X:       models.Float(b.X + b.Width/2),
			Y:       models.Float(b.Y + b.Height/2),
			RadiusX: models.Float(rx),
			RadiusY: models.Float(ry),
			Unset:   []string{models.FieldRadius},
		}
	}
	return models.ObjectPatch{
		X:      models.Float(b.X),
		Y:      models.Float(b.Y),
		Width:  models.Float(b.Width),
		Height: models.Float(b.Height),
	}
}
