package canvas

import (
	"math"

	"canvas-studio-backend/internal/models"
)

// ObjectTransform is the absolute placement a multi-select transformer
// reports for one member when the gesture ends.
type ObjectTransform struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	ScaleX   float64  `json:"scaleX"`
	ScaleY   float64  `json:"scaleY"`
	Rotation *float64 `json:"rotation,omitempty"`
}

// TransformedObject bakes a group scale into obj's own fields. Rectangles
// and stickies stretch, circles become ellipses, line points scale; every
// other type only moves. Rotation, when given, is copied as is.
func TransformedObject(obj models.BoardObject, t ObjectTransform) models.ObjectPatch {
	patch := models.ObjectPatch{
		X: models.Float(t.X),
		Y: models.Float(t.Y),
	}
	if t.Rotation != nil {
		patch.Rotation = models.Float(*t.Rotation)
	}

	switch obj.Type {
	case models.TypeRect, models.TypeSticky:
		w, h := boxSize(obj)
		patch.Width = models.Float(math.Max(MinShapeSize, math.Abs(w*t.ScaleX)))
		patch.Height = models.Float(math.Max(MinShapeSize, math.Abs(h*t.ScaleY)))

	case models.TypeCircle:
		rx, ry := circleRadii(obj)
		patch.RadiusX = models.Float(math.Max(MinCircleRadius, math.Abs(rx*t.ScaleX)))
		patch.RadiusY = models.Float(math.Max(MinCircleRadius, math.Abs(ry*t.ScaleY)))
		// An ellipse must not keep a stale uniform radius.
		patch.Unset = []string{models.FieldRadius}

	case models.TypeLine:
		points := make([]float64, len(obj.Points))
		for i, v := range obj.Points {
			if i%2 == 0 {
				points[i] = v * t.ScaleX
			} else {
				points[i] = v * t.ScaleY
			}
		}
		patch.Points = points
	}

	return patch
}

// GroupTransform is one scale and rotation applied to every member of a
// selection around a shared pivot.
type GroupTransform struct {
	PivotX        float64 `json:"pivotX"`
	PivotY        float64 `json:"pivotY"`
	ScaleX        float64 `json:"scaleX"`
	ScaleY        float64 `json:"scaleY"`
	RotationDelta float64 `json:"rotationDelta"`
}

// MemberTransform returns the per-object transform that g implies for obj.
func (g GroupTransform) MemberTransform(obj models.BoardObject) ObjectTransform {
	dx := (obj.X - g.PivotX) * g.ScaleX
	dy := (obj.Y - g.PivotY) * g.ScaleY
	p := rotate(g.PivotX, g.PivotY, dx, dy, g.RotationDelta)

	t := ObjectTransform{X: p.X, Y: p.Y, ScaleX: g.ScaleX, ScaleY: g.ScaleY}
	if g.RotationDelta != 0 {
		t.Rotation = models.Float(obj.Rotation + g.RotationDelta)
	}
	return t
}

// ApplyGroupTransform returns every member of objects with g baked in.
func ApplyGroupTransform(objects []models.BoardObject, g GroupTransform) []models.BoardObject {
	out := make([]models.BoardObject, len(objects))
	for i, obj := range objects {
		out[i] = obj.Apply(TransformedObject(obj, g.MemberTransform(obj)))
	}
	return out
}
