package canvas

import (
	"math"
	"testing"

	"canvas-studio-backend/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func rect(id string, x, y, w, h float64, z int) models.BoardObject {
	return models.BoardObject{
		ID: id, Type: models.TypeRect, X: x, Y: y,
		Width: models.Float(w), Height: models.Float(h), ZIndex: z,
	}
}

func frame(id string, x, y, w, h float64, z int) models.BoardObject {
	f := rect(id, x, y, w, h, z)
	f.Type = models.TypeFrame
	return f
}

func circle(id string, x, y, r float64, z int) models.BoardObject {
	return models.BoardObject{ID: id, Type: models.TypeCircle, X: x, Y: y, Radius: models.Float(r), ZIndex: z}
}

func line(id string, x, y float64, points ...float64) models.BoardObject {
	return models.BoardObject{ID: id, Type: models.TypeLine, X: x, Y: y, Points: points}
}

func TestObjectBoundingBox(t *testing.T) {
	tests := []struct {
		name string
		obj  models.BoardObject
		want Box
	}{
		{"rect", rect("r", 10, 20, 30, 40, 0), Box{10, 20, 30, 40}},
		{"rect defaults", models.BoardObject{Type: models.TypeRect, X: 1, Y: 2}, Box{1, 2, 100, 80}},
		{"sticky defaults", models.BoardObject{Type: models.TypeSticky}, Box{0, 0, 200, 150}},
		{"frame defaults", models.BoardObject{Type: models.TypeFrame}, Box{0, 0, 600, 400}},
		{"text defaults", models.BoardObject{Type: models.TypeText}, Box{0, 0, 200, 32}},
		{"negative size read as magnitude", models.BoardObject{Type: models.TypeRect, Width: models.Float(-30), Height: models.Float(-10)}, Box{0, 0, 30, 10}},
		{"circle", circle("c", 100, 100, 40, 0), Box{60, 60, 80, 80}},
		{"circle default radius", models.BoardObject{Type: models.TypeCircle, X: 50, Y: 50}, Box{0, 0, 100, 100}},
		{"ellipse", models.BoardObject{Type: models.TypeCircle, X: 0, Y: 0, RadiusX: models.Float(30), RadiusY: models.Float(10)}, Box{-30, -10, 60, 20}},
		{"line", line("l", 10, 10, 0, 0, 50, -20, 20, 30), Box{10, -10, 50, 50}},
		{"pen", models.BoardObject{Type: models.TypePen, X: 5, Y: 5, Points: []float64{0, 0, 10, 10}}, Box{5, 5, 10, 10}},
		{"line without points", line("l", 3, 4), Box{3, 4, 0, 0}},
		{"unknown type", models.BoardObject{Type: "hexagon", X: 7, Y: 8}, Box{7, 8, 50, 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ObjectBoundingBox(tt.obj)); diff != "" {
				t.Errorf("ObjectBoundingBox mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGroupBoundingBox(t *testing.T) {
	if got := GroupBoundingBox(nil); got != (Box{}) {
		t.Errorf("empty group: expected zero box, got %+v", got)
	}

	got := GroupBoundingBox([]models.BoardObject{
		rect("a", 0, 0, 10, 10, 0),
		circle("b", 100, 100, 20, 0),
		line("c", -50, 30, 0, 0, 10, 5),
	})
	want := Box{X: -50, Y: 0, Width: 170, Height: 120}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GroupBoundingBox mismatch (-want +got):\n%s", diff)
	}
}

func TestIsFullyContained(t *testing.T) {
	outer := Box{0, 0, 100, 100}
	if !IsFullyContained(Box{10, 10, 20, 20}, outer) {
		t.Error("inner box should be contained")
	}
	if !IsFullyContained(outer, outer) {
		t.Error("containment is inclusive of shared edges")
	}
	if IsFullyContained(Box{90, 90, 20, 20}, outer) {
		t.Error("overhanging box should not be contained")
	}
}

func TestRectsIntersect(t *testing.T) {
	a := Box{0, 0, 100, 100}
	if !RectsIntersect(a, Box{50, 50, 100, 100}) {
		t.Error("overlapping boxes should intersect")
	}
	if RectsIntersect(a, Box{100, 0, 50, 50}) {
		t.Error("boxes touching along an edge should not intersect")
	}
	if RectsIntersect(a, Box{200, 200, 10, 10}) {
		t.Error("disjoint boxes should not intersect")
	}
}

func TestRotate(t *testing.T) {
	p := rotate(10, 10, 5, 0, 90)
	if math.Abs(p.X-10) > 1e-9 || math.Abs(p.Y-15) > 1e-9 {
		t.Errorf("expected (10,15), got (%.4f,%.4f)", p.X, p.Y)
	}
}

func TestMinSizeFor(t *testing.T) {
	if MinSizeFor(models.TypeFrame) != 80 {
		t.Errorf("frame floor: expected 80, got %v", MinSizeFor(models.TypeFrame))
	}
	if MinSizeFor(models.TypeText) != 20 {
		t.Errorf("text floor: expected 20, got %v", MinSizeFor(models.TypeText))
	}
}
