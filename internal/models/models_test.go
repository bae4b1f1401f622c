package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestApplyDoesNotMutate(t *testing.T) {
	orig := BoardObject{ID: "a", Type: TypeCircle, X: 1, Radius: Float(50), Points: []float64{1, 2}}
	got := orig.Apply(ObjectPatch{
		X:       Float(10),
		RadiusX: Float(80),
		RadiusY: Float(60),
		Points:  []float64{3, 4},
		Unset:   []string{FieldRadius},
	})

	if orig.X != 1 || *orig.Radius != 50 || orig.Points[0] != 1 {
		t.Errorf("original was modified: %+v", orig)
	}
	want := BoardObject{ID: "a", Type: TypeCircle, X: 10, RadiusX: Float(80), RadiusY: Float(60), Points: []float64{3, 4}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("apply mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyConnections(t *testing.T) {
	line := BoardObject{ID: "l", Type: TypeLine, LineStartConnection: &Connection{ObjectID: "a", PointIndex: 1}}
	got := line.Apply(ObjectPatch{LineEndConnection: &Connection{ObjectID: "b", PointIndex: 3}})
	if got.LineStartConnection == nil || got.LineEndConnection.ObjectID != "b" {
		t.Errorf("unexpected connections %+v", got)
	}

	got = got.Apply(ObjectPatch{Unset: []string{FieldLineStartConnection}})
	if got.LineStartConnection != nil || got.LineEndConnection == nil {
		t.Errorf("unset should clear only the start, got %+v", got)
	}
}

func TestPatchPredicates(t *testing.T) {
	if !(ObjectPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	if (ObjectPatch{Color: String("red")}).MovesGeometry() {
		t.Error("a color change does not move geometry")
	}
	if !(ObjectPatch{Unset: []string{FieldRadius}}).MovesGeometry() {
		t.Error("unsetting a radius changes geometry")
	}
}

func TestBoardDataRoundTrip(t *testing.T) {
	board := uuid.New()
	obj := BoardObject{
		ID:                  uuid.NewString(),
		Type:                TypeLine,
		X:                   5,
		Points:              []float64{0, 0, 10, 10},
		ZIndex:              4,
		LineStartConnection: &Connection{ObjectID: "x", PointIndex: 2},
	}

	row, err := NewBoardData(board, obj)
	if err != nil {
		t.Fatal(err)
	}
	if row.BoardId != board || row.ZIndex != 4 || row.Type != TypeLine {
		t.Errorf("unexpected row %+v", row)
	}

	got, err := row.Object()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(obj, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewBoardData(board, BoardObject{ID: "not-a-uuid"}); err == nil {
		t.Error("expected an error for a non-uuid id")
	}
}

func TestObjectTypeValid(t *testing.T) {
	for _, typ := range []ObjectType{TypeSticky, TypeRect, TypeCircle, TypeDiamond, TypeTriangle, TypeLine, TypePen, TypeFrame, TypeText} {
		if !typ.Valid() {
			t.Errorf("%s should be valid", typ)
		}
	}
	if ObjectType("hexagon").Valid() {
		t.Error("hexagon should not be valid")
	}
}

func TestDiffNamesOnlyChangedFields(t *testing.T) {
	from := BoardObject{ID: "a", Type: TypeRect, X: 0, Width: Float(100), Color: "blue", Radius: Float(5)}
	to := from.Clone()
	to.X = 50
	to.Radius = nil
	to.LineEndConnection = &Connection{ObjectID: "b", PointIndex: 2}

	p := Diff(from, to)
	if p.X == nil || *p.X != 50 {
		t.Errorf("expected x=50, got %v", p.X)
	}
	if p.Color != nil || p.Width != nil || p.Y != nil {
		t.Errorf("unchanged fields should be nil, got %+v", p)
	}
	if len(p.Unset) != 1 || p.Unset[0] != FieldRadius {
		t.Errorf("expected radius unset, got %v", p.Unset)
	}

	got := from.Apply(p)
	if got.X != 50 || got.Radius != nil || got.LineEndConnection == nil || got.LineEndConnection.ObjectID != "b" {
		t.Errorf("applying the diff did not reach to, got %+v", got)
	}
	if !Diff(to, to).IsEmpty() {
		t.Error("diff of equal objects should be empty")
	}
}
