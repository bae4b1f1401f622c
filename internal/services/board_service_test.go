package services

import (
	"canvas-studio-backend/internal/canvas"
	"canvas-studio-backend/internal/models"
	"canvas-studio-backend/internal/repo"
	"canvas-studio-backend/internal/session"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func newTestService(opts ...Option) (*BoardService, uuid.UUID) {
	return NewBoardService(repo.NewMemoryBoardDataRepository(), opts...), uuid.New()
}

func mustCreate(t *testing.T, s *BoardService, boardID uuid.UUID, obj models.BoardObject) models.BoardObject {
	t.Helper()
	created, err := s.CreateObject(nil, boardID, obj)
	if err != nil {
		t.Fatalf("create %s: %v", obj.Type, err)
	}
	return created
}

func rectAt(x, y, w, h float64) models.BoardObject {
	return models.BoardObject{Type: models.TypeRect, X: x, Y: y, Width: models.Float(w), Height: models.Float(h)}
}

func TestCreateObjectAssignsIDAndZ(t *testing.T) {
	s, board := newTestService()
	a := mustCreate(t, s, board, rectAt(0, 0, 100, 80))
	b := mustCreate(t, s, board, rectAt(10, 10, 100, 80))

	if _, err := uuid.Parse(a.ID); err != nil {
		t.Errorf("expected a uuid id, got %q", a.ID)
	}
	if a.ZIndex != 0 || b.ZIndex != 1 {
		t.Errorf("expected z 0 and 1, got %d and %d", a.ZIndex, b.ZIndex)
	}

	if _, err := s.CreateObject(nil, board, models.BoardObject{Type: "hexagon"}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for unknown type, got %v", err)
	}
	if _, err := s.CreateObject(nil, board, models.BoardObject{ID: a.ID, Type: models.TypeRect}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for duplicate id, got %v", err)
	}
}

func TestConnectorFollowsMovedObject(t *testing.T) {
	s, board := newTestService()
	a := mustCreate(t, s, board, rectAt(0, 0, 100, 80))
	b := mustCreate(t, s, board, rectAt(300, 0, 100, 80))

	line, err := s.ConnectObjects(nil, board, ConnectRequest{FromID: a.ID, ToID: b.ID})
	if err != nil {
		t.Fatal(err)
	}
	if line.X != 100 || line.Y != 40 {
		t.Errorf("expected line at (100,40), got (%v,%v)", line.X, line.Y)
	}
	if diff := cmp.Diff([]float64{0, 0, 200, 0}, line.Points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.UpdateObject(nil, board, b.ID, models.ObjectPatch{X: models.Float(400)}); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetObject(board, line.ID)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{0, 0, 300, 0}, got.Points); diff != "" {
		t.Errorf("tracked points mismatch (-want +got):\n%s", diff)
	}

	if err := s.DeleteObject(nil, board, b.ID); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetObject(board, line.ID)
	if got.LineEndConnection != nil || got.LineStartConnection == nil {
		t.Errorf("deleting the target should free only that end, got %+v", got)
	}
	if got.Points[2] != 300 {
		t.Errorf("freed end should stay in place, got %v", got.Points)
	}
}

func TestConnectRejectsSelfAndMissing(t *testing.T) {
	s, board := newTestService()
	a := mustCreate(t, s, board, rectAt(0, 0, 100, 80))

	if _, err := s.ConnectObjects(nil, board, ConnectRequest{FromID: a.ID, ToID: a.ID}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
	if _, err := s.ConnectObjects(nil, board, ConnectRequest{FromID: a.ID, ToID: uuid.NewString()}); !errors.Is(err, repo.ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestBlankTextIsDeleted(t *testing.T) {
	s, board := newTestService()
	text := mustCreate(t, s, board, models.BoardObject{Type: models.TypeText, Text: "hello"})

	got, err := s.UpdateObject(nil, board, text.ID, models.ObjectPatch{Text: models.String("   ")})
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected the text to be deleted, got %+v", got)
	}
	if _, err := s.GetObject(board, text.ID); !errors.Is(err, repo.ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestUndoRedoCreate(t *testing.T) {
	s, board := newTestService()
	sess := session.New(board)

	obj, err := s.CreateObject(sess, board, rectAt(0, 0, 100, 80))
	if err != nil {
		t.Fatal(err)
	}

	if ok, err := s.Undo(sess); !ok || err != nil {
		t.Fatalf("undo: %v %v", ok, err)
	}
	if _, err := s.GetObject(board, obj.ID); !errors.Is(err, repo.ErrObjectNotFound) {
		t.Errorf("undo should remove the created object, got %v", err)
	}

	if ok, err := s.Redo(sess); !ok || err != nil {
		t.Fatalf("redo: %v %v", ok, err)
	}
	got, err := s.GetObject(board, obj.ID)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(obj, got); diff != "" {
		t.Errorf("redo mismatch (-want +got):\n%s", diff)
	}
}

func TestUndoMoveRestoresConnector(t *testing.T) {
	s, board := newTestService()
	sess := session.New(board)
	a := mustCreate(t, s, board, rectAt(0, 0, 100, 80))
	b := mustCreate(t, s, board, rectAt(300, 0, 100, 80))
	line, err := s.ConnectObjects(nil, board, ConnectRequest{FromID: a.ID, ToID: b.ID})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.UpdateObject(sess, board, b.ID, models.ObjectPatch{X: models.Float(500)}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Undo(sess); err != nil {
		t.Fatal(err)
	}

	gotB, _ := s.GetObject(board, b.ID)
	gotLine, _ := s.GetObject(board, line.ID)
	if gotB.X != 300 {
		t.Errorf("expected b back at x=300, got %v", gotB.X)
	}
	if diff := cmp.Diff([]float64{0, 0, 200, 0}, gotLine.Points); diff != "" {
		t.Errorf("connector not restored (-want +got):\n%s", diff)
	}
}

func TestUndoKeepsOtherClientsEdits(t *testing.T) {
	s, board := newTestService()
	alice, bob := session.New(board), session.New(board)
	r := mustCreate(t, s, board, rectAt(0, 0, 100, 80))

	if _, err := s.UpdateObject(alice, board, r.ID, models.ObjectPatch{X: models.Float(50)}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdateObject(bob, board, r.ID, models.ObjectPatch{Color: models.String("red")}); err != nil {
		t.Fatal(err)
	}

	if ok, err := s.Undo(alice); !ok || err != nil {
		t.Fatalf("undo: %v %v", ok, err)
	}
	got, _ := s.GetObject(board, r.ID)
	if got.X != 0 || got.Color != "red" {
		t.Errorf("after undoing the move expected x=0 color=red, got x=%v color=%q", got.X, got.Color)
	}

	if ok, err := s.Redo(alice); !ok || err != nil {
		t.Fatalf("redo: %v %v", ok, err)
	}
	got, _ = s.GetObject(board, r.ID)
	if got.X != 50 || got.Color != "red" {
		t.Errorf("after redo expected x=50 color=red, got x=%v color=%q", got.X, got.Color)
	}
}

func TestUndoUpdateOfDeletedObject(t *testing.T) {
	s, board := newTestService()
	sess := session.New(board)
	r := mustCreate(t, s, board, rectAt(0, 0, 100, 80))

	if _, err := s.UpdateObject(sess, board, r.ID, models.ObjectPatch{X: models.Float(50)}); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteObject(nil, board, r.ID); err != nil {
		t.Fatal(err)
	}
	if ok, err := s.Undo(sess); !ok || err != nil {
		t.Fatalf("undo: %v %v", ok, err)
	}
	if _, err := s.GetObject(board, r.ID); !errors.Is(err, repo.ErrObjectNotFound) {
		t.Errorf("undo should not recreate an object deleted by someone else, got %v", err)
	}
}

func TestResizeObjectClampsKeepingAnchor(t *testing.T) {
	s, board := newTestService()
	r := mustCreate(t, s, board, rectAt(0, 0, 100, 80))

	got, err := s.ResizeObject(nil, board, r.ID, ResizeRequest{
		Box:          canvas.TransformBox{X: 95, Y: 0, Width: 5, Height: 80},
		ActiveAnchor: canvas.AnchorMiddleLeft,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.X != 80 || *got.Width != 20 || *got.Height != 80 {
		t.Errorf("expected right edge kept at 100 with width 20, got x=%v w=%v", got.X, *got.Width)
	}

	f := mustCreate(t, s, board, models.BoardObject{Type: models.TypeFrame, X: 0, Y: 200, Width: models.Float(600), Height: models.Float(400)})
	got, err = s.ResizeObject(nil, board, f.ID, ResizeRequest{
		Box:          canvas.TransformBox{X: 0, Y: 200, Width: 30, Height: 400},
		ActiveAnchor: canvas.AnchorMiddleRight,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.X != 0 || *got.Width != 80 {
		t.Errorf("frames floor at 80, got x=%v w=%v", got.X, *got.Width)
	}

	l := mustCreate(t, s, board, models.BoardObject{Type: models.TypeLine, Points: []float64{0, 0, 10, 10}})
	if _, err := s.ResizeObject(nil, board, l.ID, ResizeRequest{}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("lines are not resizable, got %v", err)
	}
}

func TestResizeTextScalesFont(t *testing.T) {
	s, board := newTestService()
	text := mustCreate(t, s, board, models.BoardObject{
		Type: models.TypeText, Text: "hi",
		Width: models.Float(200), Height: models.Float(32), FontSize: models.Float(16),
	})

	got, err := s.ResizeObject(nil, board, text.ID, ResizeRequest{
		Box:          canvas.TransformBox{X: 0, Y: 0, Width: 400, Height: 64},
		ActiveAnchor: canvas.AnchorBottomRight,
	})
	if err != nil {
		t.Fatal(err)
	}
	if *got.FontSize != 32 || *got.Width != 400 || *got.Height != 64 {
		t.Errorf("expected 400x64 at font 32, got %vx%v at %v", *got.Width, *got.Height, *got.FontSize)
	}

	got, err = s.ResizeObject(nil, board, text.ID, ResizeRequest{
		Box:          canvas.TransformBox{X: 0, Y: 0, Width: 800, Height: 64},
		ActiveAnchor: canvas.AnchorMiddleRight,
	})
	if err != nil {
		t.Fatal(err)
	}
	if *got.FontSize != 32 || *got.Width != 800 {
		t.Errorf("edge handles should not scale the font, got %v", *got.FontSize)
	}
}

func TestDragFrameMovesContents(t *testing.T) {
	s, board := newTestService()
	f := mustCreate(t, s, board, models.BoardObject{Type: models.TypeFrame, Width: models.Float(600), Height: models.Float(400)})
	inside := mustCreate(t, s, board, rectAt(10, 10, 100, 80))
	outside := mustCreate(t, s, board, rectAt(700, 0, 100, 80))
	line, err := s.ConnectObjects(nil, board, ConnectRequest{FromID: inside.ID, ToID: outside.ID})
	if err != nil {
		t.Fatal(err)
	}

	moved, err := s.DragFrame(nil, board, f.ID, 50, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(moved) != 2 {
		t.Errorf("expected the frame and one object to move, got %d", len(moved))
	}

	gotInside, _ := s.GetObject(board, inside.ID)
	gotOutside, _ := s.GetObject(board, outside.ID)
	gotLine, _ := s.GetObject(board, line.ID)
	if gotInside.X != 60 || gotOutside.X != 700 {
		t.Errorf("expected inside at 60 and outside at 700, got %v and %v", gotInside.X, gotOutside.X)
	}
	// The connector start follows the inside rect's right midpoint.
	if gotLine.X != 160 || gotLine.Y != 50 {
		t.Errorf("expected connector start at (160,50), got (%v,%v)", gotLine.X, gotLine.Y)
	}

	if _, err := s.DragFrame(nil, board, inside.ID, 1, 1); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for a non-frame, got %v", err)
	}
}

func TestDuplicateRemapsConnections(t *testing.T) {
	s, board := newTestService()
	a := mustCreate(t, s, board, rectAt(0, 0, 100, 80))
	b := mustCreate(t, s, board, rectAt(300, 0, 100, 80))
	line, err := s.ConnectObjects(nil, board, ConnectRequest{FromID: a.ID, ToID: b.ID})
	if err != nil {
		t.Fatal(err)
	}

	copies, err := s.DuplicateObjects(nil, board, []string{line.ID, a.ID, b.ID}, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(copies) != 3 {
		t.Fatalf("expected 3 copies, got %d", len(copies))
	}
	// Copies keep the source stacking order above everything.
	if copies[0].ZIndex != 3 || copies[2].ZIndex != 5 || copies[2].Type != models.TypeLine {
		t.Errorf("unexpected copy order %+v", copies)
	}
	lineCopy := copies[2]
	if lineCopy.LineStartConnection.ObjectID != copies[0].ID || lineCopy.LineEndConnection.ObjectID != copies[1].ID {
		t.Errorf("connections should point at the copies, got %+v", lineCopy)
	}
	if lineCopy.X != 110 || lineCopy.Y != 60 {
		t.Errorf("copy should be offset, got (%v,%v)", lineCopy.X, lineCopy.Y)
	}

	alone, err := s.DuplicateObjects(nil, board, []string{line.ID}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if alone[0].LineStartConnection != nil || alone[0].LineEndConnection != nil {
		t.Errorf("connections outside the copied set should be dropped, got %+v", alone[0])
	}
}

func TestApplyZOrderAndRenderOrder(t *testing.T) {
	s, board := newTestService()
	a := mustCreate(t, s, board, rectAt(0, 0, 10, 10))
	b := mustCreate(t, s, board, rectAt(0, 0, 10, 10))
	mustCreate(t, s, board, rectAt(0, 0, 10, 10))

	changed, err := s.ApplyZOrder(nil, board, canvas.BringToFrontAction, []string{a.ID})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]int{a.ID: 3}, changed); diff != "" {
		t.Errorf("z changes mismatch (-want +got):\n%s", diff)
	}

	ordered, err := s.RenderOrder(board)
	if err != nil {
		t.Fatal(err)
	}
	if ordered[0].ID != b.ID || ordered[2].ID != a.ID {
		t.Errorf("expected b first and a last, got %s .. %s", ordered[0].ID, ordered[2].ID)
	}

	if _, err := s.ApplyZOrder(nil, board, "sideways", []string{a.ID}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestTransformSelection(t *testing.T) {
	s, board := newTestService()
	r := mustCreate(t, s, board, rectAt(0, 0, 100, 80))
	c := mustCreate(t, s, board, models.BoardObject{Type: models.TypeCircle, X: 300, Y: 300, Radius: models.Float(50)})

	out, err := s.TransformSelection(nil, board, []TransformItem{
		{ID: r.ID, ObjectTransform: canvas.ObjectTransform{X: 10, Y: 10, ScaleX: 1.6, ScaleY: 1.125}},
		{ID: c.ID, ObjectTransform: canvas.ObjectTransform{X: 300, Y: 300, ScaleX: 1.6, ScaleY: 1.2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if *out[0].Width != 160 || *out[0].Height != 90 {
		t.Errorf("expected 160x90, got %vx%v", *out[0].Width, *out[0].Height)
	}
	if out[1].Radius != nil || *out[1].RadiusX != 80 || *out[1].RadiusY != 60 {
		t.Errorf("expected ellipse 80x60, got %+v", out[1])
	}
}

func TestTransformSelectionUnknownIDWritesNothing(t *testing.T) {
	s, board := newTestService()
	r := mustCreate(t, s, board, rectAt(0, 0, 100, 80))

	var events []ObjectEvent
	s.Subscribe(func(e ObjectEvent) { events = append(events, e) })

	_, err := s.TransformSelection(nil, board, []TransformItem{
		{ID: r.ID, ObjectTransform: canvas.ObjectTransform{X: 500, Y: 0, ScaleX: 2, ScaleY: 1}},
		{ID: uuid.NewString(), ObjectTransform: canvas.ObjectTransform{ScaleX: 1, ScaleY: 1}},
	})
	if !errors.Is(err, repo.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}

	got, _ := s.GetObject(board, r.ID)
	if diff := cmp.Diff(r, got); diff != "" {
		t.Errorf("object changed by a failed transform (-want +got):\n%s", diff)
	}
	if len(events) != 0 {
		t.Errorf("expected no events, got %d", len(events))
	}
}

func TestTransformGroupIdentity(t *testing.T) {
	s, board := newTestService()
	r := mustCreate(t, s, board, rectAt(40, 30, 100, 80))

	out, err := s.TransformGroup(nil, board, []string{r.ID}, canvas.GroupTransform{ScaleX: 1, ScaleY: 1})
	if err != nil {
		t.Fatal(err)
	}
	if out[0].X != 40 || out[0].Y != 30 || *out[0].Width != 100 {
		t.Errorf("identity transform changed the object: %+v", out[0])
	}
}

type fixedMeasurer struct{ size canvas.Size }

func (m fixedMeasurer) MeasureText(text, fontFamily string, fontSize float64) canvas.Size {
	return m.size
}

func TestFitText(t *testing.T) {
	s, board := newTestService(WithTextMeasurer(fixedMeasurer{canvas.Size{Width: 100, Height: 20}}))
	text := mustCreate(t, s, board, models.BoardObject{Type: models.TypeText, Text: "hello"})

	got, err := s.FitText(nil, board, text.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *got.Width != 108 || *got.Height != 28 {
		t.Errorf("expected 108x28, got %vx%v", *got.Width, *got.Height)
	}
}

func TestSnap(t *testing.T) {
	s, board := newTestService()
	a := mustCreate(t, s, board, rectAt(0, 0, 100, 80))

	res, err := s.Snap(board, SnapRequest{X: 103, Y: 42})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Snapped || res.X != 100 || res.Y != 40 {
		t.Errorf("expected a snap to (100,40), got %+v", res)
	}
	if res.Connection.ObjectID != a.ID || res.Connection.PointIndex != 1 {
		t.Errorf("unexpected connection %+v", res.Connection)
	}

	res, _ = s.Snap(board, SnapRequest{X: 103, Y: 42, ExcludeID: a.ID})
	if res.Snapped {
		t.Error("excluded objects must not be snap targets")
	}
}

func TestSubscribeOrigin(t *testing.T) {
	s, board := newTestService()
	sess := session.New(board)

	var events []ObjectEvent
	unsubscribe := s.Subscribe(func(e ObjectEvent) { events = append(events, e) })

	obj, err := s.CreateObject(sess, board, rectAt(0, 0, 10, 10))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Kind != EventObjectCreated || events[0].Origin != sess.ID || events[0].ID != obj.ID {
		t.Errorf("unexpected events %+v", events)
	}

	unsubscribe()
	mustCreate(t, s, board, rectAt(0, 0, 10, 10))
	if len(events) != 1 {
		t.Errorf("unsubscribed callback still called, %d events", len(events))
	}
}

type recordingExporter struct {
	count int
}

func (e *recordingExporter) ExportSnapshot(ctx context.Context, boardID uuid.UUID, objects []models.BoardObject) (string, error) {
	e.count = len(objects)
	return "gs://bucket/" + boardID.String() + ".json", nil
}

func TestExportSnapshot(t *testing.T) {
	s, board := newTestService()
	if _, err := s.ExportSnapshot(context.Background(), board); !errors.Is(err, ErrSnapshotDisabled) {
		t.Errorf("expected ErrSnapshotDisabled, got %v", err)
	}

	exp := &recordingExporter{}
	s, board = newTestService(WithSnapshotExporter(exp))
	mustCreate(t, s, board, rectAt(0, 0, 10, 10))
	mustCreate(t, s, board, rectAt(0, 0, 10, 10))
	url, err := s.ExportSnapshot(context.Background(), board)
	if err != nil {
		t.Fatal(err)
	}
	if exp.count != 2 || url == "" {
		t.Errorf("expected 2 exported objects, got %d (%q)", exp.count, url)
	}
}
