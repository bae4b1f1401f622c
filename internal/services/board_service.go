package services

import (
	"canvas-studio-backend/internal/builders"
	"canvas-studio-backend/internal/canvas"
	"canvas-studio-backend/internal/models"
	"canvas-studio-backend/internal/repo"
	"canvas-studio-backend/internal/session"
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrInvalidRequest wraps every input the service refuses.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSnapshotDisabled is returned by ExportSnapshot when no exporter is configured.
	ErrSnapshotDisabled = errors.New("snapshot export is not configured")
)

type EventKind string

const (
	EventObjectCreated EventKind = "object_created"
	EventObjectUpdated EventKind = "object_updated"
	EventObjectDeleted EventKind = "object_deleted"
	EventBoardCleared  EventKind = "board_cleared"
)

// ObjectEvent is published after every committed change. Origin is the
// session that caused it, empty for stateless callers.
type ObjectEvent struct {
	Kind    EventKind           `json:"kind"`
	BoardID uuid.UUID           `json:"board_id"`
	Object  *models.BoardObject `json:"object,omitempty"`
	ID      string              `json:"id,omitempty"`
	Origin  string              `json:"origin,omitempty"`
}

// SnapshotExporter persists a rendered board somewhere durable and returns
// its location.
type SnapshotExporter interface {
	ExportSnapshot(ctx context.Context, boardID uuid.UUID, objects []models.BoardObject) (string, error)
}

type BoardService struct {
	repo          repo.BoardDataRepoInterface
	measurer      canvas.TextMeasurer
	exporter      SnapshotExporter
	snapThreshold float64

	mu          sync.RWMutex
	nextSubID   int
	subscribers map[int]func(ObjectEvent)
}

type Option func(*BoardService)

func WithTextMeasurer(m canvas.TextMeasurer) Option {
	return func(s *BoardService) { s.measurer = m }
}

func WithSnapshotExporter(e SnapshotExporter) Option {
	return func(s *BoardService) { s.exporter = e }
}

func WithSnapThreshold(threshold float64) Option {
	return func(s *BoardService) {
		if threshold > 0 {
			s.snapThreshold = threshold
		}
	}
}

const DefaultSnapThreshold = 20.0

func NewBoardService(r repo.BoardDataRepoInterface, opts ...Option) *BoardService {
	s := &BoardService{
		repo:          r,
		snapThreshold: DefaultSnapThreshold,
		subscribers:   make(map[int]func(ObjectEvent)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn for every event and returns a function that
// removes it. fn is called synchronously from the mutating goroutine.
func (s *BoardService) Subscribe(fn func(ObjectEvent)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *BoardService) publish(events []ObjectEvent) {
	s.mu.RLock()
	subs := make([]func(ObjectEvent), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, e := range events {
		for _, fn := range subs {
			fn(e)
		}
	}
}

// changeSet collects the effects of one operation for the undo history
// and the event stream.
type changeSet struct {
	boardID uuid.UUID
	changes []session.Change
	events  []ObjectEvent
}

func snapshot(obj models.BoardObject) *models.BoardObject {
	c := obj.Clone()
	return &c
}

func (c *changeSet) created(obj models.BoardObject) {
	c.changes = append(c.changes, session.Change{ID: obj.ID, After: snapshot(obj)})
	c.events = append(c.events, ObjectEvent{Kind: EventObjectCreated, BoardID: c.boardID, Object: snapshot(obj), ID: obj.ID})
}

func (c *changeSet) updated(before, after models.BoardObject) {
	c.changes = append(c.changes, session.Change{ID: after.ID, Before: snapshot(before), After: snapshot(after)})
	c.events = append(c.events, ObjectEvent{Kind: EventObjectUpdated, BoardID: c.boardID, Object: snapshot(after), ID: after.ID})
}

func (c *changeSet) deleted(before models.BoardObject) {
	c.changes = append(c.changes, session.Change{ID: before.ID, Before: snapshot(before)})
	c.events = append(c.events, ObjectEvent{Kind: EventObjectDeleted, BoardID: c.boardID, ID: before.ID})
}

// commit records cs in sess, when there is one, and publishes its events.
func (s *BoardService) commit(sess *session.Session, label string, cs *changeSet) {
	origin := ""
	if sess != nil {
		origin = sess.ID
		sess.Record(session.Entry{Label: label, Changes: cs.changes})
	}
	for i := range cs.events {
		cs.events[i].Origin = origin
	}
	s.publish(cs.events)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// ListObjects returns the board's objects bottom to top by stored zIndex.
func (s *BoardService) ListObjects(boardID uuid.UUID) ([]models.BoardObject, error) {
	return s.repo.ListObjects(boardID)
}

func (s *BoardService) GetObject(boardID uuid.UUID, id string) (models.BoardObject, error) {
	return s.repo.GetObject(boardID, id)
}

// RenderOrder returns the board's objects sorted by effective zIndex, with
// connectors lifted above the frames their targets sit on.
func (s *BoardService) RenderOrder(boardID uuid.UUID) ([]models.BoardObject, error) {
	all, err := s.repo.ListObjects(boardID)
	if err != nil {
		return nil, err
	}
	return canvas.RenderOrder(all), nil
}

// CreateObject stores obj on top of the board. A missing id is generated;
// a supplied id must be a uuid not already in use.
func (s *BoardService) CreateObject(sess *session.Session, boardID uuid.UUID, obj models.BoardObject) (models.BoardObject, error) {
	all, err := s.repo.ListObjects(boardID)
	if err != nil {
		return models.BoardObject{}, err
	}
	cs := &changeSet{boardID: boardID}
	created, err := s.create(cs, all, obj)
	if err != nil {
		return models.BoardObject{}, err
	}
	s.commit(sess, "create", cs)
	return created, nil
}

func (s *BoardService) create(cs *changeSet, all []models.BoardObject, obj models.BoardObject) (models.BoardObject, error) {
	if !obj.Type.Valid() {
		return models.BoardObject{}, invalid("unknown object type %q", obj.Type)
	}
	if obj.ID == "" {
		obj.ID = uuid.NewString()
	} else if _, err := uuid.Parse(obj.ID); err != nil {
		return models.BoardObject{}, invalid("object id must be a uuid")
	}
	for _, existing := range all {
		if existing.ID == obj.ID {
			return models.BoardObject{}, invalid("object %s already exists", obj.ID)
		}
	}
	obj.ZIndex = canvas.NextZIndex(all)

	if obj.Type == models.TypeLine {
		if patch := canvas.TrackConnectedLine(obj, canvas.LookupFrom(all)); !patch.IsEmpty() {
			obj = obj.Apply(patch)
		}
	}

	if err := s.repo.SaveObject(cs.boardID, obj); err != nil {
		return models.BoardObject{}, err
	}
	cs.created(obj)
	return obj, nil
}

// BuildObject runs the named shape builder and creates its result.
func (s *BoardService) BuildObject(ctx context.Context, sess *session.Session, boardID uuid.UUID, name string, input map[string]interface{}) (models.BoardObject, error) {
	obj, err := builders.Build(ctx, name, input)
	if err != nil {
		return models.BoardObject{}, invalid("%v", err)
	}
	return s.CreateObject(sess, boardID, obj)
}

// DuplicateObjects copies ids offset by (dx, dy) above everything else.
// Connections between copied objects follow the copies; connections to
// objects outside the set are dropped.
func (s *BoardService) DuplicateObjects(sess *session.Session, boardID uuid.UUID, ids []string, dx, dy float64) ([]models.BoardObject, error) {
	all, err := s.repo.ListObjects(boardID)
	if err != nil {
		return nil, err
	}
	lookup := canvas.LookupFrom(all)

	var sources []models.BoardObject
	idMap := make(map[string]string, len(ids))
	for _, id := range ids {
		if _, seen := idMap[id]; seen {
			continue
		}
		obj, ok := lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", repo.ErrObjectNotFound, id)
		}
		sources = append(sources, obj)
		idMap[id] = uuid.NewString()
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].ZIndex < sources[j].ZIndex
	})

	remap := func(conn *models.Connection) *models.Connection {
		if conn == nil {
			return nil
		}
		newID, ok := idMap[conn.ObjectID]
		if !ok {
			return nil
		}
		return &models.Connection{ObjectID: newID, PointIndex: conn.PointIndex}
	}

	cs := &changeSet{boardID: boardID}
	base := canvas.NextZIndex(all)
	copies := make([]models.BoardObject, 0, len(sources))
	for i, src := range sources {
		c := src.Clone()
		c.ID = idMap[src.ID]
		c.X += dx
		c.Y += dy
		c.ZIndex = base + i
		c.LineStartConnection = remap(src.LineStartConnection)
		c.LineEndConnection = remap(src.LineEndConnection)
		if err := s.repo.SaveObject(boardID, c); err != nil {
			return nil, err
		}
		cs.created(c)
		copies = append(copies, c)
	}
	s.commit(sess, "duplicate", cs)
	return copies, nil
}

// UpdateObject applies patch to one object. Lines attached to it follow
// when its geometry changes. A text object whose text is blank after the
// update is deleted, in which case the returned object is nil.
func (s *BoardService) UpdateObject(sess *session.Session, boardID uuid.UUID, id string, patch models.ObjectPatch) (*models.BoardObject, error) {
	if patch.IsEmpty() {
		obj, err := s.repo.GetObject(boardID, id)
		if err != nil {
			return nil, err
		}
		return &obj, nil
	}

	cs := &changeSet{boardID: boardID}
	after, err := s.update(cs, id, patch)
	if err != nil {
		return nil, err
	}

	if after.Type == models.TypeText && patch.Text != nil && canvas.ShouldDeleteEmptyTextOnBlur(after.Text) {
		if err := s.remove(cs, after); err != nil {
			return nil, err
		}
		s.commit(sess, "update", cs)
		if sess != nil {
			sess.Forget(after.ID)
		}
		return nil, nil
	}

	if after.Type == models.TypeLine && (patch.LineStartConnection != nil || patch.LineEndConnection != nil) {
		if tracked, err := s.trackLine(cs, after); err != nil {
			return nil, err
		} else if tracked != nil {
			after = *tracked
		}
	}
	if patch.MovesGeometry() {
		if err := s.retrackLines(cs, map[string]bool{id: true}); err != nil {
			return nil, err
		}
	}

	s.commit(sess, "update", cs)
	return &after, nil
}

func (s *BoardService) update(cs *changeSet, id string, patch models.ObjectPatch) (models.BoardObject, error) {
	before, err := s.repo.GetObject(cs.boardID, id)
	if err != nil {
		return models.BoardObject{}, err
	}
	after, err := s.repo.UpdateObject(cs.boardID, id, patch)
	if err != nil {
		return models.BoardObject{}, err
	}
	cs.updated(before, after)
	return after, nil
}

func (s *BoardService) trackLine(cs *changeSet, line models.BoardObject) (*models.BoardObject, error) {
	all, err := s.repo.ListObjects(cs.boardID)
	if err != nil {
		return nil, err
	}
	patch := canvas.TrackConnectedLine(line, canvas.LookupFrom(all))
	if patch.IsEmpty() {
		return nil, nil
	}
	after, err := s.update(cs, line.ID, patch)
	if err != nil {
		return nil, err
	}
	return &after, nil
}

// retrackLines re-anchors every line connected to one of moved.
func (s *BoardService) retrackLines(cs *changeSet, moved map[string]bool) error {
	all, err := s.repo.ListObjects(cs.boardID)
	if err != nil {
		return err
	}
	lookup := canvas.LookupFrom(all)
	for _, obj := range all {
		if obj.Type != models.TypeLine || !connectedTo(obj, moved) {
			continue
		}
		patch := canvas.TrackConnectedLine(obj, lookup)
		if patch.IsEmpty() {
			continue
		}
		if _, err := s.update(cs, obj.ID, patch); err != nil {
			return err
		}
	}
	return nil
}

func connectedTo(line models.BoardObject, ids map[string]bool) bool {
	return (line.LineStartConnection != nil && ids[line.LineStartConnection.ObjectID]) ||
		(line.LineEndConnection != nil && ids[line.LineEndConnection.ObjectID])
}

// DeleteObject removes an object. Lines attached to it keep their
// position and become free at that end.
func (s *BoardService) DeleteObject(sess *session.Session, boardID uuid.UUID, id string) error {
	obj, err := s.repo.GetObject(boardID, id)
	if err != nil {
		return err
	}
	cs := &changeSet{boardID: boardID}
	if err := s.remove(cs, obj); err != nil {
		return err
	}
	s.commit(sess, "delete", cs)
	if sess != nil {
		sess.Forget(id)
	}
	return nil
}

func (s *BoardService) remove(cs *changeSet, obj models.BoardObject) error {
	all, err := s.repo.ListObjects(cs.boardID)
	if err != nil {
		return err
	}
	for _, line := range all {
		if line.Type != models.TypeLine || line.ID == obj.ID {
			continue
		}
		var unset []string
		if line.LineStartConnection != nil && line.LineStartConnection.ObjectID == obj.ID {
			unset = append(unset, models.FieldLineStartConnection)
		}
		if line.LineEndConnection != nil && line.LineEndConnection.ObjectID == obj.ID {
			unset = append(unset, models.FieldLineEndConnection)
		}
		if len(unset) == 0 {
			continue
		}
		if _, err := s.update(cs, line.ID, models.ObjectPatch{Unset: unset}); err != nil {
			return err
		}
	}

	if err := s.repo.DeleteObject(cs.boardID, obj.ID); err != nil {
		return err
	}
	cs.deleted(obj)
	return nil
}

// ClearBoard deletes every object on the board. It is not undoable.
func (s *BoardService) ClearBoard(boardID uuid.UUID) error {
	if err := s.repo.ClearBoardData(boardID); err != nil {
		return err
	}
	s.publish([]ObjectEvent{{Kind: EventBoardCleared, BoardID: boardID}})
	return nil
}

// ApplyZOrder runs a stacking command on ids and returns the zIndex
// values that changed.
func (s *BoardService) ApplyZOrder(sess *session.Session, boardID uuid.UUID, action canvas.ZOrderAction, ids []string) (map[string]int, error) {
	switch action {
	case canvas.BringToFrontAction, canvas.SendToBackAction, canvas.BringForwardAction, canvas.SendBackwardAction:
	default:
		return nil, invalid("unknown z-order action %q", action)
	}

	all, err := s.repo.ListObjects(boardID)
	if err != nil {
		return nil, err
	}
	current := make(map[string]int, len(all))
	for _, obj := range all {
		current[obj.ID] = obj.ZIndex
	}

	cs := &changeSet{boardID: boardID}
	changed := make(map[string]int)
	for id, z := range canvas.ComputeZOrder(action, all, ids) {
		if current[id] == z {
			continue
		}
		z := z
		if _, err := s.update(cs, id, models.ObjectPatch{ZIndex: &z}); err != nil {
			return nil, err
		}
		changed[id] = z
	}
	s.commit(sess, "zorder", cs)
	return changed, nil
}

// ConnectRequest asks for a connector between two objects.
type ConnectRequest struct {
	FromID      string   `json:"fromId"`
	ToID        string   `json:"toId"`
	StrokeColor string   `json:"strokeColor,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
	ArrowEnd    bool     `json:"arrowEnd,omitempty"`
}

// ConnectObjects creates a line between the closest snap points of two
// objects.
func (s *BoardService) ConnectObjects(sess *session.Session, boardID uuid.UUID, req ConnectRequest) (models.BoardObject, error) {
	if req.FromID == req.ToID {
		return models.BoardObject{}, invalid("cannot connect an object to itself")
	}
	all, err := s.repo.ListObjects(boardID)
	if err != nil {
		return models.BoardObject{}, err
	}
	lookup := canvas.LookupFrom(all)
	from, ok := lookup(req.FromID)
	if !ok {
		return models.BoardObject{}, fmt.Errorf("%w: %s", repo.ErrObjectNotFound, req.FromID)
	}
	to, ok := lookup(req.ToID)
	if !ok {
		return models.BoardObject{}, fmt.Errorf("%w: %s", repo.ErrObjectNotFound, req.ToID)
	}

	ep := canvas.FindConnectorEndpoints(&from, &to)
	if ep == nil {
		return models.BoardObject{}, invalid("objects have no snap points")
	}
	line := models.BoardObject{
		Type:                models.TypeLine,
		X:                   ep.X,
		Y:                   ep.Y,
		Points:              ep.Points,
		StrokeColor:         req.StrokeColor,
		StrokeWidth:         req.StrokeWidth,
		ArrowEnd:            req.ArrowEnd,
		LineStartConnection: ep.LineStartConnection,
		LineEndConnection:   ep.LineEndConnection,
	}

	cs := &changeSet{boardID: boardID}
	created, err := s.create(cs, all, line)
	if err != nil {
		return models.BoardObject{}, err
	}
	s.commit(sess, "connect", cs)
	return created, nil
}

// SnapRequest asks for the snap point closest to (X, Y).
type SnapRequest struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ExcludeID string  `json:"excludeId,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
}

// Snap finds the snap point a dragged connector end would attach to.
func (s *BoardService) Snap(boardID uuid.UUID, req SnapRequest) (canvas.ConnectionSnapResult, error) {
	all, err := s.repo.ListObjects(boardID)
	if err != nil {
		return canvas.ConnectionSnapResult{}, err
	}
	threshold := req.Threshold
	if threshold <= 0 {
		threshold = s.snapThreshold
	}
	return canvas.FindClosestSnapPointWithConnection(req.X, req.Y, all, req.ExcludeID, threshold), nil
}

// TransformItem is the final transform of one selected object.
type TransformItem struct {
	ID string `json:"id"`
	canvas.ObjectTransform
}

// TransformSelection bakes a multi-select transform into each object and
// re-anchors the connectors attached to them.
func (s *BoardService) TransformSelection(sess *session.Session, boardID uuid.UUID, items []TransformItem) ([]models.BoardObject, error) {
	all, err := s.repo.ListObjects(boardID)
	if err != nil {
		return nil, err
	}
	lookup := canvas.LookupFrom(all)
	for _, item := range items {
		if _, ok := lookup(item.ID); !ok {
			return nil, fmt.Errorf("%w: %s", repo.ErrObjectNotFound, item.ID)
		}
	}

	cs := &changeSet{boardID: boardID}
	moved := make(map[string]bool, len(items))
	out := make([]models.BoardObject, 0, len(items))
	for _, item := range items {
		obj, _ := lookup(item.ID)
		after, err := s.update(cs, obj.ID, canvas.TransformedObject(obj, item.ObjectTransform))
		if err != nil {
			return nil, err
		}
		moved[obj.ID] = true
		out = append(out, after)
	}
	if err := s.retrackLines(cs, moved); err != nil {
		return nil, err
	}
	s.commit(sess, "transform", cs)
	return out, nil
}

// TransformGroup applies one group transform around a shared pivot to ids.
func (s *BoardService) TransformGroup(sess *session.Session, boardID uuid.UUID, ids []string, g canvas.GroupTransform) ([]models.BoardObject, error) {
	all, err := s.repo.ListObjects(boardID)
	if err != nil {
		return nil, err
	}
	lookup := canvas.LookupFrom(all)
	items := make([]TransformItem, 0, len(ids))
	for _, id := range ids {
		obj, ok := lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", repo.ErrObjectNotFound, id)
		}
		items = append(items, TransformItem{ID: id, ObjectTransform: g.MemberTransform(obj)})
	}
	return s.TransformSelection(sess, boardID, items)
}

// ResizeRequest is the box a transformer produced for a single object.
type ResizeRequest struct {
	Box          canvas.TransformBox  `json:"box"`
	AnchorBox    *canvas.TransformBox `json:"anchorBox,omitempty"`
	ActiveAnchor canvas.Anchor        `json:"activeAnchor,omitempty"`
}

// ResizeObject clamps a resize to the object's minimum size, keeping the
// side opposite the dragged handle fixed. Text keeps its aspect ratio and
// scales its font on corner drags.
func (s *BoardService) ResizeObject(sess *session.Session, boardID uuid.UUID, id string, req ResizeRequest) (models.BoardObject, error) {
	obj, err := s.repo.GetObject(boardID, id)
	if err != nil {
		return models.BoardObject{}, err
	}
	oldBox, ok := canvas.ObjectTransformBox(obj)
	if !ok {
		return models.BoardObject{}, invalid("%s objects cannot be resized", obj.Type)
	}
	if req.ActiveAnchor != "" && !req.ActiveAnchor.Valid() {
		return models.BoardObject{}, invalid("unknown anchor %q", req.ActiveAnchor)
	}

	minSize := canvas.MinSizeFor(obj.Type)
	opts := canvas.ResizeOptions{
		AnchorBox:           req.AnchorBox,
		ActiveAnchor:        req.ActiveAnchor,
		PreserveAspectRatio: obj.Type == models.TypeText,
	}
	box := canvas.BoundBoxWithAnchorPreservation(oldBox, req.Box, minSize, minSize, opts).Normalized()

	patch := canvas.ResizePatch(obj, box)
	if obj.Type == models.TypeText && req.ActiveAnchor.IsCorner() {
		ct := canvas.ClampedCornerTransform(canvas.CornerTransformInput{
			BaseFontSize: models.FloatOr(obj.FontSize, canvas.DefaultFontSize),
			RawWidth:     box.Width,
			RawHeight:    box.Height,
			PrevWidth:    oldBox.Width,
			PrevHeight:   oldBox.Height,
			ActiveAnchor: req.ActiveAnchor,
			MinSize:      minSize,
		})
		x, y := box.X, box.Y
		if req.ActiveAnchor.MovesLeft() {
			x = box.X + box.Width - ct.Width
		}
		if req.ActiveAnchor.MovesTop() {
			y = box.Y + box.Height - ct.Height
		}
		patch.X = models.Float(x)
		patch.Y = models.Float(y)
		patch.Width = models.Float(ct.Width)
		patch.Height = models.Float(ct.Height)
		patch.FontSize = models.Float(ct.FontSize)
	}

	cs := &changeSet{boardID: boardID}
	after, err := s.update(cs, id, patch)
	if err != nil {
		return models.BoardObject{}, err
	}
	if err := s.retrackLines(cs, map[string]bool{id: true}); err != nil {
		return models.BoardObject{}, err
	}
	s.commit(sess, "resize", cs)
	return after, nil
}

// DragFrame moves a frame by (dx, dy) together with everything on top of
// it and the connectors that belong to it.
func (s *BoardService) DragFrame(sess *session.Session, boardID uuid.UUID, frameID string, dx, dy float64) ([]models.BoardObject, error) {
	all, err := s.repo.ListObjects(boardID)
	if err != nil {
		return nil, err
	}
	frame, ok := canvas.LookupFrom(all)(frameID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", repo.ErrObjectNotFound, frameID)
	}
	if frame.Type != models.TypeFrame {
		return nil, invalid("object %s is not a frame", frameID)
	}

	group := append([]models.BoardObject{frame}, canvas.FrameDragGroup(frame, all)...)
	cs := &changeSet{boardID: boardID}
	moved := make(map[string]bool, len(group))
	out := make([]models.BoardObject, 0, len(group))
	for _, obj := range group {
		after, err := s.update(cs, obj.ID, models.ObjectPatch{
			X: models.Float(obj.X + dx),
			Y: models.Float(obj.Y + dy),
		})
		if err != nil {
			return nil, err
		}
		moved[obj.ID] = true
		out = append(out, after)
	}
	if err := s.retrackLines(cs, moved); err != nil {
		return nil, err
	}
	s.commit(sess, "drag-frame", cs)
	return out, nil
}

// FitText resizes a text box to wrap its content.
func (s *BoardService) FitText(sess *session.Session, boardID uuid.UUID, id string) (models.BoardObject, error) {
	if s.measurer == nil {
		return models.BoardObject{}, invalid("no text measurer configured")
	}
	obj, err := s.repo.GetObject(boardID, id)
	if err != nil {
		return models.BoardObject{}, err
	}
	if obj.Type != models.TypeText {
		return models.BoardObject{}, invalid("object %s is not text", id)
	}
	patch := canvas.FitTextBox(s.measurer, obj, canvas.DefaultTextPadding)

	cs := &changeSet{boardID: boardID}
	after, err := s.update(cs, id, patch)
	if err != nil {
		return models.BoardObject{}, err
	}
	s.commit(sess, "fit-text", cs)
	return after, nil
}

// Undo reverts the latest action recorded in sess.
func (s *BoardService) Undo(sess *session.Session) (bool, error) {
	entry, ok := sess.Undo()
	if !ok {
		return false, nil
	}
	return true, s.replay(sess, entry)
}

// Redo reapplies the latest undone action in sess.
func (s *BoardService) Redo(sess *session.Session) (bool, error) {
	entry, ok := sess.Redo()
	if !ok {
		return false, nil
	}
	return true, s.replay(sess, entry)
}

// replay writes the After side of every change. History replay is not
// itself recorded.
func (s *BoardService) replay(sess *session.Session, entry session.Entry) error {
	cs := &changeSet{boardID: sess.BoardID}
	for _, c := range entry.Changes {
		if c.After == nil {
			err := s.repo.DeleteObject(sess.BoardID, c.ID)
			if err != nil && !errors.Is(err, repo.ErrObjectNotFound) {
				return err
			}
			cs.events = append(cs.events, ObjectEvent{Kind: EventObjectDeleted, BoardID: sess.BoardID, ID: c.ID})
			continue
		}
		if c.Before == nil {
			if err := s.repo.SaveObject(sess.BoardID, *c.After); err != nil {
				return err
			}
			cs.events = append(cs.events, ObjectEvent{Kind: EventObjectCreated, BoardID: sess.BoardID, Object: snapshot(*c.After), ID: c.ID})
			continue
		}
		// Only the fields this change touched are written back, so edits
		// other clients made to the object since are kept.
		patch := models.Diff(*c.Before, *c.After)
		if patch.IsEmpty() {
			continue
		}
		after, err := s.repo.UpdateObject(sess.BoardID, c.ID, patch)
		if errors.Is(err, repo.ErrObjectNotFound) {
			log.Printf("skipping replay of %s: object was deleted", c.ID)
			continue
		}
		if err != nil {
			return err
		}
		cs.events = append(cs.events, ObjectEvent{Kind: EventObjectUpdated, BoardID: sess.BoardID, Object: snapshot(after), ID: c.ID})
	}
	for i := range cs.events {
		cs.events[i].Origin = sess.ID
	}
	s.publish(cs.events)
	log.Printf("replayed %q on board %s (%d changes)", entry.Label, sess.BoardID, len(entry.Changes))
	return nil
}

// ExportSnapshot uploads the board in render order and returns where it
// was written.
func (s *BoardService) ExportSnapshot(ctx context.Context, boardID uuid.UUID) (string, error) {
	if s.exporter == nil {
		return "", ErrSnapshotDisabled
	}
	objects, err := s.RenderOrder(boardID)
	if err != nil {
		return "", err
	}
	return s.exporter.ExportSnapshot(ctx, boardID, objects)
}
