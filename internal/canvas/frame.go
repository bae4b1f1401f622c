package canvas

import (
	"sort"

	"canvas-studio-backend/internal/models"
)

// ObjectsOnTopOfFrame returns the objects that overlap frameBox and sit
// above the frame in z-order. These move together with the frame.
func ObjectsOnTopOfFrame(frameID string, frameBox Box, frameZIndex int, allObjects []models.BoardObject) []models.BoardObject {
	var result []models.BoardObject
	for _, obj := range allObjects {
		if obj.ID == frameID {
			continue
		}
		if obj.ZIndex > frameZIndex && RectsIntersect(ObjectBoundingBox(obj), frameBox) {
			result = append(result, obj)
		}
	}
	return result
}

// TopmostFrameZIndex returns the highest zIndex among the frames that
// overlap obj. The second result is false when no frame overlaps it.
func TopmostFrameZIndex(obj models.BoardObject, allObjects []models.BoardObject) (int, bool) {
	box := ObjectBoundingBox(obj)
	top, found := 0, false
	for _, f := range allObjects {
		if f.Type != models.TypeFrame || f.ID == obj.ID {
			continue
		}
		if !RectsIntersect(ObjectBoundingBox(f), box) {
			continue
		}
		if !found || f.ZIndex > top {
			top, found = f.ZIndex, true
		}
	}
	return top, found
}

// IsLinePartOfFrame reports whether a connector should be dragged along
// with a frame. Both ends must be attached inside the frame, or one end
// inside and the other free. A connector that reaches an object outside
// the frame stays put. Endpoints attached to the frame itself count as
// inside.
func IsLinePartOfFrame(line models.BoardObject, frameID string, objectsOnFrameIDs map[string]bool) bool {
	inside := func(conn *models.Connection) bool {
		return conn != nil && (conn.ObjectID == frameID || objectsOnFrameIDs[conn.ObjectID])
	}

	start, end := line.LineStartConnection, line.LineEndConnection
	startIn, endIn := inside(start), inside(end)

	switch {
	case startIn && endIn:
		return true
	case startIn && end == nil:
		return true
	case endIn && start == nil:
		return true
	}
	return false
}

// liveConnections returns line with every connection whose target cannot be
// resolved cleared, so that stale references behave as free endpoints.
func liveConnections(line models.BoardObject, lookup Lookup) models.BoardObject {
	if line.LineStartConnection != nil {
		if _, ok := resolveConnection(line.LineStartConnection, lookup); !ok {
			line.LineStartConnection = nil
		}
	}
	if line.LineEndConnection != nil {
		if _, ok := resolveConnection(line.LineEndConnection, lookup); !ok {
			line.LineEndConnection = nil
		}
	}
	return line
}

// FrameDragGroup snapshots everything that moves with frame at drag start:
// the objects on top of it, plus connectors qualifying under
// IsLinePartOfFrame. Free connectors lying on the frame move with it too.
func FrameDragGroup(frame models.BoardObject, allObjects []models.BoardObject) []models.BoardObject {
	lookup := LookupFrom(allObjects)
	onTop := ObjectsOnTopOfFrame(frame.ID, ObjectBoundingBox(frame), frame.ZIndex, allObjects)

	contentIDs := make(map[string]bool, len(onTop))
	onTopIDs := make(map[string]bool, len(onTop))
	for _, obj := range onTop {
		onTopIDs[obj.ID] = true
		if obj.Type != models.TypeLine {
			contentIDs[obj.ID] = true
		}
	}

	var group []models.BoardObject
	for _, obj := range onTop {
		if obj.Type != models.TypeLine {
			group = append(group, obj)
		}
	}
	for _, obj := range allObjects {
		if obj.Type != models.TypeLine || obj.ID == frame.ID {
			continue
		}
		line := liveConnections(obj, lookup)
		if line.LineStartConnection == nil && line.LineEndConnection == nil {
			if onTopIDs[obj.ID] {
				group = append(group, obj)
			}
			continue
		}
		if IsLinePartOfFrame(line, frame.ID, contentIDs) {
			group = append(group, obj)
		}
	}
	return group
}

// LineEffectiveZIndex returns the stacking position a connector renders
// at. A connector attached to an object that sits on a frame is lifted
// just above that frame, even if it was created before the frame.
func LineEffectiveZIndex(line models.BoardObject, allObjects []models.BoardObject) int {
	z := line.ZIndex
	if line.Type != models.TypeLine {
		return z
	}
	lookup := LookupFrom(allObjects)

	for _, conn := range []*models.Connection{line.LineStartConnection, line.LineEndConnection} {
		if conn == nil {
			continue
		}
		target, ok := lookup(conn.ObjectID)
		if !ok {
			continue
		}
		targetBox := ObjectBoundingBox(target)
		for _, f := range allObjects {
			if f.Type != models.TypeFrame || f.ID == target.ID {
				continue
			}
			if target.ZIndex > f.ZIndex && RectsIntersect(ObjectBoundingBox(f), targetBox) && f.ZIndex+1 > z {
				z = f.ZIndex + 1
			}
		}
	}
	return z
}

// RenderOrder returns objects sorted bottom to top by effective zIndex.
// Ties keep their input order.
func RenderOrder(allObjects []models.BoardObject) []models.BoardObject {
	type entry struct {
		obj models.BoardObject
		z   int
	}
	entries := make([]entry, len(allObjects))
	for i, obj := range allObjects {
		entries[i] = entry{obj: obj, z: LineEffectiveZIndex(obj, allObjects)}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].z < entries[j].z
	})

	out := make([]models.BoardObject, len(entries))
	for i, e := range entries {
		out[i] = e.obj
	}
	return out
}
