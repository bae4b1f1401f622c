package canvas

import (
	"canvas-studio-backend/internal/models"
)

// SnapResult is the outcome of a nearest snap point search. When Snapped
// is false, X and Y are the query position unchanged.
type SnapResult struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Snapped bool    `json:"snapped"`
}

// ConnectionSnapResult is a SnapResult that also names the snap point it
// landed on.
type ConnectionSnapResult struct {
	SnapResult
	Connection *models.Connection `json:"connection"`
}

// ConnectorEndpoints is the geometry of a new line joining two objects.
// Points are relative to (X, Y), which is the snap point on the source.
type ConnectorEndpoints struct {
	X                   float64            `json:"x"`
	Y                   float64            `json:"y"`
	Points              []float64          `json:"points"`
	LineStartConnection *models.Connection `json:"lineStartConnection"`
	LineEndConnection   *models.Connection `json:"lineEndConnection"`
}

// ObjectSnapPoints returns the points a connector may attach to, in board
// coordinates. The order is stable: connections refer to points by index.
//
// Box shapes yield the four edge midpoints (top, right, bottom, left)
// followed by the four corners (clockwise from top-left). Circles yield the
// center then top, right, bottom, left. Lines yield their two endpoints.
// Pen strokes have no snap points.
func ObjectSnapPoints(obj models.BoardObject) []Point {
	switch obj.Type {
	case models.TypeRect, models.TypeSticky, models.TypeFrame, models.TypeText:
		w, h := boxSize(obj)
		return rotateAll(obj, [][2]float64{
			{w / 2, 0}, {w, h / 2}, {w / 2, h}, {0, h / 2},
			{0, 0}, {w, 0}, {w, h}, {0, h},
		})

	case models.TypeDiamond:
		w, h := boxSize(obj)
		return rotateAll(obj, [][2]float64{
			{w / 2, 0}, {w, h / 2}, {w / 2, h}, {0, h / 2},
		})

	case models.TypeTriangle:
		w, h := boxSize(obj)
		return rotateAll(obj, [][2]float64{
			{w / 2, 0}, {w, h}, {w / 2, h}, {0, h},
		})

	case models.TypeCircle:
		rx, ry := circleRadii(obj)
		return rotateAll(obj, [][2]float64{
			{0, 0}, {0, -ry}, {rx, 0}, {0, ry}, {-rx, 0},
		})

	case models.TypeLine:
		n := len(obj.Points)
		if n < 4 {
			return nil
		}
		return rotateAll(obj, [][2]float64{
			{obj.Points[0], obj.Points[1]},
			{obj.Points[n-2], obj.Points[n-1]},
		})
	}
	return nil
}

func rotateAll(obj models.BoardObject, offsets [][2]float64) []Point {
	points := make([]Point, len(offsets))
	for i, o := range offsets {
		points[i] = rotate(obj.X, obj.Y, o[0], o[1], obj.Rotation)
	}
	return points
}

// SnapPointForConnection returns snap point pointIndex of obj. The second
// result is false when the index is out of range, which callers treat as a
// lost connection.
func SnapPointForConnection(obj models.BoardObject, pointIndex int) (Point, bool) {
	points := ObjectSnapPoints(obj)
	if pointIndex < 0 || pointIndex >= len(points) {
		return Point{}, false
	}
	return points[pointIndex], true
}

// FindClosestSnapPoint returns the candidate nearest to (x, y) that lies
// strictly within threshold. On ties the earlier candidate wins.
func FindClosestSnapPoint(x, y float64, candidates []Point, threshold float64) SnapResult {
	best := threshold * threshold
	result := SnapResult{X: x, Y: y}
	for _, p := range candidates {
		dx, dy := p.X-x, p.Y-y
		if d := dx*dx + dy*dy; d < best {
			best = d
			result = SnapResult{X: p.X, Y: p.Y, Snapped: true}
		}
	}
	return result
}

// FindClosestSnapPointWithConnection searches the snap points of every
// object except excludeID and reports which point was hit.
func FindClosestSnapPointWithConnection(x, y float64, objects []models.BoardObject, excludeID string, threshold float64) ConnectionSnapResult {
	best := threshold * threshold
	result := ConnectionSnapResult{SnapResult: SnapResult{X: x, Y: y}}
	for _, obj := range objects {
		if obj.ID == excludeID {
			continue
		}
		for i, p := range ObjectSnapPoints(obj) {
			dx, dy := p.X-x, p.Y-y
			if d := dx*dx + dy*dy; d < best {
				best = d
				result = ConnectionSnapResult{
					SnapResult: SnapResult{X: p.X, Y: p.Y, Snapped: true},
					Connection: &models.Connection{ObjectID: obj.ID, PointIndex: i},
				}
			}
		}
	}
	return result
}

// FindConnectorEndpoints picks the closest pair of snap points between from
// and to. It returns nil if either object is missing or has no snap points.
func FindConnectorEndpoints(from, to *models.BoardObject) *ConnectorEndpoints {
	if from == nil || to == nil {
		return nil
	}
	fromPoints := ObjectSnapPoints(*from)
	toPoints := ObjectSnapPoints(*to)
	if len(fromPoints) == 0 || len(toPoints) == 0 {
		return nil
	}

	bestFrom, bestTo := 0, 0
	best := -1.0
	for i, a := range fromPoints {
		for j, b := range toPoints {
			dx, dy := b.X-a.X, b.Y-a.Y
			d := dx*dx + dy*dy
			if best < 0 || d < best {
				best = d
				bestFrom, bestTo = i, j
			}
		}
	}

	start := fromPoints[bestFrom]
	end := toPoints[bestTo]
	return &ConnectorEndpoints{
		X:                   start.X,
		Y:                   start.Y,
		Points:              []float64{0, 0, end.X - start.X, end.Y - start.Y},
		LineStartConnection: &models.Connection{ObjectID: from.ID, PointIndex: bestFrom},
		LineEndConnection:   &models.Connection{ObjectID: to.ID, PointIndex: bestTo},
	}
}

// Lookup resolves an object id against the current board state.
type Lookup func(id string) (models.BoardObject, bool)

// LookupFrom indexes objects by id.
func LookupFrom(objects []models.BoardObject) Lookup {
	byID := make(map[string]models.BoardObject, len(objects))
	for _, obj := range objects {
		byID[obj.ID] = obj
	}
	return func(id string) (models.BoardObject, bool) {
		obj, ok := byID[id]
		return obj, ok
	}
}

// resolveConnection returns the world position of conn, or false when the
// target is gone or the index no longer exists.
func resolveConnection(conn *models.Connection, lookup Lookup) (Point, bool) {
	if conn == nil {
		return Point{}, false
	}
	target, ok := lookup(conn.ObjectID)
	if !ok {
		return Point{}, false
	}
	return SnapPointForConnection(target, conn.PointIndex)
}

// TrackConnectedLine recomputes the geometry of line so that its attached
// endpoints follow the objects they are connected to. Endpoints whose
// target no longer resolves stay where they are. The returned patch is
// empty when nothing moved.
func TrackConnectedLine(line models.BoardObject, lookup Lookup) models.ObjectPatch {
	n := len(line.Points)
	if line.Type != models.TypeLine || n < 4 {
		return models.ObjectPatch{}
	}

	// Tracked lines are rewritten unrotated, so work in world space.
	start := rotate(line.X, line.Y, line.Points[0], line.Points[1], line.Rotation)
	end := rotate(line.X, line.Y, line.Points[n-2], line.Points[n-1], line.Rotation)

	newStart, startOK := resolveConnection(line.LineStartConnection, lookup)
	newEnd, endOK := resolveConnection(line.LineEndConnection, lookup)
	if !startOK && !endOK {
		return models.ObjectPatch{}
	}
	if startOK {
		start = newStart
	}
	if endOK {
		end = newEnd
	}

	points := make([]float64, n)
	// Interior points of a polyline keep their world position.
	for i := 2; i < n-2; i += 2 {
		p := rotate(line.X, line.Y, line.Points[i], line.Points[i+1], line.Rotation)
		points[i] = p.X - start.X
		points[i+1] = p.Y - start.Y
	}
	points[n-2] = end.X - start.X
	points[n-1] = end.Y - start.Y

	if start.X == line.X && start.Y == line.Y && line.Rotation == 0 && equalPoints(points, line.Points) {
		return models.ObjectPatch{}
	}

	zero := 0.0
	return models.ObjectPatch{
		X:        models.Float(start.X),
		Y:        models.Float(start.Y),
		Points:   points,
		Rotation: &zero,
	}
}

func equalPoints(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
