package models

// ObjectType is the discriminant of a BoardObject
type ObjectType string

const (
	TypeSticky   ObjectType = "sticky"
	TypeRect     ObjectType = "rect"
	TypeCircle   ObjectType = "circle"
	TypeDiamond  ObjectType = "diamond"
	TypeTriangle ObjectType = "triangle"
	TypeLine     ObjectType = "line"
	TypePen      ObjectType = "pen"
	TypeFrame    ObjectType = "frame"
	TypeText     ObjectType = "text"
)

// Valid reports whether t is one of the known object types.
func (t ObjectType) Valid() bool {
	switch t {
	case TypeSticky, TypeRect, TypeCircle, TypeDiamond, TypeTriangle,
		TypeLine, TypePen, TypeFrame, TypeText:
		return true
	}
	return false
}

// Connection binds a line endpoint to a snap point of another object.
// It is a weak reference: the target may have been deleted since.
type Connection struct {
	ObjectID   string `json:"objectId"`
	PointIndex int    `json:"pointIndex"`
}

// BoardObject is one shape on the board.
//
// Size fields are pointers so that records written by older clients, which
// omit them, fall back to the per-type defaults of the geometry code.
// X/Y is the top-left corner for box shapes, the center for circles and the
// origin of Points for lines and pen strokes.
type BoardObject struct {
	ID       string     `json:"id"`
	Type     ObjectType `json:"type"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Width    *float64   `json:"width,omitempty"`
	Height   *float64   `json:"height,omitempty"`
	Radius   *float64   `json:"radius,omitempty"`
	RadiusX  *float64   `json:"radiusX,omitempty"`
	RadiusY  *float64   `json:"radiusY,omitempty"`
	Points   []float64  `json:"points,omitempty"`
	Rotation float64    `json:"rotation"`
	ZIndex   int        `json:"zIndex"`

	Color              string   `json:"color,omitempty"`
	StrokeColor        string   `json:"strokeColor,omitempty"`
	StrokeWidth        *float64 `json:"strokeWidth,omitempty"`
	Text               string   `json:"text,omitempty"`
	FontFamily         string   `json:"fontFamily,omitempty"`
	FontSize           *float64 `json:"fontSize,omitempty"`
	FontStyle          string   `json:"fontStyle,omitempty"`
	TextDecoration     string   `json:"textDecoration,omitempty"`
	TextHighlightColor string   `json:"textHighlightColor,omitempty"`
	ArrowStart         bool     `json:"arrowStart,omitempty"`
	ArrowEnd           bool     `json:"arrowEnd,omitempty"`
	Title              string   `json:"title,omitempty"`

	LineStartConnection *Connection `json:"lineStartConnection,omitempty"`
	LineEndConnection   *Connection `json:"lineEndConnection,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to v.
func String(v string) *string {
	return &v
}

// FloatOr dereferences p, or returns def when p is nil.
func FloatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// Clone returns a deep copy of o.
func (o BoardObject) Clone() BoardObject {
	c := o
	c.Width = clonePtr(o.Width)
	c.Height = clonePtr(o.Height)
	c.Radius = clonePtr(o.Radius)
	c.RadiusX = clonePtr(o.RadiusX)
	c.RadiusY = clonePtr(o.RadiusY)
	c.StrokeWidth = clonePtr(o.StrokeWidth)
	c.FontSize = clonePtr(o.FontSize)
	if o.Points != nil {
		c.Points = append([]float64(nil), o.Points...)
	}
	if o.LineStartConnection != nil {
		conn := *o.LineStartConnection
		c.LineStartConnection = &conn
	}
	if o.LineEndConnection != nil {
		conn := *o.LineEndConnection
		c.LineEndConnection = &conn
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
