package models

// Field names accepted by ObjectPatch.Unset.
const (
	FieldWidth               = "width"
	FieldHeight              = "height"
	FieldRadius              = "radius"
	FieldRadiusX             = "radiusX"
	FieldRadiusY             = "radiusY"
	FieldLineStartConnection = "lineStartConnection"
	FieldLineEndConnection   = "lineEndConnection"
	FieldPoints              = "points"
	FieldStrokeWidth         = "strokeWidth"
	FieldFontSize            = "fontSize"
)

// ObjectPatch is a partial update of a BoardObject. Nil fields are left
// untouched; fields named in Unset are cleared after the set fields apply.
// Concurrent patches naming disjoint fields merge, patches naming the same
// field resolve by arrival order.
type ObjectPatch struct {
	X        *float64  `json:"x,omitempty"`
	Y        *float64  `json:"y,omitempty"`
	Width    *float64  `json:"width,omitempty"`
	Height   *float64  `json:"height,omitempty"`
	Radius   *float64  `json:"radius,omitempty"`
	RadiusX  *float64  `json:"radiusX,omitempty"`
	RadiusY  *float64  `json:"radiusY,omitempty"`
	Points   []float64 `json:"points,omitempty"`
	Rotation *float64  `json:"rotation,omitempty"`
	ZIndex   *int      `json:"zIndex,omitempty"`

	Color              *string  `json:"color,omitempty"`
	StrokeColor        *string  `json:"strokeColor,omitempty"`
	StrokeWidth        *float64 `json:"strokeWidth,omitempty"`
	Text               *string  `json:"text,omitempty"`
	FontFamily         *string  `json:"fontFamily,omitempty"`
	FontSize           *float64 `json:"fontSize,omitempty"`
	FontStyle          *string  `json:"fontStyle,omitempty"`
	TextDecoration     *string  `json:"textDecoration,omitempty"`
	TextHighlightColor *string  `json:"textHighlightColor,omitempty"`
	ArrowStart         *bool    `json:"arrowStart,omitempty"`
	ArrowEnd           *bool    `json:"arrowEnd,omitempty"`
	Title              *string  `json:"title,omitempty"`

	LineStartConnection *Connection `json:"lineStartConnection,omitempty"`
	LineEndConnection   *Connection `json:"lineEndConnection,omitempty"`

	Unset []string `json:"unset,omitempty"`
}

// IsEmpty reports whether applying p would change nothing.
func (p ObjectPatch) IsEmpty() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.Radius == nil && p.RadiusX == nil && p.RadiusY == nil &&
		p.Points == nil && p.Rotation == nil && p.ZIndex == nil &&
		p.Color == nil && p.StrokeColor == nil && p.StrokeWidth == nil &&
		p.Text == nil && p.FontFamily == nil && p.FontSize == nil &&
		p.FontStyle == nil && p.TextDecoration == nil && p.TextHighlightColor == nil &&
		p.ArrowStart == nil && p.ArrowEnd == nil && p.Title == nil &&
		p.LineStartConnection == nil && p.LineEndConnection == nil &&
		len(p.Unset) == 0
}

// MovesGeometry reports whether p touches position, size, points or rotation.
func (p ObjectPatch) MovesGeometry() bool {
	return p.X != nil || p.Y != nil || p.Width != nil || p.Height != nil ||
		p.Radius != nil || p.RadiusX != nil || p.RadiusY != nil ||
		p.Points != nil || p.Rotation != nil || len(p.Unset) > 0
}

// Apply returns a copy of o with p applied. o is not modified.
func (o BoardObject) Apply(p ObjectPatch) BoardObject {
	c := o.Clone()

	setF := func(dst **float64, v *float64) {
		if v != nil {
			x := *v
			*dst = &x
		}
	}
	setS := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setB := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}

	if p.X != nil {
		c.X = *p.X
	}
	if p.Y != nil {
		c.Y = *p.Y
	}
	setF(&c.Width, p.Width)
	setF(&c.Height, p.Height)
	setF(&c.Radius, p.Radius)
	setF(&c.RadiusX, p.RadiusX)
	setF(&c.RadiusY, p.RadiusY)
	if p.Points != nil {
		c.Points = append([]float64(nil), p.Points...)
	}
	if p.Rotation != nil {
		c.Rotation = *p.Rotation
	}
	if p.ZIndex != nil {
		c.ZIndex = *p.ZIndex
	}

	setS(&c.Color, p.Color)
	setS(&c.StrokeColor, p.StrokeColor)
	setF(&c.StrokeWidth, p.StrokeWidth)
	setS(&c.Text, p.Text)
	setS(&c.FontFamily, p.FontFamily)
	setF(&c.FontSize, p.FontSize)
	setS(&c.FontStyle, p.FontStyle)
	setS(&c.TextDecoration, p.TextDecoration)
	setS(&c.TextHighlightColor, p.TextHighlightColor)
	setB(&c.ArrowStart, p.ArrowStart)
	setB(&c.ArrowEnd, p.ArrowEnd)
	setS(&c.Title, p.Title)

	if p.LineStartConnection != nil {
		conn := *p.LineStartConnection
		c.LineStartConnection = &conn
	}
	if p.LineEndConnection != nil {
		conn := *p.LineEndConnection
		c.LineEndConnection = &conn
	}

	for _, field := range p.Unset {
		switch field {
		case FieldWidth:
			c.Width = nil
		case FieldHeight:
			c.Height = nil
		case FieldRadius:
			c.Radius = nil
		case FieldRadiusX:
			c.RadiusX = nil
		case FieldRadiusY:
			c.RadiusY = nil
		case FieldLineStartConnection:
			c.LineStartConnection = nil
		case FieldLineEndConnection:
			c.LineEndConnection = nil
		case FieldPoints:
			c.Points = nil
		case FieldStrokeWidth:
			c.StrokeWidth = nil
		case FieldFontSize:
			c.FontSize = nil
		}
	}

	return c
}

// Diff returns the patch that turns from into to, naming only the fields
// that differ. The ID and Type of to are ignored.
func Diff(from, to BoardObject) ObjectPatch {
	var p ObjectPatch

	optF := func(dst **float64, field string, a, b *float64) {
		switch {
		case b == nil && a != nil:
			p.Unset = append(p.Unset, field)
		case b != nil && (a == nil || *a != *b):
			v := *b
			*dst = &v
		}
	}
	str := func(dst **string, a, b string) {
		if a != b {
			v := b
			*dst = &v
		}
	}
	flag := func(dst **bool, a, b bool) {
		if a != b {
			v := b
			*dst = &v
		}
	}
	conn := func(dst **Connection, field string, a, b *Connection) {
		switch {
		case b == nil && a != nil:
			p.Unset = append(p.Unset, field)
		case b != nil && (a == nil || *a != *b):
			c := *b
			*dst = &c
		}
	}

	if from.X != to.X {
		p.X = Float(to.X)
	}
	if from.Y != to.Y {
		p.Y = Float(to.Y)
	}
	optF(&p.Width, FieldWidth, from.Width, to.Width)
	optF(&p.Height, FieldHeight, from.Height, to.Height)
	optF(&p.Radius, FieldRadius, from.Radius, to.Radius)
	optF(&p.RadiusX, FieldRadiusX, from.RadiusX, to.RadiusX)
	optF(&p.RadiusY, FieldRadiusY, from.RadiusY, to.RadiusY)
	switch {
	case to.Points == nil && from.Points != nil:
		p.Unset = append(p.Unset, FieldPoints)
	case to.Points != nil && !equalPoints(from.Points, to.Points):
		p.Points = append([]float64(nil), to.Points...)
	}
	if from.Rotation != to.Rotation {
		p.Rotation = Float(to.Rotation)
	}
	if from.ZIndex != to.ZIndex {
		z := to.ZIndex
		p.ZIndex = &z
	}

	str(&p.Color, from.Color, to.Color)
	str(&p.StrokeColor, from.StrokeColor, to.StrokeColor)
	optF(&p.StrokeWidth, FieldStrokeWidth, from.StrokeWidth, to.StrokeWidth)
	str(&p.Text, from.Text, to.Text)
	str(&p.FontFamily, from.FontFamily, to.FontFamily)
	optF(&p.FontSize, FieldFontSize, from.FontSize, to.FontSize)
	str(&p.FontStyle, from.FontStyle, to.FontStyle)
	str(&p.TextDecoration, from.TextDecoration, to.TextDecoration)
	str(&p.TextHighlightColor, from.TextHighlightColor, to.TextHighlightColor)
	flag(&p.ArrowStart, from.ArrowStart, to.ArrowStart)
	flag(&p.ArrowEnd, from.ArrowEnd, to.ArrowEnd)
	str(&p.Title, from.Title, to.Title)

	conn(&p.LineStartConnection, FieldLineStartConnection, from.LineStartConnection, to.LineStartConnection)
	conn(&p.LineEndConnection, FieldLineEndConnection, from.LineEndConnection, to.LineEndConnection)

	return p
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
