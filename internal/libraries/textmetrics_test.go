package libraries

import (
	"canvas-studio-backend/internal/canvas"
	"canvas-studio-backend/internal/models"
	"testing"
)

func TestFontMeasurerGrowsWithText(t *testing.T) {
	m := NewFontMeasurer()

	short := m.MeasureText("hi", "", 16)
	long := m.MeasureText("hello, whiteboard", "", 16)
	if short.Width <= 0 || short.Height <= 0 {
		t.Fatalf("expected a positive extent, got %+v", short)
	}
	if long.Width <= short.Width {
		t.Errorf("longer text should be wider: %v <= %v", long.Width, short.Width)
	}

	big := m.MeasureText("hi", "", 32)
	if big.Width <= short.Width || big.Height <= short.Height {
		t.Errorf("larger font should be larger: %+v vs %+v", big, short)
	}

	two := m.MeasureText("hi\nhi", "", 16)
	if two.Height <= short.Height || two.Width != short.Width {
		t.Errorf("a second line should add height only: %+v vs %+v", two, short)
	}
}

func TestFontMeasurerMonospace(t *testing.T) {
	m := NewFontMeasurer()
	narrow := m.MeasureText("iiii", "Go Mono", 16)
	wide := m.MeasureText("MMMM", "Go Mono", 16)
	if narrow.Width != wide.Width {
		t.Errorf("monospace glyphs should share an advance: %v vs %v", narrow.Width, wide.Width)
	}
}

func TestFitTextWithFontMeasurer(t *testing.T) {
	m := NewFontMeasurer()
	obj := models.BoardObject{Type: models.TypeText, Text: "a fairly long line of text", FontSize: models.Float(16)}

	patch := canvas.FitTextBox(m, obj, canvas.DefaultTextPadding)
	measured := m.MeasureText(obj.Text, "", 16)
	if *patch.Width != measured.Width+8 {
		t.Errorf("expected width %v, got %v", measured.Width+8, *patch.Width)
	}
}
