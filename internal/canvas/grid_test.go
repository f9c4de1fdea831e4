package canvas

import (
	"image/color"
	"strings"
	"testing"
)

var red = color.RGBA{R: 255, A: 255}

func TestGrid_Size(t *testing.T) {
	g := NewGrid(80, 41)

	w, h := g.Size()
	if w != 80 || h != 41 {
		t.Errorf("Size = %dx%d, want 80x41", w, h)
	}
	if g.Cols() != 80 || g.Rows() != 21 {
		t.Errorf("Cols/Rows = %d/%d, want 80/21", g.Cols(), g.Rows())
	}
}

func TestGrid_FillRect(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h float64
		wantX      int
		wantY      int
		wantCount  int
	}{
		{"integer", 100, 100, 1, 1, 100, 100, 1},
		{"fractional floors", 12.7, 3.2, 1, 1, 12, 3, 1},
		{"negative fraction floors down", -0.5, 4, 1, 1, -1, 4, 0},
		{"sub-pixel size still paints", 5, 5, 0.2, 0.2, 5, 5, 1},
		{"clipped right", 200, 10, 1, 1, 200, 10, 0},
		{"clipped bottom", 10, 200, 1, 1, 10, 200, 0},
		{"2x2", 0, 0, 2, 2, 0, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(200, 200)
			g.FillRect(tt.x, tt.y, tt.w, tt.h, red)

			if got := g.Painted(); got != tt.wantCount {
				t.Errorf("Painted = %d, want %d", got, tt.wantCount)
			}
			if tt.wantCount > 0 && g.At(tt.wantX, tt.wantY) != red {
				t.Errorf("pixel (%d,%d) not painted", tt.wantX, tt.wantY)
			}
		})
	}
}

func TestGrid_FillRectPartiallyOutside(t *testing.T) {
	g := NewGrid(10, 10)
	g.FillRect(-1, -1, 3, 3, red)

	if g.Painted() != 4 {
		t.Errorf("Painted = %d, want 4 (clipped 3x3)", g.Painted())
	}
}

func TestGrid_IgnoresNaN(t *testing.T) {
	g := NewGrid(10, 10)
	var zero float64
	g.FillRect(zero/zero, 1, 1, 1, red)
	if g.Painted() != 0 {
		t.Error("NaN coordinates should paint nothing")
	}
}

func TestGrid_Clear(t *testing.T) {
	g := NewGrid(10, 10)
	g.FillRect(1, 1, 1, 1, red)
	g.FillText("Loading...", 0, 5, color.White)

	g.Clear()

	if g.Painted() != 0 {
		t.Errorf("Painted = %d after Clear, want 0", g.Painted())
	}
	if len(g.Labels()) != 0 {
		t.Errorf("Labels = %v after Clear, want none", g.Labels())
	}
}

func TestGrid_Render(t *testing.T) {
	g := NewGrid(12, 4)
	g.FillRect(0, 0, 1, 1, red)
	g.FillText("Hi", 3, 2, color.White)

	out := g.Render()
	lines := strings.Split(out, "\n")

	if len(lines) != 2 {
		t.Fatalf("rendered %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[1], "Hi") {
		t.Errorf("label should be on the second row, got %q", lines[1])
	}
	if strings.Contains(lines[0], "Hi") {
		t.Errorf("label should not be on the first row, got %q", lines[0])
	}
	// Every non-label cell is a half block
	if got := strings.Count(out, string(glyphUpperHalf)); got != 12*2-2 {
		t.Errorf("half blocks = %d, want %d", got, 12*2-2)
	}
}

func TestGrid_RenderClipsLabels(t *testing.T) {
	g := NewGrid(4, 2)
	g.FillText("Loading...", 2, 0, color.White)

	out := g.Render()
	if !strings.Contains(out, "Lo") || strings.Contains(out, "Loa") {
		t.Errorf("label should be clipped to 2 runes, got %q", out)
	}
}

func TestGrid_RenderEmpty(t *testing.T) {
	if out := NewGrid(0, 0).Render(); out != "" {
		t.Errorf("empty grid rendered %q", out)
	}
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		c    color.Color
		want string
	}{
		{nil, colorBackground},
		{color.RGBA{R: 255, A: 255}, "#FF0000"},
		{color.RGBA{G: 128, A: 255}, "#008000"},
		{color.White, "#FFFFFF"},
	}

	for _, tt := range tests {
		if got := hexColor(tt.c); got != tt.want {
			t.Errorf("hexColor(%v) = %q, want %q", tt.c, got, tt.want)
		}
	}
}
