// Package canvas provides drawable pixel surfaces for the galaxy viewer:
// a terminal grid and an in-memory image.
package canvas

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	// glyphUpperHalf shows the top pixel in the foreground color and the
	// bottom pixel in the background color, two pixels per cell.
	glyphUpperHalf = '▀'

	// colorBackground is the empty-space color of the grid.
	colorBackground = "#000000"
)

// label is a piece of text drawn over the pixels.
type label struct {
	text  string
	x, y  int // pixel position of the first rune
	color color.Color
}

// Grid is a pixel canvas rendered into terminal cells. Each cell holds
// two vertically stacked pixels, so a Grid of W×H pixels needs W columns
// and ceil(H/2) rows.
type Grid struct {
	width  int
	height int
	pixels []color.Color // row-major, nil is empty
	labels []label
}

// NewGrid creates an empty grid of width×height pixels.
func NewGrid(width, height int) *Grid {
	g := &Grid{}
	g.Resize(width, height)
	return g
}

// Resize changes the pixel size and clears the grid.
func (g *Grid) Resize(width, height int) {
	g.width = max(width, 0)
	g.height = max(height, 0)
	g.pixels = make([]color.Color, g.width*g.height)
	g.labels = nil
}

// Size returns the grid size in pixels.
func (g *Grid) Size() (int, int) {
	return g.width, g.height
}

// Cols returns the number of terminal columns the grid renders to.
func (g *Grid) Cols() int { return g.width }

// Rows returns the number of terminal rows the grid renders to.
func (g *Grid) Rows() int { return (g.height + 1) / 2 }

// Clear erases all pixels and labels.
func (g *Grid) Clear() {
	for i := range g.pixels {
		g.pixels[i] = nil
	}
	g.labels = nil
}

// FillRect paints a rectangle snapped to the pixel grid. The top-left
// corner is floored and the size rounded, never below one pixel. Parts
// outside the grid are clipped.
func (g *Grid) FillRect(x, y, w, h float64, c color.Color) {
	x0, y0, x1, y1, ok := snapRect(x, y, w, h, g.width, g.height)
	if !ok {
		return
	}
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			g.pixels[py*g.width+px] = c
		}
	}
}

// FillText draws text with its first rune at pixel (x, y). Text is one
// pixel per rune horizontally and occupies the cell row containing y.
func (g *Grid) FillText(text string, x, y float64, c color.Color) {
	g.labels = append(g.labels, label{
		text:  text,
		x:     int(math.Floor(x)),
		y:     int(math.Floor(y)),
		color: c,
	})
}

// At returns the color of pixel (x, y), or nil if it is empty or out of range.
func (g *Grid) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return nil
	}
	return g.pixels[y*g.width+x]
}

// Painted returns the number of non-empty pixels.
func (g *Grid) Painted() int {
	n := 0
	for _, p := range g.pixels {
		if p != nil {
			n++
		}
	}
	return n
}

// Labels returns the texts currently drawn on the grid.
func (g *Grid) Labels() []string {
	out := make([]string, len(g.labels))
	for i, l := range g.labels {
		out[i] = l.text
	}
	return out
}

// cell is the content of one terminal cell.
type cell struct {
	r      rune
	fg, bg string
}

// Render draws the grid as Rows() lines of Cols() cells.
func (g *Grid) Render() string {
	rows := g.Rows()
	if rows == 0 || g.width == 0 {
		return ""
	}

	cells := make([][]cell, rows)
	for row := range cells {
		cells[row] = make([]cell, g.width)
		for col := range cells[row] {
			top := g.At(col, row*2)
			bottom := g.At(col, row*2+1)
			cells[row][col] = cell{r: glyphUpperHalf, fg: hexColor(top), bg: hexColor(bottom)}
		}
	}

	// Labels go on top of pixels
	for _, l := range g.labels {
		row := l.y / 2
		if l.y < 0 || row >= rows {
			continue
		}
		col := l.x
		for _, r := range l.text {
			if col >= 0 && col < g.width {
				cells[row][col] = cell{r: r, fg: hexColor(l.color), bg: colorBackground}
			}
			col++
		}
	}

	var b strings.Builder
	for row, line := range cells {
		if row > 0 {
			b.WriteString("\n")
		}
		writeRuns(&b, line)
	}
	return b.String()
}

// writeRuns renders consecutive cells with identical colors in one style.
func writeRuns(b *strings.Builder, line []cell) {
	start := 0
	for i := 1; i <= len(line); i++ {
		if i < len(line) && line[i].fg == line[start].fg && line[i].bg == line[start].bg {
			continue
		}
		var run strings.Builder
		for _, c := range line[start:i] {
			run.WriteRune(c.r)
		}
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(line[start].fg)).
			Background(lipgloss.Color(line[start].bg))
		b.WriteString(style.Render(run.String()))
		start = i
	}
}

// hexColor converts a color to "#RRGGBB"; nil is the background.
func hexColor(c color.Color) string {
	if c == nil {
		return colorBackground
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02X%02X%02X", r>>8, g>>8, b>>8)
}

// snapRect converts a float rectangle to clipped pixel bounds [x0,x1)×[y0,y1).
func snapRect(x, y, w, h float64, width, height int) (x0, y0, x1, y1 int, ok bool) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, 0, 0, 0, false
	}
	fx := math.Floor(x)
	fy := math.Floor(y)
	if fx >= float64(width) || fy >= float64(height) {
		return 0, 0, 0, 0, false
	}
	sw := max(1, int(math.Round(w)))
	sh := max(1, int(math.Round(h)))
	if fx+float64(sw) <= 0 || fy+float64(sh) <= 0 {
		return 0, 0, 0, 0, false
	}

	x0 = max(int(fx), 0)
	y0 = max(int(fy), 0)
	x1 = min(int(fx)+sw, width)
	y1 = min(int(fy)+sh, height)
	return x0, y0, x1, y1, x0 < x1 && y0 < y1
}
