package viewer

import (
	"image/color"
	"math/rand/v2"
)

// Palette colors, matching the CSS named colors of the web viewer.
var (
	Red   = color.RGBA{R: 0xff, A: 0xff}
	Green = color.RGBA{G: 0x80, A: 0xff} // CSS "green" is #008000
	Blue  = color.RGBA{B: 0xff, A: 0xff}
	White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// Palette is the set point colors are drawn from.
var Palette = []color.Color{Red, Green, Blue}

// ColorSource picks the color for the next painted point.
// Colors are cosmetic; nothing depends on which one is chosen.
type ColorSource func() color.Color

// RandomColors picks uniformly from Palette using r.
// A nil r uses the global generator.
func RandomColors(r *rand.Rand) ColorSource {
	return func() color.Color {
		if r == nil {
			return Palette[rand.IntN(len(Palette))]
		}
		return Palette[r.IntN(len(Palette))]
	}
}

// SeededColors returns a reproducible RandomColors source.
func SeededColors(seed uint64) ColorSource {
	return RandomColors(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// FixedColors cycles through colors in order. It panics if colors is empty.
// The returned source is not safe for concurrent use; the viewer only
// calls it while holding its lock.
func FixedColors(colors ...color.Color) ColorSource {
	if len(colors) == 0 {
		panic("viewer: FixedColors needs at least one color")
	}
	i := 0
	return func() color.Color {
		c := colors[i%len(colors)]
		i++
		return c
	}
}
