package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
)

// Image is a canvas backed by an RGBA image, used for headless renders.
type Image struct {
	img        *image.RGBA
	background color.Color
}

// NewImage creates a width×height image filled with black.
func NewImage(width, height int) *Image {
	im := &Image{
		img:        image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))),
		background: color.Black,
	}
	im.Clear()
	return im
}

// Size returns the image size in pixels.
func (im *Image) Size() (int, int) {
	b := im.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear fills the image with the background color.
func (im *Image) Clear() {
	draw.Draw(im.img, im.img.Bounds(), image.NewUniform(im.background), image.Point{}, draw.Src)
}

// FillRect paints a rectangle snapped to the pixel grid, like Grid.FillRect.
func (im *Image) FillRect(x, y, w, h float64, c color.Color) {
	width, height := im.Size()
	x0, y0, x1, y1, ok := snapRect(x, y, w, h, width, height)
	if !ok {
		return
	}
	draw.Draw(im.img, image.Rect(x0, y0, x1, y1), image.NewUniform(c), image.Point{}, draw.Src)
}

// RGBA returns the underlying image.
func (im *Image) RGBA() *image.RGBA {
	return im.img
}

// Painted returns the number of pixels that differ from the background.
func (im *Image) Painted() int {
	br, bg, bb, ba := im.background.RGBA()
	n := 0
	b := im.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := im.img.At(x, y).RGBA()
			if r != br || g != bg || bl != bb || a != ba {
				n++
			}
		}
	}
	return n
}

// WritePNG encodes the image as PNG.
func (im *Image) WritePNG(w io.Writer) error {
	if err := png.Encode(w, im.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
