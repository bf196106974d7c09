// SPDX-License-Identifier: MIT
//
// Package canvas provides the scrolling pixel surface the spectrogram
// renders into. Each rendered frame becomes the bottom row of the image
// after history shifts up one pixel, producing the waterfall effect.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
)

// Canvas is a fixed-size RGBA image with scrolling row semantics.
// It is not safe for concurrent use; the engine serializes access.
type Canvas struct {
	img *image.RGBA
}

// New creates a white canvas of the given dimensions.
func New(width, height int) (*Canvas, error) {
	if width < 2 || height < 1 {
		return nil, fmt.Errorf("canvas dimensions %dx%d too small", width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return &Canvas{img: img}, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.img.Rect.Dx()
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.img.Rect.Dy()
}

// Scroll shifts all rows up by one pixel and returns the freed bottom
// row for the renderer to fill. The returned Row stays valid until the
// next Scroll call overwrites its position.
func (c *Canvas) Scroll() Row {
	copy(c.img.Pix, c.img.Pix[c.img.Stride:])
	return c.Row(c.Height() - 1)
}

// Row returns the row at index y, 0 being the oldest (top) row.
func (c *Canvas) Row(y int) Row {
	off := y * c.img.Stride
	return Row{pix: c.img.Pix[off : off+4*c.Width()]}
}

// Image exposes the backing image for encoding.
func (c *Canvas) Image() image.Image {
	return c.img
}

// EncodePNG writes the current canvas contents as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return png.Encode(w, c.img)
}

// SavePNG writes the current canvas contents to a PNG file.
func (c *Canvas) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()
	if err := c.EncodePNG(f); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// Row is one horizontal line of pixels with independently settable RGB
// channels. It is a view over the canvas backing store, not a copy.
type Row struct {
	pix []uint8 // RGBA, 4 bytes per pixel
}

// NewRow returns a standalone row of the given width, detached from any
// canvas. Useful for tests and one-off renders.
func NewRow(width int) Row {
	pix := make([]uint8, 4*width)
	for i := range pix {
		pix[i] = 0xff
	}
	return Row{pix: pix}
}

// Len returns the number of pixels in the row.
func (r Row) Len() int {
	return len(r.pix) / 4
}

// SetRGB sets the pixel at x. Alpha stays opaque.
func (r Row) SetRGB(x int, red, green, blue uint8) {
	i := 4 * x
	r.pix[i] = red
	r.pix[i+1] = green
	r.pix[i+2] = blue
	r.pix[i+3] = 0xff
}

// At returns the color of the pixel at x.
func (r Row) At(x int) color.RGBA {
	i := 4 * x
	return color.RGBA{R: r.pix[i], G: r.pix[i+1], B: r.pix[i+2], A: r.pix[i+3]}
}

// AppendGray appends the red channel of every pixel to dst and returns
// the extended slice. Spectrogram rows are grayscale, so one channel
// carries the full intensity information for the wire formats.
func (r Row) AppendGray(dst []byte) []byte {
	for i := 0; i < len(r.pix); i += 4 {
		dst = append(dst, r.pix[i])
	}
	return dst
}
