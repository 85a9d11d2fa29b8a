// Package frame holds the raw pixel buffer exchanged between the capture
// collaborator and the encoding pipeline, plus the geometry types shared
// across the gateway.
package frame

import (
	"image"
)

// bytesPerPixel is fixed: buffers are always 32-bit ARGB.
const bytesPerPixel = 4

// Point is a pixel coordinate in desktop or client space.
type Point struct {
	X, Y int
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height int
}

// Rect is a screen region in left/top/right/bottom form, right and bottom
// exclusive.
type Rect struct {
	Left, Top, Right, Bottom int
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() int {
	return r.Right - r.Left
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() int {
	return r.Bottom - r.Top
}

// In reports whether the rectangle lies fully inside a desktop of the given
// size and is not inverted.
func (r Rect) In(desktop Size) bool {
	return r.Left >= 0 && r.Top >= 0 &&
		r.Right <= desktop.Width && r.Bottom <= desktop.Height &&
		r.Left <= r.Right && r.Top <= r.Bottom
}

// Buffer is a raw ARGB pixel buffer captured from the session surface.
// It is owned by the caller for the duration of one encode call and never
// retained afterwards.
type Buffer struct {
	X, Y          int // origin in desktop coordinates
	Width, Height int
	Pixels        []byte // 4 bytes per pixel: A, R, G, B
}

// NewBuffer allocates a zeroed buffer for the given region.
func NewBuffer(x, y, width, height int) *Buffer {
	return &Buffer{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*bytesPerPixel),
	}
}

// Bounds returns the desktop-space rectangle the buffer covers.
func (b *Buffer) Bounds() Rect {
	return Rect{
		Left:   b.X,
		Top:    b.Y,
		Right:  b.X + b.Width,
		Bottom: b.Y + b.Height,
	}
}

// SetARGB writes one pixel. Out-of-bounds coordinates are ignored.
func (b *Buffer) SetARGB(x, y int, a, r, g, bl byte) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}

	i := (y*b.Width + x) * bytesPerPixel
	b.Pixels[i] = a
	b.Pixels[i+1] = r
	b.Pixels[i+2] = g
	b.Pixels[i+3] = bl
}

// Opaque reports whether the buffer contains at least one non-transparent
// pixel. A cursor capture where every pixel is background yields false and
// must not be forwarded.
func (b *Buffer) Opaque() bool {
	for i := 0; i < len(b.Pixels); i += bytesPerPixel {
		if b.Pixels[i] != 0 {
			return true
		}
	}

	return false
}

// Image converts the buffer to an NRGBA image for the codec bindings.
func (b *Buffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))

	for y := 0; y < b.Height; y++ {
		src := y * b.Width * bytesPerPixel
		dst := y * img.Stride

		for x := 0; x < b.Width; x++ {
			img.Pix[dst] = b.Pixels[src+1]   // R
			img.Pix[dst+1] = b.Pixels[src+2] // G
			img.Pix[dst+2] = b.Pixels[src+3] // B
			img.Pix[dst+3] = b.Pixels[src]   // A

			src += bytesPerPixel
			dst += 4
		}
	}

	return img
}

// FromImage converts an NRGBA image back to an ARGB buffer at the given
// desktop origin.
func FromImage(img *image.NRGBA, x, y int) *Buffer {
	bounds := img.Bounds()
	buf := NewBuffer(x, y, bounds.Dx(), bounds.Dy())

	for row := 0; row < buf.Height; row++ {
		src := row * img.Stride
		dst := row * buf.Width * bytesPerPixel

		for col := 0; col < buf.Width; col++ {
			buf.Pixels[dst] = img.Pix[src+3]   // A
			buf.Pixels[dst+1] = img.Pix[src]   // R
			buf.Pixels[dst+2] = img.Pix[src+1] // G
			buf.Pixels[dst+3] = img.Pix[src+2] // B

			src += 4
			dst += bytesPerPixel
		}
	}

	return buf
}

// Source is the capture collaborator. Implementations pull pixels from the
// actual session surface; the gateway core never captures anything itself.
type Source interface {
	// CaptureRegion yields the pixels of one desktop region.
	CaptureRegion(r Rect) (*Buffer, error)

	// CaptureFullscreen yields the whole desktop surface.
	CaptureFullscreen() (*Buffer, error)

	// CaptureCursor yields the current pointer image and its hotspot.
	CaptureCursor() (*Buffer, Point, error)
}
