package encoder

import (
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/remotesession/gateway/internal/frame"
)

// ScaleRect maps a desktop-space rectangle to client viewport coordinates
// using truncating integer division. The inverse mapping in UnscalePoint
// uses the same arithmetic so forward/inverse stay consistent and pointer
// positions do not drift.
func ScaleRect(r frame.Rect, desktop, client frame.Size) frame.Rect {
	if desktop == client || desktop.Width == 0 || desktop.Height == 0 {
		return r
	}

	return frame.Rect{
		Left:   r.Left * client.Width / desktop.Width,
		Top:    r.Top * client.Height / desktop.Height,
		Right:  r.Right * client.Width / desktop.Width,
		Bottom: r.Bottom * client.Height / desktop.Height,
	}
}

// UnscalePoint maps a client-reported pointer position back to desktop
// coordinates. Identity when the sizes match.
func UnscalePoint(p frame.Point, desktop, client frame.Size) frame.Point {
	if desktop == client || client.Width == 0 || client.Height == 0 {
		return p
	}

	return frame.Point{
		X: p.X * desktop.Width / client.Width,
		Y: p.Y * desktop.Height / client.Height,
	}
}

// ScaleImage resamples a captured raster to the given dimensions. Zero or
// negative target dimensions return the source unchanged; callers clamp
// coordinates before injection, never here.
func ScaleImage(src *image.NRGBA, width, height int) *image.NRGBA {
	if width <= 0 || height <= 0 {
		return src
	}

	bounds := src.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		return src
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Src, nil)

	return dst
}
