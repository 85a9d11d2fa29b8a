package frame

// TestPattern is a synthetic frame source that renders a color gradient.
// It backs the server binary when no real capture hookup is configured and
// gives the encode pipeline something deterministic to chew on in tests.
type TestPattern struct {
	Desktop Size
}

// NewTestPattern returns a gradient source for the given desktop size.
func NewTestPattern(desktop Size) *TestPattern {
	return &TestPattern{Desktop: desktop}
}

// CaptureRegion renders the gradient for one region.
func (t *TestPattern) CaptureRegion(r Rect) (*Buffer, error) {
	buf := NewBuffer(r.Left, r.Top, r.Width(), r.Height())

	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			gx := r.Left + x
			gy := r.Top + y
			buf.SetARGB(x, y, 0xFF, byte(gx), byte(gy), byte(gx^gy))
		}
	}

	return buf, nil
}

// CaptureFullscreen renders the whole desktop.
func (t *TestPattern) CaptureFullscreen() (*Buffer, error) {
	return t.CaptureRegion(Rect{Right: t.Desktop.Width, Bottom: t.Desktop.Height})
}

// CaptureCursor renders a small opaque block cursor with a top-left hotspot.
func (t *TestPattern) CaptureCursor() (*Buffer, Point, error) {
	const cursorSize = 16

	buf := NewBuffer(0, 0, cursorSize, cursorSize)
	for y := 0; y < cursorSize; y++ {
		for x := 0; x <= y && x < cursorSize; x++ {
			buf.SetARGB(x, y, 0xFF, 0x00, 0x00, 0x00)
		}
	}

	return buf, Point{}, nil
}
