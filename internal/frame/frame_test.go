package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectIn(t *testing.T) {
	desktop := Size{Width: 1024, Height: 768}

	tests := []struct {
		name string
		rect Rect
		want bool
	}{
		{"inside", Rect{Left: 10, Top: 10, Right: 100, Bottom: 100}, true},
		{"full desktop", Rect{Right: 1024, Bottom: 768}, true},
		{"empty at origin", Rect{}, true},
		{"negative left", Rect{Left: -1, Right: 10, Bottom: 10}, false},
		{"past right edge", Rect{Left: 1000, Right: 1025, Bottom: 10}, false},
		{"past bottom edge", Rect{Right: 10, Top: 760, Bottom: 769}, false},
		{"inverted", Rect{Left: 100, Right: 50, Bottom: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rect.In(desktop))
		})
	}
}

func TestRectDimensions(t *testing.T) {
	r := Rect{Left: 10, Top: 20, Right: 110, Bottom: 70}

	assert.Equal(t, 100, r.Width())
	assert.Equal(t, 50, r.Height())
}

func TestBufferBounds(t *testing.T) {
	b := NewBuffer(10, 20, 30, 40)

	assert.Equal(t, Rect{Left: 10, Top: 20, Right: 40, Bottom: 60}, b.Bounds())
	assert.Len(t, b.Pixels, 30*40*4)
}

func TestBufferSetARGB_OutOfBoundsIgnored(t *testing.T) {
	b := NewBuffer(0, 0, 4, 4)

	b.SetARGB(-1, 0, 0xFF, 1, 2, 3)
	b.SetARGB(0, -1, 0xFF, 1, 2, 3)
	b.SetARGB(4, 0, 0xFF, 1, 2, 3)
	b.SetARGB(0, 4, 0xFF, 1, 2, 3)

	assert.False(t, b.Opaque())
}

func TestBufferOpaque(t *testing.T) {
	b := NewBuffer(0, 0, 8, 8)
	assert.False(t, b.Opaque(), "zeroed buffer is fully transparent")

	b.SetARGB(7, 7, 0x01, 0, 0, 0)
	assert.True(t, b.Opaque())
}

func TestImageRoundTrip(t *testing.T) {
	src := NewBuffer(5, 7, 3, 2)
	src.SetARGB(0, 0, 0xFF, 0x10, 0x20, 0x30)
	src.SetARGB(2, 1, 0x80, 0x40, 0x50, 0x60)

	img := src.Image()
	require.Equal(t, 3, img.Bounds().Dx())
	require.Equal(t, 2, img.Bounds().Dy())

	back := FromImage(img, 5, 7)

	assert.Equal(t, src.Bounds(), back.Bounds())
	assert.Equal(t, src.Pixels, back.Pixels)
}

func TestTestPattern(t *testing.T) {
	src := NewTestPattern(Size{Width: 64, Height: 48})

	full, err := src.CaptureFullscreen()
	require.NoError(t, err)
	assert.Equal(t, Rect{Right: 64, Bottom: 48}, full.Bounds())
	assert.True(t, full.Opaque())

	region, err := src.CaptureRegion(Rect{Left: 8, Top: 8, Right: 16, Bottom: 16})
	require.NoError(t, err)
	assert.Equal(t, 8, region.Width)
	assert.Equal(t, 8, region.Height)

	cursor, hotspot, err := src.CaptureCursor()
	require.NoError(t, err)
	assert.True(t, cursor.Opaque())
	assert.Equal(t, Point{}, hotspot)
}
