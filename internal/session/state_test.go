package session

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remotesession/gateway/internal/encoder"
	"github.com/remotesession/gateway/internal/frame"
)

func newState() *State {
	return NewState(frame.Size{Width: 1024, Height: 768}, encoder.ModeJpeg, encoder.QualityHigh, 100)
}

func TestNextSequence_Increments(t *testing.T) {
	s := newState()

	assert.Equal(t, int32(1), s.NextSequence())
	assert.Equal(t, int32(2), s.NextSequence())
	assert.Equal(t, int32(3), s.NextSequence())
}

func TestNextSequence_WrapsToZero(t *testing.T) {
	s := newState()
	s.imageSequence.Store(math.MaxInt32)

	assert.Equal(t, int32(0), s.NextSequence())
	assert.Equal(t, int32(1), s.NextSequence())
}

func TestNextRegionUpdate_WrapsToZero(t *testing.T) {
	s := newState()
	s.regionUpdateCount.Store(math.MaxInt32)

	assert.Equal(t, int32(0), s.NextRegionUpdate())
}

func TestSetEncoding_ResetsQuality(t *testing.T) {
	s := newState()
	s.SetQuality(int(encoder.QualityLow))

	s.SetEncoding(int(encoder.ModeWebp))

	mode, quality := s.Encoding()
	assert.Equal(t, encoder.ModeWebp, mode)
	assert.Equal(t, encoder.QualityHigh, quality, "quality tuning does not survive a codec switch")
}

func TestSetEncoding_InvalidModeIgnored(t *testing.T) {
	s := newState()

	s.SetEncoding(42)
	s.SetEncoding(-1)

	mode, _ := s.Encoding()
	assert.Equal(t, encoder.ModeJpeg, mode)
}

func TestSetQuality_InvalidIgnored(t *testing.T) {
	s := newState()

	s.SetQuality(150)
	s.SetQuality(-5)

	_, quality := s.Encoding()
	assert.Equal(t, encoder.QualityHigh, quality)
}

func TestViewport_StartsAtDesktop(t *testing.T) {
	s := newState()

	enabled, client := s.Viewport()
	assert.False(t, enabled)
	assert.Equal(t, s.Desktop(), client)
}

func TestSetScale_UpdatesViewport(t *testing.T) {
	s := newState()

	s.SetScale(true, 512, 384)

	enabled, client := s.Viewport()
	assert.True(t, enabled)
	assert.Equal(t, frame.Size{Width: 512, Height: 384}, client)

	// disabling keeps the last viewport
	s.SetScale(false, 0, 0)
	enabled, client = s.Viewport()
	assert.False(t, enabled)
	assert.Equal(t, frame.Size{Width: 512, Height: 384}, client)
}

func TestSetClientSize_RejectsNonPositive(t *testing.T) {
	s := newState()

	s.SetClientSize(0, 100)
	s.SetClientSize(100, -1)

	_, client := s.Viewport()
	assert.Equal(t, s.Desktop(), client)
}

func TestMapPointToDesktop_IdentityWhenInactive(t *testing.T) {
	s := newState()
	s.SetClientSize(512, 384)

	x, y := s.MapPointToDesktop(10, 20)
	assert.Equal(t, 10, x)
	assert.Equal(t, 20, y)
}

func TestMapPointToDesktop_UnscalesWhenActive(t *testing.T) {
	s := newState()
	s.SetScale(true, 512, 384)

	x, y := s.MapPointToDesktop(256, 192)
	assert.Equal(t, 512, x)
	assert.Equal(t, 384, y)
}

func TestClipboard_Lifecycle(t *testing.T) {
	s := newState()

	// fresh empty cache after construction
	text, stale := s.Clipboard()
	assert.Equal(t, "clipboard|", text)
	assert.False(t, stale)

	s.SetClipboard("copied\x00text")
	text, stale = s.Clipboard()
	assert.Equal(t, "clipboard|copiedtext", text, "NUL bytes stripped")
	assert.False(t, stale)

	s.ResetClipboard()
	text, stale = s.Clipboard()
	assert.Equal(t, "clipboard|", text)
	assert.True(t, stale)
}

func TestNextSequence_Concurrent(t *testing.T) {
	s := newState()

	const goroutines = 8
	const perGoroutine = 1000

	done := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		go func() {
			for j := 0; j < perGoroutine; j++ {
				s.NextSequence()
			}
			done <- struct{}{}
		}()
	}

	for i := 0; i < goroutines; i++ {
		<-done
	}

	require.Equal(t, int32(goroutines*perGoroutine+1), s.NextSequence())
}
