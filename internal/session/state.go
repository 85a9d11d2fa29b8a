// Package session ties the two concurrent paths of one remote session
// together: the shared mutable state, the capture/encode entry points and
// the command-read loop, plus teardown.
package session

import (
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/remotesession/gateway/internal/encoder"
	"github.com/remotesession/gateway/internal/frame"
)

// clipboardPrefix tags clipboard control messages on the outbound channel.
const clipboardPrefix = "clipboard|"

// State is the session state shared between the capture/encode path and
// the command-read path.
//
// The two counters use atomic increment-and-wrap; the scalar settings sit
// behind one coarse RWMutex. A read that momentarily observes a stale
// setting is acceptable and self-heals on the next cycle.
type State struct {
	desktop frame.Size

	imageSequence     atomic.Int32
	regionUpdateCount atomic.Int32

	mu           sync.RWMutex
	mode         encoder.EncodingMode
	quality      encoder.Quality
	sampling     int
	scaleEnabled bool
	client       frame.Size

	clipMu         sync.Mutex
	clipboardText  string
	clipboardStale bool
}

// NewState returns session state with the given desktop size and encoding
// defaults. The client viewport starts equal to the desktop.
func NewState(desktop frame.Size, mode encoder.EncodingMode, quality encoder.Quality, sampling int) *State {
	return &State{
		desktop:       desktop,
		mode:          mode,
		quality:       quality,
		sampling:      sampling,
		client:        desktop,
		clipboardText: clipboardPrefix,
	}
}

// Desktop returns the session desktop size.
func (s *State) Desktop() frame.Size {
	return s.desktop
}

// NextSequence returns the next image sequence id. The counter wraps to
// zero on overflow so an id is never skipped or duplicated at the
// boundary.
func (s *State) NextSequence() int32 {
	return nextWrapped(&s.imageSequence)
}

// NextRegionUpdate increments the candidate region update counter, wrapping
// to zero on overflow. The wrap lands on a value the sampling gate always
// accepts, so no update starves at the boundary.
func (s *State) NextRegionUpdate() int32 {
	return nextWrapped(&s.regionUpdateCount)
}

func nextWrapped(counter *atomic.Int32) int32 {
	for {
		cur := counter.Load()
		next := cur + 1
		if cur == math.MaxInt32 {
			next = 0
		}

		if counter.CompareAndSwap(cur, next) {
			return next
		}
	}
}

// Encoding returns the current encoding mode and streaming quality.
func (s *State) Encoding() (encoder.EncodingMode, encoder.Quality) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode, s.quality
}

// SetEncoding switches the codec family and resets quality to the default
// tier; per-codec quality tuning does not survive a codec switch. Unknown
// mode indices are ignored.
func (s *State) SetEncoding(mode int) {
	m := encoder.EncodingMode(mode)
	if !m.Valid() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	s.quality = encoder.QualityHigh
}

// SetQuality sets the streaming quality.
func (s *State) SetQuality(quality int) {
	q := encoder.Quality(quality)
	if !q.Valid() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.quality = q
}

// Sampling returns the configured sampling percentage.
func (s *State) Sampling() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sampling
}

// SetSampling stores the sampling percentage. Out-of-table values are kept
// as-is; the gate treats them as "always encode".
func (s *State) SetSampling(rate int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sampling = rate
}

// Viewport returns whether scaling is active and the client viewport size.
func (s *State) Viewport() (bool, frame.Size) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scaleEnabled, s.client
}

// SetScale toggles display scaling; non-zero dimensions also update the
// client viewport.
func (s *State) SetScale(enabled bool, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scaleEnabled = enabled
	if width > 0 && height > 0 {
		s.client = frame.Size{Width: width, Height: height}
	}
}

// SetClientSize records the browser viewport dimensions.
func (s *State) SetClientSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = frame.Size{Width: width, Height: height}
}

// MapPointToDesktop inverse-maps a client pointer position to desktop
// coordinates. Identity when scaling is inactive or the viewport matches
// the desktop.
func (s *State) MapPointToDesktop(x, y int) (int, int) {
	enabled, client := s.Viewport()
	if !enabled || client == s.desktop {
		return x, y
	}

	p := encoder.UnscalePoint(frame.Point{X: x, Y: y}, s.desktop, client)
	return p.X, p.Y
}

// SetClipboard caches remote clipboard text, dropping NUL bytes, and marks
// the cache fresh.
func (s *State) SetClipboard(text string) {
	s.clipMu.Lock()
	defer s.clipMu.Unlock()
	s.clipboardText = clipboardPrefix + strings.ReplaceAll(text, "\x00", "")
	s.clipboardStale = false
}

// ResetClipboard empties the cache and marks it stale: the remote
// clipboard changed and its content has not been fetched yet.
func (s *State) ResetClipboard() {
	s.clipMu.Lock()
	defer s.clipMu.Unlock()
	s.clipboardText = clipboardPrefix
	s.clipboardStale = true
}

// Clipboard returns the cached clipboard message and whether it is stale.
func (s *State) Clipboard() (string, bool) {
	s.clipMu.Lock()
	defer s.clipMu.Unlock()
	return s.clipboardText, s.clipboardStale
}
