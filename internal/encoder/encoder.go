package encoder

import (
	"fmt"
	"io"
	"sync"

	"github.com/remotesession/gateway/internal/frame"
	"github.com/remotesession/gateway/internal/logging"
	"github.com/remotesession/gateway/internal/wire"
)

// maxPayloadSize caps encoded images at 1 MiB. Anything larger would
// overload both the bandwidth and the browser; the frame is dropped and
// the next cycle tries again.
const maxPayloadSize = 1 << 20

// SessionState is the slice of shared session state the encoder reads.
// The command path mutates the same state concurrently; counters use
// atomic wrap semantics and the scalar settings tolerate a momentarily
// stale read, which self-heals on the next cycle.
type SessionState interface {
	// NextSequence returns the next image sequence id, wrapping to zero
	// on overflow.
	NextSequence() int32

	// NextRegionUpdate increments and returns the candidate region
	// update counter used by the sampling gate.
	NextRegionUpdate() int32

	// Encoding returns the current encoding mode and streaming quality.
	Encoding() (EncodingMode, Quality)

	// Sampling returns the configured sampling percentage.
	Sampling() int

	// Viewport returns whether display scaling is active and the client
	// viewport dimensions.
	Viewport() (enabled bool, size frame.Size)
}

// Encoder is the top-level entry point of the capture/encode path. It is
// invoked whenever the session signals a region update, a cursor change or
// a fullscreen refresh, and owns the outbound channel for the duration of
// each framed write.
type Encoder struct {
	state    SessionState
	selector *Selector
	desktop  frame.Size

	mu  sync.Mutex // serializes frame -> write so frames never interleave
	out io.Writer
}

// New returns an encoder writing framed updates to out.
func New(state SessionState, selector *Selector, desktop frame.Size, out io.Writer) *Encoder {
	return &Encoder{
		state:    state,
		selector: selector,
		desktop:  desktop,
		out:      out,
	}
}

// EncodeRegion processes one incremental region update. The region is
// validated against the desktop bounds, counted as a candidate, gated by
// the sampling rate, scaled to the client viewport when scaling is active,
// encoded and framed. A gated or failed cycle is not an error; only a
// transport failure propagates.
func (e *Encoder) EncodeRegion(buf *frame.Buffer) error {
	if !buf.Bounds().In(e.desktop) {
		logging.Debug("region %+v outside desktop %+v, discarded", buf.Bounds(), e.desktop)
		return nil
	}

	count := e.state.NextRegionUpdate()
	if !ShouldEncode(count, e.state.Sampling()) {
		return nil
	}

	return e.encode(buf, false)
}

// EncodeFullscreen processes a full-screen refresh. Fullscreen updates are
// exempt from the sampling gate and encoded at the Higher quality tier.
func (e *Encoder) EncodeFullscreen(buf *frame.Buffer) error {
	return e.encode(buf, true)
}

// EncodeCursor processes a pointer image change. Cursor payloads are
// always PNG at Highest quality; the frame position carries the hotspot.
// A cursor with no opaque pixel is suppressed.
func (e *Encoder) EncodeCursor(buf *frame.Buffer, hotspot frame.Point) error {
	if !buf.Opaque() {
		logging.Debug("cursor update fully transparent, suppressed")
		return nil
	}

	data, err := e.selector.encodePNG(buf.Image())
	if err != nil {
		logging.Debug("cursor encode dropped: %v", err)
		return nil
	}
	if len(data) > maxPayloadSize {
		logging.Debug("cursor payload %d bytes over cap, dropped", len(data))
		return nil
	}

	seq := e.state.NextSequence()
	return e.write(wire.FrameImage(seq, hotspot.X, hotspot.Y, buf.Width, buf.Height,
		int(FormatCursor), int(QualityHighest), false, data))
}

// SendMessage frames a textual control message on the outbound channel,
// sharing the write lock with image frames.
func (e *Encoder) SendMessage(text string) error {
	return e.write(wire.FrameMessage(text))
}

func (e *Encoder) encode(buf *frame.Buffer, fullscreen bool) error {
	rect := buf.Bounds()
	img := buf.Image()

	if enabled, client := e.state.Viewport(); enabled && client != e.desktop && client.Width > 0 && client.Height > 0 {
		rect = ScaleRect(rect, e.desktop, client)
		img = ScaleImage(img, rect.Width(), rect.Height())
	}

	mode, quality := e.state.Encoding()

	data, format, effective, err := e.selector.Encode(img, mode, quality, fullscreen)
	if err != nil {
		// EncodeFailure is recovered locally: drop the frame, keep going.
		logging.Debug("encode dropped: %v", err)
		return nil
	}
	if len(data) == 0 || len(data) > maxPayloadSize {
		logging.Debug("payload %d bytes out of bounds, dropped", len(data))
		return nil
	}

	seq := e.state.NextSequence()

	return e.write(wire.FrameImage(seq, rect.Left, rect.Top, rect.Width(), rect.Height(),
		int(format), int(effective), fullscreen, data))
}

func (e *Encoder) write(framed []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.out.Write(framed); err != nil {
		return fmt.Errorf("outbound write: %w", err)
	}

	return nil
}
