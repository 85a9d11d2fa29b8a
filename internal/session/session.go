package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/remotesession/gateway/internal/command"
	"github.com/remotesession/gateway/internal/encoder"
	"github.com/remotesession/gateway/internal/frame"
	"github.com/remotesession/gateway/internal/logging"
	"github.com/remotesession/gateway/internal/transport"
)

// handshake is the first control message on the outbound channel.
const handshake = "Hello server"

// reloadNotice asks the client to reload after a mode toggle.
const reloadNotice = "reload"

// Options configures a new session.
type Options struct {
	Desktop        frame.Size
	Mode           encoder.EncodingMode
	Quality        encoder.Quality
	Sampling       int
	Delimiter      byte
	ReadBufferSize int
}

// Session owns one remote session: the shared state, the frame encoder on
// the capture path and the command dispatcher on the read path. Both paths
// run for the session's lifetime; teardown is driven by the dispatcher's
// Stopped transition and channel closure.
type Session struct {
	ID uuid.UUID

	state      *State
	enc        *encoder.Encoder
	dispatcher *command.Dispatcher
	source     frame.Source
	injector   command.Injector
	channel    transport.Channel

	closeOnce sync.Once
}

// New wires a session over the given duplex channel and collaborators.
func New(channel transport.Channel, source frame.Source, injector command.Injector, connector command.Connector, opts Options) *Session {
	s := &Session{
		ID:       uuid.New(),
		source:   source,
		injector: injector,
		channel:  channel,
	}

	s.state = NewState(opts.Desktop, opts.Mode, opts.Quality, opts.Sampling)
	s.enc = encoder.New(s.state, encoder.NewSelector(), opts.Desktop, channel)

	parser := command.NewParser(opts.Delimiter)
	s.dispatcher = command.NewDispatcher(parser, channel, s.state, injector, connector, s, opts.ReadBufferSize)

	return s
}

// State exposes the shared session state.
func (s *Session) State() *State {
	return s.state
}

// Run performs the handshake and blocks on the command-read loop until the
// session stops. The channel is closed before Run returns.
func (s *Session) Run() error {
	logging.Info("session %s: started, desktop %dx%d", s.ID, s.state.desktop.Width, s.state.desktop.Height)

	if err := s.enc.SendMessage(handshake); err != nil {
		s.Close()
		return err
	}

	err := s.dispatcher.Run()
	s.Close()

	return err
}

// Close tears the session down: the channel closes, which unblocks both
// paths. Safe to call from any goroutine, once or many times.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		logging.Info("session %s: closed", s.ID)

		if err := s.channel.Close(); err != nil {
			logging.Debug("session %s: channel close: %v", s.ID, err)
		}
	})
}

// OnRegionUpdate is the capture path entry for an incremental region
// update. A transport failure tears the session down.
func (s *Session) OnRegionUpdate(r frame.Rect) {
	buf, err := s.source.CaptureRegion(r)
	if err != nil {
		logging.Debug("session %s: capture region: %v", s.ID, err)
		return
	}

	s.checkTransport(s.enc.EncodeRegion(buf))
}

// OnCursorChange is the capture path entry for a pointer image change.
func (s *Session) OnCursorChange() {
	buf, hotspot, err := s.source.CaptureCursor()
	if err != nil {
		logging.Debug("session %s: capture cursor: %v", s.ID, err)
		return
	}

	s.checkTransport(s.enc.EncodeCursor(buf, hotspot))
}

// OnClipboardChange caches new remote clipboard content and pushes it to
// the client as a control message.
func (s *Session) OnClipboardChange(text string) {
	s.state.SetClipboard(text)

	cached, _ := s.state.Clipboard()
	s.checkTransport(s.enc.SendMessage(cached))
}

// OnClipboardReset marks the clipboard cache stale after a remote change
// whose content has not been fetched yet.
func (s *Session) OnClipboardReset() {
	s.state.ResetClipboard()
}

// RequestFullscreen re-encodes the whole screen off the read loop.
func (s *Session) RequestFullscreen() {
	go s.sendFullscreen()
}

// NotifyReload pushes a reload notice off the read loop.
func (s *Session) NotifyReload() {
	go func() {
		s.checkTransport(s.enc.SendMessage(reloadNotice))
	}()
}

// RequestClipboard answers a client clipboard request: a fresh cache is
// sent directly, a stale one is refreshed through the injection
// collaborator, which calls OnClipboardChange when content arrives.
func (s *Session) RequestClipboard() {
	go func() {
		cached, stale := s.state.Clipboard()
		if stale {
			if err := s.injector.RequestClipboard(); err != nil {
				logging.Debug("session %s: clipboard request: %v", s.ID, err)
			}
			return
		}

		s.checkTransport(s.enc.SendMessage(cached))
	}()
}

func (s *Session) sendFullscreen() {
	buf, err := s.source.CaptureFullscreen()
	if err != nil {
		logging.Debug("session %s: capture fullscreen: %v", s.ID, err)
		return
	}

	s.checkTransport(s.enc.EncodeFullscreen(buf))
}

func (s *Session) checkTransport(err error) {
	if err != nil {
		logging.Error("session %s: %v", s.ID, err)
		s.Close()
	}
}
