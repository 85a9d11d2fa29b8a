package command

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/remotesession/gateway/internal/logging"
)

// State is the dispatcher lifecycle state.
type State int32

const (
	// Running is the initial state: the read loop is draining the
	// inbound channel.
	Running State = iota

	// Stopped is terminal. Entered on an explicit close command or on an
	// inbound read failure; a new session needs a new dispatcher.
	Stopped
)

// MouseButton identifies a pointer button for the injection collaborator.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonMiddle
	MouseButtonRight
)

// Settings is the mutable session state the dispatcher writes. The encode
// path reads the same state concurrently under the session's relaxed
// consistency policy.
type Settings interface {
	// SetEncoding switches the codec family and resets quality to the
	// default tier: prior tuning was calibrated per codec.
	SetEncoding(mode int)

	// SetQuality sets the streaming quality, 0-100.
	SetQuality(quality int)

	// SetSampling sets the region sampling percentage.
	SetSampling(rate int)

	// SetScale toggles display scaling; width/height update the client
	// viewport when non-zero.
	SetScale(enabled bool, width, height int)

	// SetClientSize records the browser viewport dimensions.
	SetClientSize(width, height int)

	// MapPointToDesktop inverse-maps a client pointer position to
	// desktop coordinates when scaling is active.
	MapPointToDesktop(x, y int) (int, int)
}

// Injector delivers keyboard, mouse and clipboard requests into the remote
// session.
type Injector interface {
	SendKeyUnicode(code int, pressed bool) error
	SendKeyScancode(code int, pressed bool) error
	SendMouseMove(x, y int) error
	SendMouseButton(button MouseButton, pressed bool, x, y int) error
	SendWheel(up bool, x, y int) error
	RequestClipboard() error
}

// Connector accumulates pending connection settings and opens the session
// when asked.
type Connector interface {
	SetServer(hostport string)
	SetVMGuid(guid string)
	SetDomain(domain string)
	SetUsername(username string)
	SetPassword(password string)
	SetStartProgram(program string)
	Connect() error
}

// Trigger spawns side effects heavier than a struct mutation. Every
// implementation must return promptly so the read loop keeps draining the
// inbound channel.
type Trigger interface {
	RequestFullscreen()
	NotifyReload()
	RequestClipboard()
}

// Dispatcher runs the command-read path: a loop blocking on the inbound
// channel, parsing each buffer and applying commands to the session.
type Dispatcher struct {
	parser    *Parser
	in        io.Reader
	settings  Settings
	injector  Injector
	connector Connector
	trigger   Trigger

	readBufSize int
	state       atomic.Int32
}

// NewDispatcher wires a dispatcher to its collaborators. readBufSize
// bounds a single inbound read.
func NewDispatcher(parser *Parser, in io.Reader, settings Settings, injector Injector, connector Connector, trigger Trigger, readBufSize int) *Dispatcher {
	return &Dispatcher{
		parser:      parser,
		in:          in,
		settings:    settings,
		injector:    injector,
		connector:   connector,
		trigger:     trigger,
		readBufSize: readBufSize,
	}
}

// State returns the current lifecycle state.
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

func (d *Dispatcher) stop() {
	d.state.Store(int32(Stopped))
}

// Run drains the inbound channel until the dispatcher stops. A close
// command returns nil; a channel read failure is fatal for the session and
// returns the wrapped error. Either way the dispatcher ends Stopped and
// never restarts.
func (d *Dispatcher) Run() error {
	buf := make([]byte, d.readBufSize)

	for d.State() == Running {
		n, err := d.in.Read(buf)
		if err != nil {
			d.stop()
			return fmt.Errorf("inbound read: %w", err)
		}

		for _, cmd := range d.parser.Parse(buf[:n]) {
			if d.State() == Stopped {
				// A close command discards the rest of the buffer.
				break
			}

			d.Dispatch(cmd)
		}
	}

	return nil
}

// Dispatch applies a single command. Malformed arguments skip the command;
// parsing continues with the next token.
func (d *Dispatcher) Dispatch(cmd Command) {
	logging.Debug("command %s", cmd)

	switch cmd.Type {
	case TypeSetServer:
		d.connector.SetServer(cmd.Arg)
	case TypeSetVMGuid:
		d.connector.SetVMGuid(cmd.Arg)
	case TypeSetDomain:
		d.connector.SetDomain(cmd.Arg)
	case TypeSetUsername:
		d.connector.SetUsername(cmd.Arg)
	case TypeSetPassword:
		d.connector.SetPassword(cmd.Arg)
	case TypeSetProgram:
		d.connector.SetStartProgram(cmd.Arg)

	case TypeConnect:
		if err := d.connector.Connect(); err != nil {
			logging.Error("connect: %v", err)
		}

	case TypeBrowserResize:
		if w, h, ok := parseDims(cmd.Arg); ok {
			d.settings.SetClientSize(w, h)
		}

	case TypeScaleDisplay:
		d.dispatchScale(cmd.Arg)

	case TypeKeyUnicode:
		if code, pressed, ok := parseKey(cmd.Arg); ok {
			d.inject(d.injector.SendKeyUnicode(code, pressed))
		}
	case TypeKeyScancode:
		if code, pressed, ok := parseKey(cmd.Arg); ok {
			d.inject(d.injector.SendKeyScancode(code, pressed))
		}

	case TypeMouseMove:
		if x, y, ok := parseXY(cmd.Arg); ok {
			x, y = d.settings.MapPointToDesktop(x, y)
			d.inject(d.injector.SendMouseMove(x, y))
		}
	case TypeMouseLeft:
		d.dispatchButton(MouseButtonLeft, cmd.Arg)
	case TypeMouseMiddle:
		d.dispatchButton(MouseButtonMiddle, cmd.Arg)
	case TypeMouseRight:
		d.dispatchButton(MouseButtonRight, cmd.Arg)

	case TypeWheelUp:
		d.dispatchWheel(true, cmd.Arg)
	case TypeWheelDown:
		d.dispatchWheel(false, cmd.Arg)

	case TypeToggleStat, TypeToggleDebug, TypeToggleCompat:
		d.trigger.NotifyReload()

	case TypeSetEncoding:
		if mode, err := strconv.Atoi(cmd.Arg); err == nil {
			d.settings.SetEncoding(mode)
		}
	case TypeSetQuality:
		if q, err := strconv.Atoi(cmd.Arg); err == nil && q >= 0 && q <= 100 {
			d.settings.SetQuality(q)
		}
	case TypeSetSampling:
		if rate, err := strconv.Atoi(cmd.Arg); err == nil {
			d.settings.SetSampling(rate)
		}

	case TypeFullscreenUpdate:
		d.trigger.RequestFullscreen()
	case TypeRequestClipboard:
		d.trigger.RequestClipboard()

	case TypeClose:
		d.stop()
	}
}

func (d *Dispatcher) dispatchScale(arg string) {
	if arg == "" {
		return
	}

	enabled := arg[0] == '1'
	w, h := 0, 0
	if rest := arg[1:]; rest != "" {
		var ok bool
		if w, h, ok = parseDims(rest); !ok {
			return
		}
	}

	d.settings.SetScale(enabled, w, h)
}

func (d *Dispatcher) dispatchButton(button MouseButton, arg string) {
	if arg == "" {
		return
	}

	pressed := arg[0] == '1'
	x, y, ok := parseXY(arg[1:])
	if !ok {
		return
	}

	x, y = d.settings.MapPointToDesktop(x, y)
	d.inject(d.injector.SendMouseButton(button, pressed, x, y))
}

func (d *Dispatcher) dispatchWheel(up bool, arg string) {
	x, y, ok := parseXY(arg)
	if !ok {
		return
	}

	x, y = d.settings.MapPointToDesktop(x, y)
	d.inject(d.injector.SendWheel(up, x, y))
}

func (d *Dispatcher) inject(err error) {
	if err != nil {
		logging.Error("inject: %v", err)
	}
}

// parseXY decodes "x-y" with non-negative coordinates.
func parseXY(arg string) (int, int, bool) {
	return parsePair(arg, "-")
}

// parseDims decodes "WxH".
func parseDims(arg string) (int, int, bool) {
	return parsePair(arg, "x")
}

func parsePair(arg, sep string) (int, int, bool) {
	first, second, found := strings.Cut(arg, sep)
	if !found {
		return 0, 0, false
	}

	a, err := strconv.Atoi(first)
	if err != nil || a < 0 {
		return 0, 0, false
	}

	b, err := strconv.Atoi(second)
	if err != nil || b < 0 {
		return 0, 0, false
	}

	return a, b, true
}

// parseKey decodes "code-pressed" where pressed is 0 or 1.
func parseKey(arg string) (int, bool, bool) {
	codeStr, pressedStr, found := strings.Cut(arg, "-")
	if !found {
		return 0, false, false
	}

	code, err := strconv.Atoi(codeStr)
	if err != nil || code < 0 {
		return 0, false, false
	}

	switch pressedStr {
	case "0":
		return code, false, true
	case "1":
		return code, true, true
	default:
		return 0, false, false
	}
}
