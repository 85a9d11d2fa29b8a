// Package command implements the inbound textual command protocol: a
// delimiter-split token stream where each token starts with a 3-character
// uppercase prefix, plus the dispatcher that applies parsed commands to the
// session.
package command

// Type enumerates the closed set of inbound commands.
type Type int

const (
	TypeUnknown Type = iota

	// connection settings
	TypeSetServer
	TypeSetVMGuid
	TypeSetDomain
	TypeSetUsername
	TypeSetPassword
	TypeSetProgram
	TypeConnect

	// browser / display
	TypeBrowserResize
	TypeScaleDisplay

	// keyboard
	TypeKeyUnicode
	TypeKeyScancode

	// mouse
	TypeMouseMove
	TypeMouseLeft
	TypeMouseMiddle
	TypeMouseRight
	TypeWheelUp
	TypeWheelDown

	// client mode toggles, each triggers a reload notice
	TypeToggleStat
	TypeToggleDebug
	TypeToggleCompat

	// encoding tuning
	TypeSetEncoding
	TypeSetQuality
	TypeSetSampling

	// session control
	TypeFullscreenUpdate
	TypeRequestClipboard
	TypeClose
)

// prefixLen is the fixed width of a command prefix.
const prefixLen = 3

// prefixes is the closed prefix table, built once and never mutated. The
// entries are a wire compatibility contract with the browser gateway.
var prefixes = map[string]Type{
	"SRV": TypeSetServer,
	"VMG": TypeSetVMGuid,
	"DOM": TypeSetDomain,
	"USR": TypeSetUsername,
	"PWD": TypeSetPassword,
	"PRG": TypeSetProgram,
	"CON": TypeConnect,
	"RSZ": TypeBrowserResize,
	"SCA": TypeScaleDisplay,
	"KUC": TypeKeyUnicode,
	"KSC": TypeKeyScancode,
	"MMO": TypeMouseMove,
	"MLB": TypeMouseLeft,
	"MMB": TypeMouseMiddle,
	"MRB": TypeMouseRight,
	"MWU": TypeWheelUp,
	"MWD": TypeWheelDown,
	"STA": TypeToggleStat,
	"DBG": TypeToggleDebug,
	"CMP": TypeToggleCompat,
	"ECD": TypeSetEncoding,
	"QLT": TypeSetQuality,
	"QNT": TypeSetSampling,
	"FSU": TypeFullscreenUpdate,
	"CLP": TypeRequestClipboard,
	"CLO": TypeClose,
}

// Command is one parsed inbound operation. The argument stays an opaque
// string until dispatch; malformed arguments are skipped there, not here.
type Command struct {
	Type Type
	Arg  string
}

// String renders the command for logging. Password arguments are redacted:
// log output can end up on a collaborator boundary outside our control.
func (c Command) String() string {
	for prefix, t := range prefixes {
		if t != c.Type {
			continue
		}
		if c.Type == TypeSetPassword {
			return prefix + "<redacted>"
		}
		return prefix + c.Arg
	}

	return "???"
}
