// Package encoder implements the adaptive screen-update encoding pipeline:
// a sampling gate, viewport scaling, codec selection and the top-level
// frame encoder that feeds the outbound channel.
package encoder

// EncodingMode selects which codec family the pipeline runs. The numeric
// values are the wire indices carried by the ECD command and must not be
// reordered.
type EncodingMode int

const (
	ModePng  EncodingMode = 0
	ModeJpeg EncodingMode = 1
	ModeAuto EncodingMode = 2 // dual PNG+JPEG encode, smallest wins
	ModeWebp EncodingMode = 3
)

// Valid reports whether the mode is one of the selectable encodings.
func (m EncodingMode) Valid() bool {
	return m >= ModePng && m <= ModeWebp
}

func (m EncodingMode) String() string {
	switch m {
	case ModePng:
		return "png"
	case ModeJpeg:
		return "jpeg"
	case ModeAuto:
		return "auto"
	case ModeWebp:
		return "webp"
	default:
		return "unknown"
	}
}

// Format identifies the payload of an emitted image frame. Cursor is a
// format rather than a selectable encoding: cursor payloads are always PNG
// but the client renders them differently.
type Format int

const (
	FormatCursor Format = 0
	FormatPng    Format = 1
	FormatJpeg   Format = 2
	FormatWebp   Format = 3
)

func (f Format) String() string {
	switch f {
	case FormatCursor:
		return "cursor"
	case FormatPng:
		return "png"
	case FormatJpeg:
		return "jpeg"
	case FormatWebp:
		return "webp"
	default:
		return "unknown"
	}
}

// Quality is a 0-100 encode quality. The named tiers are conventions used
// by the adaptive logic; any value in range is valid.
type Quality int

const (
	QualityLow     Quality = 10
	QualityMedium  Quality = 25
	QualityHigh    Quality = 50 // default streaming quality
	QualityHigher  Quality = 75 // used for fullscreen updates
	QualityHighest Quality = 100
)

// Valid reports whether the quality lies in the accepted range.
func (q Quality) Valid() bool {
	return q >= 0 && q <= 100
}
