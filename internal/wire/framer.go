// Package wire serializes outbound traffic into the gateway's binary frame
// format. Two envelopes exist: image frames with a fixed little-endian
// metadata header, and short length-prefixed UTF-8 control messages. All
// integers are 4-byte little-endian; field order and widths are a wire
// compatibility contract with the browser-facing consumer.
package wire

import (
	"encoding/binary"
)

// Image frame layout, all fields 4-byte little-endian:
//
//	[ totalLength ][ tag ][ sequence ][ x ][ y ][ width ][ height ]
//	[ format ][ quality ][ fullscreen ][ payload ... ]
//
// totalLength counts everything after itself: the nine remaining header
// fields (36 bytes) plus the payload. Receivers peek it to size their read
// buffer before consuming the rest of the frame.
const (
	// MetadataLen is the byte length of the header fields covered by
	// totalLength; the payload length is totalLength - MetadataLen.
	MetadataLen = 36

	// MessageHeaderLen is the byte length of the control message header.
	MessageHeaderLen = 4

	// imageTag marks an image frame; other tag values are reserved.
	imageTag = 0
)

// Header field offsets within an image frame.
const (
	offTotalLength = 0
	offTag         = 4
	offSequence    = 8
	offX           = 12
	offY           = 16
	offWidth       = 20
	offHeight      = 24
	offFormat      = 28
	offQuality     = 32
	offFullscreen  = 36
	headerEnd      = 40
)

// FrameImage packs one encoded image and its metadata into an outbound
// frame. totalLength is written before any other field.
func FrameImage(sequence int32, x, y, width, height int, format, quality int, fullscreen bool, payload []byte) []byte {
	buf := make([]byte, headerEnd+len(payload))

	binary.LittleEndian.PutUint32(buf[offTotalLength:], uint32(MetadataLen+len(payload)))
	binary.LittleEndian.PutUint32(buf[offTag:], imageTag)
	binary.LittleEndian.PutUint32(buf[offSequence:], uint32(sequence))
	binary.LittleEndian.PutUint32(buf[offX:], uint32(x))
	binary.LittleEndian.PutUint32(buf[offY:], uint32(y))
	binary.LittleEndian.PutUint32(buf[offWidth:], uint32(width))
	binary.LittleEndian.PutUint32(buf[offHeight:], uint32(height))
	binary.LittleEndian.PutUint32(buf[offFormat:], uint32(format))
	binary.LittleEndian.PutUint32(buf[offQuality:], uint32(quality))

	if fullscreen {
		binary.LittleEndian.PutUint32(buf[offFullscreen:], 1)
	}

	copy(buf[headerEnd:], payload)

	return buf
}

// FrameMessage packs a textual control message: a 4-byte little-endian
// length followed by the UTF-8 bytes. Control messages carry no image
// metadata; receivers distinguish them from image frames through protocol
// context, not an in-band discriminator.
func FrameMessage(text string) []byte {
	buf := make([]byte, MessageHeaderLen+len(text))

	binary.LittleEndian.PutUint32(buf, uint32(len(text)))
	copy(buf[MessageHeaderLen:], text)

	return buf
}
