package encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
)

// Selector picks a codec and quality for one frame. The codec bindings are
// plain function fields so tests can substitute counting or fixed-size
// encoders without touching the decision logic.
type Selector struct {
	PNG  func(w io.Writer, img image.Image) error
	JPEG func(w io.Writer, img image.Image, quality int) error
	WebP func(w io.Writer, img image.Image, quality int) error
}

// NewSelector returns a selector bound to the real codecs.
func NewSelector() *Selector {
	return &Selector{
		PNG: png.Encode,
		JPEG: func(w io.Writer, img image.Image, quality int) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
		},
		WebP: func(w io.Writer, img image.Image, quality int) error {
			return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
		},
	}
}

// Encode runs the decision table for one frame and returns the encoded
// payload, the chosen format and the effective quality.
//
// PNG is lossless, so whenever the PNG branch wins the effective quality is
// reported as Highest regardless of the requested value; a JPEG or WEBP win
// echoes the quality actually used. Fullscreen refreshes are infrequent and
// worth extra bytes, so lossy encodes are bumped to the Higher tier.
//
// A failed or empty encode returns an error; the caller drops the frame for
// this cycle and carries on.
func (s *Selector) Encode(img image.Image, mode EncodingMode, quality Quality, fullscreen bool) ([]byte, Format, Quality, error) {
	if fullscreen {
		quality = QualityHigher
	}

	switch mode {
	case ModePng:
		data, err := s.encodePNG(img)
		return data, FormatPng, QualityHighest, err

	case ModeJpeg:
		data, err := s.encodeLossy(s.JPEG, img, quality)
		return data, FormatJpeg, quality, err

	case ModeWebp:
		data, err := s.encodeLossy(s.WebP, img, quality)
		return data, FormatWebp, quality, err

	case ModeAuto:
		// Text-heavy content with a small palette compresses better as
		// PNG, photographic content as JPEG. Comparing actual encoded
		// sizes sidesteps any content heuristic.
		pngData, pngErr := s.encodePNG(img)
		jpegData, jpegErr := s.encodeLossy(s.JPEG, img, quality)

		switch {
		case pngErr != nil && jpegErr != nil:
			return nil, FormatPng, quality, fmt.Errorf("auto encode: %w", pngErr)
		case pngErr != nil:
			return jpegData, FormatJpeg, quality, nil
		case jpegErr != nil:
			return pngData, FormatPng, QualityHighest, nil
		case len(pngData) <= len(jpegData):
			return pngData, FormatPng, QualityHighest, nil
		default:
			return jpegData, FormatJpeg, quality, nil
		}

	default:
		return nil, FormatPng, quality, fmt.Errorf("unknown encoding mode %d", mode)
	}
}

func (s *Selector) encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.PNG(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("png encode: empty output")
	}

	return buf.Bytes(), nil
}

func (s *Selector) encodeLossy(encode func(io.Writer, image.Image, int) error, img image.Image, quality Quality) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, img, int(quality)); err != nil {
		return nil, fmt.Errorf("lossy encode: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("lossy encode: empty output")
	}

	return buf.Bytes(), nil
}
