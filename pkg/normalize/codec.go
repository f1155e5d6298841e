package normalize

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// DecodeError reports that the input bytes are not a decodable raster image.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode image: %v", e.Cause) }
func (e *DecodeError) Unwrap() error { return e.Cause }

// EncodeError reports that encoding to the target format failed.
type EncodeError struct {
	Format string
	Cause  error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("encode %s: %v", e.Format, e.Cause) }
func (e *EncodeError) Unwrap() error { return e.Cause }

// Transcode decodes src, shrinks it to fit within maxWidth x maxHeight while
// preserving aspect ratio, and re-encodes it to targetFormat. Images already
// inside the box keep their dimensions; upscaling never happens. quality is
// used for lossy targets only. The input slice is never mutated.
func Transcode(src []byte, maxWidth, maxHeight, quality int, targetFormat string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, &DecodeError{Cause: err}
	}

	bounds := img.Bounds()
	w, h := FitDimensions(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)
	if w != bounds.Dx() || h != bounds.Dy() {
		// imaging draws onto a zeroed NRGBA surface, so transparency is
		// carried through untouched for PNG output.
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	switch normalizeMIME(targetFormat) {
	case MIMEPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, &EncodeError{Format: MIMEPNG, Cause: err}
		}
	case MIMEJPEG:
		if quality <= 0 || quality > 100 {
			quality = JPEGQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, &EncodeError{Format: MIMEJPEG, Cause: err}
		}
	default:
		return nil, &EncodeError{Format: targetFormat, Cause: fmt.Errorf("unsupported target format")}
	}

	return buf.Bytes(), nil
}

// FitDimensions computes shrink-only dimensions that fit within the
// maxWidth x maxHeight box. The clamp runs per axis in sequence: width
// first with height recomputed, then height with width recomputed, so the
// result satisfies both bounds.
func FitDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}
	w, h := width, height
	if w > maxWidth {
		h = int(float64(h) * float64(maxWidth) / float64(w))
		w = maxWidth
	}
	if h > maxHeight {
		w = int(float64(w) * float64(maxHeight) / float64(h))
		h = maxHeight
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// ProbeDimensions returns the pixel dimensions of an encoded image without
// decoding the full frame. Returns zeros when the bytes are not an image.
func ProbeDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
