// Package normalize implements the image normalization pipeline used before
// uploading catalog media: a pure compression policy deciding whether a file
// is re-encoded at all, and a codec adapter performing the constrained-fit
// resize and re-encode.
package normalize

import "strings"

// Size and quality constants for the normalization pipeline.
const (
	// CompressThreshold is the file size at or below which no compression runs.
	CompressThreshold = 500 * 1024

	// JPEGQuality is the fixed encoding quality for lossy output.
	JPEGQuality = 90

	// MaxWidth and MaxHeight bound the resized image. Images already within
	// the box keep their dimensions.
	MaxWidth  = 2560
	MaxHeight = 1440
)

// MIME types handled by the pipeline.
const (
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
	MIMEWebP = "image/webp"
	MIMEGIF  = "image/gif"
	MIMESVG  = "image/svg+xml"
)

// noCompressCategories are destination category prefixes whose uploads are
// stored byte-for-byte. Hero imagery is uploaded at full fidelity because it
// is post-processed by the marketing pipeline downstream.
var noCompressCategories = []string{"hero"}

// rasterTypes is the allow-list of formats the codec can re-encode.
var rasterTypes = map[string]bool{
	MIMEJPEG: true,
	MIMEPNG:  true,
	MIMEWebP: true,
	MIMEGIF:  true,
}

// transparencyTypes are formats that may carry an alpha channel. They are
// re-encoded as PNG so transparency survives.
var transparencyTypes = map[string]bool{
	MIMEPNG:  true,
	MIMEWebP: true,
	MIMEGIF:  true,
}

// FileMeta describes a selected file. Policy decisions use metadata only,
// never the bytes.
type FileMeta struct {
	MIMEType string
	Size     int64
	Category string
}

// Decision is the outcome of the compression policy for one file.
type Decision struct {
	Compress bool
	// TargetFormat is the MIME type of the encoded output. Empty when
	// Compress is false (bytes pass through in their original format).
	TargetFormat string
	// Quality applies to lossy targets only; zero for lossless formats.
	Quality int
}

// Decide returns the compression decision for the given file metadata.
// It is deterministic and has no side effects.
func Decide(meta FileMeta) Decision {
	if isReservedCategory(meta.Category) {
		return Decision{}
	}
	mime := normalizeMIME(meta.MIMEType)
	if !rasterTypes[mime] {
		return Decision{}
	}
	if meta.Size <= CompressThreshold {
		return Decision{}
	}
	if transparencyTypes[mime] {
		return Decision{Compress: true, TargetFormat: MIMEPNG}
	}
	return Decision{Compress: true, TargetFormat: MIMEJPEG, Quality: JPEGQuality}
}

// isReservedCategory reports whether the destination category matches one of
// the no-compress tags exactly or by prefix ("hero", "hero-desktop", ...).
func isReservedCategory(category string) bool {
	c := strings.ToLower(strings.TrimSpace(category))
	for _, tag := range noCompressCategories {
		if c == tag || strings.HasPrefix(c, tag) {
			return true
		}
	}
	return false
}

// normalizeMIME lowercases and strips parameters such as "; charset=...".
func normalizeMIME(mime string) string {
	m := strings.ToLower(strings.TrimSpace(mime))
	if idx := strings.Index(m, ";"); idx > 0 {
		m = strings.TrimSpace(m[:idx])
	}
	return m
}

// ExtensionFor maps a pipeline MIME type to the file extension used when
// generating upload filenames.
func ExtensionFor(mime string) string {
	switch normalizeMIME(mime) {
	case MIMEJPEG:
		return "jpg"
	case MIMEPNG:
		return "png"
	case MIMEWebP:
		return "webp"
	case MIMEGIF:
		return "gif"
	case MIMESVG:
		return "svg"
	default:
		return "bin"
	}
}
