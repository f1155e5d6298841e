// Package static embeds assets served directly by the bridge, such as the
// placeholder image returned for empty asset references.
package static

import (
	"embed"
	"io/fs"
)

//go:embed all:web
var webFS embed.FS

// WebFS returns the embedded static file tree.
func WebFS() (fs.FS, error) {
	return fs.Sub(webFS, "web")
}

// Placeholder returns the bytes of the placeholder image served when an
// asset reference is empty.
func Placeholder() ([]byte, error) {
	return webFS.ReadFile("web/placeholder.svg")
}
