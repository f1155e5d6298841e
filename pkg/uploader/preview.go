package uploader

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// ReadError reports that a selected file could not be read as an image.
type ReadError struct {
	Cause error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read file: %v", e.Cause) }
func (e *ReadError) Unwrap() error { return e.Cause }

// Preview encodes the raw file into a base64 data URL for immediate local
// display. It never touches the network, so the preview is available before
// the upload starts. mimeType may be empty, in which case it is sniffed from
// the bytes; SVG sources must declare their type since content sniffing
// reports them as XML. Non-image bytes yield a ReadError.
func Preview(data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", &ReadError{Cause: fmt.Errorf("empty file")}
	}
	mime := strings.TrimSpace(strings.ToLower(mimeType))
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", &ReadError{Cause: fmt.Errorf("not an image: %s", mime)}
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
