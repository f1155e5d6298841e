package validator

import (
	"errors"
	"net/http"
	"strings"
)

// MaxUploadSize is the hard cap for a single media upload.
const MaxUploadSize = 50 * 1024 * 1024 // 50MB

// DefaultAllowedMimeTypes is the image whitelist for catalog media uploads.
var DefaultAllowedMimeTypes = map[string]bool{
	"image/jpeg":               true,
	"image/png":                true,
	"image/gif":                true,
	"image/webp":               true,
	"image/svg+xml":            true,
	"image/bmp":                true,
	"image/x-ms-bmp":           true,
	"image/tiff":               true,
	"image/x-icon":             true,
	"image/vnd.microsoft.icon": true,
	"image/heic":               true,
	"image/heif":               true,
}

// UploadConfig defines constraints for media uploads.
type UploadConfig struct {
	MaxFileSize      int64
	AllowedMimeTypes map[string]bool
}

// DefaultUploadConfig returns the default upload configuration.
func DefaultUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSize:      MaxUploadSize,
		AllowedMimeTypes: DefaultAllowedMimeTypes,
	}
}

// FromAllowedTypes builds an UploadConfig from a configured list.
func FromAllowedTypes(maxSize int64, types []string) *UploadConfig {
	if maxSize <= 0 {
		maxSize = MaxUploadSize
	}
	if len(types) == 0 {
		return &UploadConfig{MaxFileSize: maxSize, AllowedMimeTypes: DefaultAllowedMimeTypes}
	}
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return &UploadConfig{MaxFileSize: maxSize, AllowedMimeTypes: allowed}
}

// ValidateFileSize checks if the file size is within the allowed limit.
func (c *UploadConfig) ValidateFileSize(size int64) error {
	if size <= 0 {
		return errors.New("file is empty")
	}
	if size > c.MaxFileSize {
		return errors.New("file too large")
	}
	return nil
}

// ValidateMimeType checks if the MIME type is in the allowed whitelist.
func (c *UploadConfig) ValidateMimeType(mimeType string) error {
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	if normalized == "" {
		return errors.New("missing content type")
	}
	// Handle MIME types with parameters (e.g., "image/svg+xml; charset=utf-8")
	if idx := strings.Index(normalized, ";"); idx > 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	if !c.AllowedMimeTypes[normalized] {
		return errors.New("unsupported file type")
	}
	return nil
}

// DetectMimeType sniffs the MIME type from content, preferring the declared
// type for formats the sniffer cannot identify (SVG reads as XML).
func DetectMimeType(data []byte, declaredType string) string {
	detected := http.DetectContentType(data)
	if idx := strings.Index(detected, ";"); idx > 0 {
		detected = strings.TrimSpace(detected[:idx])
	}
	if strings.HasPrefix(detected, "image/") {
		return detected
	}
	declared := strings.ToLower(strings.TrimSpace(declaredType))
	if idx := strings.Index(declared, ";"); idx > 0 {
		declared = strings.TrimSpace(declared[:idx])
	}
	if declared != "" {
		return declared
	}
	return detected
}

// Validate performs full validation on an upload.
func (c *UploadConfig) Validate(size int64, mimeType string, data []byte) error {
	if err := c.ValidateFileSize(size); err != nil {
		return err
	}
	return c.ValidateMimeType(DetectMimeType(data, mimeType))
}
