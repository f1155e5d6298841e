package validator

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestValidateFileSize(t *testing.T) {
	cfg := DefaultUploadConfig()

	if err := cfg.ValidateFileSize(1024); err != nil {
		t.Errorf("1KB should pass: %v", err)
	}
	if err := cfg.ValidateFileSize(MaxUploadSize); err != nil {
		t.Errorf("exact cap should pass: %v", err)
	}
	if err := cfg.ValidateFileSize(MaxUploadSize + 1); err == nil {
		t.Errorf("over cap should fail")
	}
	if err := cfg.ValidateFileSize(0); err == nil {
		t.Errorf("empty file should fail")
	}
}

func TestValidateMimeType(t *testing.T) {
	cfg := DefaultUploadConfig()

	for _, mime := range []string{"image/jpeg", "image/png", "IMAGE/WEBP", "image/svg+xml; charset=utf-8"} {
		if err := cfg.ValidateMimeType(mime); err != nil {
			t.Errorf("%s should be allowed: %v", mime, err)
		}
	}
	for _, mime := range []string{"application/pdf", "text/html", "video/mp4", ""} {
		if err := cfg.ValidateMimeType(mime); err == nil {
			t.Errorf("%s should be rejected", mime)
		}
	}
}

func TestDetectMimeType(t *testing.T) {
	pngData := encodePNG(t)

	// Sniffed image types win over whatever the client declared.
	if got := DetectMimeType(pngData, "application/octet-stream"); got != "image/png" {
		t.Errorf("DetectMimeType = %q", got)
	}
	// SVG sniffs as XML, so the declared type is trusted.
	if got := DetectMimeType([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), "image/svg+xml"); got != "image/svg+xml" {
		t.Errorf("DetectMimeType svg = %q", got)
	}
	if got := DetectMimeType([]byte("plain text"), ""); got != "text/plain" {
		t.Errorf("DetectMimeType plain = %q", got)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultUploadConfig()
	pngData := encodePNG(t)

	if err := cfg.Validate(int64(len(pngData)), "image/png", pngData); err != nil {
		t.Errorf("valid png rejected: %v", err)
	}
	if err := cfg.Validate(10, "application/pdf", []byte("%PDF-1.4")); err == nil {
		t.Errorf("pdf payload should fail")
	}
	if err := cfg.Validate(int64(len(pngData))+MaxUploadSize, "image/png", pngData); err == nil {
		t.Errorf("oversized upload should fail")
	}
}

func TestFromAllowedTypes(t *testing.T) {
	cfg := FromAllowedTypes(1024, []string{" Image/PNG ", "image/jpeg"})
	if cfg.MaxFileSize != 1024 {
		t.Errorf("max size = %d", cfg.MaxFileSize)
	}
	if err := cfg.ValidateMimeType("image/png"); err != nil {
		t.Errorf("configured type rejected: %v", err)
	}
	if err := cfg.ValidateMimeType("image/webp"); err == nil {
		t.Errorf("unconfigured type accepted")
	}

	cfg = FromAllowedTypes(0, nil)
	if cfg.MaxFileSize != MaxUploadSize {
		t.Errorf("default max size = %d", cfg.MaxFileSize)
	}
	if err := cfg.ValidateMimeType("image/webp"); err != nil {
		t.Errorf("default whitelist should allow webp: %v", err)
	}
}
