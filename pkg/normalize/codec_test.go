package normalize

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestFitDimensions(t *testing.T) {
	cases := []struct {
		w, h, maxW, maxH, wantW, wantH int
	}{
		{800, 600, 2560, 1440, 800, 600},     // inside the box: no-op
		{2560, 1440, 2560, 1440, 2560, 1440}, // exactly the box
		{4000, 3000, 2560, 1440, 1920, 1440}, // width clamp then height clamp
		{5000, 1000, 2560, 1440, 2560, 512},  // width clamp only
		{1000, 2880, 2560, 1440, 500, 1440},  // height clamp only
	}
	for _, tc := range cases {
		w, h := FitDimensions(tc.w, tc.h, tc.maxW, tc.maxH)
		if w != tc.wantW || h != tc.wantH {
			t.Fatalf("FitDimensions(%d,%d,%d,%d) = %dx%d, want %dx%d",
				tc.w, tc.h, tc.maxW, tc.maxH, w, h, tc.wantW, tc.wantH)
		}
		if w > tc.maxW || h > tc.maxH {
			t.Fatalf("result %dx%d exceeds box %dx%d", w, h, tc.maxW, tc.maxH)
		}
	}
}

func TestTranscodeNoResizeInsideBox(t *testing.T) {
	src := encodeJPEG(t, image.NewRGBA(image.Rect(0, 0, 640, 480)))

	out, err := Transcode(src, MaxWidth, MaxHeight, JPEGQuality, MIMEJPEG)
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Fatalf("expected 640x480, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestTranscodeShrinksToBox(t *testing.T) {
	src := encodeJPEG(t, image.NewRGBA(image.Rect(0, 0, 4000, 3000)))

	out, err := Transcode(src, MaxWidth, MaxHeight, JPEGQuality, MIMEJPEG)
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("expected jpeg output, got %s", format)
	}
	if cfg.Width != 1920 || cfg.Height != 1440 {
		t.Fatalf("expected 1920x1440, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestTranscodePreservesTransparency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3000, 1500))
	// opaque red left half, fully transparent right half
	for y := 0; y < 1500; y++ {
		for x := 0; x < 1500; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	src := encodePNG(t, img)

	out, err := Transcode(src, MaxWidth, MaxHeight, 0, MIMEPNG)
	if err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	b := decoded.Bounds()
	// sample well inside the transparent half
	_, _, _, a := decoded.At(b.Max.X-10, b.Max.Y/2).RGBA()
	if a != 0 {
		t.Fatalf("expected transparent pixel, alpha = %d", a)
	}
	_, _, _, a = decoded.At(10, b.Max.Y/2).RGBA()
	if a == 0 {
		t.Fatalf("expected opaque pixel on the drawn half")
	}
}

func TestTranscodeInvalidInput(t *testing.T) {
	_, err := Transcode([]byte("not an image"), MaxWidth, MaxHeight, JPEGQuality, MIMEJPEG)
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
}

func TestTranscodeUnsupportedTarget(t *testing.T) {
	src := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 10, 10)))
	_, err := Transcode(src, MaxWidth, MaxHeight, 0, "image/tiff")
	var encodeErr *EncodeError
	if !errors.As(err, &encodeErr) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
}

func TestTranscodeDoesNotMutateInput(t *testing.T) {
	src := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 50, 50)))
	orig := make([]byte, len(src))
	copy(orig, src)

	if _, err := Transcode(src, MaxWidth, MaxHeight, 0, MIMEPNG); err != nil {
		t.Fatalf("Transcode: %v", err)
	}
	if !bytes.Equal(src, orig) {
		t.Fatalf("input bytes were mutated")
	}
}

func TestProbeDimensions(t *testing.T) {
	src := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 123, 45)))
	w, h := ProbeDimensions(src)
	if w != 123 || h != 45 {
		t.Fatalf("expected 123x45, got %dx%d", w, h)
	}
	if w, h := ProbeDimensions([]byte("junk")); w != 0 || h != 0 {
		t.Fatalf("expected zeros for junk input, got %dx%d", w, h)
	}
}
