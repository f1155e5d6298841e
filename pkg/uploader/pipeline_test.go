package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/oakline/media_bridge/pkg/asseturl"
	"github.com/oakline/media_bridge/pkg/normalize"
)

// noisyJPEG encodes random pixels so the output stays comfortably above the
// compression threshold.
func noisyJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

type uploadRecord struct {
	subfolder string
	filename  string
	size      int
	sniffed   string
}

func newPipelineServer(t *testing.T, requests *atomic.Int32, last *uploadRecord) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			t.Errorf("read upload: %v", err)
			return
		}
		last.subfolder = r.FormValue("subfolder")
		last.filename = r.FormValue("filename")
		last.size = len(data)
		last.sniffed = http.DetectContentType(data)
		json.NewEncoder(w).Encode(map[string]any{
			"code": 200,
			"data": map[string]string{"url": "uploads/" + last.subfolder + "/" + last.filename},
		})
	}))
}

func TestPipelineCompressesLargeJPEG(t *testing.T) {
	src := noisyJPEG(t, 3200, 2400)
	if len(src) <= normalize.CompressThreshold {
		t.Fatalf("test image too small to exercise compression: %d bytes", len(src))
	}

	var requests atomic.Int32
	var rec uploadRecord
	srv := newPipelineServer(t, &requests, &rec)
	defer srv.Close()

	var previewed string
	p := NewPipeline(NewClient(srv.URL), asseturl.Resolver{Development: true})
	p.OnPreview = func(dataURL string) { previewed = dataURL }

	result, err := p.Run(context.Background(), Input{
		Data:     src,
		MIMEType: "image/jpeg",
		Category: "colors",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if p.State() != StateDone {
		t.Fatalf("expected done state, got %s", p.State())
	}
	if !strings.HasPrefix(previewed, "data:image/jpeg;base64,") {
		t.Fatalf("preview missing or wrong prefix: %.40s", previewed)
	}
	if rec.subfolder != "colors" {
		t.Fatalf("subfolder = %q", rec.subfolder)
	}
	if !strings.HasSuffix(rec.filename, ".jpg") {
		t.Fatalf("expected jpg filename, got %q", rec.filename)
	}
	if rec.sniffed != "image/jpeg" {
		t.Fatalf("uploaded bytes sniffed as %q", rec.sniffed)
	}
	if !strings.Contains(result.Asset.Path, "colors/") {
		t.Fatalf("stored path %q missing category", result.Asset.Path)
	}
	if !strings.HasPrefix(result.URL, "/uploads/colors/") {
		t.Fatalf("resolved url %q", result.URL)
	}
}

func TestPipelinePassesThroughSmallFiles(t *testing.T) {
	src := smallPNG(t)

	var requests atomic.Int32
	var rec uploadRecord
	srv := newPipelineServer(t, &requests, &rec)
	defer srv.Close()

	p := NewPipeline(NewClient(srv.URL), asseturl.Resolver{Development: true})
	_, err := p.Run(context.Background(), Input{Data: src, MIMEType: "image/png", Category: "laminates"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.size != len(src) {
		t.Fatalf("expected original bytes uploaded, got %d of %d", rec.size, len(src))
	}
	if !strings.HasSuffix(rec.filename, ".png") {
		t.Fatalf("expected png filename, got %q", rec.filename)
	}
}

func TestPipelineSizeCapBeforeNetwork(t *testing.T) {
	// Valid PNG header followed by padding to exceed the cap; the preview
	// sniff sees an image, the precondition rejects it before upload.
	data := append(smallPNG(t), make([]byte, MaxUploadSize)...)

	var requests atomic.Int32
	var rec uploadRecord
	srv := newPipelineServer(t, &requests, &rec)
	defer srv.Close()

	p := NewPipeline(NewClient(srv.URL), asseturl.Resolver{})
	_, err := p.Run(context.Background(), Input{Data: data, MIMEType: "image/png", Category: "colors"})
	var upErr *UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if requests.Load() != 0 {
		t.Fatalf("expected no network call, saw %d", requests.Load())
	}
	if p.State() != StateFailed {
		t.Fatalf("expected failed state, got %s", p.State())
	}
}

func TestPipelinePreviewSurvivesUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	var previewed string
	p := NewPipeline(NewClient(srv.URL), asseturl.Resolver{})
	p.OnPreview = func(dataURL string) { previewed = dataURL }

	_, err := p.Run(context.Background(), Input{Data: smallPNG(t), MIMEType: "image/png", Category: "colors"})
	var upErr *UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UploadError, got %v", err)
	}
	if previewed == "" {
		t.Fatalf("preview should have been delivered before the failed upload")
	}
}

func TestPipelineRejectsNonImage(t *testing.T) {
	p := NewPipeline(NewClient("http://127.0.0.1:0"), asseturl.Resolver{})
	_, err := p.Run(context.Background(), Input{Data: []byte("plain text"), MIMEType: "text/plain", Category: "colors"})
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("expected ReadError, got %v", err)
	}
}

func TestPreview(t *testing.T) {
	dataURL, err := Preview(smallPNG(t), "")
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if !strings.HasPrefix(dataURL, "data:image/png;base64,") {
		t.Fatalf("unexpected data url prefix: %.40s", dataURL)
	}

	if _, err := Preview([]byte("<svg/>"), "image/svg+xml"); err != nil {
		t.Fatalf("declared svg should preview: %v", err)
	}

	if _, err := Preview(nil, ""); err == nil {
		t.Fatalf("expected error for empty input")
	}
	if _, err := Preview([]byte("hello"), ""); err == nil {
		t.Fatalf("expected error for non-image input")
	}
}
