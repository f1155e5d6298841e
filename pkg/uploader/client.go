// Package uploader is the client side of the media bridge: it packages
// normalized image bytes into the admin upload request, tracks per-upload
// pipeline state, and produces the immediate local preview.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	// UploadTimeout bounds a single upload request. Uploads never retry:
	// a blind retry could store a duplicate file under a fresh generated
	// name, so a generous single attempt is used instead.
	UploadTimeout = 120 * time.Second

	// MaxUploadSize is the hard cap enforced before any network call.
	MaxUploadSize = 50 * 1024 * 1024

	uploadPath = "/api/v1/admin/upload/image"
)

// Retry policy for read-side requests. Write requests (upload, delete)
// always run exactly once.
const (
	readRetries      = 3
	readBackoffBase  = 1 * time.Second
	readBackoffLimit = 30 * time.Second
)

// UploadError wraps any transport or server failure from the upload path.
type UploadError struct {
	Cause error
}

func (e *UploadError) Error() string { return fmt.Sprintf("upload: %v", e.Cause) }
func (e *UploadError) Unwrap() error { return e.Cause }

// StoredAsset is the reference to a server-confirmed upload. The server owns
// the bytes from this point on; the client only holds the path.
type StoredAsset struct {
	Path     string `json:"path"`
	Category string `json:"category"`
}

// Client talks to the media bridge admin API.
type Client struct {
	base   string
	http   *http.Client
	listHC *http.Client
}

// NewClient creates a client for the given base URL (scheme://host[:port]).
func NewClient(base string) *Client {
	base = strings.TrimSuffix(base, "/")
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: UploadTimeout},
		listHC: &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Upload sends one multipart request with the file bytes, the destination
// category and the generated filename. The caller must already have
// validated the MIME type and the MaxUploadSize cap. On success the
// server-provided stored path is returned; when the server omits it, the
// path is constructed deterministically from category and filename.
func (c *Client) Upload(ctx context.Context, data []byte, category, filename string) (StoredAsset, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return StoredAsset{}, &UploadError{Cause: err}
	}
	if _, err := fw.Write(data); err != nil {
		return StoredAsset{}, &UploadError{Cause: err}
	}
	if err := mw.WriteField("subfolder", category); err != nil {
		return StoredAsset{}, &UploadError{Cause: err}
	}
	if err := mw.WriteField("filename", filename); err != nil {
		return StoredAsset{}, &UploadError{Cause: err}
	}
	if err := mw.Close(); err != nil {
		return StoredAsset{}, &UploadError{Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+uploadPath, &body)
	if err != nil {
		return StoredAsset{}, &UploadError{Cause: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return StoredAsset{}, &UploadError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return StoredAsset{}, &UploadError{Cause: fmt.Errorf("server returned %s", resp.Status)}
	}

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return StoredAsset{}, &UploadError{Cause: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.Code != 0 && parsed.Code != http.StatusOK {
		return StoredAsset{}, &UploadError{Cause: fmt.Errorf("server error: %s", parsed.Msg)}
	}

	path := parsed.Data.URL
	if path == "" {
		path = fmt.Sprintf("uploads/%s/%s", category, filename)
	}
	return StoredAsset{Path: path, Category: category}, nil
}

// Delete removes a stored asset by its URL. Runs exactly once.
func (c *Client) Delete(ctx context.Context, url string) error {
	payload, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return &UploadError{Cause: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.base+uploadPath, bytes.NewReader(payload))
	if err != nil {
		return &UploadError{Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &UploadError{Cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &UploadError{Cause: fmt.Errorf("server returned %s", resp.Status)}
	}
	return nil
}

// AssetView mirrors the listing entries returned by the admin API.
type AssetView struct {
	FileID      string `json:"file_id"`
	Category    string `json:"category"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	FileSize    int64  `json:"file_size"`
	URL         string `json:"url"`
}

// ListAssets fetches the assets stored under a category. Read-side calls
// retry with exponential backoff, unlike uploads.
func (c *Client) ListAssets(ctx context.Context, category string) ([]AssetView, error) {
	var result struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
		Data struct {
			Assets []AssetView `json:"assets"`
		} `json:"data"`
	}
	url := fmt.Sprintf("%s/api/v1/admin/assets?category=%s", c.base, category)
	if err := c.getJSON(ctx, url, &result); err != nil {
		return nil, err
	}
	if result.Code != 0 && result.Code != http.StatusOK {
		return nil, fmt.Errorf("server error: %s", result.Msg)
	}
	return result.Data.Assets, nil
}

// getJSON performs a GET with up to readRetries retries and exponential
// backoff (1s, 2s, 4s, capped at readBackoffLimit).
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	var lastErr error
	backoff := readBackoffBase
	for attempt := 0; attempt <= readRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > readBackoffLimit {
				backoff = readBackoffLimit
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := c.listHC.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("server returned %s", resp.Status)
			continue
		}
		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("decode response: %w", err)
			continue
		}
		return nil
	}
	return lastErr
}
