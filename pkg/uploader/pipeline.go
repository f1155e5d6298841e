package uploader

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/oakline/media_bridge/pkg/asseturl"
	"github.com/oakline/media_bridge/pkg/normalize"
)

// State is the externally observable pipeline state.
type State int32

const (
	StateIdle State = iota
	StateUploading
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUploading:
		return "uploading"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Input is one selected file entering the pipeline. Discarded once the
// pipeline resolves or fails.
type Input struct {
	Data     []byte
	MIMEType string
	Category string
}

// Result carries the outcome of a completed pipeline run.
type Result struct {
	Asset StoredAsset
	// URL is the resolved display URL the caller persists into the
	// parent record.
	URL string
}

// Pipeline runs one upload end to end: local preview, compression policy,
// optional transcode, transport, URL resolution. Stages are strictly
// sequential; independent uploads use independent Pipeline values and share
// no mutable state. There is no cancellation mid-flight beyond the ctx the
// transport request carries.
type Pipeline struct {
	client   *Client
	resolver asseturl.Resolver
	state    atomic.Int32

	// OnPreview, when set, receives the local data URL before any network
	// activity. The preview is not revoked on later failure, so the UI
	// keeps showing the picked image even when the upload failed.
	OnPreview func(dataURL string)
}

// NewPipeline creates a pipeline bound to a transport client and resolver.
func NewPipeline(client *Client, resolver asseturl.Resolver) *Pipeline {
	return &Pipeline{client: client, resolver: resolver}
}

// State returns the current observable state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Run executes the pipeline for one file. Errors are one of ReadError,
// DecodeError, EncodeError or UploadError depending on the failing stage;
// no stage retries.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	p.state.Store(int32(StateIdle))

	preview, err := Preview(in.Data, in.MIMEType)
	if err != nil {
		p.state.Store(int32(StateFailed))
		return nil, err
	}
	if p.OnPreview != nil {
		p.OnPreview(preview)
	}

	if !strings.HasPrefix(strings.ToLower(in.MIMEType), "image/") {
		p.state.Store(int32(StateFailed))
		return nil, &UploadError{Cause: fmt.Errorf("unsupported content type %q", in.MIMEType)}
	}
	if int64(len(in.Data)) > MaxUploadSize {
		p.state.Store(int32(StateFailed))
		return nil, &UploadError{Cause: fmt.Errorf("file exceeds %d byte limit", MaxUploadSize)}
	}

	p.state.Store(int32(StateUploading))

	data := in.Data
	outType := in.MIMEType
	decision := normalize.Decide(normalize.FileMeta{
		MIMEType: in.MIMEType,
		Size:     int64(len(in.Data)),
		Category: in.Category,
	})
	if decision.Compress {
		encoded, err := normalize.Transcode(in.Data, normalize.MaxWidth, normalize.MaxHeight, decision.Quality, decision.TargetFormat)
		if err != nil {
			p.state.Store(int32(StateFailed))
			return nil, err
		}
		data = encoded
		outType = decision.TargetFormat
	}

	filename := GenerateFilename(normalize.ExtensionFor(outType))
	asset, err := p.client.Upload(ctx, data, in.Category, filename)
	if err != nil {
		p.state.Store(int32(StateFailed))
		return nil, err
	}

	p.state.Store(int32(StateDone))
	return &Result{Asset: asset, URL: p.resolver.Resolve(asset.Path)}, nil
}
