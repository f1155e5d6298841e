// Package media implements the asset service behind the admin upload API:
// validation, storage, thumbnail derivation and metadata records.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
	"github.com/oakline/media_bridge/biz/dal/model"
	"github.com/oakline/media_bridge/pkg/asseturl"
	"github.com/oakline/media_bridge/pkg/common"
	"github.com/oakline/media_bridge/pkg/normalize"
	"github.com/oakline/media_bridge/pkg/storage"
	"github.com/oakline/media_bridge/pkg/validator"
)

const (
	// ThumbSize bounds the derived thumbnail shown in admin list views.
	ThumbSize = 480
	// ThumbQuality is the JPEG quality for derived thumbnails.
	ThumbQuality = 80
)

// UploadInput captures metadata and payload for one asset upload.
type UploadInput struct {
	Category    string
	FileName    string
	ContentType string
	Data        []byte
}

// Service orchestrates asset operations over a storage backend and the
// metadata store.
type Service struct {
	logic    *Logic
	storage  storage.Storage
	upload   *validator.UploadConfig
	resolver asseturl.Resolver
}

// NewService wires the asset service.
func NewService(logic *Logic, store storage.Storage, upload *validator.UploadConfig, resolver asseturl.Resolver) *Service {
	if upload == nil {
		upload = validator.DefaultUploadConfig()
	}
	return &Service{logic: logic, storage: store, upload: upload, resolver: resolver}
}

// UploadAsset validates, stores and records one upload, deriving a list-view
// thumbnail for raster images. The returned asset carries the stored URL the
// admin UI persists into its parent record.
func (s *Service) UploadAsset(ctx context.Context, input *UploadInput) (*model.Asset, error) {
	if input == nil {
		return nil, errors.New("input required")
	}
	if len(input.Data) == 0 {
		return nil, errors.New("file data is empty")
	}
	category, ok := validator.SanitizeCategory(input.Category)
	if !ok {
		return nil, fmt.Errorf("invalid category %q", input.Category)
	}
	if err := s.upload.Validate(int64(len(input.Data)), input.ContentType, input.Data); err != nil {
		return nil, err
	}

	contentType := validator.DetectMimeType(input.Data, input.ContentType)
	fileName := sanitizeFileName(input.FileName)
	if fileName == "" {
		fileName = uuid.NewString() + "." + normalize.ExtensionFor(contentType)
	}

	key := category + "/" + fileName
	if err := s.storage.PutObject(ctx, key, bytes.NewReader(input.Data), contentType, int64(len(input.Data))); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	url, err := s.storage.StoredURL(ctx, key)
	if err != nil {
		_ = s.storage.DeleteObject(ctx, key)
		return nil, fmt.Errorf("stored url: %w", err)
	}

	width, height := normalize.ProbeDimensions(input.Data)

	asset := &model.Asset{
		FileID:      uuid.NewString(),
		Category:    category,
		FileName:    fileName,
		ContentType: contentType,
		FileSize:    int64(len(input.Data)),
		Checksum:    common.GetMD5Hash(input.Data),
		Width:       width,
		Height:      height,
		Path:        key,
		URL:         url,
	}

	// Thumbnail derivation is best effort: vector or exotic formats stay
	// without one and the admin UI falls back to the full asset.
	if thumbKey, err := s.deriveThumbnail(ctx, category, fileName, input.Data); err != nil {
		hlog.CtxWarnf(ctx, "thumbnail skipped for %s: %v", key, err)
	} else {
		asset.ThumbPath = thumbKey
	}

	if err := s.logic.CreateAsset(ctx, asset); err != nil {
		_ = s.storage.DeleteObject(ctx, key)
		if asset.ThumbPath != "" {
			_ = s.storage.DeleteObject(ctx, asset.ThumbPath)
		}
		return nil, err
	}

	return asset, nil
}

// deriveThumbnail re-encodes the upload as a bounded JPEG for list views.
func (s *Service) deriveThumbnail(ctx context.Context, category, fileName string, data []byte) (string, error) {
	encoded, err := normalize.Transcode(data, ThumbSize, ThumbSize, ThumbQuality, normalize.MIMEJPEG)
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(fileName, path.Ext(fileName))
	thumbKey := category + "/thumbs/" + base + ".jpg"
	if err := s.storage.PutObject(ctx, thumbKey, bytes.NewReader(encoded), normalize.MIMEJPEG, int64(len(encoded))); err != nil {
		return "", err
	}
	return thumbKey, nil
}

// DeleteAssetByURL removes the stored bytes and the metadata record for the
// asset recorded under the given URL.
func (s *Service) DeleteAssetByURL(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("url is required")
	}

	asset, err := s.logic.GetAssetByURL(ctx, url)
	if errors.Is(err, ErrAssetNotFound) {
		// The admin UI may hand back a resolved absolute URL; retry with
		// the canonical relative form.
		if idx := strings.Index(url, "/uploads/"); idx >= 0 {
			asset, err = s.logic.GetAssetByURL(ctx, url[idx+1:])
		}
	}
	if err != nil {
		return err
	}

	if err := s.storage.DeleteObject(ctx, asset.Path); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	if asset.ThumbPath != "" {
		_ = s.storage.DeleteObject(ctx, asset.ThumbPath)
	}
	return s.logic.DeleteAsset(ctx, asset.FileID)
}

// GetAssetFile streams stored bytes for serving under /uploads/.
func (s *Service) GetAssetFile(ctx context.Context, key string) (*model.Asset, io.ReadCloser, error) {
	if key == "" {
		return nil, nil, ErrAssetNotFound
	}

	asset, err := s.logic.GetAssetByPath(ctx, key)
	if err != nil && !errors.Is(err, ErrAssetNotFound) {
		return nil, nil, err
	}

	reader, err := s.storage.GetObject(ctx, key)
	if err != nil {
		return nil, nil, fmt.Errorf("get file: %w", err)
	}
	return asset, reader, nil
}

// ListAssets returns the assets stored under a category with resolved
// display URLs.
func (s *Service) ListAssets(ctx context.Context, category string) ([]model.Asset, error) {
	category, ok := validator.SanitizeCategory(category)
	if !ok {
		return nil, errors.New("invalid category")
	}
	assets, err := s.logic.ListAssetsByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	for i := range assets {
		assets[i].URL = s.resolver.Resolve(assets[i].URL)
	}
	return assets, nil
}

// RewriteLegacyURLs re-resolves every asset whose recorded URL still carries
// the legacy marker, persisting the rewritten value. Returns the number of
// updated records.
func (s *Service) RewriteLegacyURLs(ctx context.Context) (int, error) {
	assets, err := s.logic.ListLegacyAssets(ctx, asseturl.LegacyMarker)
	if err != nil {
		return 0, err
	}
	updated := 0
	for i := range assets {
		resolved := s.resolver.Resolve(assets[i].URL)
		if resolved == assets[i].URL {
			continue
		}
		assets[i].URL = resolved
		if err := s.logic.UpdateAsset(ctx, &assets[i]); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// Resolver exposes the resolver the service decorates URLs with.
func (s *Service) Resolver() asseturl.Resolver {
	return s.resolver
}

// sanitizeFileName keeps only the base name of a client-supplied filename.
func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
