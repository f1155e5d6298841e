package handler

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	mediaservice "github.com/oakline/media_bridge/biz/service/media"
	"github.com/oakline/media_bridge/pkg/common"
	"github.com/oakline/media_bridge/pkg/static"
)

// MediaHandler exposes the admin upload API and asset serving.
type MediaHandler struct {
	service *mediaservice.Service
}

func NewMediaHandler(service *mediaservice.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

// UploadImage handles multipart admin uploads and persists assets through
// the service layer. Parts: file, subfolder (destination category), filename.
func (h *MediaHandler) UploadImage(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		writeBadRequest(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeInternalError(c, err)
		return
	}

	fileName := string(c.FormValue("filename"))
	if fileName == "" {
		fileName = fileHeader.Filename
	}

	input := &mediaservice.UploadInput{
		Category:    string(c.FormValue("subfolder")),
		FileName:    fileName,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}

	asset, err := h.service.UploadAsset(enrichContext(ctx, c), input)
	if err != nil {
		writeInternalError(c, err)
		return
	}

	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: map[string]any{
			"url":   asset.URL,
			"asset": asset,
		},
	})
}

// DeleteImage removes a stored asset by its recorded URL.
func (h *MediaHandler) DeleteImage(ctx context.Context, c *app.RequestContext) {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.BindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	if err := h.service.DeleteAssetByURL(enrichContext(ctx, c), req.URL); err != nil {
		if errors.Is(err, mediaservice.ErrAssetNotFound) {
			writeNotFound(c, err)
			return
		}
		writeInternalError(c, err)
		return
	}

	c.JSON(consts.StatusOK, common.CommonResponse{Code: consts.StatusOK})
}

// ServeUpload streams stored asset content back to the client. The wildcard
// path is the storage key "{category}/{filename}".
func (h *MediaHandler) ServeUpload(ctx context.Context, c *app.RequestContext) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	asset, reader, err := h.service.GetAssetFile(enrichContext(ctx, c), key)
	if err != nil {
		if errors.Is(err, mediaservice.ErrAssetNotFound) || strings.Contains(err.Error(), "not found") {
			writeNotFound(c, err)
			return
		}
		writeInternalError(c, err)
		return
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		writeInternalError(c, err)
		return
	}

	contentType := consts.MIMEApplicationOctetStream
	if asset != nil && asset.ContentType != "" {
		contentType = asset.ContentType
	}
	c.Data(consts.StatusOK, contentType, content)
}

// ListAssets returns the stored assets for one destination category.
func (h *MediaHandler) ListAssets(ctx context.Context, c *app.RequestContext) {
	category := strings.TrimSpace(c.Query("category"))
	if category == "" {
		writeBadRequest(c, errors.New("category is required"))
		return
	}
	assets, err := h.service.ListAssets(enrichContext(ctx, c), category)
	if err != nil {
		writeInternalError(c, err)
		return
	}
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code: consts.StatusOK,
		Data: map[string]any{
			"assets": assets,
		},
	})
}

// ServePlaceholder returns the embedded placeholder image used for empty
// asset references.
func (h *MediaHandler) ServePlaceholder(ctx context.Context, c *app.RequestContext) {
	data, err := static.Placeholder()
	if err != nil {
		writeInternalError(c, err)
		return
	}
	c.Data(consts.StatusOK, "image/svg+xml", data)
}
