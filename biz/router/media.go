package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/oakline/media_bridge/biz/handler"
	"github.com/oakline/media_bridge/biz/handler/version"
	"github.com/oakline/media_bridge/biz/middleware"
)

// RegisterMediaRoutes configures HTTP routes for the media bridge.
func RegisterMediaRoutes(r *server.Hertz, h *handler.MediaHandler) {
	if h == nil {
		return
	}

	v1 := r.Group("/api/v1")

	admin := v1.Group("/admin")
	admin.POST("/upload/image", append(middleware.WriteLockMw(), h.UploadImage)...)
	admin.DELETE("/upload/image", append(middleware.WriteLockMw(), h.DeleteImage)...)
	admin.GET("/assets", h.ListAssets)

	v1.GET("/version", version.GetVersion)

	r.GET("/uploads/*key", h.ServeUpload)
	r.GET("/static/placeholder.svg", h.ServePlaceholder)
	r.GET("/ping", handler.Ping)
}
