package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/oakline/media_bridge/pkg/common"
)

// Ping responds to health checks.
func Ping(ctx context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, map[string]string{"message": "pong"})
}

// enrichContext propagates admin identity headers into the request context.
func enrichContext(ctx context.Context, c *app.RequestContext) context.Context {
	if userHeader := c.GetHeader("X-User-Id"); len(userHeader) > 0 {
		if id, err := strconv.Atoi(string(userHeader)); err == nil {
			ctx = common.ContextWithUserID(ctx, id)
		}
	}
	return ctx
}

func writeBadRequest(c *app.RequestContext, err error) {
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code:  consts.StatusBadRequest,
		Msg:   err.Error(),
		Error: err.Error(),
	})
}

func writeInternalError(c *app.RequestContext, err error) {
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code:  consts.StatusInternalServerError,
		Msg:   "internal error",
		Error: err.Error(),
	})
}

func writeNotFound(c *app.RequestContext, err error) {
	c.JSON(consts.StatusOK, common.CommonResponse{
		Code:  consts.StatusNotFound,
		Msg:   err.Error(),
		Error: err.Error(),
	})
}
