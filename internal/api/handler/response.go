package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.opentelemetry.io/otel/trace"

	"intern-match-go/internal/logger"
	"intern-match-go/internal/tracing"
	"intern-match-go/internal/types"
)

// ErrorResponse 错误响应体。Detail 只在客户端错误时返回。
type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// StatusFor 把业务错误映射为 HTTP 状态码
func StatusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return consts.StatusNotFound
	case errors.Is(err, types.ErrInvalidStatus),
		errors.Is(err, types.ErrInvalidUpload),
		errors.Is(err, types.ErrInvalidInput):
		return consts.StatusBadRequest
	case errors.Is(err, types.ErrConflict):
		return consts.StatusConflict
	default:
		return consts.StatusInternalServerError
	}
}

// respondError 按错误类型写响应。服务端错误只返回 failMessage，不暴露内部细节。
func respondError(ctx context.Context, c *app.RequestContext, err error, failMessage string) {
	status := StatusFor(err)
	tracing.RecordHTTPError(trace.SpanFromContext(ctx), err, status)

	resp := ErrorResponse{Message: failMessage}
	switch status {
	case consts.StatusNotFound:
		resp.Message = notFoundMessage(err)
	case consts.StatusBadRequest, consts.StatusConflict:
		resp.Detail = err.Error()
	}

	if status >= consts.StatusInternalServerError {
		logger.Ctx(ctx).Error().Err(err).Str("path", string(c.Path())).Msg(failMessage)
	} else {
		logger.Ctx(ctx).Debug().Err(err).Int("status", status).Msg("请求未完成")
	}
	c.JSON(status, resp)
}

// notFoundMessage 生成 "Internship not found" 这样的提示
func notFoundMessage(err error) string {
	var opErr *types.OpError
	if !errors.As(err, &opErr) || opErr.Entity == "" {
		return "Not found"
	}
	entity := strings.ReplaceAll(opErr.Entity, "_", " ")
	return strings.ToUpper(entity[:1]) + entity[1:] + " not found"
}

func badRequest(c *app.RequestContext, message string, err error) {
	resp := ErrorResponse{Message: message}
	if err != nil {
		resp.Detail = err.Error()
	}
	c.JSON(consts.StatusBadRequest, resp)
}
