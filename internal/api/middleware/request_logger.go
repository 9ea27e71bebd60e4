// Package middleware Hertz 中间件: 请求日志和上传限流
package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"

	"intern-match-go/internal/logger"
)

// HeaderRequestID 请求 ID 头，客户端未提供时生成
const HeaderRequestID = "X-Request-ID"

// RequestLogger 为每个请求分配 request_id 并记录方法、路径、状态码和耗时
func RequestLogger() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		requestID := string(ctx.GetHeader(HeaderRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Response.Header.Set(HeaderRequestID, requestID)
		c = logger.WithRequestID(c, requestID)

		ctx.Next(c)

		status := ctx.Response.StatusCode()
		event := logger.Ctx(c).Info()
		if status >= 500 {
			event = logger.Ctx(c).Error()
		} else if status >= 400 {
			event = logger.Ctx(c).Warn()
		}
		event.
			Str("method", string(ctx.Method())).
			Str("path", string(ctx.Path())).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", ctx.ClientIP()).
			Msg("HTTP请求")
	}
}
