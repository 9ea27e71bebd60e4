package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"intern-match-go/internal/constants"
	"intern-match-go/internal/logger"
	"intern-match-go/pkg/ratelimit"
)

// WindowLimiter 固定窗口限流，由 storage.Redis 实现
type WindowLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

// UploadRateLimit 按客户端 IP 限制上传频率。
// shared 为 nil 时使用进程内令牌桶，多实例部署下各自计数。
func UploadRateLimit(shared WindowLimiter, limit int, window time.Duration) app.HandlerFunc {
	var local *ratelimit.KeyedLimiter
	if shared == nil {
		local = ratelimit.NewKeyedLimiter(limit, window)
	}
	return func(c context.Context, ctx *app.RequestContext) {
		ip := ctx.ClientIP()
		var allowed bool
		if shared != nil {
			allowed = shared.Allow(c, fmt.Sprintf(constants.KeyUploadRateLimit, ip), limit, window)
		} else {
			allowed = local.Allow(ip)
			if local.Len() > 10000 {
				local.Prune()
			}
		}
		if !allowed {
			logger.Ctx(c).Warn().Str("client_ip", ip).Msg("上传请求被限流")
			ctx.AbortWithStatusJSON(consts.StatusTooManyRequests, map[string]string{
				"message": "Too many uploads, please retry later",
			})
			return
		}
		ctx.Next(c)
	}
}
