package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"intern-match-go/internal/constants"
)

// Pinger 可探活的依赖，例如 Redis
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthHandler 存活检查。依赖探活失败只降级为 degraded，不返回 5xx。
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{checks: make(map[string]Pinger), timeout: 2 * time.Second}
}

// AddCheck 注册一个依赖探活
func (h *HealthHandler) AddCheck(name string, p Pinger) *HealthHandler {
	if p != nil {
		h.checks[name] = p
	}
	return h
}

// Check GET /api/health
func (h *HealthHandler) Check(ctx context.Context, c *app.RequestContext) {
	resp := HealthResponse{Status: "ok", Service: constants.ServiceName, Version: constants.Version}
	if len(h.checks) > 0 {
		resp.Checks = make(map[string]string, len(h.checks))
		for name, p := range h.checks {
			pingCtx, cancel := context.WithTimeout(ctx, h.timeout)
			err := p.Ping(pingCtx)
			cancel()
			if err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				continue
			}
			resp.Checks[name] = "ok"
		}
	}
	c.JSON(consts.StatusOK, resp)
}
