package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
)

type countingLimiter struct {
	calls int
	keys  []string
	allow bool
}

func (l *countingLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	l.calls++
	l.keys = append(l.keys, key)
	return l.allow
}

func ok(c context.Context, ctx *app.RequestContext) {
	ctx.String(http.StatusOK, "ok")
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	h := server.Default(server.WithHostPorts("127.0.0.1:0"))
	h.Use(RequestLogger())
	h.GET("/ping", ok)

	resp := ut.PerformRequest(h.Engine, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotEmpty(t, resp.Header().Get(HeaderRequestID))

	resp = ut.PerformRequest(h.Engine, http.MethodGet, "/ping", nil,
		ut.Header{Key: HeaderRequestID, Value: "req-123"})
	assert.Equal(t, "req-123", resp.Header().Get(HeaderRequestID))
}

func TestUploadRateLimitShared(t *testing.T) {
	limiter := &countingLimiter{allow: true}
	h := server.Default(server.WithHostPorts("127.0.0.1:0"))
	h.POST("/upload", UploadRateLimit(limiter, 5, time.Minute), ok)

	resp := ut.PerformRequest(h.Engine, http.MethodPost, "/upload", nil)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 1, limiter.calls)
	assert.Contains(t, limiter.keys[0], "intern:rate:upload:")

	limiter.allow = false
	resp = ut.PerformRequest(h.Engine, http.MethodPost, "/upload", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}

func TestUploadRateLimitLocalFallback(t *testing.T) {
	h := server.Default(server.WithHostPorts("127.0.0.1:0"))
	h.POST("/upload", UploadRateLimit(nil, 2, time.Hour), ok)

	for i := 0; i < 2; i++ {
		resp := ut.PerformRequest(h.Engine, http.MethodPost, "/upload", nil)
		assert.Equal(t, http.StatusOK, resp.Code)
	}
	resp := ut.PerformRequest(h.Engine, http.MethodPost, "/upload", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
}
