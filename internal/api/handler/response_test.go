package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intern-match-go/internal/api/handler"
	"intern-match-go/internal/types"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", types.NewNotFoundError("GetResume", "resume", "r1"), http.StatusNotFound},
		{"invalid status", fmt.Errorf("%w: %q", types.ErrInvalidStatus, "hired"), http.StatusBadRequest},
		{"invalid upload", types.ErrInvalidUpload, http.StatusBadRequest},
		{"invalid input", fmt.Errorf("%w: Email(required)", types.ErrInvalidInput), http.StatusBadRequest},
		{"conflict", types.NewConflictError("CreateUser", "user", "alice"), http.StatusConflict},
		{"other", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handler.StatusFor(tt.err))
		})
	}
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(ctx context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	h := server.New(server.WithHostPorts("127.0.0.1:0"))
	health := handler.NewHealthHandler().
		AddCheck("redis", fakePinger{}).
		AddCheck("broker", fakePinger{err: errors.New("dial tcp: refused")})
	h.GET("/api/health", health.Check)

	resp := ut.PerformRequest(h.Engine, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body handler.HealthResponse
	decode(t, resp, &body)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "ok", body.Checks["redis"])
	assert.Contains(t, body.Checks["broker"], "refused")

	h2 := server.New(server.WithHostPorts("127.0.0.1:0"))
	h2.GET("/api/health", handler.NewHealthHandler().Check)
	resp = ut.PerformRequest(h2.Engine, http.MethodGet, "/api/health", nil)
	decode(t, resp, &body)
	assert.Equal(t, "ok", body.Status)
}
