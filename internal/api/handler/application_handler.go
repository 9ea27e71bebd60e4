package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"intern-match-go/internal/processor"
	"intern-match-go/internal/types"
)

// ApplicationHandler 投递记录
type ApplicationHandler struct {
	applications *processor.ApplicationService
}

// NewApplicationHandler 创建投递处理器
func NewApplicationHandler(applications *processor.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// Create POST /api/applications
func (h *ApplicationHandler) Create(ctx context.Context, c *app.RequestContext) {
	var req types.CreateApplicationRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	application, err := h.applications.Create(ctx, &req)
	if err != nil {
		respondError(ctx, c, err, "Failed to create application")
		return
	}
	c.JSON(consts.StatusCreated, application)
}

// List GET /api/applications?userId=
func (h *ApplicationHandler) List(ctx context.Context, c *app.RequestContext) {
	applications, err := h.applications.ListWithDetails(ctx, c.Query("userId"))
	if err != nil {
		respondError(ctx, c, err, "Failed to fetch applications")
		return
	}
	c.JSON(consts.StatusOK, applications)
}

// Get GET /api/applications/:id
func (h *ApplicationHandler) Get(ctx context.Context, c *app.RequestContext) {
	application, err := h.applications.GetWithDetails(ctx, c.Param("id"))
	if err != nil {
		respondError(ctx, c, err, "Failed to fetch application")
		return
	}
	c.JSON(consts.StatusOK, application)
}

// UpdateStatus PATCH /api/applications/:id
func (h *ApplicationHandler) UpdateStatus(ctx context.Context, c *app.RequestContext) {
	var req types.UpdateStatusRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	application, err := h.applications.UpdateStatus(ctx, c.Param("id"), &req)
	if err != nil {
		respondError(ctx, c, err, "Failed to update application")
		return
	}
	c.JSON(consts.StatusOK, application)
}

// Stats GET /api/applications/stats?userId=
func (h *ApplicationHandler) Stats(ctx context.Context, c *app.RequestContext) {
	stats, err := h.applications.Stats(ctx, c.Query("userId"))
	if err != nil {
		respondError(ctx, c, err, "Failed to fetch application stats")
		return
	}
	c.JSON(consts.StatusOK, stats)
}
