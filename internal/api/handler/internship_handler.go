package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"intern-match-go/internal/processor"
	"intern-match-go/internal/types"
)

// InternshipHandler 岗位列表、详情和推荐
type InternshipHandler struct {
	internships *processor.InternshipService
}

// NewInternshipHandler 创建岗位处理器
func NewInternshipHandler(internships *processor.InternshipService) *InternshipHandler {
	return &InternshipHandler{internships: internships}
}

// List GET /api/internships?q=&location=&industry=
func (h *InternshipHandler) List(ctx context.Context, c *app.RequestContext) {
	filter := types.InternshipFilter{
		Query:    c.Query("q"),
		Location: c.Query("location"),
		Industry: c.Query("industry"),
	}
	internships, err := h.internships.List(ctx, filter)
	if err != nil {
		respondError(ctx, c, err, "Failed to fetch internships")
		return
	}
	c.JSON(consts.StatusOK, internships)
}

// Get GET /api/internships/:id
func (h *InternshipHandler) Get(ctx context.Context, c *app.RequestContext) {
	internship, err := h.internships.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(ctx, c, err, "Failed to fetch internship")
		return
	}
	c.JSON(consts.StatusOK, internship)
}

// Matches GET /api/internships/matches/:resumeId
func (h *InternshipHandler) Matches(ctx context.Context, c *app.RequestContext) {
	ranked, err := h.internships.Recommendations(ctx, c.Param("resumeId"))
	if err != nil {
		respondError(ctx, c, err, "Failed to get recommendations")
		return
	}
	c.JSON(consts.StatusOK, ranked)
}
