package handler

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"intern-match-go/internal/constants"
	"intern-match-go/internal/logger"
	"intern-match-go/internal/processor"
	"intern-match-go/internal/types"
)

// ResumeHandler 简历上传和分析查询
type ResumeHandler struct {
	resumes     *processor.ResumeService
	maxFileSize int64
}

// NewResumeHandler 创建简历处理器。maxFileSize <= 0 时使用默认上限。
func NewResumeHandler(resumes *processor.ResumeService, maxFileSize int64) *ResumeHandler {
	if maxFileSize <= 0 {
		maxFileSize = constants.MaxResumeFileSize
	}
	return &ResumeHandler{resumes: resumes, maxFileSize: maxFileSize}
}

// Upload POST /api/resumes/upload
func (h *ResumeHandler) Upload(ctx context.Context, c *app.RequestContext) {
	fh, err := c.FormFile(constants.ResumeFormField)
	if err != nil {
		badRequest(c, "No file uploaded", nil)
		return
	}
	if fh.Size > h.maxFileSize {
		badRequest(c, "Invalid file", fmt.Errorf("%w: 文件超过 %d 字节", types.ErrInvalidUpload, h.maxFileSize))
		return
	}

	file, err := fh.Open()
	if err != nil {
		respondError(ctx, c, err, "Failed to process resume")
		return
	}
	defer file.Close()

	// 多读一个字节，交给 service 判断是否超限
	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		respondError(ctx, c, err, "Failed to process resume")
		return
	}

	result, err := h.resumes.Upload(ctx, processor.UploadInput{
		UserID:      c.PostForm("userId"),
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		respondError(ctx, c, err, "Failed to process resume")
		return
	}

	logger.Ctx(ctx).Debug().
		Str("resume_id", result.Resume.ID).
		Int("score", result.Analysis.Score).
		Msg("简历上传完成")
	c.JSON(consts.StatusOK, result)
}

// List GET /api/resumes?userId=
func (h *ResumeHandler) List(ctx context.Context, c *app.RequestContext) {
	resumes, err := h.resumes.List(ctx, c.Query("userId"))
	if err != nil {
		respondError(ctx, c, err, "Failed to fetch resumes")
		return
	}
	c.JSON(consts.StatusOK, resumes)
}

// Analysis GET /api/resumes/:id/analysis?internshipId=
func (h *ResumeHandler) Analysis(ctx context.Context, c *app.RequestContext) {
	analysis, err := h.resumes.GetAnalysis(ctx, c.Param("id"), c.Query("internshipId"))
	if err != nil {
		respondError(ctx, c, err, "Failed to fetch analysis")
		return
	}
	c.JSON(consts.StatusOK, analysis)
}
