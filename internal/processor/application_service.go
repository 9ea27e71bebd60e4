package processor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"intern-match-go/internal/logger"
	"intern-match-go/internal/scoring"
	"intern-match-go/internal/storage"
	"intern-match-go/internal/tracing"
	"intern-match-go/internal/types"
)

// ApplicationService 岗位投递
type ApplicationService struct {
	comp Components
	set  Settings
}

// Create 创建投递并记录匹配分。
// 简历或岗位不存在时匹配分为 0，投递照常创建。
func (s *ApplicationService) Create(ctx context.Context, req *types.CreateApplicationRequest) (*types.Application, error) {
	ctx, span := tracer.Start(ctx, "ApplicationService.Create",
		trace.WithAttributes(
			attribute.String("internship.id", req.InternshipID),
			attribute.String("resume.id", req.ResumeID),
		))
	defer span.End()

	if err := req.Validate(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	var (
		resume     *types.Resume
		internship *types.Internship
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.comp.Repository.GetResume(gctx, req.ResumeID)
		if err != nil && !errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("查询简历失败: %w", err)
		}
		resume = r
		return nil
	})
	g.Go(func() error {
		i, err := s.comp.Repository.GetInternship(gctx, req.InternshipID)
		if err != nil && !errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("查询岗位失败: %w", err)
		}
		internship = i
		return nil
	})
	if err := g.Wait(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, err
	}

	matchScore := 0
	if resume != nil && internship != nil {
		matchScore = scoring.CoverageScore(resume.Skills, internship.Skills)
	} else {
		logger.Ctx(ctx).Warn().
			Bool("resume_found", resume != nil).
			Bool("internship_found", internship != nil).
			Str("resume_id", req.ResumeID).
			Str("internship_id", req.InternshipID).
			Msg("简历或岗位不存在, 匹配分记为0")
	}

	id, err := newID()
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = types.StatusPending
	}
	now := s.set.Now().UTC()
	app := &types.Application{
		ID:           id,
		UserID:       req.UserID,
		InternshipID: req.InternshipID,
		ResumeID:     req.ResumeID,
		Status:       status,
		MatchScore:   matchScore,
		CoverLetter:  req.CoverLetter,
		AppliedAt:    now,
		UpdatedAt:    now,
	}

	evt := s.set.event(app.ID, storage.EventApplicationCreated, s.set.ApplicationCreatedKey, storage.ApplicationCreatedMessage{
		ApplicationID: app.ID,
		UserID:        app.UserID,
		InternshipID:  app.InternshipID,
		ResumeID:      app.ResumeID,
		MatchScore:    app.MatchScore,
		AppliedAt:     app.AppliedAt,
	})
	if err := s.comp.Repository.CreateApplication(ctx, app, evt); err != nil {
		tracing.RecordError(span, err, tracing.ClassifyError(err, tracing.ErrorTypeDB))
		return nil, fmt.Errorf("创建投递失败: %w", err)
	}
	span.SetAttributes(attribute.String("application.id", app.ID), attribute.Int("application.match_score", matchScore))
	return app, nil
}

// ListWithDetails 返回用户的投递及关联的岗位和简历，按投递时间倒序。
// 岗位或简历已不存在的投递不返回。
func (s *ApplicationService) ListWithDetails(ctx context.Context, userID string) ([]types.ApplicationWithDetails, error) {
	if userID == "" {
		userID = s.set.DefaultUserID
	}
	apps, err := s.comp.Repository.ListApplicationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询投递列表失败: %w", err)
	}

	out := make([]types.ApplicationWithDetails, 0, len(apps))
	for _, app := range apps {
		details, err := s.details(ctx, app)
		if errors.Is(err, types.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, *details)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AppliedAt.After(out[j].AppliedAt)
	})
	return out, nil
}

// GetWithDetails 返回单个投递及关联数据
func (s *ApplicationService) GetWithDetails(ctx context.Context, id string) (*types.ApplicationWithDetails, error) {
	app, err := s.comp.Repository.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, *app)
}

func (s *ApplicationService) details(ctx context.Context, app types.Application) (*types.ApplicationWithDetails, error) {
	internship, err := s.comp.Repository.GetInternship(ctx, app.InternshipID)
	if err != nil {
		return nil, err
	}
	resume, err := s.comp.Repository.GetResume(ctx, app.ResumeID)
	if err != nil {
		return nil, err
	}
	return &types.ApplicationWithDetails{
		Application: app,
		Internship:  *internship,
		Resume:      *resume,
	}, nil
}

// UpdateStatus 修改投递状态。任意合法状态之间都可以切换。
func (s *ApplicationService) UpdateStatus(ctx context.Context, id string, req *types.UpdateStatusRequest) (*types.Application, error) {
	ctx, span := tracer.Start(ctx, "ApplicationService.UpdateStatus",
		trace.WithAttributes(attribute.String("application.id", id), attribute.String("application.status", string(req.Status))))
	defer span.End()

	if err := req.Validate(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	current, err := s.comp.Repository.GetApplication(ctx, id)
	if err != nil {
		tracing.RecordError(span, err, tracing.ClassifyError(err, tracing.ErrorTypeDB))
		return nil, err
	}

	now := s.set.Now().UTC()
	evt := s.set.event(id, storage.EventStatusChanged, s.set.StatusChangedKey, storage.StatusChangedMessage{
		ApplicationID: id,
		UserID:        current.UserID,
		OldStatus:     string(current.Status),
		NewStatus:     string(req.Status),
		ChangedAt:     now,
	})
	updated, err := s.comp.Repository.UpdateApplicationStatus(ctx, id, req.Status, now, evt)
	if err != nil {
		tracing.RecordError(span, err, tracing.ClassifyError(err, tracing.ErrorTypeDB))
		return nil, err
	}
	logger.Ctx(ctx).Info().
		Str("application_id", id).
		Str("old_status", string(current.Status)).
		Str("new_status", string(req.Status)).
		Msg("投递状态已更新")
	return updated, nil
}

// Stats 统计用户投递，与列表接口看到的投递一致
func (s *ApplicationService) Stats(ctx context.Context, userID string) (*types.ApplicationStats, error) {
	apps, err := s.ListWithDetails(ctx, userID)
	if err != nil {
		return nil, err
	}
	statuses := make([]types.ApplicationStatus, 0, len(apps))
	for _, app := range apps {
		statuses = append(statuses, app.Status)
	}
	stats := ComputeStats(statuses)
	return &stats, nil
}

// ComputeStats 按状态计数。responseRate 为非 pending 投递占比，四舍五入到整数。
func ComputeStats(statuses []types.ApplicationStatus) types.ApplicationStats {
	stats := types.ApplicationStats{Total: len(statuses)}
	for _, status := range statuses {
		switch status {
		case types.StatusPending:
			stats.Pending++
		case types.StatusUnderReview:
			stats.UnderReview++
		case types.StatusInterview:
			stats.Interviews++
		case types.StatusAccepted:
			stats.Accepted++
		case types.StatusRejected:
			stats.Rejected++
		}
	}
	if stats.Total > 0 {
		stats.ResponseRate = int(math.Round(float64(stats.Total-stats.Pending) / float64(stats.Total) * 100))
	}
	return stats
}
