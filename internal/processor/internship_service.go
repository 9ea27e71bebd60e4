package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"intern-match-go/internal/logger"
	"intern-match-go/internal/scoring"
	"intern-match-go/internal/storage"
	"intern-match-go/internal/tracing"
	"intern-match-go/internal/types"
)

// 搜索条件中表示"不过滤"的取值
const (
	anyLocation   = "all locations"
	anyIndustry   = "all industries"
	remoteKeyword = "remote"
)

// InternshipService 岗位目录查询和推荐
type InternshipService struct {
	comp Components
	set  Settings
}

// List 返回在招岗位，带过滤条件时按条件搜索
func (s *InternshipService) List(ctx context.Context, filter types.InternshipFilter) ([]types.Internship, error) {
	active, err := s.comp.Repository.ListActiveInternships(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询岗位列表失败: %w", err)
	}
	if filter.IsEmpty() {
		return active, nil
	}
	return FilterInternships(active, filter), nil
}

// FilterInternships 按关键词、地点和行业过滤岗位，保持原有顺序。
// 关键词匹配标题、公司、描述和任一技能；地点为 Remote 时远程岗位也算命中。
func FilterInternships(internships []types.Internship, filter types.InternshipFilter) []types.Internship {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	location := strings.ToLower(strings.TrimSpace(filter.Location))
	industry := strings.ToLower(strings.TrimSpace(filter.Industry))

	out := make([]types.Internship, 0, len(internships))
	for _, i := range internships {
		if query != "" && !matchesQuery(i, query) {
			continue
		}
		if location != "" && location != anyLocation &&
			!strings.Contains(strings.ToLower(i.Location), location) &&
			!(location == remoteKeyword && i.IsRemote) {
			continue
		}
		if industry != "" && industry != anyIndustry &&
			!strings.Contains(strings.ToLower(i.Industry), industry) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func matchesQuery(i types.Internship, query string) bool {
	if strings.Contains(strings.ToLower(i.Title), query) ||
		strings.Contains(strings.ToLower(i.Company), query) ||
		strings.Contains(strings.ToLower(i.Description), query) {
		return true
	}
	for _, skill := range i.Skills {
		if strings.Contains(strings.ToLower(skill), query) {
			return true
		}
	}
	return false
}

// Get 按 ID 返回岗位
func (s *InternshipService) Get(ctx context.Context, id string) (*types.Internship, error) {
	return s.comp.Repository.GetInternship(ctx, id)
}

// Upsert 写入岗位并清空推荐缓存
func (s *InternshipService) Upsert(ctx context.Context, internship *types.Internship) error {
	if err := s.comp.Repository.UpsertInternship(ctx, internship); err != nil {
		return fmt.Errorf("写入岗位失败: %w", err)
	}
	if s.comp.Cache != nil {
		if err := s.comp.Cache.InvalidateRecommendations(ctx); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("internship_id", internship.ID).Msg("清理推荐缓存失败")
		}
	}
	return nil
}

// Recommendations 返回简历的岗位推荐，按匹配分降序。
// 简历不存在时返回空列表。结果按简历缓存，缓存不可用时直接计算。
func (s *InternshipService) Recommendations(ctx context.Context, resumeID string) ([]types.RankedInternship, error) {
	ctx, span := tracer.Start(ctx, "InternshipService.Recommendations",
		trace.WithAttributes(attribute.String("resume.id", resumeID)))
	defer span.End()
	log := logger.Ctx(ctx).With().Str("resume_id", resumeID).Logger()

	if s.comp.Cache != nil {
		ranked, err := s.comp.Cache.GetRecommendations(ctx, resumeID)
		if err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return ranked, nil
		}
		if !errors.Is(err, storage.ErrCacheMiss) {
			log.Warn().Err(err).Msg("读取推荐缓存失败")
		}
	}

	resume, err := s.comp.Repository.GetResume(ctx, resumeID)
	if errors.Is(err, types.ErrNotFound) {
		return []types.RankedInternship{}, nil
	}
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, fmt.Errorf("查询简历失败: %w", err)
	}

	catalog, err := s.comp.Repository.ListActiveInternships(ctx)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, fmt.Errorf("查询岗位列表失败: %w", err)
	}
	ranked := scoring.RankJobs(resume.Skills, catalog)
	span.SetAttributes(attribute.Bool("cache.hit", false), attribute.Int("match.count", len(ranked)))

	if s.comp.Cache != nil {
		if err := s.comp.Cache.SetRecommendations(ctx, resumeID, ranked, s.set.CacheTTL); err != nil {
			log.Warn().Err(err).Msg("写入推荐缓存失败")
		}
	}
	return ranked, nil
}
