package processor

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"intern-match-go/internal/logger"
	"intern-match-go/internal/parser"
	"intern-match-go/internal/scoring"
	"intern-match-go/internal/storage"
	"intern-match-go/internal/tracing"
	"intern-match-go/internal/types"
)

// ResumeService 简历上传、分析和查询
type ResumeService struct {
	comp Components
	set  Settings
}

// Upload 处理一次简历上传:
// 校验 -> 去重 -> 提取文本 -> 保存原始文件 -> 评分和建议 -> 持久化并产生 ResumeAnalyzed 事件。
// 任一步失败都会回滚已经写入的去重记录和原始文件。
func (s *ResumeService) Upload(ctx context.Context, in UploadInput) (*types.UploadResult, error) {
	ctx, span := tracer.Start(ctx, "ResumeService.Upload",
		trace.WithAttributes(
			attribute.String("resume.file_name", tracing.TruncateString(in.FileName, tracing.DefaultMaxLength)),
			attribute.Int("resume.size", len(in.Data)),
		))
	defer span.End()

	if err := s.validate(in); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	userID := in.UserID
	if userID == "" {
		userID = s.set.DefaultUserID
	}
	resumeID, err := newID()
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return nil, err
	}
	span.SetAttributes(attribute.String("resume.id", resumeID), attribute.String("user.id", userID))
	log := logger.Ctx(ctx).With().Str("resume_id", resumeID).Str("user_id", userID).Logger()

	sum := md5.Sum(in.Data)
	md5Hex := hex.EncodeToString(sum[:])

	var (
		dedupRecorded bool
		objectKey     string
	)
	rollback := func() {
		// 回滚不应受请求取消影响
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if objectKey != "" {
			if err := s.comp.Objects.DeleteFile(cleanupCtx, objectKey); err != nil {
				log.Warn().Err(err).Str("object_key", objectKey).Msg("回滚原始文件失败")
			}
		}
		if dedupRecorded {
			if err := s.comp.Deduper.RemoveFileMD5(cleanupCtx, userID, md5Hex); err != nil {
				log.Warn().Err(err).Msg("回滚去重记录失败")
			}
		}
	}

	if s.comp.Deduper != nil {
		exists, err := s.comp.Deduper.CheckAndAddFileMD5(ctx, userID, md5Hex)
		switch {
		case err != nil:
			// 去重只是优化，Redis 出错时继续处理
			log.Warn().Err(err).Msg("检查文件MD5失败, 跳过去重")
		case exists:
			err := newDuplicateError(resumeID, md5Hex)
			tracing.RecordError(span, err, tracing.ErrorTypeValidation)
			return nil, err
		default:
			dedupRecorded = true
		}
	}

	text, _, err := s.comp.Extractor.ExtractTextFromBytes(ctx, in.Data, in.FileName)
	if err != nil {
		rollback()
		err = newExtractError(resumeID, err)
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	if s.comp.Objects != nil {
		key, err := s.comp.Objects.UploadResumeFile(ctx, resumeID, fileExt(in.FileName), bytes.NewReader(in.Data), int64(len(in.Data)))
		if err != nil {
			rollback()
			err = newStoreFileError(resumeID, err)
			tracing.RecordError(span, err, tracing.ErrorTypeObjectStorage)
			return nil, err
		}
		objectKey = key
	}

	resume, analysis := analyzeResume(text, s.set.Now().UTC())
	resume.ID = resumeID
	resume.UserID = userID
	resume.FileName = in.FileName
	resume.FilePath = objectKey
	resume.FileMD5 = md5Hex
	analysis.ResumeID = resumeID
	if analysis.ID, err = newID(); err != nil {
		rollback()
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return nil, err
	}

	evt := s.set.event(resume.ID, storage.EventResumeAnalyzed, s.set.ResumeAnalyzedKey, storage.ResumeAnalyzedMessage{
		ResumeID:     resume.ID,
		UserID:       resume.UserID,
		FileName:     resume.FileName,
		FilePath:     resume.FilePath,
		OverallScore: resume.AnalysisScore,
		Skills:       resume.Skills,
		AnalyzedAt:   analysis.CreatedAt,
	})
	if err := s.comp.Repository.SaveResume(ctx, resume, analysis, evt); err != nil {
		rollback()
		err = newSaveError(resumeID, err)
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, err
	}

	span.SetAttributes(attribute.Int("resume.overall_score", resume.AnalysisScore))
	log.Info().
		Int("score", resume.AnalysisScore).
		Int("skills", len(resume.Skills)).
		Str("object_key", objectKey).
		Msg("简历分析完成")

	return &types.UploadResult{
		Resume: resume,
		Analysis: types.AnalysisSummary{
			Score:       resume.AnalysisScore,
			Suggestions: scoring.TopSuggestions(analysis.Suggestions, s.set.SuggestionLimit),
			Skills:      resume.Skills,
			Experience:  len(resume.Experience),
			Education:   len(resume.Education),
		},
	}, nil
}

func (s *ResumeService) validate(in UploadInput) error {
	if len(in.Data) == 0 {
		return newValidationError("文件为空")
	}
	if s.set.MaxFileSize > 0 && int64(len(in.Data)) > s.set.MaxFileSize {
		return newValidationError(fmt.Sprintf("文件大小 %d 超过上限 %d", len(in.Data), s.set.MaxFileSize))
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(in.ContentType, ";")[0]))
	if len(s.set.AllowedMIMETypes) > 0 && !slices.Contains(s.set.AllowedMIMETypes, contentType) {
		return newValidationError(fmt.Sprintf("不支持的文件类型 %q", in.ContentType))
	}
	return nil
}

// analyzeResume 对文本跑一遍提取、评分和建议，不含 ID 和文件信息
func analyzeResume(text string, now time.Time) (*types.Resume, *types.ResumeAnalysis) {
	profile := parser.ExtractProfile(text)
	breakdown := scoring.ScoreProfile(profile)

	resume := &types.Resume{
		Content:       text,
		Skills:        profile.Skills,
		Experience:    profile.Experience,
		Education:     profile.Education,
		AnalysisScore: breakdown.OverallScore,
		Keywords:      slices.Clone(profile.Skills),
		UploadedAt:    now,
	}
	analysis := &types.ResumeAnalysis{
		MissingKeywords:      []string{},
		Suggestions:          scoring.Suggest(profile.Skills, profile.Experience, breakdown.OverallScore),
		TechnicalSkillsScore: breakdown.SkillsScore,
		ExperienceScore:      breakdown.ExperienceScore,
		AchievementsScore:    breakdown.AchievementsScore,
		OverallScore:         breakdown.OverallScore,
		CreatedAt:            now,
	}
	return resume, analysis
}

func fileExt(name string) string {
	if ext := filepath.Ext(name); ext != "" {
		return ext
	}
	return ".pdf"
}

// List 返回用户的简历，userID 为空时使用默认用户
func (s *ResumeService) List(ctx context.Context, userID string) ([]types.Resume, error) {
	if userID == "" {
		userID = s.set.DefaultUserID
	}
	resumes, err := s.comp.Repository.ListResumesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询用户简历失败: %w", err)
	}
	return resumes, nil
}

// Get 按 ID 返回简历
func (s *ResumeService) Get(ctx context.Context, id string) (*types.Resume, error) {
	return s.comp.Repository.GetResume(ctx, id)
}

// GetAnalysis 返回简历的分析结果，internshipID 为空时返回任意一条
func (s *ResumeService) GetAnalysis(ctx context.Context, resumeID, internshipID string) (*types.ResumeAnalysis, error) {
	return s.comp.Repository.GetAnalysis(ctx, resumeID, internshipID)
}
