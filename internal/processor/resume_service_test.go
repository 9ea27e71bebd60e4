package processor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intern-match-go/internal/parser"
	"intern-match-go/internal/storage"
	"intern-match-go/internal/types"
)

func pdfUpload(userID string) UploadInput {
	return UploadInput{
		UserID:      userID,
		FileName:    "John_Doe.PDF",
		ContentType: "application/pdf",
		Data:        []byte(samplePDFContents),
	}
}

func TestUploadSampleResume(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.proc.Resumes.Upload(ctx, pdfUpload(""))
	require.NoError(t, err)

	resume := result.Resume
	assert.NotEmpty(t, resume.ID)
	assert.Equal(t, "default-user", resume.UserID)
	assert.Equal(t, "John_Doe.PDF", resume.FileName)
	assert.Equal(t, "resume/"+resume.ID+"/original.pdf", resume.FilePath)
	assert.Equal(t, parser.SampleResumeText, resume.Content)
	assert.Equal(t, resume.Skills, resume.Keywords)
	assert.Len(t, resume.FileMD5, 32)

	assert.Equal(t, 92, result.Analysis.Score)
	assert.Len(t, result.Analysis.Skills, 14)
	assert.Equal(t, 4, result.Analysis.Experience)
	assert.Equal(t, len(resume.Education), result.Analysis.Education)
	require.Len(t, result.Analysis.Suggestions, 1)
	assert.Equal(t, types.SuggestionOptimization, result.Analysis.Suggestions[0].Type)

	stored, err := env.proc.Resumes.GetAnalysis(ctx, resume.ID, "")
	require.NoError(t, err)
	assert.Equal(t, 100, stored.TechnicalSkillsScore)
	assert.Equal(t, 60, stored.ExperienceScore)
	assert.Equal(t, 80, stored.AchievementsScore)
	assert.Equal(t, 92, stored.OverallScore)
	assert.Empty(t, stored.MissingKeywords)
	assert.NotNil(t, stored.MissingKeywords)

	assert.Equal(t, 1, env.objects.count())
	assert.Equal(t, 1, env.deduper.size())

	events := env.publisher.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, testExchange+"/"+testAnalyzedKey, events[0].key)
	msg, ok := events[0].payload.(storage.ResumeAnalyzedMessage)
	require.True(t, ok)
	assert.Equal(t, resume.ID, msg.ResumeID)
	assert.Equal(t, 92, msg.OverallScore)

	list, err := env.proc.Resumes.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, resume.ID, list[0].ID)
}

func TestUploadTruncatesSuggestions(t *testing.T) {
	env := newTestEnv(t, WithcompExtractor(parser.NewStubPDFExtractor(parser.WithStubText(""))))
	ctx := context.Background()

	result, err := env.proc.Resumes.Upload(ctx, pdfUpload("u1"))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Analysis.Score)
	assert.Len(t, result.Analysis.Suggestions, 3)
	assert.NotNil(t, result.Analysis.Skills)

	stored, err := env.proc.Resumes.GetAnalysis(ctx, result.Resume.ID, "")
	require.NoError(t, err)
	assert.Len(t, stored.Suggestions, 4)
	assert.Equal(t, 40, stored.AchievementsScore)
}

func TestUploadRejectsInvalidFiles(t *testing.T) {
	tests := []struct {
		name string
		in   UploadInput
	}{
		{"empty", UploadInput{ContentType: "application/pdf"}},
		{"not pdf", UploadInput{ContentType: "image/png", Data: []byte("png")}},
		{"too large", UploadInput{ContentType: "application/pdf", Data: []byte(strings.Repeat("x", 10<<20+1))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.proc.Resumes.Upload(context.Background(), tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrInvalidUpload)
			assert.Equal(t, 0, env.deduper.size())
			assert.Equal(t, 0, env.objects.count())
		})
	}
}

func TestUploadAcceptsContentTypeParameters(t *testing.T) {
	env := newTestEnv(t)
	in := pdfUpload("u1")
	in.ContentType = "Application/PDF; charset=binary"

	_, err := env.proc.Resumes.Upload(context.Background(), in)
	assert.NoError(t, err)
}

func TestUploadDuplicateFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.proc.Resumes.Upload(ctx, pdfUpload("u1"))
	require.NoError(t, err)

	_, err = env.proc.Resumes.Upload(ctx, pdfUpload("u1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateUpload)
	assert.ErrorIs(t, err, types.ErrConflict)

	// 其他用户上传同一文件不受影响
	_, err = env.proc.Resumes.Upload(ctx, pdfUpload("u2"))
	assert.NoError(t, err)
	assert.Equal(t, 2, env.objects.count())
}

func TestUploadContinuesWhenDeduperFails(t *testing.T) {
	env := newTestEnv(t)
	env.deduper.err = errors.New("redis down")

	_, err := env.proc.Resumes.Upload(context.Background(), pdfUpload("u1"))
	assert.NoError(t, err)
}

func TestUploadRollsBackOnStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.objects.uploadErr = errors.New("bucket missing")
	ctx := context.Background()

	_, err := env.proc.Resumes.Upload(ctx, pdfUpload("u1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreFileFailed)
	assert.Equal(t, 0, env.deduper.size())

	var perr *ResumeProcessError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "store", perr.Op)

	// 回滚后可以重试
	env.objects.uploadErr = nil
	_, err = env.proc.Resumes.Upload(ctx, pdfUpload("u1"))
	assert.NoError(t, err)
}

func TestUploadRollsBackOnExtractFailure(t *testing.T) {
	env := newTestEnv(t, WithcompExtractor(parser.NewStubPDFExtractor(parser.WithMagicCheck(true))))
	in := pdfUpload("u1")
	in.Data = []byte("plain text pretending to be a pdf")

	_, err := env.proc.Resumes.Upload(context.Background(), in)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidUpload)
	assert.ErrorIs(t, err, ErrExtractFailed)
	assert.Equal(t, 0, env.deduper.size())
	assert.Equal(t, 0, env.objects.count())
}

func TestUploadWithoutObjectStorage(t *testing.T) {
	env := newTestEnv(t, WithcompObjects(nil))

	result, err := env.proc.Resumes.Upload(context.Background(), pdfUpload("u1"))
	require.NoError(t, err)
	assert.Empty(t, result.Resume.FilePath)
}

func TestGetAnalysisNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.proc.Resumes.GetAnalysis(context.Background(), "missing", "")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestFileExt(t *testing.T) {
	assert.Equal(t, ".pdf", fileExt("cv.pdf"))
	assert.Equal(t, ".PDF", fileExt("cv.PDF"))
	assert.Equal(t, ".pdf", fileExt("cv"))
}
