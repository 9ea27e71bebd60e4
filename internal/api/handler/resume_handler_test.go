package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intern-match-go/internal/api/handler"
	"intern-match-go/internal/processor"
	"intern-match-go/internal/scoring"
	"intern-match-go/internal/storage"
	"intern-match-go/internal/types"
)

const testPDFContent = "%PDF-1.4 dummy resume for handler testing"

type testServer struct {
	engine *route.Engine
	repo   *storage.MemoryRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo := storage.NewMemoryRepository()
	_, err := storage.SeedCatalog(context.Background(), repo, time.Now())
	require.NoError(t, err)

	proc, err := processor.NewProcessor(processor.NewComponents(processor.WithcompRepository(repo)), nil)
	require.NoError(t, err)

	h := server.New(server.WithHostPorts("127.0.0.1:0"))
	api := h.Group("/api")

	users := handler.NewUserHandler(proc.Users)
	api.POST("/users", users.Create)
	api.GET("/users/:id", users.Get)

	resumes := handler.NewResumeHandler(proc.Resumes, 0)
	api.POST("/resumes/upload", resumes.Upload)
	api.GET("/resumes", resumes.List)
	api.GET("/resumes/:id/analysis", resumes.Analysis)

	internships := handler.NewInternshipHandler(proc.Internships)
	api.GET("/internships", internships.List)
	api.GET("/internships/matches/:resumeId", internships.Matches)
	api.GET("/internships/:id", internships.Get)

	applications := handler.NewApplicationHandler(proc.Applications)
	api.POST("/applications", applications.Create)
	api.GET("/applications", applications.List)
	api.GET("/applications/stats", applications.Stats)
	api.GET("/applications/:id", applications.Get)
	api.PATCH("/applications/:id", applications.UpdateStatus)

	return &testServer{engine: h.Engine, repo: repo}
}

func multipartBody(t *testing.T, fileName, contentType string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if data != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename="%s"`, fileName))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func (s *testServer) upload(t *testing.T, fileName, contentType string, data []byte, fields map[string]string) *ut.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, fileName, contentType, data, fields)
	return ut.PerformRequest(s.engine, http.MethodPost, "/api/resumes/upload",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: ct})
}

func (s *testServer) doJSON(t *testing.T, method, url string, payload interface{}) *ut.ResponseRecorder {
	t.Helper()
	if payload == nil {
		return ut.PerformRequest(s.engine, method, url, nil)
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return ut.PerformRequest(s.engine, method, url,
		&ut.Body{Body: bytes.NewReader(raw), Len: len(raw)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
}

func decode(t *testing.T, resp *ut.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), v), resp.Body.String())
}

func TestResumeUploadSuccess(t *testing.T) {
	s := newTestServer(t)

	resp := s.upload(t, "resume.pdf", "application/pdf", []byte(testPDFContent), map[string]string{"userId": "u-1"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var result types.UploadResult
	decode(t, resp, &result)
	require.NotNil(t, result.Resume)
	assert.Equal(t, "u-1", result.Resume.UserID)
	assert.Equal(t, "resume.pdf", result.Resume.FileName)
	assert.Equal(t, 92, result.Analysis.Score)
	assert.Equal(t, 4, result.Analysis.Experience)
	assert.Len(t, result.Analysis.Skills, 14)
	assert.LessOrEqual(t, len(result.Analysis.Suggestions), 3)

	resp = s.doJSON(t, http.MethodGet, "/api/resumes?userId=u-1", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var resumes []types.Resume
	decode(t, resp, &resumes)
	require.Len(t, resumes, 1)
	assert.Equal(t, result.Resume.ID, resumes[0].ID)

	resp = s.doJSON(t, http.MethodGet, "/api/resumes/"+result.Resume.ID+"/analysis", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var analysis types.ResumeAnalysis
	decode(t, resp, &analysis)
	assert.Equal(t, 92, analysis.OverallScore)
	assert.Equal(t, 100, analysis.TechnicalSkillsScore)
}

func TestResumeUploadDefaultUser(t *testing.T) {
	s := newTestServer(t)

	resp := s.upload(t, "cv.pdf", "application/pdf", []byte(testPDFContent), nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = s.doJSON(t, http.MethodGet, "/api/resumes", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var resumes []types.Resume
	decode(t, resp, &resumes)
	require.Len(t, resumes, 1)
	assert.Equal(t, "default-user", resumes[0].UserID)
}

func TestResumeUploadRejected(t *testing.T) {
	s := newTestServer(t)

	t.Run("no file", func(t *testing.T) {
		resp := s.upload(t, "", "", nil, map[string]string{"userId": "u-1"})
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		var body handler.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, "No file uploaded", body.Message)
	})

	t.Run("not a pdf", func(t *testing.T) {
		resp := s.upload(t, "notes.txt", "text/plain", []byte("plain text"), nil)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	t.Run("empty file", func(t *testing.T) {
		resp := s.upload(t, "empty.pdf", "application/pdf", []byte{}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})

	resp := s.doJSON(t, http.MethodGet, "/api/resumes", nil)
	var resumes []types.Resume
	decode(t, resp, &resumes)
	assert.Empty(t, resumes)
}

func TestResumeAnalysisNotFound(t *testing.T) {
	s := newTestServer(t)

	resp := s.doJSON(t, http.MethodGet, "/api/resumes/missing/analysis", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	var body handler.ErrorResponse
	decode(t, resp, &body)
	assert.Contains(t, body.Message, "not found")
}

func TestInternshipEndpoints(t *testing.T) {
	s := newTestServer(t)

	resp := s.doJSON(t, http.MethodGet, "/api/internships", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var all []types.Internship
	decode(t, resp, &all)
	assert.Len(t, all, 5)

	resp = s.doJSON(t, http.MethodGet, "/api/internships?industry=Media", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var media []types.Internship
	decode(t, resp, &media)
	require.Len(t, media, 1)
	assert.Equal(t, "5", media[0].ID)

	resp = s.doJSON(t, http.MethodGet, "/api/internships?location=All%20Locations&industry=All%20Industries", nil)
	var unfiltered []types.Internship
	decode(t, resp, &unfiltered)
	assert.Len(t, unfiltered, 5)

	resp = s.doJSON(t, http.MethodGet, "/api/internships/2", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var one types.Internship
	decode(t, resp, &one)
	assert.Equal(t, "2", one.ID)

	resp = s.doJSON(t, http.MethodGet, "/api/internships/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	var body handler.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "Internship not found", body.Message)
}

func TestInternshipMatches(t *testing.T) {
	s := newTestServer(t)

	resp := s.doJSON(t, http.MethodGet, "/api/internships/matches/unknown", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())

	resp = s.upload(t, "resume.pdf", "application/pdf", []byte(testPDFContent), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var result types.UploadResult
	decode(t, resp, &result)

	resp = s.doJSON(t, http.MethodGet, "/api/internships/matches/"+result.Resume.ID, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var ranked []types.RankedInternship
	decode(t, resp, &ranked)
	require.Len(t, ranked, 5)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].MatchScore, ranked[i].MatchScore)
	}
	for _, r := range ranked {
		assert.NotNil(t, r.MissingKeywords)
	}
}

func TestApplicationLifecycle(t *testing.T) {
	s := newTestServer(t)

	resp := s.upload(t, "resume.pdf", "application/pdf", []byte(testPDFContent), map[string]string{"userId": "u-1"})
	require.Equal(t, http.StatusOK, resp.Code)
	var upload types.UploadResult
	decode(t, resp, &upload)

	resp = s.doJSON(t, http.MethodPost, "/api/applications", map[string]string{
		"userId":       "u-1",
		"internshipId": "1",
		"resumeId":     upload.Resume.ID,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created types.Application
	decode(t, resp, &created)
	assert.Equal(t, types.StatusPending, created.Status)

	catalog := storage.DefaultCatalog(time.Now())
	assert.Equal(t, scoring.CoverageScore(upload.Resume.Skills, catalog[0].Skills), created.MatchScore)

	resp = s.doJSON(t, http.MethodGet, "/api/applications?userId=u-1", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var listed []types.ApplicationWithDetails
	decode(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "1", listed[0].Internship.ID)
	assert.Equal(t, upload.Resume.ID, listed[0].Resume.ID)

	resp = s.doJSON(t, http.MethodGet, "/api/applications/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = s.doJSON(t, http.MethodPatch, "/api/applications/"+created.ID, map[string]string{"status": "interview"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var updated types.Application
	decode(t, resp, &updated)
	assert.Equal(t, types.StatusInterview, updated.Status)

	resp = s.doJSON(t, http.MethodPatch, "/api/applications/"+created.ID, map[string]string{"status": "hired"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = s.doJSON(t, http.MethodPatch, "/api/applications/missing", map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = s.doJSON(t, http.MethodGet, "/api/applications/stats?userId=u-1", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var stats types.ApplicationStats
	decode(t, resp, &stats)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Interviews)
	assert.Equal(t, 100, stats.ResponseRate)
}

func TestApplicationCreateInvalid(t *testing.T) {
	s := newTestServer(t)

	resp := s.doJSON(t, http.MethodPost, "/api/applications", map[string]string{"userId": "u-1"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ut.PerformRequest(s.engine, http.MethodPost, "/api/applications",
		&ut.Body{Body: bytes.NewReader([]byte("{")), Len: 1},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUserEndpoints(t *testing.T) {
	s := newTestServer(t)

	resp := s.doJSON(t, http.MethodPost, "/api/users", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var user types.User
	decode(t, resp, &user)
	assert.NotEmpty(t, user.ID)

	resp = s.doJSON(t, http.MethodGet, "/api/users/"+user.ID, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = s.doJSON(t, http.MethodGet, "/api/users/nobody", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = s.doJSON(t, http.MethodPost, "/api/users", map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
