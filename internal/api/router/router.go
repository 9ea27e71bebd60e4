package router

import (
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"

	"intern-match-go/internal/api/handler"
	"intern-match-go/internal/processor"
)

// Handlers 所有 HTTP 处理器
type Handlers struct {
	Users        *handler.UserHandler
	Resumes      *handler.ResumeHandler
	Internships  *handler.InternshipHandler
	Applications *handler.ApplicationHandler
	Health       *handler.HealthHandler
}

// NewHandlers 基于 Processor 创建全部处理器
func NewHandlers(proc *processor.Processor, maxFileSize int64) *Handlers {
	return &Handlers{
		Users:        handler.NewUserHandler(proc.Users),
		Resumes:      handler.NewResumeHandler(proc.Resumes, maxFileSize),
		Internships:  handler.NewInternshipHandler(proc.Internships),
		Applications: handler.NewApplicationHandler(proc.Applications),
		Health:       handler.NewHealthHandler(),
	}
}

// RegisterRoutes 注册 API 路由。uploadMiddleware 只挂在上传接口上，例如限流。
func RegisterRoutes(h *server.Hertz, hs *Handlers, uploadMiddleware ...app.HandlerFunc) {
	api := h.Group("/api")

	api.GET("/health", hs.Health.Check)

	api.POST("/users", hs.Users.Create)
	api.GET("/users/:id", hs.Users.Get)

	upload := append(append([]app.HandlerFunc{}, uploadMiddleware...), hs.Resumes.Upload)
	api.POST("/resumes/upload", upload...)
	api.GET("/resumes", hs.Resumes.List)
	api.GET("/resumes/:id/analysis", hs.Resumes.Analysis)

	api.GET("/internships", hs.Internships.List)
	api.GET("/internships/matches/:resumeId", hs.Internships.Matches)
	api.GET("/internships/:id", hs.Internships.Get)

	api.POST("/applications", hs.Applications.Create)
	api.GET("/applications", hs.Applications.List)
	api.GET("/applications/stats", hs.Applications.Stats)
	api.GET("/applications/:id", hs.Applications.Get)
	api.PATCH("/applications/:id", hs.Applications.UpdateStatus)
}
