package storage

import (
	"context"
	"time"

	"intern-match-go/internal/types"
)

// Event 随写操作一起提交的领域事件。
// gorm 仓储把它写入 outbox_messages 表，由 outbox 中继投递；内存仓储直接交给 EventPublisher。
type Event struct {
	AggregateID string
	EventType   string
	Exchange    string
	RoutingKey  string
	Payload     interface{}
}

// EventPublisher 事件投递接口，RabbitMQ 实现它
type EventPublisher interface {
	PublishJSON(ctx context.Context, exchangeName, routingKey string, data interface{}, persistent bool) error
}

// UserRepository 用户存取
type UserRepository interface {
	CreateUser(ctx context.Context, user *types.User) error
	GetUser(ctx context.Context, id string) (*types.User, error)
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
}

// ResumeRepository 简历与分析结果存取。简历和它的分析在同一次调用里写入。
type ResumeRepository interface {
	SaveResume(ctx context.Context, resume *types.Resume, analysis *types.ResumeAnalysis, evt *Event) error
	GetResume(ctx context.Context, id string) (*types.Resume, error)
	ListResumesByUser(ctx context.Context, userID string) ([]types.Resume, error)
	// GetAnalysis internshipID 为空时匹配任意岗位的分析
	GetAnalysis(ctx context.Context, resumeID, internshipID string) (*types.ResumeAnalysis, error)
}

// InternshipRepository 岗位目录存取
type InternshipRepository interface {
	UpsertInternship(ctx context.Context, internship *types.Internship) error
	GetInternship(ctx context.Context, id string) (*types.Internship, error)
	// ListActiveInternships 按目录顺序返回所有 IsActive 的岗位
	ListActiveInternships(ctx context.Context) ([]types.Internship, error)
}

// ApplicationRepository 投递记录存取
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *types.Application, evt *Event) error
	GetApplication(ctx context.Context, id string) (*types.Application, error)
	ListApplicationsByUser(ctx context.Context, userID string) ([]types.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status types.ApplicationStatus, updatedAt time.Time, evt *Event) (*types.Application, error)
}

// Repository 服务层依赖的全部持久化操作
type Repository interface {
	UserRepository
	ResumeRepository
	InternshipRepository
	ApplicationRepository
	Close() error
}
