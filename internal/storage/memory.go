package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"intern-match-go/internal/logger"
	"intern-match-go/internal/types"
)

// 确保 MemoryRepository 实现了 Repository 接口
var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository 进程内仓储，用于本地运行和测试。
// 读操作返回副本，调用方修改返回值不会影响仓储内部状态。
type MemoryRepository struct {
	mu sync.RWMutex

	users       map[string]types.User
	resumes     map[string]types.Resume
	resumeOrder []string
	analyses    []types.ResumeAnalysis
	internships map[string]types.Internship
	catalog     []string // 岗位写入顺序
	apps        map[string]types.Application

	publisher EventPublisher
	logger    zerolog.Logger
}

// MemoryOption 内存仓储选项
type MemoryOption func(*MemoryRepository)

// WithEventPublisher 写操作成功后直接投递事件
func WithEventPublisher(p EventPublisher) MemoryOption {
	return func(m *MemoryRepository) {
		m.publisher = p
	}
}

// NewMemoryRepository 创建空的内存仓储
func NewMemoryRepository(opts ...MemoryOption) *MemoryRepository {
	m := &MemoryRepository{
		users:       make(map[string]types.User),
		resumes:     make(map[string]types.Resume),
		internships: make(map[string]types.Internship),
		apps:        make(map[string]types.Application),
		logger:      logger.Component("memory_repository"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// publish 尽力投递，失败只记录日志
func (m *MemoryRepository) publish(ctx context.Context, evt *Event) {
	if evt == nil || m.publisher == nil {
		return
	}
	if err := m.publisher.PublishJSON(ctx, evt.Exchange, evt.RoutingKey, evt.Payload, true); err != nil {
		m.logger.Warn().Err(err).
			Str("event_type", evt.EventType).
			Str("aggregate_id", evt.AggregateID).
			Msg("投递事件失败")
	}
}

func (m *MemoryRepository) CreateUser(ctx context.Context, user *types.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[user.ID]; exists {
		return types.NewConflictError("CreateUser", "user", user.ID)
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Username, user.Username) {
			return types.NewConflictError("CreateUser", "username", user.Username)
		}
		if strings.EqualFold(u.Email, user.Email) {
			return types.NewConflictError("CreateUser", "email", user.Email)
		}
	}
	m.users[user.ID] = *user
	return nil
}

func (m *MemoryRepository) GetUser(ctx context.Context, id string) (*types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, types.NewNotFoundError("GetUser", "user", id)
	}
	return &u, nil
}

func (m *MemoryRepository) GetUserByUsername(ctx context.Context, username string) (*types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			found := u
			return &found, nil
		}
	}
	return nil, types.NewNotFoundError("GetUserByUsername", "username", username)
}

func (m *MemoryRepository) SaveResume(ctx context.Context, resume *types.Resume, analysis *types.ResumeAnalysis, evt *Event) error {
	m.mu.Lock()
	if _, exists := m.resumes[resume.ID]; exists {
		m.mu.Unlock()
		return types.NewConflictError("SaveResume", "resume", resume.ID)
	}
	m.resumes[resume.ID] = cloneResume(*resume)
	m.resumeOrder = append(m.resumeOrder, resume.ID)
	if analysis != nil {
		m.analyses = append(m.analyses, cloneAnalysis(*analysis))
	}
	m.mu.Unlock()

	m.publish(ctx, evt)
	return nil
}

func (m *MemoryRepository) GetResume(ctx context.Context, id string) (*types.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.resumes[id]
	if !ok {
		return nil, types.NewNotFoundError("GetResume", "resume", id)
	}
	out := cloneResume(r)
	return &out, nil
}

func (m *MemoryRepository) ListResumesByUser(ctx context.Context, userID string) ([]types.Resume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []types.Resume{}
	for _, id := range m.resumeOrder {
		if r := m.resumes[id]; r.UserID == userID {
			out = append(out, cloneResume(r))
		}
	}
	// 最新上传的在前
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

func (m *MemoryRepository) GetAnalysis(ctx context.Context, resumeID, internshipID string) (*types.ResumeAnalysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.analyses {
		if a.ResumeID != resumeID {
			continue
		}
		if internshipID != "" && a.InternshipID != internshipID {
			continue
		}
		out := cloneAnalysis(a)
		return &out, nil
	}
	return nil, types.NewNotFoundError("GetAnalysis", "resume_analysis", resumeID)
}

func (m *MemoryRepository) UpsertInternship(ctx context.Context, internship *types.Internship) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.internships[internship.ID]; !exists {
		m.catalog = append(m.catalog, internship.ID)
	}
	m.internships[internship.ID] = cloneInternship(*internship)
	return nil
}

func (m *MemoryRepository) GetInternship(ctx context.Context, id string) (*types.Internship, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.internships[id]
	if !ok {
		return nil, types.NewNotFoundError("GetInternship", "internship", id)
	}
	out := cloneInternship(i)
	return &out, nil
}

func (m *MemoryRepository) ListActiveInternships(ctx context.Context) ([]types.Internship, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Internship, 0, len(m.catalog))
	for _, id := range m.catalog {
		if i := m.internships[id]; i.IsActive {
			out = append(out, cloneInternship(i))
		}
	}
	return out, nil
}

func (m *MemoryRepository) CreateApplication(ctx context.Context, app *types.Application, evt *Event) error {
	m.mu.Lock()
	if _, exists := m.apps[app.ID]; exists {
		m.mu.Unlock()
		return types.NewConflictError("CreateApplication", "application", app.ID)
	}
	m.apps[app.ID] = *app
	m.mu.Unlock()

	m.publish(ctx, evt)
	return nil
}

func (m *MemoryRepository) GetApplication(ctx context.Context, id string) (*types.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.apps[id]
	if !ok {
		return nil, types.NewNotFoundError("GetApplication", "application", id)
	}
	return &a, nil
}

func (m *MemoryRepository) ListApplicationsByUser(ctx context.Context, userID string) ([]types.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []types.Application{}
	for _, a := range m.apps {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	// map 遍历无序，按投递时间倒序、ID 兜底保证结果稳定
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppliedAt.Equal(out[j].AppliedAt) {
			return out[i].AppliedAt.After(out[j].AppliedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryRepository) UpdateApplicationStatus(ctx context.Context, id string, status types.ApplicationStatus, updatedAt time.Time, evt *Event) (*types.Application, error) {
	m.mu.Lock()
	a, ok := m.apps[id]
	if !ok {
		m.mu.Unlock()
		return nil, types.NewNotFoundError("UpdateApplicationStatus", "application", id)
	}
	a.Status = status
	a.UpdatedAt = updatedAt
	m.apps[id] = a
	m.mu.Unlock()

	m.publish(ctx, evt)
	return &a, nil
}

// Close 内存仓储无需释放资源
func (m *MemoryRepository) Close() error {
	return nil
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneResume(r types.Resume) types.Resume {
	r.Skills = cloneStrings(r.Skills)
	r.Experience = cloneStrings(r.Experience)
	r.Education = cloneStrings(r.Education)
	r.Keywords = cloneStrings(r.Keywords)
	return r
}

func cloneAnalysis(a types.ResumeAnalysis) types.ResumeAnalysis {
	a.MissingKeywords = cloneStrings(a.MissingKeywords)
	a.Suggestions = append([]types.Suggestion{}, a.Suggestions...)
	return a
}

func cloneInternship(i types.Internship) types.Internship {
	i.Skills = cloneStrings(i.Skills)
	i.Requirements = cloneStrings(i.Requirements)
	return i
}
