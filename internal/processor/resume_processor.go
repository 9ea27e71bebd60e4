package processor

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"

	"intern-match-go/internal/parser"
	"intern-match-go/internal/storage"
)

var tracer = otel.Tracer("intern-match-go/processor")

// Processor 业务服务聚合，handler 只依赖它
type Processor struct {
	Users        *UserService
	Resumes      *ResumeService
	Internships  *InternshipService
	Applications *ApplicationService
}

// NewProcessor 用组件和设置创建全部服务
func NewProcessor(comp *Components, set *Settings, opts ...SettingOpt) (*Processor, error) {
	if comp == nil || comp.Repository == nil {
		return nil, ErrStorageNotInit
	}
	if set == nil {
		defaults := DefaultSettings()
		set = &defaults
	}
	for _, opt := range opts {
		opt(set)
	}
	if set.Now == nil {
		set.Now = time.Now
	}

	c := *comp
	if c.Extractor == nil {
		c.Extractor = parser.NewStubPDFExtractor(parser.WithStubLogger(set.Logger))
	}
	s := *set

	return &Processor{
		Users:        &UserService{comp: c, set: s},
		Resumes:      &ResumeService{comp: c, set: s},
		Internships:  &InternshipService{comp: c, set: s},
		Applications: &ApplicationService{comp: c, set: s},
	}, nil
}

// newID 生成按时间排序的 UUIDv7
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("生成ID失败: %w", err)
	}
	return id.String(), nil
}

// event 构造领域事件，没有配置交换机时返回 nil
func (s Settings) event(aggregateID, eventType, routingKey string, payload interface{}) *storage.Event {
	if s.EventsExchange == "" {
		return nil
	}
	return &storage.Event{
		AggregateID: aggregateID,
		EventType:   eventType,
		Exchange:    s.EventsExchange,
		RoutingKey:  routingKey,
		Payload:     payload,
	}
}
