package processor

import (
	"time"

	"github.com/rs/zerolog"

	"intern-match-go/internal/config"
	"intern-match-go/internal/constants"
	"intern-match-go/internal/parser"
	"intern-match-go/internal/storage"
)

// Components 服务依赖的组件。Repository 必填，其余为空时对应功能降级。
type Components struct {
	Repository storage.Repository    // 业务仓储
	Objects    storage.ObjectStorage // 原始简历文件
	Extractor  parser.TextExtractor  // 简历文本提取
	Cache      RecommendationCache   // 推荐缓存
	Deduper    UploadDeduper         // 上传去重
}

// Settings 纯配置项，不包含任何业务组件
type Settings struct {
	DefaultUserID    string
	SuggestionLimit  int
	CacheTTL         time.Duration
	MaxFileSize      int64
	AllowedMIMETypes []string

	// 领域事件的交换机和路由键，Exchange 为空时不产生事件
	EventsExchange        string
	ResumeAnalyzedKey     string
	ApplicationCreatedKey string
	StatusChangedKey      string

	Logger zerolog.Logger
	Now    func() time.Time
}

// ComponentOpt 组件选项，仅改变 Components 内的字段
type ComponentOpt func(*Components)

// SettingOpt 设置选项，仅改变 Settings 内的字段
type SettingOpt func(*Settings)

// DefaultSettings 不依赖配置文件的默认设置
func DefaultSettings() Settings {
	return Settings{
		DefaultUserID:    constants.DefaultUserID,
		SuggestionLimit:  constants.SuggestionDisplayLimit,
		CacheTTL:         constants.MatchCacheDuration,
		MaxFileSize:      constants.MaxResumeFileSize,
		AllowedMIMETypes: []string{constants.PDFContentType},
		Logger:           zerolog.Nop(),
		Now:              time.Now,
	}
}

// NewComponents 按选项组装组件
func NewComponents(opts ...ComponentOpt) *Components {
	c := &Components{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ----- 组件选项 -----

// WithcompStorage 从存储管理器取出全部可用组件。
// Redis 未初始化时不设置缓存和去重，避免把 nil 指针包进接口。
func WithcompStorage(s *storage.Storage) ComponentOpt {
	return func(c *Components) {
		if s == nil {
			return
		}
		c.Repository = s.Repository
		c.Objects = s.Objects
		if s.Redis != nil {
			c.Cache = s.Redis
			c.Deduper = s.Redis
		}
	}
}

// WithcompRepository 设置业务仓储
func WithcompRepository(repo storage.Repository) ComponentOpt {
	return func(c *Components) {
		c.Repository = repo
	}
}

// WithcompObjects 设置对象存储
func WithcompObjects(objects storage.ObjectStorage) ComponentOpt {
	return func(c *Components) {
		c.Objects = objects
	}
}

// WithcompExtractor 设置文本提取器
func WithcompExtractor(extractor parser.TextExtractor) ComponentOpt {
	return func(c *Components) {
		c.Extractor = extractor
	}
}

// WithcompCache 设置推荐缓存
func WithcompCache(cache RecommendationCache) ComponentOpt {
	return func(c *Components) {
		c.Cache = cache
	}
}

// WithcompDeduper 设置上传去重
func WithcompDeduper(deduper UploadDeduper) ComponentOpt {
	return func(c *Components) {
		c.Deduper = deduper
	}
}

// ----- 设置选项 -----

// WithsetConfig 从配置文件读取上传、匹配和事件相关设置
func WithsetConfig(cfg *config.Config) SettingOpt {
	return func(s *Settings) {
		if cfg == nil {
			return
		}
		if cfg.Upload.DefaultUserID != "" {
			s.DefaultUserID = cfg.Upload.DefaultUserID
		}
		if cfg.Upload.MaxFileSizeMB > 0 {
			s.MaxFileSize = cfg.Upload.MaxFileSizeBytes()
		}
		if len(cfg.Upload.AllowedMIMETypes) > 0 {
			s.AllowedMIMETypes = cfg.Upload.AllowedMIMETypes
		}
		if cfg.Matching.SuggestionDisplayLimit > 0 {
			s.SuggestionLimit = cfg.Matching.SuggestionDisplayLimit
		}
		s.CacheTTL = config.GetDuration(cfg.Matching.CacheTTL, s.CacheTTL)

		s.EventsExchange = cfg.RabbitMQ.EventsExchange
		s.ResumeAnalyzedKey = cfg.RabbitMQ.ResumeAnalyzedKey
		s.ApplicationCreatedKey = cfg.RabbitMQ.ApplicationCreatedKey
		s.StatusChangedKey = cfg.RabbitMQ.StatusChangedKey
	}
}

// WithsetLogger 设置日志记录器
func WithsetLogger(l zerolog.Logger) SettingOpt {
	return func(s *Settings) {
		s.Logger = l
	}
}

// WithsetClock 替换时间来源，测试中使用固定时间
func WithsetClock(now func() time.Time) SettingOpt {
	return func(s *Settings) {
		if now != nil {
			s.Now = now
		}
	}
}

// WithsetDefaultUserID 设置上传未指定用户时的占位用户
func WithsetDefaultUserID(id string) SettingOpt {
	return func(s *Settings) {
		if id != "" {
			s.DefaultUserID = id
		}
	}
}

// WithsetEvents 设置事件交换机和路由键
func WithsetEvents(exchange, resumeAnalyzedKey, applicationCreatedKey, statusChangedKey string) SettingOpt {
	return func(s *Settings) {
		s.EventsExchange = exchange
		s.ResumeAnalyzedKey = resumeAnalyzedKey
		s.ApplicationCreatedKey = applicationCreatedKey
		s.StatusChangedKey = statusChangedKey
	}
}
