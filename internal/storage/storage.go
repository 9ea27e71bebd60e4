package storage

import (
	"context"
	"fmt"
	"strings"

	"intern-match-go/internal/config"
	"intern-match-go/internal/logger"
)

// Storage 存储管理器，聚合仓储和所有外部存储依赖
type Storage struct {
	// 业务仓储，按 storage.driver 选择实现
	Repository Repository
	// Gorm 仓储，driver 为 memory 时为 nil
	Gorm *GormRepository

	// 原始简历文件，MinIO 未配置时落到本地目录
	Objects ObjectStorage
	MinIO   *MinIO

	// 事件发布，未配置时为 nil
	RabbitMQ *RabbitMQ

	// 推荐缓存、上传去重和限流，未配置时为 nil
	Redis *Redis
}

// NewStorage 创建存储管理器。
// 仓储初始化失败直接返回错误，可选组件失败只记录警告并降级。
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	log := logger.Component("storage")
	s := &Storage{}
	var initErrors []string

	if cfg.RabbitMQ.URL != "" {
		mq, err := NewRabbitMQ(&cfg.RabbitMQ, logger.Component("rabbitmq"))
		if err != nil {
			log.Warn().Err(err).Msg("初始化RabbitMQ失败")
			initErrors = append(initErrors, fmt.Sprintf("RabbitMQ: %v", err))
		} else {
			s.RabbitMQ = mq
		}
	}

	if cfg.Redis.Address != "" {
		r, err := NewRedisAdapter(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("address", cfg.Redis.Address).Msg("初始化Redis失败")
			initErrors = append(initErrors, fmt.Sprintf("Redis: %v", err))
		} else {
			s.Redis = r
		}
	} else {
		log.Info().Msg("Redis未配置, 跳过初始化")
	}

	if cfg.MinIO.Endpoint != "" {
		m, err := NewMinIO(ctx, &cfg.MinIO, logger.Component("minio"))
		if err != nil {
			log.Warn().Err(err).Msg("初始化MinIO失败, 改用本地目录保存原始文件")
			initErrors = append(initErrors, fmt.Sprintf("MinIO: %v", err))
		} else {
			s.MinIO = m
			s.Objects = m
		}
	}
	if s.Objects == nil {
		local, err := NewLocalFileStorage(cfg.Upload.LocalDir)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("初始化本地文件存储失败: %w", err)
		}
		s.Objects = local
	}

	switch cfg.Storage.Driver {
	case config.DriverMySQL:
		repo, err := NewMySQL(&cfg.MySQL)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("初始化MySQL仓储失败: %w", err)
		}
		s.Gorm, s.Repository = repo, repo
	case config.DriverPostgres:
		repo, err := NewPostgres(&cfg.Postgres)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("初始化PostgreSQL仓储失败: %w", err)
		}
		s.Gorm, s.Repository = repo, repo
	default:
		var opts []MemoryOption
		if s.RabbitMQ != nil {
			opts = append(opts, WithEventPublisher(s.RabbitMQ))
		}
		s.Repository = NewMemoryRepository(opts...)
	}

	if len(initErrors) > 0 {
		log.Warn().Str("failed", strings.Join(initErrors, "; ")).Msg("部分存储组件初始化失败")
	}
	log.Info().
		Str("driver", cfg.Storage.Driver).
		Bool("redis", s.Redis != nil).
		Bool("minio", s.MinIO != nil).
		Bool("rabbitmq", s.RabbitMQ != nil).
		Msg("存储初始化完成")
	return s, nil
}

// Close 关闭所有连接
func (s *Storage) Close() {
	log := logger.Component("storage")
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			log.Error().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}
	if s.Repository != nil {
		if err := s.Repository.Close(); err != nil {
			log.Error().Err(err).Msg("关闭仓储失败")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Error().Err(err).Msg("关闭Redis连接失败")
		}
	}
}
