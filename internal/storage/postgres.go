package storage

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"

	"intern-match-go/internal/config"
)

// NewPostgres 连接 PostgreSQL 并返回 gorm 仓储
func NewPostgres(cfg *config.PostgresConfig) (*GormRepository, error) {
	if cfg == nil {
		return nil, fmt.Errorf("PostgreSQL配置不能为空")
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		cfg.Host, cfg.Username, cfg.Password, cfg.Database, cfg.Port, cfg.SSLMode, cfg.TimeZone)

	db, err := openGorm(postgres.Open(dsn), cfg.Database, config.DriverPostgres, cfg.LogLevel, poolSettings{
		maxIdle:     cfg.MaxIdleConns,
		maxOpen:     cfg.MaxOpenConns,
		maxLifetime: time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute,
	})
	if err != nil {
		return nil, err
	}
	return NewGormRepository(db), nil
}
