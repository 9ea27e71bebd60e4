package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"intern-match-go/internal/config"
	"intern-match-go/internal/constants"
	"intern-match-go/internal/tracing"
	"intern-match-go/internal/types"
)

var redisTracer = otel.Tracer("intern-match-go/storage/redis")

// ErrCacheMiss 缓存中没有对应的键
var ErrCacheMiss = errors.New("cache miss")

// 原子地检查并记录 MD5，返回 1 表示之前已存在
const checkAndAddMD5Script = `
local exists = redis.call('SISMEMBER', KEYS[1], ARGV[1])
redis.call('SADD', KEYS[1], ARGV[1])
redis.call('EXPIRE', KEYS[1], ARGV[2])
return exists
`

// 固定窗口计数，超过上限返回 0
const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// Redis 推荐缓存、上传去重和限流计数
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig

	md5Script       *redis.Script
	rateLimitScript *redis.Script
}

// NewRedisAdapter 创建客户端并检查连通性
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,
	})

	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return newRedis(client, cfg), nil
}

// NewRedisFromClient 使用已有客户端，测试中配合 miniredis 使用
func NewRedisFromClient(client *redis.Client, cfg *config.RedisConfig) *Redis {
	if cfg == nil {
		cfg = &config.RedisConfig{}
	}
	return newRedis(client, cfg)
}

func newRedis(client *redis.Client, cfg *config.RedisConfig) *Redis {
	return &Redis{
		Client:          client,
		config:          cfg,
		md5Script:       redis.NewScript(checkAndAddMD5Script),
		rateLimitScript: redis.NewScript(rateLimitScript),
	}
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// GetMD5ExpireDuration 返回配置的MD5记录过期时间
func (r *Redis) GetMD5ExpireDuration() time.Duration {
	days := r.config.MD5RecordExpireDays
	if days <= 0 {
		return constants.FileMD5SetExpiry
	}
	return time.Duration(days) * 24 * time.Hour
}

func (r *Redis) startSpan(ctx context.Context, name, operation, key string) (context.Context, trace.Span) {
	ctx, span := redisTracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		semconv.DBSystemRedis,
		attribute.String("db.redis.database", strconv.Itoa(r.config.DB)),
		attribute.String("db.operation", operation),
		attribute.String("db.redis.key", tracing.SafeRedisKey(key)),
	)
	return ctx, span
}

// CheckAndAddFileMD5 记录用户上传过的文件 MD5，返回此前是否已经上传过同一文件
func (r *Redis) CheckAndAddFileMD5(ctx context.Context, userID, md5Hex string) (bool, error) {
	key := fmt.Sprintf(constants.KeyFileMD5Set, userID)
	ctx, span := r.startSpan(ctx, "Redis.CheckAndAddFileMD5", "EVAL", key)
	defer span.End()

	if r.Client == nil {
		err := fmt.Errorf("redis client is not initialized")
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return false, err
	}

	expiry := int64(r.GetMD5ExpireDuration().Seconds())
	res, err := r.md5Script.Run(ctx, r.Client, []string{key}, md5Hex, expiry).Int64()
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return false, fmt.Errorf("执行原子检查和添加操作失败: %w", err)
	}

	exists := res == 1
	span.SetAttributes(attribute.Bool("already_exists", exists))
	span.SetStatus(codes.Ok, "")
	return exists, nil
}

// RemoveFileMD5 上传失败时回滚去重记录
func (r *Redis) RemoveFileMD5(ctx context.Context, userID, md5Hex string) error {
	key := fmt.Sprintf(constants.KeyFileMD5Set, userID)
	return r.Client.SRem(ctx, key, md5Hex).Err()
}

// GetRecommendations 读取简历的推荐缓存，未命中返回 ErrCacheMiss
func (r *Redis) GetRecommendations(ctx context.Context, resumeID string) ([]types.RankedInternship, error) {
	key := fmt.Sprintf(constants.KeyMatchRecommendation, resumeID)
	ctx, span := r.startSpan(ctx, "Redis.GetRecommendations", "GET", key)
	defer span.End()

	raw, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		span.SetAttributes(attribute.Bool("cache.hit", false))
		span.SetStatus(codes.Ok, "key not found")
		return nil, ErrCacheMiss
	}
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return nil, err
	}

	var ranked []types.RankedInternship
	if err := json.Unmarshal(raw, &ranked); err != nil {
		// 缓存内容损坏时按未命中处理
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return nil, ErrCacheMiss
	}
	span.SetAttributes(attribute.Bool("cache.hit", true), attribute.Int("cache.items", len(ranked)))
	return ranked, nil
}

// SetRecommendations 写入推荐缓存
func (r *Redis) SetRecommendations(ctx context.Context, resumeID string, ranked []types.RankedInternship, ttl time.Duration) error {
	key := fmt.Sprintf(constants.KeyMatchRecommendation, resumeID)
	ctx, span := r.startSpan(ctx, "Redis.SetRecommendations", "SET", key)
	defer span.End()

	if ranked == nil {
		ranked = []types.RankedInternship{}
	}
	raw, err := json.Marshal(ranked)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return fmt.Errorf("序列化推荐结果失败: %w", err)
	}
	if ttl <= 0 {
		ttl = constants.MatchCacheDuration
	}
	span.SetAttributes(attribute.Int64("db.redis.expiration_ms", ttl.Milliseconds()))
	if err := r.Client.Set(ctx, key, raw, ttl).Err(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return err
	}
	return nil
}

// InvalidateRecommendations 删除推荐缓存。不传 resumeID 时删除全部推荐缓存，岗位目录变更后使用。
func (r *Redis) InvalidateRecommendations(ctx context.Context, resumeIDs ...string) error {
	if len(resumeIDs) > 0 {
		keys := make([]string, 0, len(resumeIDs))
		for _, id := range resumeIDs {
			keys = append(keys, fmt.Sprintf(constants.KeyMatchRecommendation, id))
		}
		return r.Client.Del(ctx, keys...).Err()
	}

	pattern := fmt.Sprintf(constants.KeyMatchRecommendation, "*")
	iter := r.Client.Scan(ctx, 0, pattern, 100).Iterator()
	pipe := r.Client.Pipeline()
	queued := 0
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		queued++
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if queued == 0 {
		return nil
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Allow 固定窗口限流。Redis 出错时放行。
func (r *Redis) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if r == nil || r.Client == nil || key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := r.rateLimitScript.Run(ctx, r.Client, []string{key}, ttl, limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}
