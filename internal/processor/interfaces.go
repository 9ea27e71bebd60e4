package processor

import (
	"context"
	"time"

	"intern-match-go/internal/types"
)

//
// 可选组件接口，由 storage.Redis 实现
//

// RecommendationCache 岗位推荐缓存
type RecommendationCache interface {
	GetRecommendations(ctx context.Context, resumeID string) ([]types.RankedInternship, error)
	SetRecommendations(ctx context.Context, resumeID string, ranked []types.RankedInternship, ttl time.Duration) error
	// InvalidateRecommendations 不传 resumeID 时清空全部缓存
	InvalidateRecommendations(ctx context.Context, resumeIDs ...string) error
}

// UploadDeduper 按用户记录已上传文件的 MD5
type UploadDeduper interface {
	// CheckAndAddFileMD5 返回 true 表示该用户此前已上传过同一文件
	CheckAndAddFileMD5(ctx context.Context, userID, md5Hex string) (bool, error)
	RemoveFileMD5(ctx context.Context, userID, md5Hex string) error
}

// UploadInput 一次简历上传，文件内容已由 handler 读入内存
type UploadInput struct {
	UserID      string
	FileName    string
	ContentType string
	Data        []byte
}
