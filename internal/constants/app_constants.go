package constants

import "time"

const (
	// ServiceName 服务名，用于日志与追踪
	ServiceName = "intern-match-go"
	// Version 当前版本
	Version = "1.0.0"

	// DefaultUserID 上传简历未指定用户时使用的占位用户
	DefaultUserID = "default-user"

	// ResumeObjectPathFormat 原始简历文件在对象存储中的路径: resume/{resumeID}/original{ext}
	ResumeObjectPathFormat = "resume/%s/original%s"

	// MaxResumeFileSize 简历文件大小上限
	MaxResumeFileSize = 10 << 20
	// ResumeFormField multipart 表单中的文件字段名
	ResumeFormField = "resume"
	// PDFContentType 唯一允许上传的文件类型
	PDFContentType = "application/pdf"

	// SuggestionDisplayLimit 上传响应中最多返回的建议条数
	SuggestionDisplayLimit = 3

	// MatchCacheDuration 推荐结果缓存时长
	MatchCacheDuration = 10 * time.Minute
	// FileMD5SetExpiry 去重集合过期时间
	FileMD5SetExpiry = 30 * 24 * time.Hour
)
