package storage

import "time"

// 事件类型，写入 outbox_messages.event_type
const (
	EventResumeAnalyzed     = "ResumeAnalyzed"
	EventApplicationCreated = "ApplicationCreated"
	EventStatusChanged      = "ApplicationStatusChanged"
)

// ResumeAnalyzedMessage 简历上传并完成分析
type ResumeAnalyzedMessage struct {
	ResumeID     string    `json:"resume_id"`
	UserID       string    `json:"user_id"`
	FileName     string    `json:"file_name"`
	FilePath     string    `json:"file_path"` // 原始文件在对象存储中的路径
	OverallScore int       `json:"overall_score"`
	Skills       []string  `json:"skills"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
}

// ApplicationCreatedMessage 新投递
type ApplicationCreatedMessage struct {
	ApplicationID string    `json:"application_id"`
	UserID        string    `json:"user_id"`
	InternshipID  string    `json:"internship_id"`
	ResumeID      string    `json:"resume_id"`
	MatchScore    int       `json:"match_score"`
	AppliedAt     time.Time `json:"applied_at"`
}

// StatusChangedMessage 投递状态变更
type StatusChangedMessage struct {
	ApplicationID string    `json:"application_id"`
	UserID        string    `json:"user_id"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	ChangedAt     time.Time `json:"changed_at"`
}
