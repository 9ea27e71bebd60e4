package types

import "time"

// ApplicationStatus 投递状态
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "pending"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusInterview   ApplicationStatus = "interview"
	StatusAccepted    ApplicationStatus = "accepted"
	StatusRejected    ApplicationStatus = "rejected"
)

// ApplicationStatuses 全部合法状态。状态之间的迁移不做限制，任意状态都可以改为任意状态。
var ApplicationStatuses = []ApplicationStatus{
	StatusPending,
	StatusUnderReview,
	StatusInterview,
	StatusAccepted,
	StatusRejected,
}

// Valid 判断是否为已知状态
func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Application 一次岗位投递。MatchScore 在创建时计算一次，之后不随简历变化。
type Application struct {
	ID           string            `json:"id"`
	UserID       string            `json:"userId"`
	InternshipID string            `json:"internshipId"`
	ResumeID     string            `json:"resumeId"`
	Status       ApplicationStatus `json:"status"`
	MatchScore   int               `json:"matchScore"`
	CoverLetter  string            `json:"coverLetter,omitempty"`
	AppliedAt    time.Time         `json:"appliedAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// ApplicationWithDetails 投递记录及其关联的岗位和简历
type ApplicationWithDetails struct {
	Application
	Internship Internship `json:"internship"`
	Resume     Resume     `json:"resume"`
}

// ApplicationStats 用户投递统计
type ApplicationStats struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	UnderReview  int `json:"underReview"`
	Interviews   int `json:"interviews"`
	Accepted     int `json:"accepted"`
	Rejected     int `json:"rejected"`
	ResponseRate int `json:"responseRate"`
}

// User 平台用户
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
