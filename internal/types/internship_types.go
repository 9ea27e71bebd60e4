package types

import "time"

// Internship 实习岗位，目录数据对核心逻辑只读
type Internship struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Duration     string    `json:"duration,omitempty"`
	Salary       string    `json:"salary,omitempty"`
	Requirements []string  `json:"requirements"`
	Skills       []string  `json:"skills"`
	Industry     string    `json:"industry,omitempty"`
	IsRemote     bool      `json:"isRemote"`
	CompanyLogo  string    `json:"companyLogo,omitempty"`
	PostedAt     time.Time `json:"postedAt"`
	IsActive     bool      `json:"isActive"`
}

// MatchResult 简历与单个岗位的匹配结果，每次查询实时计算，不落库
type MatchResult struct {
	JobID         string   `json:"jobId"`
	MatchScore    int      `json:"matchScore"`
	MissingSkills []string `json:"missingSkills"`
}

// RankedInternship 推荐列表中的一项: 岗位本身加上匹配信息
type RankedInternship struct {
	Internship
	MatchScore      int      `json:"matchScore"`
	MissingKeywords []string `json:"missingKeywords"`
}

// InternshipFilter 岗位搜索条件，空字段表示不过滤
type InternshipFilter struct {
	Query    string
	Location string
	Industry string
}

// IsEmpty 是否没有任何过滤条件
func (f InternshipFilter) IsEmpty() bool {
	return f.Query == "" && f.Location == "" && f.Industry == ""
}
