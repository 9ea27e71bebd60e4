package types

import "time"

// SectionType 简历章节类型，对应纯文本简历中的章节标题
type SectionType string

const (
	// SectionExperience 工作/实习经历章节
	SectionExperience SectionType = "EXPERIENCE"
	// SectionEducation 教育经历章节
	SectionEducation SectionType = "EDUCATION"
	// SectionSkills 技能章节
	SectionSkills SectionType = "SKILLS"
)

// ExtractedProfile 从简历原文中提取出的结构化信息
type ExtractedProfile struct {
	// Skills 命中的已知技能，按词表顺序排列
	Skills []string `json:"skills"`
	// Experience 经历章节中的非空行，保持原文顺序
	Experience []string `json:"experience"`
	// Education 教育章节中的非空行，保持原文顺序
	Education []string `json:"education"`
}

// ScoreBreakdown ATS 评分结果。
// OverallScore 与三个分项分数分别独立计算，两者不要求能够互相推导。
type ScoreBreakdown struct {
	SkillsScore       int `json:"skillsScore"`
	ExperienceScore   int `json:"experienceScore"`
	AchievementsScore int `json:"achievementsScore"`
	OverallScore      int `json:"overallScore"`
}

// SuggestionType 优化建议类别
type SuggestionType string

const (
	SuggestionCritical     SuggestionType = "critical"
	SuggestionImprovement  SuggestionType = "improvement"
	SuggestionEnhancement  SuggestionType = "enhancement"
	SuggestionOptimization SuggestionType = "optimization"
)

// Priority 建议优先级
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Suggestion 单条简历优化建议
type Suggestion struct {
	Type        SuggestionType `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    Priority       `json:"priority"`
}

// Resume 一次简历上传的记录
type Resume struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	FileName      string    `json:"fileName"`
	FilePath      string    `json:"filePath"`
	Content       string    `json:"content,omitempty"`
	Skills        []string  `json:"skills"`
	Experience    []string  `json:"experience"`
	Education     []string  `json:"education"`
	AnalysisScore int       `json:"analysisScore"`
	Keywords      []string  `json:"keywords"`
	FileMD5       string    `json:"fileMd5,omitempty"`
	UploadedAt    time.Time `json:"uploadedAt"`
}

// ResumeAnalysis 简历分析结果，随上传一并持久化
type ResumeAnalysis struct {
	ID                   string       `json:"id"`
	ResumeID             string       `json:"resumeId"`
	InternshipID         string       `json:"internshipId,omitempty"`
	MissingKeywords      []string     `json:"missingKeywords"`
	Suggestions          []Suggestion `json:"suggestions"`
	TechnicalSkillsScore int          `json:"technicalSkillsScore"`
	ExperienceScore      int          `json:"experienceScore"`
	AchievementsScore    int          `json:"achievementsScore"`
	OverallScore         int          `json:"overallScore"`
	CreatedAt            time.Time    `json:"createdAt"`
}

// AnalysisSummary 上传接口返回给前端的分析摘要
type AnalysisSummary struct {
	Score       int          `json:"score"`
	Suggestions []Suggestion `json:"suggestions"`
	Skills      []string     `json:"skills"`
	Experience  int          `json:"experience"`
	Education   int          `json:"education"`
}

// UploadResult 上传接口响应体
type UploadResult struct {
	Resume   *Resume         `json:"resume"`
	Analysis AnalysisSummary `json:"analysis"`
}
