// Package models 定义 gorm 表结构以及与 internal/types 之间的转换。
// 列类型只使用 MySQL 与 PostgreSQL 都支持的写法，数组字段存为 JSON。
package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"intern-match-go/internal/types"
)

// User 用户表
type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	Username  string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_users_username_unique"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email_unique"`
	FirstName string    `gorm:"type:varchar(64)"`
	LastName  string    `gorm:"type:varchar(64)"`
	CreatedAt time.Time `gorm:"not null"`
}

func (User) TableName() string {
	return "users"
}

// Resume 简历表
type Resume struct {
	ID             string         `gorm:"type:varchar(36);primaryKey"`
	UserID         string         `gorm:"type:varchar(64);not null;index:idx_resumes_user_uploaded,priority:1"`
	FileName       string         `gorm:"type:varchar(255);not null"`
	FilePath       string         `gorm:"type:varchar(1024)"`
	Content        string         `gorm:"type:text"`
	SkillsJSON     datatypes.JSON `gorm:"column:skills"`
	ExperienceJSON datatypes.JSON `gorm:"column:experience"`
	EducationJSON  datatypes.JSON `gorm:"column:education"`
	AnalysisScore  int            `gorm:"not null;default:0"`
	KeywordsJSON   datatypes.JSON `gorm:"column:keywords"`
	FileMD5        string         `gorm:"type:char(32);index:idx_resumes_file_md5"`
	UploadedAt     time.Time      `gorm:"not null;index:idx_resumes_user_uploaded,priority:2"`
}

func (Resume) TableName() string {
	return "resumes"
}

// ResumeAnalysis 简历分析表
type ResumeAnalysis struct {
	ID                   string         `gorm:"type:varchar(36);primaryKey"`
	ResumeID             string         `gorm:"type:varchar(36);not null;index:idx_ra_resume_internship,priority:1"`
	InternshipID         string         `gorm:"type:varchar(36);index:idx_ra_resume_internship,priority:2"`
	MissingKeywordsJSON  datatypes.JSON `gorm:"column:missing_keywords"`
	SuggestionsJSON      datatypes.JSON `gorm:"column:suggestions"`
	TechnicalSkillsScore int            `gorm:"not null;default:0"`
	ExperienceScore      int            `gorm:"not null;default:0"`
	AchievementsScore    int            `gorm:"not null;default:0"`
	OverallScore         int            `gorm:"not null;default:0"`
	CreatedAt            time.Time      `gorm:"not null"`
}

func (ResumeAnalysis) TableName() string {
	return "resume_analyses"
}

// Internship 岗位表。CatalogOrder 记录写入顺序，列表按它排序。
type Internship struct {
	ID               string         `gorm:"type:varchar(36);primaryKey"`
	CatalogOrder     int64          `gorm:"autoIncrement:false;not null;default:0;index:idx_internships_order"`
	Title            string         `gorm:"type:varchar(255);not null"`
	Company          string         `gorm:"type:varchar(255);not null"`
	Description      string         `gorm:"type:text;not null"`
	Location         string         `gorm:"type:varchar(255)"`
	Duration         string         `gorm:"type:varchar(64)"`
	Salary           string         `gorm:"type:varchar(64)"`
	RequirementsJSON datatypes.JSON `gorm:"column:requirements"`
	SkillsJSON       datatypes.JSON `gorm:"column:skills"`
	Industry         string         `gorm:"type:varchar(128)"`
	IsRemote         bool           `gorm:"not null"`
	CompanyLogo      string         `gorm:"type:varchar(255)"`
	PostedAt         time.Time      `gorm:"not null"`
	IsActive         bool           `gorm:"not null;index:idx_internships_active"`
}

func (Internship) TableName() string {
	return "internships"
}

// Application 投递表
type Application struct {
	ID           string    `gorm:"type:varchar(36);primaryKey"`
	UserID       string    `gorm:"type:varchar(64);not null;index:idx_applications_user_applied,priority:1"`
	InternshipID string    `gorm:"type:varchar(36);not null;index:idx_applications_internship"`
	ResumeID     string    `gorm:"type:varchar(36);not null"`
	Status       string    `gorm:"type:varchar(32);not null;default:'pending';index:idx_applications_status"`
	MatchScore   int       `gorm:"not null;default:0"`
	CoverLetter  string    `gorm:"type:text"`
	AppliedAt    time.Time `gorm:"not null;index:idx_applications_user_applied,priority:2"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (Application) TableName() string {
	return "applications"
}

// AllModels AutoMigrate 需要迁移的全部模型
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Resume{},
		&ResumeAnalysis{},
		&Internship{},
		&Application{},
		&OutboxMessage{},
	}
}

// ToJSON 把任意值序列化为 JSON 列，nil 切片写成 []
func ToJSON(v interface{}) (datatypes.JSON, error) {
	if ss, ok := v.([]string); ok && ss == nil {
		return datatypes.JSON("[]"), nil
	}
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// jsonStrings 反序列化字符串数组列，空列或解析失败返回空切片
func jsonStrings(raw datatypes.JSON) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

// FromUser 领域对象转表记录
func FromUser(u *types.User) *User {
	return &User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

// ToDomain 表记录转领域对象
func (m *User) ToDomain() *types.User {
	return &types.User{
		ID:        m.ID,
		Username:  m.Username,
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		CreatedAt: m.CreatedAt,
	}
}

// FromResume 领域对象转表记录
func FromResume(r *types.Resume) (*Resume, error) {
	m := &Resume{
		ID:            r.ID,
		UserID:        r.UserID,
		FileName:      r.FileName,
		FilePath:      r.FilePath,
		Content:       r.Content,
		AnalysisScore: r.AnalysisScore,
		FileMD5:       r.FileMD5,
		UploadedAt:    r.UploadedAt,
	}
	var err error
	if m.SkillsJSON, err = ToJSON(r.Skills); err != nil {
		return nil, err
	}
	if m.ExperienceJSON, err = ToJSON(r.Experience); err != nil {
		return nil, err
	}
	if m.EducationJSON, err = ToJSON(r.Education); err != nil {
		return nil, err
	}
	if m.KeywordsJSON, err = ToJSON(r.Keywords); err != nil {
		return nil, err
	}
	return m, nil
}

// ToDomain 表记录转领域对象
func (m *Resume) ToDomain() *types.Resume {
	return &types.Resume{
		ID:            m.ID,
		UserID:        m.UserID,
		FileName:      m.FileName,
		FilePath:      m.FilePath,
		Content:       m.Content,
		Skills:        jsonStrings(m.SkillsJSON),
		Experience:    jsonStrings(m.ExperienceJSON),
		Education:     jsonStrings(m.EducationJSON),
		AnalysisScore: m.AnalysisScore,
		Keywords:      jsonStrings(m.KeywordsJSON),
		FileMD5:       m.FileMD5,
		UploadedAt:    m.UploadedAt,
	}
}

// FromResumeAnalysis 领域对象转表记录
func FromResumeAnalysis(a *types.ResumeAnalysis) (*ResumeAnalysis, error) {
	m := &ResumeAnalysis{
		ID:                   a.ID,
		ResumeID:             a.ResumeID,
		InternshipID:         a.InternshipID,
		TechnicalSkillsScore: a.TechnicalSkillsScore,
		ExperienceScore:      a.ExperienceScore,
		AchievementsScore:    a.AchievementsScore,
		OverallScore:         a.OverallScore,
		CreatedAt:            a.CreatedAt,
	}
	var err error
	if m.MissingKeywordsJSON, err = ToJSON(a.MissingKeywords); err != nil {
		return nil, err
	}
	suggestions := a.Suggestions
	if suggestions == nil {
		suggestions = []types.Suggestion{}
	}
	if m.SuggestionsJSON, err = ToJSON(suggestions); err != nil {
		return nil, err
	}
	return m, nil
}

// ToDomain 表记录转领域对象
func (m *ResumeAnalysis) ToDomain() *types.ResumeAnalysis {
	suggestions := []types.Suggestion{}
	if len(m.SuggestionsJSON) > 0 {
		if err := json.Unmarshal(m.SuggestionsJSON, &suggestions); err != nil || suggestions == nil {
			suggestions = []types.Suggestion{}
		}
	}
	return &types.ResumeAnalysis{
		ID:                   m.ID,
		ResumeID:             m.ResumeID,
		InternshipID:         m.InternshipID,
		MissingKeywords:      jsonStrings(m.MissingKeywordsJSON),
		Suggestions:          suggestions,
		TechnicalSkillsScore: m.TechnicalSkillsScore,
		ExperienceScore:      m.ExperienceScore,
		AchievementsScore:    m.AchievementsScore,
		OverallScore:         m.OverallScore,
		CreatedAt:            m.CreatedAt,
	}
}

// FromInternship 领域对象转表记录，order 为目录顺序
func FromInternship(i *types.Internship, order int64) (*Internship, error) {
	m := &Internship{
		ID:           i.ID,
		CatalogOrder: order,
		Title:        i.Title,
		Company:      i.Company,
		Description:  i.Description,
		Location:     i.Location,
		Duration:     i.Duration,
		Salary:       i.Salary,
		Industry:     i.Industry,
		IsRemote:     i.IsRemote,
		CompanyLogo:  i.CompanyLogo,
		PostedAt:     i.PostedAt,
		IsActive:     i.IsActive,
	}
	var err error
	if m.RequirementsJSON, err = ToJSON(i.Requirements); err != nil {
		return nil, err
	}
	if m.SkillsJSON, err = ToJSON(i.Skills); err != nil {
		return nil, err
	}
	return m, nil
}

// ToDomain 表记录转领域对象
func (m *Internship) ToDomain() *types.Internship {
	return &types.Internship{
		ID:           m.ID,
		Title:        m.Title,
		Company:      m.Company,
		Description:  m.Description,
		Location:     m.Location,
		Duration:     m.Duration,
		Salary:       m.Salary,
		Requirements: jsonStrings(m.RequirementsJSON),
		Skills:       jsonStrings(m.SkillsJSON),
		Industry:     m.Industry,
		IsRemote:     m.IsRemote,
		CompanyLogo:  m.CompanyLogo,
		PostedAt:     m.PostedAt,
		IsActive:     m.IsActive,
	}
}

// FromApplication 领域对象转表记录
func FromApplication(a *types.Application) *Application {
	return &Application{
		ID:           a.ID,
		UserID:       a.UserID,
		InternshipID: a.InternshipID,
		ResumeID:     a.ResumeID,
		Status:       string(a.Status),
		MatchScore:   a.MatchScore,
		CoverLetter:  a.CoverLetter,
		AppliedAt:    a.AppliedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// ToDomain 表记录转领域对象
func (m *Application) ToDomain() *types.Application {
	return &types.Application{
		ID:           m.ID,
		UserID:       m.UserID,
		InternshipID: m.InternshipID,
		ResumeID:     m.ResumeID,
		Status:       types.ApplicationStatus(m.Status),
		MatchScore:   m.MatchScore,
		CoverLetter:  m.CoverLetter,
		AppliedAt:    m.AppliedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
