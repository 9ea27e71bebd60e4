package storage

import (
	"context"
	"fmt"
	"time"

	"intern-match-go/internal/types"
)

// DefaultCatalog 返回内置的示例岗位目录，PostedAt 相对 now 计算
func DefaultCatalog(now time.Time) []types.Internship {
	daysAgo := func(n int) time.Time {
		return now.Add(-time.Duration(n) * 24 * time.Hour)
	}
	return []types.Internship{
		{
			ID:          "1",
			Title:       "Software Engineering Intern",
			Company:     "Microsoft",
			Description: "Join our team to develop scalable web applications using React, Node.js, and Azure cloud services. You'll work on real products used by millions of users worldwide.",
			Location:    "Seattle, WA",
			Duration:    "3 months",
			Salary:      "$6,000/month",
			Requirements: []string{
				"Computer Science or related field",
				"Experience with JavaScript",
				"Knowledge of React",
				"Understanding of software development principles",
			},
			Skills:      []string{"React", "Node.js", "Azure", "TypeScript", "JavaScript", "Git"},
			Industry:    "Technology",
			IsRemote:    false,
			CompanyLogo: "fab fa-microsoft",
			PostedAt:    daysAgo(2),
			IsActive:    true,
		},
		{
			ID:          "2",
			Title:       "Data Science Intern",
			Company:     "Google",
			Description: "Work with large datasets to derive insights and build machine learning models. Experience with Python, SQL, and TensorFlow preferred.",
			Location:    "Mountain View, CA",
			Duration:    "3 months",
			Salary:      "$7,500/month",
			Requirements: []string{
				"Statistics or Computer Science background",
				"Python proficiency",
				"SQL knowledge",
				"Machine learning fundamentals",
			},
			Skills:      []string{"Python", "SQL", "TensorFlow", "Machine Learning", "Data Analysis", "Statistics"},
			Industry:    "Technology",
			IsRemote:    false,
			CompanyLogo: "fab fa-google",
			PostedAt:    daysAgo(5),
			IsActive:    true,
		},
		{
			ID:          "3",
			Title:       "UX Design Intern",
			Company:     "Spotify",
			Description: "Design user experiences for our mobile and web platforms. Collaborate with product managers and engineers to create intuitive interfaces.",
			Location:    "New York, NY",
			Duration:    "4 months",
			Salary:      "$5,500/month",
			Requirements: []string{
				"Design portfolio",
				"Figma proficiency",
				"User research experience",
				"Basic prototyping skills",
			},
			Skills:      []string{"Figma", "Sketch", "Prototyping", "User Research", "Design Systems", "Adobe Creative Suite"},
			Industry:    "Technology",
			IsRemote:    false,
			CompanyLogo: "fab fa-spotify",
			PostedAt:    daysAgo(7),
			IsActive:    true,
		},
		{
			ID:          "4",
			Title:       "Product Management Intern",
			Company:     "Slack",
			Description: "Work with cross-functional teams to define product roadmaps and drive feature development. Great opportunity to learn product strategy.",
			Location:    "San Francisco, CA",
			Duration:    "3 months",
			Salary:      "$6,500/month",
			Requirements: []string{
				"Business or technical background",
				"Analytical thinking",
				"Communication skills",
				"Interest in product development",
			},
			Skills:      []string{"Product Strategy", "Analytics", "Roadmapping", "User Stories", "Market Research", "Agile"},
			Industry:    "Technology",
			IsRemote:    true,
			CompanyLogo: "fab fa-slack",
			PostedAt:    daysAgo(14),
			IsActive:    true,
		},
		{
			ID:          "5",
			Title:       "Marketing Analytics Intern",
			Company:     "Netflix",
			Description: "Analyze marketing campaigns and user engagement data to optimize marketing strategies and improve user acquisition.",
			Location:    "Los Angeles, CA",
			Duration:    "4 months",
			Salary:      "$5,000/month",
			Requirements: []string{
				"Marketing or Analytics background",
				"Excel proficiency",
				"SQL knowledge",
				"Statistical analysis skills",
			},
			Skills:      []string{"Excel", "SQL", "Google Analytics", "A/B Testing", "Data Visualization", "Marketing"},
			Industry:    "Media",
			IsRemote:    false,
			CompanyLogo: "fab fa-netflix",
			PostedAt:    daysAgo(10),
			IsActive:    true,
		},
	}
}

// SeedCatalog 把示例岗位写入仓储，已存在的同 ID 岗位会被覆盖
func SeedCatalog(ctx context.Context, repo InternshipRepository, now time.Time) (int, error) {
	catalog := DefaultCatalog(now)
	for i := range catalog {
		if err := repo.UpsertInternship(ctx, &catalog[i]); err != nil {
			return i, fmt.Errorf("写入示例岗位 %s 失败: %w", catalog[i].ID, err)
		}
	}
	return len(catalog), nil
}
