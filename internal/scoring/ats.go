// Package scoring 实现简历 ATS 评分、优化建议生成和岗位技能匹配。
// 包内函数都是纯函数，可以并发调用。
package scoring

import "intern-match-go/internal/types"

// 总分各部分的权重上限: 技能 40，经历 40，教育 20
const (
	skillPointsPerItem      = 5
	skillPointsCap          = 40
	experiencePointsPerItem = 8
	experiencePointsCap     = 40
	educationPointsPerItem  = 10
	educationPointsCap      = 20

	maxScore = 100

	// AchievementsThreshold 总分严格大于该值时成就分给高档
	AchievementsThreshold = 70
	achievementsHigh      = 80
	achievementsLow       = 40
)

// OverallScore 按 40/40/20 加权计算总分，结果在 [0,100]
func OverallScore(skillCount, experienceCount, educationCount int) int {
	score := min(skillCount*skillPointsPerItem, skillPointsCap) +
		min(experienceCount*experiencePointsPerItem, experiencePointsCap) +
		min(educationCount*educationPointsPerItem, educationPointsCap)
	return min(score, maxScore)
}

// Score 计算完整的评分明细。
// 分项分数与总分独立计算，总分不是分项的平均值。
func Score(skills, experience, education []string) types.ScoreBreakdown {
	overall := OverallScore(len(skills), len(experience), len(education))

	achievements := achievementsLow
	if overall > AchievementsThreshold {
		achievements = achievementsHigh
	}

	return types.ScoreBreakdown{
		SkillsScore:       min(len(skills)*10, maxScore),
		ExperienceScore:   min(len(experience)*15, maxScore),
		AchievementsScore: achievements,
		OverallScore:      overall,
	}
}

// ScoreProfile Score 的便捷形式
func ScoreProfile(p types.ExtractedProfile) types.ScoreBreakdown {
	return Score(p.Skills, p.Experience, p.Education)
}
