package scoring

import "intern-match-go/internal/types"

const (
	// criticalScoreBelow 总分低于该值时给出量化成就建议
	criticalScoreBelow = 60
	// minSkillCount 技能数低于该值时建议补充技能
	minSkillCount = 8
	// minExperienceCount 经历行数低于该值时建议补充经历
	minExperienceCount = 3
)

var (
	quantifiedAchievements = types.Suggestion{
		Type:        types.SuggestionCritical,
		Title:       "Add Quantified Achievements",
		Description: `Replace generic statements with specific, measurable accomplishments. For example: "Improved website performance by 40%, reducing load time from 3.2s to 1.9s"`,
		Priority:    types.PriorityHigh,
	}
	enhanceSkills = types.Suggestion{
		Type:        types.SuggestionImprovement,
		Title:       "Enhance Technical Skills Section",
		Description: "Add more relevant technical skills that match industry requirements. Consider adding cloud platforms, frameworks, and tools.",
		Priority:    types.PriorityMedium,
	}
	moreExperience = types.Suggestion{
		Type:        types.SuggestionEnhancement,
		Title:       "Highlight More Experience",
		Description: "Include internships, projects, and relevant coursework to demonstrate your practical experience.",
		Priority:    types.PriorityMedium,
	}
	atsCompatibility = types.Suggestion{
		Type:        types.SuggestionOptimization,
		Title:       "Improve ATS Compatibility",
		Description: "Use standard section headers and keywords that applicant tracking systems can easily parse.",
		Priority:    types.PriorityLow,
	}
)

// Suggest 根据技能、经历和总分生成建议列表。
// 顺序固定: 量化成就、技能、经历、ATS 兼容性，最后一条总是存在。
// 展示时的条数截断由调用方负责。
func Suggest(skills, experience []string, overall int) []types.Suggestion {
	suggestions := make([]types.Suggestion, 0, 4)

	if overall < criticalScoreBelow {
		suggestions = append(suggestions, quantifiedAchievements)
	}
	if len(skills) < minSkillCount {
		suggestions = append(suggestions, enhanceSkills)
	}
	if len(experience) < minExperienceCount {
		suggestions = append(suggestions, moreExperience)
	}
	suggestions = append(suggestions, atsCompatibility)

	return suggestions
}

// TopSuggestions 返回前 n 条建议，n <= 0 时返回全部
func TopSuggestions(suggestions []types.Suggestion, n int) []types.Suggestion {
	if n <= 0 || len(suggestions) <= n {
		return suggestions
	}
	return suggestions[:n]
}
