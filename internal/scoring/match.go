package scoring

import (
	"math"
	"sort"
	"strings"

	"intern-match-go/internal/types"
)

// MatchScore 计算用户技能对岗位技能的覆盖率，取值 [0,100]。
// 岗位技能与任一用户技能互相包含(忽略大小写)即视为命中，任一方为空时返回 0。
func MatchScore(userSkills, jobSkills []string) int {
	if len(userSkills) == 0 || len(jobSkills) == 0 {
		return 0
	}
	users := lowerAll(userSkills)
	matched := 0
	for _, job := range jobSkills {
		j := strings.ToLower(job)
		for _, u := range users {
			if strings.Contains(u, j) || strings.Contains(j, u) {
				matched++
				break
			}
		}
	}
	return percent(matched, len(jobSkills))
}

// MissingSkills 返回没有任何用户技能包含的岗位技能，保持岗位技能原有顺序。
// 只检查"用户技能包含岗位技能"这一个方向，因此一个技能可能同时计入 MatchScore 又出现在这里。
func MissingSkills(userSkills, jobSkills []string) []string {
	users := lowerAll(userSkills)
	missing := make([]string, 0)
	for _, job := range jobSkills {
		if !containedByAny(users, strings.ToLower(job)) {
			missing = append(missing, job)
		}
	}
	return missing
}

// CoverageScore 只按"用户技能包含岗位技能"方向计算覆盖率，用于投递时记录匹配分。
// 任一方为空时返回 0。
func CoverageScore(userSkills, jobSkills []string) int {
	if len(userSkills) == 0 || len(jobSkills) == 0 {
		return 0
	}
	users := lowerAll(userSkills)
	matched := 0
	for _, job := range jobSkills {
		if containedByAny(users, strings.ToLower(job)) {
			matched++
		}
	}
	return percent(matched, len(jobSkills))
}

// Match 计算单个岗位的匹配结果
func Match(userSkills []string, job types.Internship) types.MatchResult {
	return types.MatchResult{
		JobID:         job.ID,
		MatchScore:    MatchScore(userSkills, job.Skills),
		MissingSkills: MissingSkills(userSkills, job.Skills),
	}
}

// RankJobs 对所有在招岗位打分并按匹配分降序排列，分数相同时保持目录原顺序
func RankJobs(userSkills []string, catalog []types.Internship) []types.RankedInternship {
	ranked := make([]types.RankedInternship, 0, len(catalog))
	for _, job := range catalog {
		if !job.IsActive {
			continue
		}
		result := Match(userSkills, job)
		ranked = append(ranked, types.RankedInternship{
			Internship:      job,
			MatchScore:      result.MatchScore,
			MissingKeywords: result.MissingSkills,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	return ranked
}

func containedByAny(users []string, job string) bool {
	for _, u := range users {
		if strings.Contains(u, job) {
			return true
		}
	}
	return false
}

func lowerAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.ToLower(s)
	}
	return out
}

// percent 四舍五入到整数百分比，0.5 向上取整
func percent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}
