package parser

import (
	"regexp"
	"strings"

	"intern-match-go/internal/types"
)

// KnownSkills 可识别的技能词表。顺序即输出顺序，词表内没有重复项。
var KnownSkills = []string{
	"JavaScript", "Python", "Java", "C++", "React", "Node.js", "Express.js",
	"Django", "Git", "Docker", "AWS", "MongoDB", "SQL", "HTML", "CSS",
	"TypeScript", "Angular", "Vue.js", "PostgreSQL", "MySQL", "Redis",
	"Kubernetes", "Jenkins", "Agile", "Scrum", "REST", "GraphQL", "TensorFlow",
	"Machine Learning", "Data Science", "Analytics", "Figma", "Sketch",
}

// 章节标题，大小写不敏感。RE2 不支持前瞻断言，结束位置单独查找。
var (
	experienceHeader = regexp.MustCompile(`(?i)` + string(types.SectionExperience))
	educationHeader  = regexp.MustCompile(`(?i)` + string(types.SectionEducation))

	experienceTerminator = regexp.MustCompile(`(?i)` + string(types.SectionEducation) + `|` + string(types.SectionSkills))
	educationTerminator  = regexp.MustCompile(`(?i)` + string(types.SectionExperience) + `|` + string(types.SectionSkills))
)

// ExtractProfile 从简历纯文本中提取技能、经历和教育信息。
// 纯函数，任何输入都不会返回错误。
func ExtractProfile(text string) types.ExtractedProfile {
	return types.ExtractedProfile{
		Skills:     ExtractSkills(text),
		Experience: ExtractExperience(text),
		Education:  ExtractEducation(text),
	}
}

// ExtractSkills 返回文本中出现过的已知技能。
// 匹配是大小写不敏感的子串匹配，不判断词边界，因此 "JavaScript" 同时命中 "Java"。
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	skills := make([]string, 0)
	for _, skill := range KnownSkills {
		if strings.Contains(lower, strings.ToLower(skill)) {
			skills = append(skills, skill)
		}
	}
	return skills
}

// ExtractExperience 返回 EXPERIENCE 标题之后、下一个 EDUCATION 或 SKILLS 标题之前的非空行
func ExtractExperience(text string) []string {
	return extractSection(text, experienceHeader, experienceTerminator)
}

// ExtractEducation 返回 EDUCATION 标题之后、下一个 EXPERIENCE 或 SKILLS 标题之前的非空行
func ExtractEducation(text string) []string {
	return extractSection(text, educationHeader, educationTerminator)
}

func extractSection(text string, header, terminator *regexp.Regexp) []string {
	loc := header.FindStringIndex(text)
	if loc == nil {
		return []string{}
	}
	body := text[loc[1]:]
	if end := terminator.FindStringIndex(body); end != nil {
		body = body[:end[0]]
	}
	return nonBlankLines(body)
}

// nonBlankLines 按 \n 切分并丢弃只含空白字符的行，其余行原样保留
func nonBlankLines(block string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
