package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSkills(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"空文本", "", []string{}},
		{"大小写不敏感", "i write PYTHON and docker", []string{"Python", "Docker"}},
		{"无词边界，JavaScript 也命中 Java", "JavaScript", []string{"JavaScript", "Java"}},
		{"输出按词表顺序", "Sketch, Figma, React", []string{"React", "Figma", "Sketch"}},
		{"多词技能", "background in machine learning and data science", []string{"Machine Learning", "Data Science"}},
		{"PostgreSQL 同时命中 SQL", "PostgreSQL", []string{"SQL", "PostgreSQL"}},
		{"无任何技能", "gardening and cooking", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSkills(tt.text))
		})
	}
}

func TestExtractSkillsSubsetOfVocabulary(t *testing.T) {
	text := strings.Join(KnownSkills, " ") + " plus Rust, Elixir and Haskell"
	skills := ExtractSkills(text)

	assert.Equal(t, KnownSkills, skills, "词表中的每一项都应被识别")
	for _, s := range skills {
		assert.Contains(t, KnownSkills, s)
	}
}

func TestExtractSkillsPresenceMatchesSubstring(t *testing.T) {
	text := "Built REST services with Node.js, deployed via Jenkins."
	skills := ExtractSkills(text)
	lower := strings.ToLower(text)
	for _, skill := range KnownSkills {
		present := strings.Contains(lower, strings.ToLower(skill))
		if present {
			assert.Contains(t, skills, skill)
		} else {
			assert.NotContains(t, skills, skill)
		}
	}
}

func TestExtractExperience(t *testing.T) {
	text := "Jane\nEXPERIENCE\nA\n\nB\nEDUCATION\nC"
	assert.Equal(t, []string{"A", "B"}, ExtractExperience(text))
}

func TestExtractExperienceTerminatesAtSkills(t *testing.T) {
	text := "experience\n  Intern at X  \n   \nskills\nGo"
	assert.Equal(t, []string{"  Intern at X  "}, ExtractExperience(text), "行内容应原样保留，空白行被丢弃")
}

func TestExtractExperienceRunsToEnd(t *testing.T) {
	text := "EXPERIENCE\nline one\nline two\n"
	assert.Equal(t, []string{"line one", "line two"}, ExtractExperience(text))
}

func TestExtractEducation(t *testing.T) {
	text := "EDUCATION\nBSc CS\nEXPERIENCE\nIntern"
	assert.Equal(t, []string{"BSc CS"}, ExtractEducation(text))
	assert.Equal(t, []string{"Intern"}, ExtractExperience(text))
}

func TestExtractSectionMissingHeader(t *testing.T) {
	text := "John Doe\nSome summary without headers"
	assert.Empty(t, ExtractExperience(text))
	assert.Empty(t, ExtractEducation(text))
	assert.NotNil(t, ExtractExperience(text), "缺失章节应返回空切片而不是 nil")
}

func TestExtractSectionHeaderInsideWord(t *testing.T) {
	// 标题匹配同样不判断词边界
	text := "Work experienced\nbuilt things\nskillset: Go"
	assert.Equal(t, []string{"d", "built things"}, ExtractExperience(text))
}

func TestExtractProfileSampleResume(t *testing.T) {
	profile := ExtractProfile(SampleResumeText)

	assert.Equal(t, []string{
		"JavaScript", "Python", "Java", "C++", "React", "Node.js", "Express.js",
		"Django", "Git", "Docker", "AWS", "MongoDB", "Agile", "REST",
	}, profile.Skills)

	require.Len(t, profile.Experience, 4)
	assert.Equal(t, "Software Developer Intern | TechCorp | Summer 2023", profile.Experience[0])
	assert.Equal(t, "- Collaborated with cross-functional teams", profile.Experience[3])

	assert.Equal(t, []string{
		"Bachelor of Science in Computer Science",
		"University of Technology | Expected May 2024",
		"GPA: 3.7/4.0",
	}, profile.Education)
}
