package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	appCoreLogger "intern-match-go/internal/logger"
	"intern-match-go/internal/parser"
	"intern-match-go/internal/scoring"
	"intern-match-go/internal/storage"
	"intern-match-go/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score <file>",
	Short: "Score a résumé and list the best matching internships",
	Long:  "Extracts skills, experience and education from a résumé (.pdf goes through the stub extractor, anything else is read as plain text), prints the ATS breakdown, suggestions and top matches.",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

var (
	scoreTop  int
	scoreJSON bool
)

func init() {
	scoreCmd.Flags().IntVarP(&scoreTop, "top", "n", 3, "显示的推荐岗位数量")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "以 JSON 输出")
	rootCmd.AddCommand(scoreCmd)
}

// scoreReport 一次离线评分的结果
type scoreReport struct {
	File        string                   `json:"file"`
	Profile     types.ExtractedProfile   `json:"profile"`
	Score       types.ScoreBreakdown     `json:"score"`
	Suggestions []types.Suggestion       `json:"suggestions"`
	Matches     []types.RankedInternship `json:"matches"`
}

func runScore(cmd *cobra.Command, args []string) error {
	report, err := buildReport(cmd.Context(), args[0], parser.NewStubPDFExtractor(
		parser.WithStubLogger(appCoreLogger.Component("atscli")),
	), scoreTop)
	if err != nil {
		return err
	}
	if scoreJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(cmd.OutOrStdout(), report)
	return nil
}

func buildReport(ctx context.Context, path string, extractor parser.TextExtractor, top int) (*scoreReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取文件 %s 失败: %w", path, err)
	}

	text := string(data)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, _, err = extractor.ExtractTextFromBytes(ctx, data, path)
		if err != nil {
			return nil, fmt.Errorf("提取 PDF 文本失败: %w", err)
		}
	}

	profile := parser.ExtractProfile(text)
	score := scoring.ScoreProfile(profile)
	matches := scoring.RankJobs(profile.Skills, storage.DefaultCatalog(time.Now()))
	if top >= 0 && len(matches) > top {
		matches = matches[:top]
	}
	return &scoreReport{
		File:        filepath.Base(path),
		Profile:     profile,
		Score:       score,
		Suggestions: scoring.Suggest(profile.Skills, profile.Experience, score.OverallScore),
		Matches:     matches,
	}, nil
}

func printReport(w io.Writer, r *scoreReport) {
	fmt.Fprintf(w, "文件: %s\n", r.File)
	fmt.Fprintf(w, "ATS 总分: %d\n", r.Score.OverallScore)
	fmt.Fprintf(w, "  技能: %d  经历: %d  成就: %d\n", r.Score.SkillsScore, r.Score.ExperienceScore, r.Score.AchievementsScore)
	fmt.Fprintf(w, "技能(%d): %s\n", len(r.Profile.Skills), strings.Join(r.Profile.Skills, ", "))
	fmt.Fprintf(w, "经历条目: %d  教育条目: %d\n", len(r.Profile.Experience), len(r.Profile.Education))

	fmt.Fprintln(w, "建议:")
	for _, s := range r.Suggestions {
		fmt.Fprintf(w, "  [%s] %s: %s\n", s.Priority, s.Title, s.Description)
	}

	fmt.Fprintln(w, "推荐岗位:")
	for i, m := range r.Matches {
		fmt.Fprintf(w, "  %d. %s @ %s  匹配 %d%%", i+1, m.Title, m.Company, m.MatchScore)
		if len(m.MissingKeywords) > 0 {
			fmt.Fprintf(w, "  缺少: %s", strings.Join(m.MissingKeywords, ", "))
		}
		fmt.Fprintln(w)
	}
}
