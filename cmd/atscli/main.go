// Package main 离线 ATS 评分工具，不依赖任何外部服务
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	appCoreLogger "intern-match-go/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "atscli",
	Short: "Offline résumé ATS scorer",
	Long:  "atscli scores a résumé file with the same rules as the HTTP service and ranks it against the seeded internship catalog.",
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志")
	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		appCoreLogger.Init(appCoreLogger.Config{Level: level, Format: "pretty", Output: os.Stderr})
	}
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
