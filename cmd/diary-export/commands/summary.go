package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"diary-export/lib/csvout"
	"diary-export/lib/foodlog"
	"diary-export/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var summaryFlags struct {
	in          string
	out         string
	tokens      string
	includeZero bool
	start       string
	end         string
}

func init() {
	summaryCmd.PersistentFlags().StringVar(&summaryFlags.in, "in", "", "A csv file written by export or extract.")
	summaryCmd.PersistentFlags().StringVar(&summaryFlags.out, "out", "", "Write the summary to this csv file instead of printing it.")
	summaryCmd.PersistentFlags().StringVar(&summaryFlags.start, "start", "", "Ignore entries before this day (YYYY-MM-DD).")
	summaryCmd.PersistentFlags().StringVar(&summaryFlags.end, "end", "", "Ignore entries after this day (YYYY-MM-DD).")
	summaryCmd.MarkPersistentFlagRequired("in")

	dailyCmd.Flags().StringVar(&summaryFlags.tokens, "tokens", "", "Only count foods whose name contains one of these comma separated words.")
	dailyCmd.Flags().BoolVar(&summaryFlags.includeZero, "include-zero", false, "Keep the totals of days without any calories.")

	summaryCmd.AddCommand(dailyCmd, foodsCmd, rawCmd)
	rootCmd.AddCommand(summaryCmd)
}

func readLog() foodlog.Log {
	f, err := os.Open(summaryFlags.in)
	if err != nil {
		serviceutil.Fatal("failed to open export", err)
	}
	defer f.Close()

	log, err := foodlog.Read(f)
	if err != nil {
		serviceutil.Fatal(fmt.Sprintf("failed to read %s", summaryFlags.in), err)
	}

	start, err := parseDateFlag(summaryFlags.start)
	if err != nil {
		serviceutil.Fatal("invalid --start", err)
	}
	end, err := parseDateFlag(summaryFlags.end)
	if err != nil {
		serviceutil.Fatal("invalid --end", err)
	}
	return log.Between(start, end)
}

func splitTokens(value string) []string {
	var tokens []string
	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(token)
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func writeSummary(summary foodlog.Table) {
	if summaryFlags.out != "" {
		err := csvout.WriteFile(summaryFlags.out, summary.Header, summary.Rows)
		if err != nil {
			serviceutil.Fatal("failed to write summary", err)
		}
		slog.Info("wrote summary", "rows", len(summary.Rows), "output", summaryFlags.out)
		return
	}

	t := NewTable()
	header := make(table.Row, len(summary.Header))
	for i, h := range summary.Header {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, row := range summary.Rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		t.AppendRow(r)
	}
	t.Render()
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarizes an exported food diary.",
}

var dailyCmd = &cobra.Command{
	Use:   "daily --in <path/to/diary.csv> [--tokens <a,b>] [--include-zero]",
	Short: "Totals every day, overall and per meal.",
	Run: func(cmd *cobra.Command, args []string) {
		log := readLog()
		tokens := splitTokens(summaryFlags.tokens)
		for _, token := range log.UnmatchedTokens(tokens) {
			suggestion, _ := log.SuggestFood(token)
			slog.Warn("no food matches token", "token", token, "closest", suggestion)
		}
		writeSummary(log.DailyMacros(tokens, summaryFlags.includeZero))
	},
}

var foodsCmd = &cobra.Command{
	Use:   "foods --in <path/to/diary.csv>",
	Short: "Lists every distinct food, most eaten first.",
	Run: func(cmd *cobra.Command, args []string) {
		log := readLog()
		writeSummary(log.UniqueFoods())
	},
}

var rawCmd = &cobra.Command{
	Use:   "raw --in <path/to/diary.csv>",
	Short: "Lists every entry with its week, month and weekday.",
	Run: func(cmd *cobra.Command, args []string) {
		log := readLog()
		writeSummary(log.RawFoods())
	},
}
