package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"pcdmanager/internal/model"
)

var (
	matchedColor   = color.New(color.FgHiGreen)
	unmatchedColor = color.New(color.FgRed)
	headingColor   = color.New(color.Bold)
	warnColor      = color.New(color.FgYellow)
)

// printMatches 输出匹配表：已匹配为绿色，未匹配为红色
func printMatches(w io.Writer, title string, matches []model.MatchResult) {
	headingColor.Fprintf(w, "%s (%d)\n", title, len(matches))
	for _, m := range matches {
		if m.Matched {
			fmt.Fprintf(w, "  %s %-12s → %s (#%d)\n", matchedColor.Sprint("✓"), m.ExcelString, m.EntityName, *m.EntityID)
			continue
		}
		fmt.Fprintf(w, "  %s %-12s → %s\n", unmatchedColor.Sprint("✗"), m.ExcelString, unmatchedColor.Sprint("unmatched"))
	}
}

func printReview(w io.Writer, review *model.ReviewResult) {
	fmt.Fprintf(w, "Rows: %d\n", review.TotalRows)
	for _, s := range review.Sheets {
		switch s.Status {
		case model.SheetStatusRead:
			fmt.Fprintf(w, "  sheet %q: %d rows (%d blank skipped)\n", s.SheetName, s.Rows, s.SkippedRows)
		default:
			warnColor.Fprintf(w, "  sheet %q: %s\n", s.SheetName, s.Status)
		}
	}
	printMatches(w, "Tools", review.ToolMatches)
	printMatches(w, "Technicians", review.TechMatches)
}

func printResult(w io.Writer, result *model.ImportResult, dryRun bool) {
	prefix := ""
	if dryRun {
		prefix = "[dry-run] "
	}
	fmt.Fprintf(w, "%sBatch %s: imported %s, skipped %d (duplicates %d)\n",
		prefix, result.BatchID, matchedColor.Sprint(result.Imported), result.Skipped, result.Duplicates)
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  %s\n", unmatchedColor.Sprint(e))
	}
}
