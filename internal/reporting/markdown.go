package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	title := r.Title
	if title == "" {
		title = "Drawdown Report"
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Window: %s .. %s\n\n", formatBound(r.Start), formatBound(r.End)))

	sb.WriteString("## Series\n\n")
	if len(r.Series) == 0 {
		sb.WriteString("No series available.\n")
		return sb.String()
	}

	sb.WriteString("| Series | Bars | Mean | Stddev | Median | P10 | P90 | WinRate | MaxLoss | DD Start | DD End | MaxDD |\n")
	sb.WriteString("|--------|------|------|--------|--------|-----|-----|---------|---------|----------|--------|-------|\n")
	for _, row := range r.Series {
		s := row.Summary
		sb.WriteString(fmt.Sprintf("| %s | %d | %.4f | %.4f | %.4f | %.4f | %.4f | %.4f | %d | %d | %d | %.4f |\n",
			row.Name, s.Count, s.Mean, s.Stddev, s.Median, s.P10, s.P90,
			s.WinRate, s.MaxConsecutiveLosses, s.DrawdownStart, s.DrawdownEnd, s.MaxDrawdown))
	}
	sb.WriteString("\n")

	return sb.String()
}

func formatBound(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
