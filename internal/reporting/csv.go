package reporting

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"signal-lab/internal/domain"
)

// RenderSignalsCSV renders signal states one row per state. The header is the
// sorted union of keys; missing keys render as empty cells.
func RenderSignalsCSV(states []domain.SignalState) (string, error) {
	seen := make(map[string]struct{})
	for _, s := range states {
		for k := range s {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(keys); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	row := make([]string, len(keys))
	for i, s := range states {
		for j, k := range keys {
			row[j] = s[k]
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return sb.String(), nil
}

// RenderSummaryCSV renders series summaries as CSV string.
func RenderSummaryCSV(rows []SeriesRow) string {
	var sb strings.Builder

	sb.WriteString("series,count,mean,stddev,median,p10,p90,min,max,win_rate,")
	sb.WriteString("max_consecutive_losses,drawdown_start,drawdown_end,max_drawdown\n")

	for _, r := range rows {
		s := r.Summary
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%d,%d,%d,%.4f\n",
			r.Name,
			s.Count,
			s.Mean,
			s.Stddev,
			s.Median,
			s.P10,
			s.P90,
			s.Min,
			s.Max,
			s.WinRate,
			s.MaxConsecutiveLosses,
			s.DrawdownStart,
			s.DrawdownEnd,
			s.MaxDrawdown,
		))
	}

	return sb.String()
}
