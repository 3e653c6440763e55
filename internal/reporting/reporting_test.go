package reporting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-lab/internal/domain"
	"signal-lab/internal/metrics"
)

func TestRenderSignalsCSV(t *testing.T) {
	states := []domain.SignalState{
		{"dt": "2023-01-03", "D_MA5_MA20": "bull"},
		{"dt": "2023-01-04", "D_RSI14": "neutral", "note": "a,b"},
	}
	got, err := RenderSignalsCSV(states)
	require.NoError(t, err)

	want := "D_MA5_MA20,D_RSI14,dt,note\n" +
		"bull,,2023-01-03,\n" +
		",neutral,2023-01-04,\"a,b\"\n"
	assert.Equal(t, want, got)
}

func TestRenderSignalsCSV_Empty(t *testing.T) {
	got, err := RenderSignalsCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "\n", got)
}

func TestRenderSummaryCSV(t *testing.T) {
	rows := []SeriesRow{{Name: "000300.SH", Summary: metrics.Summarize([]float64{100, -300, 50})}}
	got := RenderSummaryCSV(rows)

	lines := strings.Split(strings.TrimSpace(got), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "series,count,"))
	assert.True(t, strings.HasPrefix(lines[1], "000300.SH,3,"))
	assert.True(t, strings.HasSuffix(lines[1], ",0,1,0.0297"))
}

func TestRenderMarkdown(t *testing.T) {
	r := &Report{
		GeneratedAt: time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC),
		Start:       time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Series:      []SeriesRow{{Name: "000001.SH", Summary: metrics.Summarize([]float64{-100, -100})}},
	}
	md := RenderMarkdown(r)

	assert.Contains(t, md, "# Drawdown Report")
	assert.Contains(t, md, "Generated: 2025-01-04T12:00:00Z")
	assert.Contains(t, md, "Window: 2023-01-01 .. -")
	assert.Contains(t, md, "| 000001.SH | 2 |")
	assert.Contains(t, md, "| 0 | 1 | 0.0101 |")

	empty := RenderMarkdown(&Report{Title: "Index Beta"})
	assert.Contains(t, empty, "# Index Beta")
	assert.Contains(t, empty, "No series available.")
}
