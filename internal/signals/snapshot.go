package signals

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// snapshotBars is the number of most recent bars drawn per frequency.
const snapshotBars = 200

const (
	chartWidth  = 800
	chartHeight = 200
)

var snapshotTmpl = template.Must(template.New("snapshot").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Symbol}} {{.EndDt}}</title>
<style>
body { font-family: sans-serif; margin: 24px; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 2px 8px; text-align: left; }
svg { border: 1px solid #eee; margin-bottom: 16px; }
</style>
</head>
<body>
<h1>{{.Symbol}}</h1>
<p>end: {{.EndDt}}</p>
<h2>signals</h2>
<table>
<tr><th>key</th><th>value</th></tr>
{{range .State}}<tr><td>{{.Key}}</td><td>{{.Value}}</td></tr>
{{end}}</table>
{{range .Charts}}<h2>{{.Freq}} ({{.Count}} bars, {{printf "%.4f" .Min}} - {{printf "%.4f" .Max}})</h2>
<svg width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}">
<polyline fill="none" stroke="#1f77b4" stroke-width="1" points="{{.Points}}"/>
</svg>
{{end}}</body>
</html>
`))

type snapshotRow struct {
	Key   string
	Value string
}

type snapshotChart struct {
	Freq     string
	Count    int
	Min, Max float64
	Width    int
	Height   int
	Points   string
}

type snapshotView struct {
	Symbol string
	EndDt  string
	State  []snapshotRow
	Charts []snapshotChart
}

// TakeSnapshot writes an HTML page with the current state and recent closes per frequency.
func (t *Trader) TakeSnapshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := t.WriteSnapshot(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return nil
}

// WriteSnapshot renders the snapshot page to w.
func (t *Trader) WriteSnapshot(w io.Writer) error {
	view := snapshotView{
		Symbol: t.gen.Symbol(),
		EndDt:  t.gen.EndDt().Format(time.RFC3339),
	}

	keys := make([]string, 0, len(t.state))
	for k := range t.state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		view.State = append(view.State, snapshotRow{Key: k, Value: t.state[k]})
	}

	for _, f := range t.gen.Freqs() {
		closes := t.gen.Closes(f)
		if len(closes) > snapshotBars {
			closes = closes[len(closes)-snapshotBars:]
		}
		view.Charts = append(view.Charts, buildChart(string(f), closes))
	}

	if err := snapshotTmpl.Execute(w, view); err != nil {
		return fmt.Errorf("render snapshot: %w", err)
	}
	return nil
}

func buildChart(freq string, closes []float64) snapshotChart {
	c := snapshotChart{Freq: freq, Count: len(closes), Width: chartWidth, Height: chartHeight}
	if len(closes) == 0 {
		return c
	}

	c.Min, c.Max = closes[0], closes[0]
	for _, v := range closes {
		if v < c.Min {
			c.Min = v
		}
		if v > c.Max {
			c.Max = v
		}
	}
	span := c.Max - c.Min
	if span == 0 {
		span = 1
	}
	step := 0.0
	if len(closes) > 1 {
		step = float64(chartWidth) / float64(len(closes)-1)
	}

	var sb strings.Builder
	for i, v := range closes {
		x := float64(i) * step
		y := float64(chartHeight) - (v-c.Min)/span*float64(chartHeight)
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}
	c.Points = sb.String()
	return c
}
