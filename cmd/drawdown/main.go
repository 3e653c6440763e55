// Command drawdown reports the maximum drawdown and return statistics of a
// return series, a stored bar series, or the benchmark indices.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"signal-lab/internal/cli"
	"signal-lab/internal/datacache"
	"signal-lab/internal/metrics"
	"signal-lab/internal/reporting"
)

func main() {
	cli.Exit(run())
}

func run() error {
	var common cli.CommonFlags
	common.Register(flag.CommandLine)
	var series cli.SeriesFlags
	series.Register(flag.CommandLine, "D")
	returnsFile := flag.String("returns", "", "File of returns in basis points, one per line or comma-separated")
	index := flag.Bool("index", false, "Report the benchmark indices over --start/--end")
	indices := flag.String("indices", "", "Comma-separated index codes (default: the six benchmark indices)")
	format := flag.String("format", "md", "Output format (md, csv, json)")
	flag.Parse()

	if *format != "md" && *format != "csv" && *format != "json" {
		return cli.Usagef("unknown --format %q", *format)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := cli.Setup(ctx, "drawdown", common)
	if err != nil {
		return err
	}
	defer env.Close()

	report := &reporting.Report{GeneratedAt: time.Now().UTC()}

	switch {
	case *returnsFile != "":
		returns, err := readReturns(*returnsFile)
		if err != nil {
			return err
		}
		report.Title = "Drawdown Report"
		report.Series = []reporting.SeriesRow{{Name: *returnsFile, Summary: metrics.Summarize(returns)}}

	case *index:
		start, err := cli.ParseDate(series.Start)
		if err != nil {
			return cli.Usagef("--start: %v", err)
		}
		end, err := cli.ParseDate(series.End)
		if err != nil {
			return cli.Usagef("--end: %v", err)
		}
		if end.IsZero() {
			end = report.GeneratedAt
		}
		var codes []string
		if *indices != "" {
			codes = strings.Split(*indices, ",")
		}
		beta, err := env.Cache.IndexBeta(ctx, start, end, codes)
		if err != nil {
			return fmt.Errorf("load index bars: %w", err)
		}
		report.Title = "Index Beta"
		report.Start, report.End = start, end
		for code, bars := range beta {
			report.Series = append(report.Series, reporting.SeriesRow{
				Name:    code,
				Summary: metrics.Summarize(datacache.Returns(bars)),
			})
		}

	default:
		bars, err := series.LoadBars(ctx, env.Cache)
		if err != nil {
			return fmt.Errorf("load bars: %w", err)
		}
		report.Title = "Drawdown Report"
		report.Series = []reporting.SeriesRow{{
			Name:    series.Symbol,
			Summary: metrics.Summarize(datacache.Returns(datacache.Decorate(bars))),
		}}
	}

	sort.Slice(report.Series, func(i, j int) bool { return report.Series[i].Name < report.Series[j].Name })
	for _, row := range report.Series {
		env.Log.Info().
			Str("series", row.Name).
			Int("start", row.Summary.DrawdownStart).
			Int("end", row.Summary.DrawdownEnd).
			Float64("mdd", row.Summary.MaxDrawdown).
			Msg("max drawdown")
	}

	return write(os.Stdout, *format, report)
}

func write(w io.Writer, format string, r *reporting.Report) error {
	switch format {
	case "md":
		_, err := io.WriteString(w, reporting.RenderMarkdown(r))
		return err
	case "csv":
		_, err := io.WriteString(w, reporting.RenderSummaryCSV(r.Series))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return fmt.Errorf("unknown format %q", format)
}

// readReturns parses basis-point returns separated by newlines or commas.
// Blank fields and a non-numeric first field (a header) are skipped.
func readReturns(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open returns: %w", err)
	}
	defer f.Close()

	var out []float64
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		for _, field := range strings.Split(sc.Text(), ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				if line == 1 && len(out) == 0 {
					continue
				}
				return nil, fmt.Errorf("line %d: parse %q: %w", line, field, err)
			}
			out = append(out, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan returns: %w", err)
	}
	return out, nil
}
