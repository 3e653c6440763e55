// Command signals runs walk-forward signal generation over one bar series
// and writes one signal state per evaluated bar.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"signal-lab/internal/cli"
	"signal-lab/internal/domain"
	"signal-lab/internal/reporting"
	"signal-lab/internal/walkforward"
)

func main() {
	cli.Exit(run())
}

func run() (err error) {
	var common cli.CommonFlags
	common.Register(flag.CommandLine)
	var series cli.SeriesFlags
	series.Register(flag.CommandLine, "D")
	sdtFlag := flag.String("sdt", "", "Evaluation start date (YYYY-MM-DD); earlier bars warm up")
	freqsFlag := flag.String("freqs", "", "Comma-separated higher frequencies (default from config)")
	format := flag.String("format", "jsonl", "Output format (jsonl, csv)")
	output := flag.String("output", "", "Output file (default stdout)")
	persist := flag.Bool("persist", false, "Store the states in the signal record store")
	flag.Parse()

	sdt, err := cli.ParseDate(*sdtFlag)
	if err != nil || sdt.IsZero() {
		return cli.Usagef("--sdt is required (YYYY-MM-DD)")
	}
	if *format != "jsonl" && *format != "csv" {
		return cli.Usagef("unknown --format %q", *format)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := cli.Setup(ctx, "signals", common)
	if err != nil {
		return err
	}
	defer env.Close()
	log := env.Log

	series.DefaultFreq(flag.CommandLine, env.Cfg)
	if *freqsFlag == "" {
		*freqsFlag = env.Cfg.Harness.Freqs
	}
	freqs, err := domain.ParseFreqs(*freqsFlag)
	if err != nil {
		return cli.Usagef("--freqs: %v", err)
	}
	q, err := series.Query()
	if err != nil {
		return cli.Usagef("%v", err)
	}

	bars, err := series.LoadBars(ctx, env.Cache)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	h, err := walkforward.New(walkforward.Options{
		Logger:      log,
		MaxCount:    env.Cfg.Harness.MaxCount,
		SnapshotDir: env.Cfg.SnapshotDir,
	})
	if err != nil {
		return fmt.Errorf("create harness: %w", err)
	}

	states, err := h.Generate(ctx, bars, sdt, q.Freq, freqs)
	if err != nil {
		return fmt.Errorf("generate signals: %w", err)
	}

	if *persist {
		runID := uuid.NewString()
		if err := persistStates(ctx, env, runID, q.Symbol, bars, states); err != nil {
			return fmt.Errorf("persist signals: %w", err)
		}
		log.Info().Str("run_id", runID).Int("records", len(states)).Msg("signals persisted")
	}

	if *output == "" {
		return writeStates(os.Stdout, *format, states)
	}
	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return writeStates(f, *format, states)
}

// persistStates stores states against the last len(states) bars, which are
// the evaluation window.
func persistStates(ctx context.Context, env *cli.Env, runID, symbol string, bars []domain.Bar, states []domain.SignalState) error {
	if len(states) == 0 {
		return nil
	}
	window := bars[len(bars)-len(states):]
	records := make([]*domain.SignalRecord, len(states))
	for i, s := range states {
		records[i] = &domain.SignalRecord{
			RunID:  runID,
			Seq:    i,
			Symbol: symbol,
			Dt:     window[i].Dt,
			State:  s,
		}
	}
	return env.Stores.Signals.InsertBulk(ctx, records)
}

func writeStates(w io.Writer, format string, states []domain.SignalState) error {
	switch format {
	case "csv":
		s, err := reporting.RenderSignalsCSV(states)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, s); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		return nil
	case "jsonl":
		enc := json.NewEncoder(w)
		for _, s := range states {
			if err := enc.Encode(s); err != nil {
				return fmt.Errorf("write jsonl: %w", err)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}
