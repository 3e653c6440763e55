// Command checksignals replays a bar series through the signal engine and
// exports a snapshot each time a watched signal matches, at most once per
// five days per signal key.
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
	"time"

	"signal-lab/internal/cli"
	"signal-lab/internal/domain"
	"signal-lab/internal/walkforward"
)

func main() {
	cli.Exit(run())
}

func run() error {
	var common cli.CommonFlags
	common.Register(flag.CommandLine)
	var series cli.SeriesFlags
	series.Register(flag.CommandLine, "D")
	var signalFlags cli.StringList
	flag.Var(&signalFlags, "signal", "Signal to watch as key=value; value parts may be \"any\" (repeatable)")
	freqsFlag := flag.String("freqs", "", "Comma-separated higher frequencies (default from config)")
	snapshotDir := flag.String("snapshot-dir", "", "Snapshot root directory (default from config)")
	jsonOut := flag.Bool("json", false, "Print exports as JSON lines")
	flag.Parse()

	if len(signalFlags) == 0 {
		return cli.Usagef("at least one --signal is required")
	}
	specs := make([]walkforward.SignalSpec, 0, len(signalFlags))
	for _, s := range signalFlags {
		sig, err := domain.ParseSignal(s)
		if err != nil {
			return cli.Usagef("%v", err)
		}
		specs = append(specs, sig)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := cli.Setup(ctx, "checksignals", common)
	if err != nil {
		return err
	}
	defer env.Close()

	series.DefaultFreq(flag.CommandLine, env.Cfg)
	if *freqsFlag == "" {
		*freqsFlag = env.Cfg.Harness.Freqs
	}
	freqs, err := domain.ParseFreqs(*freqsFlag)
	if err != nil {
		return cli.Usagef("--freqs: %v", err)
	}
	if *snapshotDir == "" {
		*snapshotDir = env.Cfg.SnapshotDir
	}

	bars, err := series.LoadBars(ctx, env.Cache)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	h, err := walkforward.New(walkforward.Options{
		Logger:      env.Log,
		MaxCount:    env.Cfg.Harness.MaxCount,
		SnapshotDir: *snapshotDir,
		Recorder:    env.Stores.Exports,
	})
	if err != nil {
		return fmt.Errorf("create harness: %w", err)
	}

	exports, err := h.Check(ctx, bars, specs, freqs)
	if err != nil {
		return fmt.Errorf("check signals: %w", err)
	}
	return writeExports(os.Stdout, *jsonOut, *snapshotDir, exports)
}

func writeExports(w io.Writer, jsonOut bool, dir string, exports []domain.SnapshotExport) error {
	if jsonOut {
		enc := json.NewEncoder(w)
		for _, e := range exports {
			if err := enc.Encode(exportJSON{
				ExportID:    e.ExportID,
				Symbol:      e.Symbol,
				SignalKey:   e.SignalKey,
				SignalValue: e.SignalValue,
				Dt:          e.Dt.Format(time.RFC3339),
				Path:        e.Path,
			}); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
		}
		return nil
	}

	for _, e := range exports {
		if _, err := fmt.Fprintf(w, "%s  %-16s %-20s %s\n", e.Dt.Format("2006-01-02 15:04"), e.SignalKey, e.SignalValue, e.Path); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
	}
	_, err := fmt.Fprintf(w, "%d snapshots exported under %s\n", len(exports), dir)
	return err
}

type exportJSON struct {
	ExportID    string `json:"export_id"`
	Symbol      string `json:"symbol"`
	SignalKey   string `json:"signal_key"`
	SignalValue string `json:"signal_value"`
	Dt          string `json:"dt"`
	Path        string `json:"path"`
}
