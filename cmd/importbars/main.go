// Command importbars loads bar CSV files into the bar store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"signal-lab/internal/cli"
	"signal-lab/internal/domain"
	"signal-lab/internal/ingestion"
)

func main() {
	cli.Exit(run())
}

func run() error {
	var common cli.CommonFlags
	common.Register(flag.CommandLine)
	var files cli.StringList
	flag.Var(&files, "file", "Bar CSV file (repeatable; files are merged into one series)")
	symbol := flag.String("symbol", "", "Instrument symbol")
	asset := flag.String("asset", string(domain.AssetEquity), "Asset class (E, I, FD)")
	freqFlag := flag.String("freq", "D", "Bar frequency")
	dedup := flag.Bool("dedup", false, "Drop bars repeating an earlier dt")
	flag.Parse()

	if len(files) == 0 || *symbol == "" {
		return cli.Usagef("--file and --symbol are required")
	}
	freq, err := domain.ParseFreq(*freqFlag)
	if err != nil {
		return cli.Usagef("--freq: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := cli.Setup(ctx, "importbars", common)
	if err != nil {
		return err
	}
	defer env.Close()

	var all []domain.Bar
	for _, path := range files {
		bars, err := readFile(path, *symbol, domain.Asset(*asset), freq)
		if err != nil {
			return err
		}
		env.Log.Info().Str("file", path).Int("bars", len(bars)).Msg("read bar file")
		all = append(all, bars...)
	}

	ingestion.SortBars(all)
	if *dedup {
		all = ingestion.DedupBars(all)
	}

	ptrs := make([]*domain.Bar, len(all))
	for i := range all {
		ptrs[i] = &all[i]
	}
	if err := env.Stores.Bars.InsertBulk(ctx, ptrs); err != nil {
		return fmt.Errorf("insert bars: %w", err)
	}

	env.Log.Info().
		Str("symbol", *symbol).
		Str("freq", string(freq)).
		Int("bars", len(all)).
		Msg("import complete")
	return nil
}

func readFile(path, symbol string, asset domain.Asset, freq domain.Freq) ([]domain.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	bars, err := ingestion.ReadBarsCSV(f, symbol, asset, freq)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return bars, nil
}
