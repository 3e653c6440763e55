// Package cli holds the setup shared by the command binaries: flags common to
// every tool, config and logger construction, and bar loading.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"signal-lab/internal/config"
	"signal-lab/internal/datacache"
	"signal-lab/internal/domain"
	"signal-lab/internal/ingestion"
	"signal-lab/internal/logging"
	"signal-lab/internal/observability"
	"signal-lab/internal/storage/factory"
)

// CommonFlags are registered by every command. Non-empty values override the
// loaded config.
type CommonFlags struct {
	ConfigPath    string
	LogLevel      string
	MetricsAddr   string
	PostgresDSN   string
	ClickhouseDSN string
}

// Register binds the common flags on fs.
func (f *CommonFlags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "", "YAML config file")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.MetricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address")
	fs.StringVar(&f.PostgresDSN, "postgres-dsn", "", "PostgreSQL connection string (signal and export stores)")
	fs.StringVar(&f.ClickhouseDSN, "clickhouse-dsn", "", "ClickHouse connection string (bar store)")
}

// Env is the runtime every command works in.
type Env struct {
	Cfg    *config.Config
	Log    zerolog.Logger
	Stores *factory.Stores
	Cache  *datacache.Cache

	stop []func()
}

// Setup loads config, builds the logger, opens stores and starts the metrics
// server when configured. Close must be called when done.
func Setup(ctx context.Context, service string, f CommonFlags) (*Env, error) {
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	override(&cfg.LogLevel, f.LogLevel)
	override(&cfg.MetricsAddr, f.MetricsAddr)
	override(&cfg.Storage.PostgresDSN, f.PostgresDSN)
	override(&cfg.Storage.ClickhouseDSN, f.ClickhouseDSN)

	log := logging.New(cfg.LogLevel, service)

	stores, err := factory.Open(ctx, cfg.Storage, log)
	if err != nil {
		return nil, err
	}
	env := &Env{
		Cfg:    cfg,
		Log:    log,
		Stores: stores,
		Cache:  datacache.New(stores.Bars),
		stop:   []func(){stores.Close},
	}

	if cfg.MetricsAddr != "" {
		srvCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := observability.Serve(srvCtx, cfg.MetricsAddr, log); err != nil {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
		env.stop = append(env.stop, func() {
			cancel()
			<-done
		})
	}
	return env, nil
}

// Close stops the metrics server and releases stores.
func (e *Env) Close() {
	for i := len(e.stop) - 1; i >= 0; i-- {
		e.stop[i]()
	}
	e.stop = nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// SeriesFlags select one bar series, from a CSV file or the bar store.
type SeriesFlags struct {
	Input  string
	Symbol string
	Asset  string
	Freq   string
	Start  string
	End    string
}

// Register binds the series flags on fs. defaultFreq is the --freq default.
func (f *SeriesFlags) Register(fs *flag.FlagSet, defaultFreq string) {
	fs.StringVar(&f.Input, "input", "", "Read bars from this CSV file instead of the bar store")
	fs.StringVar(&f.Symbol, "symbol", "", "Instrument symbol")
	fs.StringVar(&f.Asset, "asset", string(domain.AssetEquity), "Asset class (E, I, FD)")
	fs.StringVar(&f.Freq, "freq", defaultFreq, "Bar frequency")
	fs.StringVar(&f.Start, "start", "", "First bar date, inclusive (YYYY-MM-DD)")
	fs.StringVar(&f.End, "end", "", "Last bar date, inclusive (YYYY-MM-DD)")
}

// DefaultFreq takes the base frequency from cfg unless --freq was given on fs.
func (f *SeriesFlags) DefaultFreq(fs *flag.FlagSet, cfg *config.Config) {
	set := false
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "freq" {
			set = true
		}
	})
	if !set && cfg.Harness.BaseFreq != "" {
		f.Freq = cfg.Harness.BaseFreq
	}
}

// Query converts the flags to a cache query.
func (f *SeriesFlags) Query() (datacache.Query, error) {
	if f.Symbol == "" {
		return datacache.Query{}, fmt.Errorf("--symbol is required")
	}
	freq, err := domain.ParseFreq(f.Freq)
	if err != nil {
		return datacache.Query{}, err
	}
	start, err := ParseDate(f.Start)
	if err != nil {
		return datacache.Query{}, fmt.Errorf("--start: %w", err)
	}
	end, err := ParseDate(f.End)
	if err != nil {
		return datacache.Query{}, fmt.Errorf("--end: %w", err)
	}
	if !end.IsZero() {
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	return datacache.Query{
		Symbol: f.Symbol,
		Asset:  domain.Asset(strings.ToUpper(f.Asset)),
		Freq:   freq,
		Start:  start,
		End:    end,
	}, nil
}

// LoadBars returns the selected series ordered by dt with ids 1..n.
func (f *SeriesFlags) LoadBars(ctx context.Context, cache *datacache.Cache) ([]domain.Bar, error) {
	q, err := f.Query()
	if err != nil {
		return nil, err
	}
	if f.Input == "" {
		return cache.RawBars(ctx, q)
	}

	file, err := os.Open(f.Input)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	bars, err := ingestion.ReadBarsCSV(file, q.Symbol, q.Asset, q.Freq)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Input, err)
	}
	ingestion.SortBars(bars)
	return filterRange(bars, q.Start, q.End), nil
}

func filterRange(bars []domain.Bar, start, end time.Time) []domain.Bar {
	if start.IsZero() && end.IsZero() {
		return bars
	}
	out := make([]domain.Bar, 0, len(bars))
	for _, b := range bars {
		if !start.IsZero() && b.Dt.Before(start) {
			continue
		}
		if !end.IsZero() && b.Dt.After(end) {
			continue
		}
		b.ID = int64(len(out) + 1)
		out = append(out, b)
	}
	return out
}

// ParseDate parses YYYY-MM-DD as UTC midnight. Empty yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// StringList is a repeatable string flag.
type StringList []string

func (l *StringList) String() string { return strings.Join(*l, ",") }

// Set appends one value.
func (l *StringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// ErrUsage marks a command-line error; Exit prints usage for it.
var ErrUsage = errors.New("usage")

// Usagef returns an ErrUsage wrapping the formatted message.
func Usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// Exit reports err from a command's run function and terminates: status 2
// for usage errors, 1 for anything else, 0 for nil.
func Exit(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, ErrUsage) {
		flag.Usage()
		os.Exit(2)
	}
	os.Exit(1)
}
