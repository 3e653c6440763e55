// Package walkforward replays historical bars through a stateful signal engine
// in chronological order, either collecting every state (generation mode) or
// exporting debounced snapshots when a signal matches (validation mode).
package walkforward

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"signal-lab/internal/bars"
	"signal-lab/internal/domain"
	"signal-lab/internal/signals"
)

const (
	// MinWarmupBars is the warm-up floor in generation mode and the fixed
	// warm-up length in validation mode.
	MinWarmupBars = 500

	// MinCheckBars is the validation-mode input size below which nothing runs.
	MinCheckBars = 600

	// DebounceInterval is the minimum gap between two exports of one signal.
	DebounceInterval = 5 * 24 * time.Hour

	// DefaultMaxCount bounds every aggregated series.
	DefaultMaxCount = 5000
)

const (
	modeGenerate = "generate"
	modeCheck    = "check"
)

// Aggregator absorbs warm-up bars before the engine is built.
type Aggregator interface {
	Update(bar domain.Bar) error
}

// Engine is a stateful signal engine bound to a primed aggregator.
// State may return the same map on every call; the harness copies it.
type Engine interface {
	Update(bar domain.Bar) error
	State() domain.SignalState
	TakeSnapshot(path string) error
	EndDt() time.Time
}

// AggregatorFactory builds an empty aggregator.
type AggregatorFactory func(baseFreq domain.Freq, freqs []domain.Freq, maxCount int) (Aggregator, error)

// EngineFactory builds an engine from a primed aggregator.
type EngineFactory func(agg Aggregator) (Engine, error)

// SignalSpec is a signal predicate matched against engine state.
// domain.Signal implements it.
type SignalSpec interface {
	SignalKey() string
	IsMatch(state domain.SignalState) bool
}

// ExportRecorder persists snapshot exports.
type ExportRecorder interface {
	Insert(ctx context.Context, e *domain.SnapshotExport) error
}

// Options configures a Harness.
type Options struct {
	Logger        zerolog.Logger
	NewAggregator AggregatorFactory
	NewEngine     EngineFactory
	MaxCount      int
	SnapshotDir   string
	Recorder      ExportRecorder // optional
}

// Harness runs walk-forward passes. It holds no per-run state, so a single
// Harness may serve concurrent runs over different inputs.
type Harness struct {
	log           zerolog.Logger
	newAggregator AggregatorFactory
	newEngine     EngineFactory
	maxCount      int
	snapshotDir   string
	recorder      ExportRecorder
}

// New creates a harness. Nil factories default to the bar generator and the
// signal trader with DefaultSignals.
func New(opts Options) (*Harness, error) {
	if opts.MaxCount == 0 {
		opts.MaxCount = DefaultMaxCount
	}
	if opts.MaxCount < 0 {
		return nil, fmt.Errorf("max count must be positive, got %d", opts.MaxCount)
	}
	if opts.NewAggregator == nil {
		opts.NewAggregator = DefaultAggregatorFactory
	}
	if opts.NewEngine == nil {
		opts.NewEngine = DefaultEngineFactory(nil)
	}
	if opts.SnapshotDir == "" {
		opts.SnapshotDir = "."
	}
	return &Harness{
		log:           opts.Logger,
		newAggregator: opts.NewAggregator,
		newEngine:     opts.NewEngine,
		maxCount:      opts.MaxCount,
		snapshotDir:   opts.SnapshotDir,
		recorder:      opts.Recorder,
	}, nil
}

// DefaultAggregatorFactory builds a *bars.Generator.
func DefaultAggregatorFactory(baseFreq domain.Freq, freqs []domain.Freq, maxCount int) (Aggregator, error) {
	g, err := bars.NewGenerator(baseFreq, freqs, maxCount)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// DefaultEngineFactory builds a *signals.Trader over a *bars.Generator with fn.
// A nil fn uses signals.DefaultSignals.
func DefaultEngineFactory(fn signals.SignalFunc) EngineFactory {
	return func(agg Aggregator) (Engine, error) {
		g, ok := agg.(*bars.Generator)
		if !ok {
			return nil, fmt.Errorf("default engine needs *bars.Generator, got %T", agg)
		}
		return signals.NewTrader(g, fn), nil
	}
}

// prime builds an aggregator, feeds it the warm-up bars and wraps it in an engine.
func (h *Harness) prime(ctx context.Context, left []domain.Bar, baseFreq domain.Freq, freqs []domain.Freq) (Engine, error) {
	agg, err := h.newAggregator(baseFreq, freqs, h.maxCount)
	if err != nil {
		return nil, fmt.Errorf("create aggregator: %w", err)
	}
	for i, bar := range left {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := agg.Update(bar); err != nil {
			return nil, fmt.Errorf("warm up bar %d: %w", i, err)
		}
	}
	engine, err := h.newEngine(agg)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	return engine, nil
}
