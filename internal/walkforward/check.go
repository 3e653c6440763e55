package walkforward

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"signal-lab/internal/domain"
	"signal-lab/internal/idhash"
	"signal-lab/internal/observability"
	"signal-lab/internal/storage"
)

// Check replays bars and exports an engine snapshot whenever a signal spec
// matches, at most once per signal key per DebounceInterval. Specs watching
// the same key share one debounce clock, so a bar exports each key once.
//
// The first MinWarmupBars bars always warm up the aggregator. Inputs shorter
// than MinCheckBars are logged and skipped. The base frequency is taken from
// the last bar. Exports the recorder already holds count as recorded, so a
// rerun over the same bars succeeds.
func (h *Harness) Check(ctx context.Context, bars []domain.Bar, specs []SignalSpec, freqs []domain.Freq) ([]domain.SnapshotExport, error) {
	start := time.Now()
	exports, err := h.check(ctx, bars, specs, freqs)
	observability.RecordRun(modeCheck, runStatus(err), time.Since(start).Seconds())
	return exports, err
}

func (h *Harness) check(ctx context.Context, bars []domain.Bar, specs []SignalSpec, freqs []domain.Freq) ([]domain.SnapshotExport, error) {
	if err := checkPreconditions(bars); err != nil {
		return nil, err
	}
	if len(bars) < MinCheckBars {
		h.log.Warn().
			Int("bars", len(bars)).
			Int("min", MinCheckBars).
			Msg("not enough bars to check signals")
		observability.RecordRunSkipped(modeCheck, "too_few_bars")
		return []domain.SnapshotExport{}, nil
	}

	for _, spec := range specs {
		if err := os.MkdirAll(SnapshotDir(h.snapshotDir, spec.SignalKey()), 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	baseFreq := bars[len(bars)-1].Freq
	left, right := Split(bars, FixedSplit{Warmup: MinWarmupBars})
	engine, err := h.prime(ctx, left, baseFreq, freqs)
	if err != nil {
		return nil, err
	}
	observability.AddWarmupBars(modeCheck, len(left))

	lastFired := make(map[string]time.Time, len(specs))
	for _, spec := range specs {
		lastFired[spec.SignalKey()] = engine.EndDt()
	}

	exports := []domain.SnapshotExport{}
	for n, bar := range right {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := engine.Update(bar); err != nil {
			return nil, fmt.Errorf("update bar %d: %w", len(left)+n, err)
		}
		observability.RecordEvaluationBar(modeCheck)

		state := engine.State()
		for _, spec := range specs {
			key := spec.SignalKey()
			if bar.Dt.Sub(lastFired[key]) <= DebounceInterval || !spec.IsMatch(state) {
				continue
			}
			export := domain.SnapshotExport{
				Symbol:      bar.Symbol,
				SignalKey:   key,
				SignalValue: state[key],
				Dt:          bar.Dt,
				Path:        SnapshotPath(h.snapshotDir, bar.Symbol, key, state[key], bar.Dt),
			}
			export.ExportID = idhash.ComputeExportID(export.Symbol, export.SignalKey, export.SignalValue, export.Dt.UnixMilli())

			if err := engine.TakeSnapshot(export.Path); err != nil {
				return nil, fmt.Errorf("take snapshot %s: %w", export.Path, err)
			}
			lastFired[key] = bar.Dt
			exports = append(exports, export)
			observability.RecordSnapshotExported(key)

			h.log.Info().
				Str("symbol", export.Symbol).
				Str("signal", key).
				Str("value", export.SignalValue).
				Time("dt", export.Dt).
				Str("path", export.Path).
				Msg("snapshot exported")

			if h.recorder != nil {
				err := h.recorder.Insert(ctx, &export)
				switch {
				case errors.Is(err, storage.ErrDuplicateKey):
					h.log.Debug().Str("export_id", export.ExportID).Msg("export already recorded")
				case err != nil:
					return nil, fmt.Errorf("record export: %w", err)
				}
			}
		}
	}
	return exports, nil
}

func checkPreconditions(bars []domain.Bar) error {
	if len(bars) < 3 {
		return fmt.Errorf("%w: got %d, need at least 3", ErrTooFewBars, len(bars))
	}
	if err := validateStrict(bars[:3], 0); err != nil {
		return err
	}
	tail := len(bars) - 3
	if err := validateStrict(bars[tail:], tail); err != nil {
		return err
	}
	if err := ValidateOrdering(bars); err != nil {
		return err
	}
	last := bars[len(bars)-1].Freq
	for _, b := range bars[tail:] {
		if b.Freq != last {
			return fmt.Errorf("%w: %s and %s", ErrMixedFrequency, b.Freq, last)
		}
	}
	return nil
}
