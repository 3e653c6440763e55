package walkforward

import (
	"context"
	"fmt"
	"time"

	"signal-lab/internal/domain"
	"signal-lab/internal/observability"
)

// Generate replays bars and returns the engine state after each evaluation bar.
//
// Bars before sdt warm up the aggregator. When that leaves MinWarmupBars or
// fewer, the first MinWarmupBars bars are used instead. An empty evaluation
// window yields an empty result and a nil error.
func (h *Harness) Generate(ctx context.Context, bars []domain.Bar, sdt time.Time, baseFreq domain.Freq, freqs []domain.Freq) ([]domain.SignalState, error) {
	start := time.Now()
	states, err := h.generate(ctx, bars, sdt, baseFreq, freqs)
	observability.RecordRun(modeGenerate, runStatus(err), time.Since(start).Seconds())
	return states, err
}

func (h *Harness) generate(ctx context.Context, bars []domain.Bar, sdt time.Time, baseFreq domain.Freq, freqs []domain.Freq) ([]domain.SignalState, error) {
	if err := ValidateOrdering(bars); err != nil {
		return nil, err
	}

	left, right := Split(bars, CutoffSplit{Cutoff: sdt, MinWarmup: MinWarmupBars})
	if len(right) == 0 {
		h.log.Warn().
			Int("bars", len(bars)).
			Time("sdt", sdt).
			Msg("no bars left for evaluation after warm-up")
		observability.RecordRunSkipped(modeGenerate, "empty_evaluation")
		return []domain.SignalState{}, nil
	}

	engine, err := h.prime(ctx, left, baseFreq, freqs)
	if err != nil {
		return nil, err
	}
	observability.AddWarmupBars(modeGenerate, len(left))

	h.log.Debug().
		Int("warmup", len(left)).
		Int("evaluation", len(right)).
		Msg("generation started")

	states := make([]domain.SignalState, 0, len(right))
	for i, bar := range right {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := engine.Update(bar); err != nil {
			return nil, fmt.Errorf("update bar %d: %w", len(left)+i, err)
		}
		states = append(states, engine.State().Clone())
		observability.RecordEvaluationBar(modeGenerate)
		observability.RecordSnapshotGenerated()
	}
	return states, nil
}

func runStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
