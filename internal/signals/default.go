package signals

import (
	"signal-lab/internal/bars"
	"signal-lab/internal/domain"
	"signal-lab/internal/indicator"
)

// Signal values.
const (
	ValueOther      = "other"
	ValueBull       = "bull"
	ValueBear       = "bear"
	ValueOverbought = "overbought"
	ValueOversold   = "oversold"
	ValueNeutral    = "neutral"
)

// RSI thresholds.
const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0
)

// DefaultSignals emits MA, RSI and MACD signals for every generator frequency:
//
//	<freq>_MA5_MA20  bull | bear | other
//	<freq>_RSI14     overbought | oversold | neutral | other
//	<freq>_MACD      <golden|death|none>_<above|below> | other
func DefaultSignals(g *bars.Generator) domain.SignalState {
	s := make(domain.SignalState)
	for _, f := range g.Freqs() {
		closes := g.Closes(f)
		prefix := string(f) + "_"
		s[prefix+"MA5_MA20"] = maSignal(closes)
		s[prefix+"RSI14"] = rsiSignal(closes)
		s[prefix+"MACD"] = macdSignal(closes)
	}
	return s
}

func maSignal(closes []float64) string {
	fast, slow := indicator.NewMA(5), indicator.NewMA(20)
	for _, c := range closes {
		fast.Add(c)
		slow.Add(c)
	}
	f, ok1 := fast.Value()
	sl, ok2 := slow.Value()
	if !ok1 || !ok2 {
		return ValueOther
	}
	if f >= sl {
		return ValueBull
	}
	return ValueBear
}

func rsiSignal(closes []float64) string {
	r := indicator.NewRSI(14)
	for _, c := range closes {
		r.Add(c)
	}
	v, ok := r.Value()
	switch {
	case !ok:
		return ValueOther
	case v > rsiOverbought:
		return ValueOverbought
	case v < rsiOversold:
		return ValueOversold
	}
	return ValueNeutral
}

func macdSignal(closes []float64) string {
	m := indicator.NewMACD(12, 26, 9)
	for _, c := range closes {
		m.Add(c)
	}
	dif, _, ok := m.Value()
	if !ok {
		return ValueOther
	}

	cross := "none"
	switch m.Cross() {
	case 1:
		cross = "golden"
	case -1:
		cross = "death"
	}
	zone := "below"
	if dif >= 0 {
		zone = "above"
	}
	return cross + "_" + zone
}
