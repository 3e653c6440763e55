package signals

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"signal-lab/internal/bars"
	"signal-lab/internal/domain"
)

func dailyBars(closes []float64) []domain.Bar {
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]domain.Bar, len(closes))
	for i, c := range closes {
		out[i] = domain.Bar{
			Symbol: "600000.SH",
			ID:     int64(i + 1),
			Dt:     start.AddDate(0, 0, i),
			Freq:   domain.FreqDay,
			Open:   c,
			Close:  c,
			High:   c + 1,
			Low:    c - 1,
		}
	}
	return out
}

func rising(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)
	}
	return out
}

func primedTrader(t *testing.T, closes []float64) *Trader {
	t.Helper()
	g, err := bars.NewGenerator(domain.FreqDay, []domain.Freq{domain.FreqWeek}, 500)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	for _, b := range dailyBars(closes) {
		if err := g.Update(b); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}
	return NewTrader(g, nil)
}

func TestTrader_DefaultSignalsOnRisingSeries(t *testing.T) {
	tr := primedTrader(t, rising(60))
	s := tr.State()

	if s["D_MA5_MA20"] != ValueBull {
		t.Errorf("D_MA5_MA20 = %s, want bull", s["D_MA5_MA20"])
	}
	if s["D_RSI14"] != ValueOverbought {
		t.Errorf("D_RSI14 = %s, want overbought", s["D_RSI14"])
	}
	if !strings.HasSuffix(s["D_MACD"], "_above") {
		t.Errorf("D_MACD = %s, want *_above", s["D_MACD"])
	}
	// 60 days is ~9 weekly bars: not enough for MA20
	if s["W_MA5_MA20"] != ValueOther {
		t.Errorf("W_MA5_MA20 = %s, want other", s["W_MA5_MA20"])
	}
	if s[KeySymbol] != "600000.SH" || s[KeyClose] != "159" {
		t.Errorf("unexpected meta keys: symbol=%s close=%s", s[KeySymbol], s[KeyClose])
	}
}

func TestTrader_StateUpdatedInPlace(t *testing.T) {
	closes := rising(40)
	all := dailyBars(append(closes, 200))
	tr := primedTrader(t, closes)

	before := tr.State()
	snapshot := before.Clone()

	if err := tr.Update(all[len(all)-1]); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	after := tr.State()
	if reflect.ValueOf(before).Pointer() != reflect.ValueOf(after).Pointer() {
		t.Error("state map identity changed across updates")
	}
	if before[KeyClose] != "200" {
		t.Errorf("live state not updated: close=%s", before[KeyClose])
	}
	if snapshot[KeyClose] != "139" {
		t.Errorf("clone changed: close=%s", snapshot[KeyClose])
	}
	if !tr.EndDt().Equal(all[len(all)-1].Dt) {
		t.Errorf("EndDt() = %s", tr.EndDt())
	}
}

func TestTrader_CustomSignalFunc(t *testing.T) {
	g, _ := bars.NewGenerator(domain.FreqDay, nil, 10)
	calls := 0
	tr := NewTrader(g, func(g *bars.Generator) domain.SignalState {
		calls++
		return domain.SignalState{"count": string(rune('0' + len(g.Bars(domain.FreqDay))))}
	})
	for _, b := range dailyBars([]float64{1, 2, 3}) {
		if err := tr.Update(b); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}
	if calls != 4 {
		t.Errorf("signal func calls = %d, want 4 (init + 3 updates)", calls)
	}
	if tr.State()["count"] != "3" {
		t.Errorf("count = %s, want 3", tr.State()["count"])
	}
}

func TestTrader_UpdateError(t *testing.T) {
	tr := primedTrader(t, rising(5))
	old := dailyBars(rising(1))[0]
	if err := tr.Update(old); err == nil {
		t.Fatal("expected error for out-of-order bar")
	}
}

func TestTrader_TakeSnapshot(t *testing.T) {
	tr := primedTrader(t, rising(30))
	path := filepath.Join(t.TempDir(), "snap.html")

	if err := tr.TakeSnapshot(path); err != nil {
		t.Fatalf("TakeSnapshot failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	html := string(data)
	for _, want := range []string{"600000.SH", "D_RSI14", "<polyline"} {
		if !strings.Contains(html, want) {
			t.Errorf("snapshot missing %q", want)
		}
	}

	if err := tr.TakeSnapshot(filepath.Join(t.TempDir(), "missing", "snap.html")); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}

func TestBuildChart_FlatSeries(t *testing.T) {
	c := buildChart("D", []float64{5, 5, 5})
	if c.Points != "0.0,200.0 400.0,200.0 800.0,200.0" {
		t.Errorf("unexpected points %q", c.Points)
	}

	var buf bytes.Buffer
	g, _ := bars.NewGenerator(domain.FreqDay, nil, 10)
	if err := NewTrader(g, nil).WriteSnapshot(&buf); err != nil {
		t.Fatalf("WriteSnapshot on empty generator failed: %v", err)
	}
}
