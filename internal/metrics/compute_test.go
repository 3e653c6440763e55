package metrics

import (
	"math"
	"testing"
)

func TestMaxDrawDown(t *testing.T) {
	tests := []struct {
		name      string
		returns   []float64
		wantStart int
		wantEnd   int
		wantMDD   float64
	}{
		{"empty", nil, 0, 0, 0},
		{"single element", []float64{-500}, 0, 0, 0},
		{"monotonic rise", []float64{100, 100, 100}, 0, 0, 0},
		{"one dip", []float64{100, -300, 50}, 0, 1, 0.0297},
		{"peak after start", []float64{0, 200, 300, -1000, -500, 2000}, 2, 4, 0.1428},
		{"loss from first bar", []float64{-100, -100}, 0, 1, 0.0101},
		{"ties pick first", []float64{100, -100, 100, -100}, 0, 1, 0.0099},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, mdd := MaxDrawDown(tt.returns)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("MaxDrawDown() indices = (%d, %d), want (%d, %d)", start, end, tt.wantStart, tt.wantEnd)
			}
			if math.Abs(mdd-tt.wantMDD) > 1e-12 {
				t.Errorf("MaxDrawDown() mdd = %v, want %v", mdd, tt.wantMDD)
			}
		})
	}
}

func TestMaxDrawDown_TruncatesTowardZero(t *testing.T) {
	// (10000 - 9000.01) / 10000 = 0.099999
	_, _, mdd := MaxDrawDown([]float64{0, -999.99})
	if mdd != 0.0999 {
		t.Errorf("expected 0.0999, got %v", mdd)
	}
}

func TestMaxDrawDown_TruncatesScaledProduct(t *testing.T) {
	// 29/10000 is 0.0029, but 0.0029*10000 is 28.999999999999996 in float64
	tests := []struct {
		returns []float64
		want    float64
	}{
		{[]float64{0, -29}, 0.0028},
		{[]float64{0, -113}, 0.0112},
		{[]float64{0, -300}, 0.03},
	}
	for _, tt := range tests {
		_, _, mdd := MaxDrawDown(tt.returns)
		if mdd != tt.want {
			t.Errorf("MaxDrawDown(%v) = %v, want %v", tt.returns, mdd, tt.want)
		}
	}
}

func TestMaxDrawDown_DoesNotModifyInput(t *testing.T) {
	in := []float64{100, -300, 50}
	MaxDrawDown(in)
	if in[0] != 100 || in[1] != -300 || in[2] != 50 {
		t.Errorf("input modified: %v", in)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{100, -300, 50, -20, -10, 40})

	if s.Count != 6 {
		t.Errorf("expected count 6, got %d", s.Count)
	}
	if math.Abs(s.Mean-(-140.0/6)) > 1e-9 {
		t.Errorf("unexpected mean %v", s.Mean)
	}
	if s.Min != -300 || s.Max != 100 {
		t.Errorf("unexpected min/max %v/%v", s.Min, s.Max)
	}
	if s.WinRate != 0.5 {
		t.Errorf("expected win rate 0.5, got %v", s.WinRate)
	}
	if s.MaxConsecutiveLosses != 2 {
		t.Errorf("expected 2 consecutive losses, got %d", s.MaxConsecutiveLosses)
	}
	if s.DrawdownStart != 0 || s.DrawdownEnd != 1 || s.MaxDrawdown != 0.0297 {
		t.Errorf("unexpected drawdown (%d, %d, %v)", s.DrawdownStart, s.DrawdownEnd, s.MaxDrawdown)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if s := Summarize(nil); s != (Summary{}) {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestComputePercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	if got := computePercentile(sorted, 0.5); got != 3 {
		t.Errorf("median = %v, want 3", got)
	}
	if got := computePercentile(sorted, 0.1); math.Abs(got-1.4) > 1e-9 {
		t.Errorf("p10 = %v, want 1.4", got)
	}
	if got := computePercentile([]float64{7}, 0.9); got != 7 {
		t.Errorf("single = %v, want 7", got)
	}
}

func TestComputeStddev(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	got := computeStddev(values, computeMean(values))
	if math.Abs(got-2.138089935299395) > 1e-9 {
		t.Errorf("stddev = %v", got)
	}
	if computeStddev([]float64{1}, 1) != 0 {
		t.Error("single sample stddev should be 0")
	}
}
