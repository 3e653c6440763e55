// Package ingestion reads bar files into ordered sequences ready for storage.
package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"signal-lab/internal/domain"
)

// ErrBadHeader is returned when a CSV file lacks a required column.
var ErrBadHeader = errors.New("missing required column")

// Required CSV columns. Order in the file is free.
var requiredColumns = []string{"dt", "open", "close", "high", "low", "vol", "amount"}

var dtLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC3339,
}

// ReadBarsCSV parses one series from r. Ids are assigned 1..n in file order;
// rows are not sorted. Times without a zone are read as UTC.
func ReadBarsCSV(r io.Reader, symbol string, asset domain.Asset, freq domain.Freq) ([]domain.Bar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("read bars: empty symbol")
	}
	if !freq.Valid() {
		return nil, fmt.Errorf("read bars: invalid freq %q", freq)
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: %w", ErrBadHeader)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrBadHeader, c)
		}
	}

	var out []domain.Bar
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		dt, err := parseDt(rec[cols["dt"]])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		b := domain.Bar{
			Symbol: symbol,
			Asset:  asset,
			ID:     int64(len(out) + 1),
			Dt:     dt,
			Freq:   freq,
		}
		fields := []struct {
			name string
			dst  *float64
		}{
			{"open", &b.Open},
			{"close", &b.Close},
			{"high", &b.High},
			{"low", &b.Low},
			{"vol", &b.Vol},
			{"amount", &b.Amount},
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[f.name]]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: parse %s: %w", line, f.name, err)
			}
			*f.dst = v
		}
		out = append(out, b)
	}
	return out, nil
}

func parseDt(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse dt %q", s)
}
