package domain

import (
	"fmt"
	"strings"
	"time"
)

// Freq is a bar period label.
type Freq string

// Supported bar frequencies, from finest to coarsest.
const (
	Freq1Min  Freq = "1m"
	Freq5Min  Freq = "5m"
	Freq15Min Freq = "15m"
	Freq30Min Freq = "30m"
	Freq60Min Freq = "60m"
	FreqDay   Freq = "D"
	FreqWeek  Freq = "W"
	FreqMonth Freq = "M"
)

// freqRank orders frequencies by period length.
var freqRank = map[Freq]int{
	Freq1Min:  1,
	Freq5Min:  2,
	Freq15Min: 3,
	Freq30Min: 4,
	Freq60Min: 5,
	FreqDay:   6,
	FreqWeek:  7,
	FreqMonth: 8,
}

// ParseFreq normalizes a frequency label. Accepts "1m".."60m", "D", "W", "M"
// case-insensitively, plus "1d"/"1w" aliases.
func ParseFreq(s string) (Freq, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1m", "1min":
		return Freq1Min, nil
	case "5m", "5min":
		return Freq5Min, nil
	case "15m", "15min":
		return Freq15Min, nil
	case "30m", "30min":
		return Freq30Min, nil
	case "60m", "60min", "1h":
		return Freq60Min, nil
	case "d", "1d":
		return FreqDay, nil
	case "w", "1w":
		return FreqWeek, nil
	case "m", "1mo":
		return FreqMonth, nil
	}
	return "", fmt.Errorf("unknown freq %q", s)
}

// ParseFreqs parses a comma-separated list of frequencies.
func ParseFreqs(s string) ([]Freq, error) {
	var out []Freq
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFreq(part)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Valid reports whether f is a supported frequency.
func (f Freq) Valid() bool {
	_, ok := freqRank[f]
	return ok
}

// Coarser reports whether f has a strictly longer period than other.
func (f Freq) Coarser(other Freq) bool {
	return freqRank[f] > freqRank[other]
}

// Minutes returns the period length for intraday frequencies, 0 otherwise.
func (f Freq) Minutes() int {
	switch f {
	case Freq1Min:
		return 1
	case Freq5Min:
		return 5
	case Freq15Min:
		return 15
	case Freq30Min:
		return 30
	case Freq60Min:
		return 60
	}
	return 0
}

// Asset is the asset class of an instrument.
type Asset string

// Asset classes.
const (
	AssetEquity Asset = "E"
	AssetIndex  Asset = "I"
	AssetFund   Asset = "FD"
)

// Bar is one traded period of one instrument.
// Within a sequence, Dt is non-decreasing and ID strictly increasing.
type Bar struct {
	Symbol string
	Asset  Asset
	ID     int64     // sequence id, strictly increasing within a series
	Dt     time.Time // period end
	Freq   Freq
	Open   float64
	Close  float64
	High   float64
	Low    float64
	Vol    float64
	Amount float64
}
