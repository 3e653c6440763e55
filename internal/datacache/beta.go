package datacache

import (
	"context"
	"time"

	"signal-lab/internal/domain"
)

// DefaultIndices are the benchmark indices used when none are given.
var DefaultIndices = []string{
	"000001.SH", "000016.SH", "000905.SH", "000300.SH", "399001.SZ", "399006.SZ",
}

// IndexBeta returns decorated daily bars in [sdt, edt] for each benchmark index.
// A nil or empty indices uses DefaultIndices. The first failing index aborts.
func (c *Cache) IndexBeta(ctx context.Context, sdt, edt time.Time, indices []string) (map[string][]DecoratedBar, error) {
	if len(indices) == 0 {
		indices = DefaultIndices
	}

	beta := make(map[string][]DecoratedBar, len(indices))
	for _, code := range indices {
		bars, err := c.Bars(ctx, Query{
			Symbol: code,
			Asset:  domain.AssetIndex,
			Freq:   domain.FreqDay,
			Start:  sdt,
			End:    edt,
		})
		if err != nil {
			return nil, err
		}
		beta[code] = bars
	}
	return beta, nil
}
