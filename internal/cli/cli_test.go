package cli

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signal-lab/internal/config"
	"signal-lab/internal/datacache"
	"signal-lab/internal/domain"
	"signal-lab/internal/storage/memory"
)

func TestSeriesFlags_Query(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var f SeriesFlags
	f.Register(fs, "D")
	require.NoError(t, fs.Parse([]string{"--symbol", "000300.SH", "--asset", "i", "--start", "2023-01-01", "--end", "2023-01-31"}))

	q, err := f.Query()
	require.NoError(t, err)
	assert.Equal(t, domain.AssetIndex, q.Asset)
	assert.Equal(t, domain.FreqDay, q.Freq)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), q.Start)
	assert.True(t, q.End.After(time.Date(2023, 1, 31, 23, 0, 0, 0, time.UTC)))
	assert.True(t, q.End.Before(time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSeriesFlags_QueryErrors(t *testing.T) {
	_, err := (&SeriesFlags{Freq: "D"}).Query()
	assert.ErrorContains(t, err, "--symbol")

	_, err = (&SeriesFlags{Symbol: "x", Freq: "2h"}).Query()
	assert.ErrorContains(t, err, "unknown freq")

	_, err = (&SeriesFlags{Symbol: "x", Freq: "D", Start: "01/02/2023"}).Query()
	assert.ErrorContains(t, err, "--start")
}

func TestSeriesFlags_LoadBarsFromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bars.csv")
	data := "dt,open,close,high,low,vol,amount\n" +
		"2023-01-05,1,3,1,1,1,1\n" +
		"2023-01-03,1,1,1,1,1,1\n" +
		"2023-01-04,1,2,1,1,1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	f := SeriesFlags{Input: path, Symbol: "x", Asset: "E", Freq: "D", Start: "2023-01-04"}
	bars, err := f.LoadBars(context.Background(), datacache.New(memory.NewBarStore()))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 2.0, bars[0].Close)
	assert.Equal(t, int64(1), bars[0].ID)
	assert.Equal(t, int64(2), bars[1].ID)
}

func TestSeriesFlags_LoadBarsFromStore(t *testing.T) {
	store := memory.NewBarStore()
	require.NoError(t, store.InsertBulk(context.Background(), []*domain.Bar{
		{Symbol: "x", Asset: domain.AssetEquity, ID: 7, Dt: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), Freq: domain.FreqDay, Close: 1},
	}))
	f := SeriesFlags{Symbol: "x", Asset: "E", Freq: "D"}
	bars, err := f.LoadBars(context.Background(), datacache.New(store))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, int64(1), bars[0].ID)
}

func TestStringList(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var l StringList
	fs.Var(&l, "signal", "")
	require.NoError(t, fs.Parse([]string{"--signal", "a=b", "--signal", "c=any"}))
	assert.Equal(t, StringList{"a=b", "c=any"}, l)
	assert.Equal(t, "a=b,c=any", l.String())
}

func TestSetup_MemoryStores(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("CLICKHOUSE_DSN", "")
	env, err := Setup(context.Background(), "test", CommonFlags{LogLevel: "debug"})
	require.NoError(t, err)
	defer env.Close()

	assert.Equal(t, "debug", env.Cfg.LogLevel)
	assert.IsType(t, &memory.BarStore{}, env.Stores.Bars)
}

func TestSeriesFlags_DefaultFreq(t *testing.T) {
	cfg := config.Default()
	cfg.Harness.BaseFreq = "60m"

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var f SeriesFlags
	f.Register(fs, "D")
	require.NoError(t, fs.Parse(nil))
	f.DefaultFreq(fs, cfg)
	assert.Equal(t, "60m", f.Freq)

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	f = SeriesFlags{}
	f.Register(fs, "D")
	require.NoError(t, fs.Parse([]string{"--freq", "W"}))
	f.DefaultFreq(fs, cfg)
	assert.Equal(t, "W", f.Freq)
}

func TestUsagef(t *testing.T) {
	err := Usagef("--symbol is required")
	assert.ErrorIs(t, err, ErrUsage)
	assert.Equal(t, "usage: --symbol is required", err.Error())
	assert.NotPanics(t, func() { Exit(nil) })
}
