// Package factory opens the configured storage backends.
package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"signal-lab/internal/config"
	"signal-lab/internal/storage"
	chstore "signal-lab/internal/storage/clickhouse"
	"signal-lab/internal/storage/memory"
	"signal-lab/internal/storage/migrations"
	pgstore "signal-lab/internal/storage/postgres"
)

// Stores bundles the opened stores. Close releases database connections.
type Stores struct {
	Bars    storage.BarStore
	Signals storage.SignalRecordStore
	Exports storage.SnapshotExportStore

	closers []func()
}

// Close releases all connections, newest first.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Open returns ClickHouse bars when ClickhouseDSN is set and Postgres signal
// and export stores when PostgresDSN is set; anything unset is in-memory.
func Open(ctx context.Context, cfg config.Storage, log zerolog.Logger) (*Stores, error) {
	s := &Stores{
		Bars:    memory.NewBarStore(),
		Signals: memory.NewSignalRecordStore(),
		Exports: memory.NewSnapshotExportStore(),
	}

	if cfg.ClickhouseDSN != "" {
		var conn *chstore.Conn
		var err error
		if cfg.Migrate {
			conn, err = migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		} else {
			conn, err = chstore.NewConn(ctx, cfg.ClickhouseDSN)
		}
		if err != nil {
			return nil, fmt.Errorf("open clickhouse: %w", err)
		}
		s.closers = append(s.closers, func() { _ = conn.Close() })
		s.Bars = chstore.NewBarStore(conn)
		log.Info().Bool("migrated", cfg.Migrate).Msg("using clickhouse bar store")
	}

	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		s.closers = append(s.closers, pool.Close)

		if cfg.Migrate {
			applied, err := migrations.RunPostgresMigrations(ctx, pool)
			if err != nil {
				s.Close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
			log.Debug().Strs("files", applied).Msg("postgres migrations applied")
		}
		s.Signals = pgstore.NewSignalRecordStore(pool)
		s.Exports = pgstore.NewSnapshotExportStore(pool)
		log.Info().Msg("using postgres signal and export stores")
	}

	return s, nil
}
