package domain

import "time"

// SnapshotExport records one engine snapshot written during signal validation.
// Corresponds to snapshot_exports table in PostgreSQL.
type SnapshotExport struct {
	ExportID    string    // SHA256(symbol|signal_key|signal_value|dt_ms)
	Symbol      string    // instrument
	SignalKey   string    // watched signal key
	SignalValue string    // value that matched
	Dt          time.Time // bar time that triggered the export
	Path        string    // snapshot file path
}

// SignalRecord is one generated signal snapshot.
// Corresponds to signal_records table in PostgreSQL.
type SignalRecord struct {
	RunID  string      // generation run identifier (UUID)
	Seq    int         // position in the evaluation window, 0-based
	Symbol string      // instrument
	Dt     time.Time   // bar time
	State  SignalState // signal state after the bar
}
