package storage

import "errors"

var (
	// ErrNotFound: no export with the requested export_id.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey: the key is already stored. For bars the key is
	// (symbol, asset, freq, dt), for signal records (run_id, seq) and for
	// snapshot exports export_id. Records are written once; a rerun that
	// reproduces the same export gets this error and may treat the export as
	// already recorded.
	ErrDuplicateKey = errors.New("record already stored")

	// ErrInvalidInput: a nil record, a bar with an empty symbol or unknown
	// frequency, a signal record with an empty run id or negative seq, or an
	// export without an export_id.
	ErrInvalidInput = errors.New("invalid record")
)
