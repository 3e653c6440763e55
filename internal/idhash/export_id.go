// Package idhash derives deterministic record ids.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeExportID computes a deterministic export_id using SHA256.
// Formula: SHA256(symbol|signal_key|signal_value|dt_ms)
// Returns hex-encoded hash (64 characters).
func ComputeExportID(
	symbol string,
	signalKey string,
	signalValue string,
	dtMs int64,
) string {
	data := fmt.Sprintf("%s|%s|%s|%d",
		symbol,
		signalKey,
		signalValue,
		dtMs,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
