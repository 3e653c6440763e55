package walkforward

import (
	"path/filepath"
	"strings"
	"time"
)

// snapshotExt is the file extension of exported snapshots.
const snapshotExt = ".html"

// snapshotTimeLayout renders the bar time in snapshot file names.
const snapshotTimeLayout = "20060102_1504"

// safeName replaces characters that are not portable in file names.
func safeName(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, s)
}

// SnapshotDir returns the directory holding exports for one signal key.
func SnapshotDir(root, key string) string {
	return filepath.Join(root, safeName(key))
}

// SnapshotPath returns <root>/<key>/<symbol>_<key>_<value>_<YYYYMMDD_HHMM>.html.
func SnapshotPath(root, symbol, key, value string, dt time.Time) string {
	name := safeName(symbol) + "_" + safeName(key) + "_" + safeName(value) + "_" +
		dt.Format(snapshotTimeLayout) + snapshotExt
	return filepath.Join(SnapshotDir(root, key), name)
}
