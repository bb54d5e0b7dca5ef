package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ensureParentDir creates the directory holding a SQLite file. In-memory
// and URI DSNs are left alone.
func ensureParentDir(dsn string) error {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating database directory %s: %w", dir, err)
	}
	return nil
}
