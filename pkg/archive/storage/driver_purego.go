//go:build !sqlite_cgo

package storage

import (
	_ "modernc.org/sqlite" // SQLite driver
)

// driverName selects the pure Go SQLite driver. Build with the
// sqlite_cgo tag to use the cgo driver instead.
const driverName = "sqlite"
