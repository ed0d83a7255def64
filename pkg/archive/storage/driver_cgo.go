//go:build sqlite_cgo

package storage

import (
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// driverName selects the cgo SQLite driver.
const driverName = "sqlite3"
