package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// NewConnection opens the SQLite database file and verifies the
// connection. WAL mode keeps the single-writer deployment responsive
// when a read overlaps a write.
func NewConnection(path string) (*DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// The pipeline is sequential; a single connection avoids SQLITE_BUSY
	// surprises from the driver's pool.
	db.SetMaxOpenConns(1)

	return &DB{DB: db}, nil
}
