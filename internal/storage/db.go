// Package storage provides the in-memory schedule store for feedtime.
package storage

import (
	badger "github.com/dgraph-io/badger/v4"
)

// DB wraps a Badger database connection.
// The database always runs in memory; nothing outlives the process.
type DB struct {
	db *badger.DB
}

// Open creates a fresh in-memory database.
func Open() (*DB, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}
