package inmemdb

import (
	"sync"

	"github.com/pkg/errors"
)

var errClosed = errors.New("in-memory database is closed")

type (
	// DB keeps one table of JSON documents per collection.
	DB struct {
		mutex  sync.RWMutex
		tables map[string]table
		closed bool
	}

	table map[string][]byte // {id: document}
)

func Open() *DB {
	return &DB{tables: make(map[string]table)}
}

// Close drops every table. Repositories fail with record.ErrStoreUnavailable afterwards.
func (db *DB) Close() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.closed = true
	db.tables = nil
	return nil
}

// table returns the table of `collection`, creating it if needed. Callers hold the write lock.
func (db *DB) table(collection string) table {
	t, ok := db.tables[collection]
	if !ok {
		t = make(table)
		db.tables[collection] = t
	}
	return t
}
