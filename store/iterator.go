package store

import (
	"database/sql"
	"sync"

	"github.com/openterm/legostore/db"
	"github.com/openterm/legostore/errors"
)

// Iterator is a lazy, finite, non-restartable sequence of materialized
// records layered over a storage cursor. Cursor advancement and record
// conversion run on the store's background worker, so the consumer blocks
// only on conversion, never on storage-engine internals.
//
// Callers that do not consume the sequence to completion must call Close to
// release the underlying cursor; no implicit finalization is guaranteed.
// After Close, Next reports false and Err returns ErrIteratorClosed.
type Iterator[T any] struct {
	store *Store
	rows  *sql.Rows
	scan  func(*sql.Rows) (T, error)

	mu     sync.Mutex
	cur    T
	err    error
	done   bool
	closed bool
}

func newIterator[T any](s *Store, rows *sql.Rows, scan func(*sql.Rows) (T, error)) *Iterator[T] {
	return &Iterator[T]{store: s, rows: rows, scan: scan}
}

// Next advances to the next record, reporting whether one is available.
// The record is materialized on the store's conversion worker before Next
// returns.
func (it *Iterator[T]) Next() bool {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.closed {
		it.err = errors.ErrIteratorClosed
		return false
	}
	if it.done || it.err != nil {
		return false
	}

	if submitErr := it.store.submit(func() {
		if !it.rows.Next() {
			it.done = true
			it.err = it.rows.Err()
			it.rows.Close()
			return
		}
		v, err := it.scan(it.rows)
		if err != nil {
			it.done = true
			it.err = err
			it.rows.Close()
			return
		}
		it.cur = v
	}); submitErr != nil {
		it.err = submitErr
		return false
	}
	return !it.done && it.err == nil
}

// Value returns the record produced by the last successful Next.
func (it *Iterator[T]) Value() T {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.cur
}

// Err returns the first error encountered, ErrIteratorClosed if the iterator
// was used after Close, or nil when the sequence ended normally.
func (it *Iterator[T]) Err() error {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.err
}

// Close releases the underlying cursor. Safe to call on a partially-consumed
// or exhausted iterator; never reports an error for double close.
func (it *Iterator[T]) Close() error {
	it.mu.Lock()
	defer it.mu.Unlock()

	if it.closed {
		return nil
	}
	it.closed = true
	if it.done {
		return nil
	}
	it.done = true

	// Release the cursor on the worker so it cannot race an in-flight
	// conversion. If the store is already shut down the cursor was released
	// with the database; nothing is left to free.
	if err := it.store.submit(func() { it.rows.Close() }); err != nil {
		if closeErr := it.rows.Close(); closeErr != nil && !db.IsDatabaseClosed(closeErr) {
			return closeErr
		}
	}
	return nil
}

// Collect drains the iterator into a slice, closing it afterward.
func (it *Iterator[T]) Collect() ([]T, error) {
	defer it.Close()
	var out []T
	for it.Next() {
		out = append(out, it.Value())
	}
	return out, it.Err()
}
