// Package store implements the transactional document store for Lego
// assertion records: one primary index per record type, secondary indexes
// over derived attributes, multi-record transactional writes, a
// reference-counted shared Pncs lifecycle, and streaming iterators.
package store

import (
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/openterm/legostore/errors"
	"github.com/openterm/legostore/sym"
)

// StampDefaults supplies the concept identifiers used to fill missing Stamp
// fields when a partial Stamp is committed.
type StampDefaults struct {
	Status string
	Author string
	Module string
	Path   string
}

// Store is the storage engine handle. Construct it explicitly with New and
// pass it to callers; there is no global instance, so tests can run multiple
// isolated stores side by side.
type Store struct {
	db       *sql.DB
	logger   *zap.SugaredLogger
	defaults StampDefaults

	mu     sync.RWMutex
	closed bool
	jobs   chan func()
	wg     sync.WaitGroup
}

// New creates a Store over an opened, migrated database. The logger may be
// nil, in which case the store operates silently. New starts the single
// background worker that services all iterator conversions.
func New(db *sql.DB, defaults StampDefaults, logger *zap.SugaredLogger) *Store {
	s := &Store{
		db:       db,
		logger:   logger,
		defaults: defaults,
		jobs:     make(chan func(), 16),
	}
	s.wg.Add(1)
	go s.convertLoop()
	return s
}

// convertLoop services iterator cursor advancement and record materialization
// on one dedicated goroutine, keeping cursor lifetimes decoupled from
// consumer threads. It exits once the jobs channel is closed by Shutdown,
// after running every job already queued.
func (s *Store) convertLoop() {
	defer s.wg.Done()
	for job := range s.jobs {
		job()
	}
}

// submit runs job on the conversion worker and waits for it to finish.
// Returns ErrStoreClosed if the store has been shut down.
func (s *Store) submit(job func()) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return errors.ErrStoreClosed
	}
	done := make(chan struct{})
	s.jobs <- func() {
		job()
		close(done)
	}
	s.mu.RUnlock()
	<-done
	return nil
}

// checkOpen returns ErrStoreClosed once Shutdown has begun.
func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errors.ErrStoreClosed
	}
	return nil
}

// Shutdown stops accepting operations, drains the iterator-conversion
// worker, and closes the underlying database. Idempotent.
func (s *Store) Shutdown() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.jobs)
	s.mu.Unlock()

	s.wg.Wait()

	if s.logger != nil {
		s.logger.Infow("Store shut down", "symbol", sym.DB)
	}
	return s.db.Close()
}

// inTx runs fn inside a transaction. On any error the transaction is rolled
// back before the error is surfaced, so readers never observe partial
// multi-record writes.
func (s *Store) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.WriteFailure(err, "begin transaction")
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.WriteFailure(err, "commit transaction")
	}
	return nil
}

// Stats summarizes live record counts per record type.
type Stats struct {
	LegoLists int
	Legos     int
	Stamps    int
	Pncs      int
}

// GetStats returns row counts for each record type.
func (s *Store) GetStats() (Stats, error) {
	if err := s.checkOpen(); err != nil {
		return Stats{}, err
	}
	var st Stats
	for _, q := range []struct {
		table string
		dst   *int
	}{
		{"lego_lists", &st.LegoLists},
		{"legos", &st.Legos},
		{"stamps", &st.Stamps},
		{"pncs", &st.Pncs},
	} {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + q.table).Scan(q.dst); err != nil {
			return Stats{}, errors.Wrapf(err, "count %s", q.table)
		}
	}
	return st, nil
}

// now is stubbed in tests that need deterministic stamps.
var now = time.Now
