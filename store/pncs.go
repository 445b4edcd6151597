package store

import (
	"database/sql"

	"github.com/openterm/legostore/errors"
	"github.com/openterm/legostore/types"
)

// GetPncsIterator returns a streaming iterator over every Pncs row.
func (s *Store) GetPncsIterator() (*Iterator[*types.Pncs], error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query("SELECT id, name, value FROM pncs ORDER BY id, value")
	if err != nil {
		return nil, errors.Wrap(err, "query pncs")
	}
	return newIterator(s, rows, scanPncs), nil
}

// GetPncsByID returns every value-variant sharing the numeric id.
func (s *Store) GetPncsByID(id int64) ([]*types.Pncs, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query("SELECT id, name, value FROM pncs WHERE id = ? ORDER BY value", id)
	if err != nil {
		return nil, errors.Wrapf(err, "query pncs id %d", id)
	}
	defer rows.Close()

	var out []*types.Pncs
	for rows.Next() {
		p, err := scanPncs(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPncs returns the exact (id, value) Pncs row, or nil if absent.
func (s *Store) GetPncs(id int64, value string) (*types.Pncs, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	p := &types.Pncs{}
	err := s.db.QueryRow(
		"SELECT id, name, value FROM pncs WHERE key = ?", types.PncsKey(id, value),
	).Scan(&p.ID, &p.Name, &p.Value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "lookup pncs (%d, %q)", id, value)
	}
	return p, nil
}

func scanPncs(rows *sql.Rows) (*types.Pncs, error) {
	p := &types.Pncs{}
	if err := rows.Scan(&p.ID, &p.Name, &p.Value); err != nil {
		return nil, errors.Wrap(err, "scan pncs")
	}
	return p, nil
}
