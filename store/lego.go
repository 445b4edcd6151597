package store

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/openterm/legostore/errors"
	"github.com/openterm/legostore/sym"
	"github.com/openterm/legostore/types"
)

// CommitLego finalizes and writes one new version of a Lego into the named
// list: missing Stamp fields are filled from the store's defaults, a fresh
// stamp identifier and timestamp are generated, and List + Lego + Stamp +
// Pncs are written atomically. Returns the finalized Stamp.
//
// Fails with ErrMissingList if the target list does not exist.
func (s *Store) CommitLego(lego *types.Lego, listUUID string) (*types.Stamp, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if lego == nil {
		return nil, errors.WriteFailure(errors.New("lego is nil"), "commit lego")
	}

	stamp := lego.Stamp
	if stamp == nil {
		stamp = &types.Stamp{}
	}
	if stamp.Status == "" {
		stamp.Status = s.defaults.Status
	}
	if stamp.Author == "" {
		stamp.Author = s.defaults.Author
	}
	if stamp.Module == "" {
		stamp.Module = s.defaults.Module
	}
	if stamp.Path == "" {
		stamp.Path = s.defaults.Path
	}
	stamp.UUID = uuid.NewString()
	stamp.Time = now().UTC()
	lego.Stamp = stamp

	err := s.inTx(func(tx *sql.Tx) error {
		exists, err := s.listExistsTx(tx, listUUID)
		if err != nil {
			return err
		}
		if !exists {
			return errors.Wrapf(errors.ErrMissingList, "commit lego into %s", listUUID)
		}
		return s.insertLegoTx(tx, lego, listUUID)
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Infow("Committed lego",
			"symbol", sym.Lego,
			"lego_uuid", lego.UUID,
			"stamp_uuid", stamp.UUID,
			"list_uuid", listUUID,
		)
	}
	return stamp, nil
}

// DeleteLego removes one exact Lego version from the named list, deleting
// its Stamp unconditionally and its Pncs only if no other Lego still
// references that Pncs key. No-op if the version is not a member of the
// list.
func (s *Store) DeleteLego(listUUID, legoUUID, stampUUID string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	uniqueID := types.LegoUniqueID(legoUUID, stampUUID)
	return s.inTx(func(tx *sql.Tx) error {
		var n int
		err := tx.QueryRow(
			"SELECT COUNT(*) FROM lego_list_members WHERE list_uuid = ? AND lego_unique_id = ?",
			listUUID, uniqueID,
		).Scan(&n)
		if err != nil {
			return errors.WriteFailuref(err, "check membership of %s", uniqueID)
		}
		if n == 0 {
			// Exact version is not a member of this list: leave the store
			// unchanged and return normally.
			return nil
		}
		return s.deleteLegoVersionTx(tx, listUUID, uniqueID)
	})
}

// insertLegoTx writes a Lego version and its companion records inside tx:
// the lego row with its JSON payload, the exclusively-owned Stamp row, the
// shared Pncs row (created on first reference), the secondary-index link
// rows, and the list membership.
func (s *Store) insertLegoTx(tx *sql.Tx, lego *types.Lego, listUUID string) error {
	uniqueID := lego.UniqueID()
	if uniqueID == "" {
		return errors.WriteFailuref(errors.New("lego has no stamp"), "insert lego %s", lego.UUID)
	}

	pncsKey := ""
	if lego.Pncs != nil {
		pncsKey = lego.Pncs.Key()
	}

	payload, err := json.Marshal(lego)
	if err != nil {
		return errors.WriteFailuref(err, "marshal lego %s", uniqueID)
	}

	_, err = tx.Exec(
		"INSERT INTO legos (unique_id, lego_uuid, stamp_uuid, pncs_key, payload) VALUES (?, ?, ?, ?, ?)",
		uniqueID, lego.UUID, lego.Stamp.UUID, pncsKey, string(payload),
	)
	if err != nil {
		return errors.WriteFailuref(err, "insert lego %s", uniqueID)
	}

	_, err = tx.Exec(
		"INSERT INTO stamps (uuid, lego_unique_id, status, author, module, path, time) VALUES (?, ?, ?, ?, ?, ?, ?)",
		lego.Stamp.UUID, uniqueID, lego.Stamp.Status, lego.Stamp.Author,
		lego.Stamp.Module, lego.Stamp.Path, lego.Stamp.Time.Format("2006-01-02T15:04:05.000Z07:00"),
	)
	if err != nil {
		return errors.WriteFailuref(err, "insert stamp %s", lego.Stamp.UUID)
	}

	if lego.Pncs != nil {
		// Shared record: created on first reference only.
		_, err = tx.Exec(
			"INSERT OR IGNORE INTO pncs (key, id, name, value) VALUES (?, ?, ?, ?)",
			pncsKey, lego.Pncs.ID, lego.Pncs.Name, lego.Pncs.Value,
		)
		if err != nil {
			return errors.WriteFailuref(err, "insert pncs %s", pncsKey)
		}
	}

	for _, assertionUUID := range lego.AssertionUUIDs() {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO lego_assertions (lego_unique_id, assertion_uuid, role) VALUES (?, ?, 'defines')",
			uniqueID, assertionUUID,
		); err != nil {
			return errors.WriteFailuref(err, "index assertion %s", assertionUUID)
		}
	}
	for _, assertionUUID := range lego.UsedAssertionUUIDs() {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO lego_assertions (lego_unique_id, assertion_uuid, role) VALUES (?, ?, 'uses')",
			uniqueID, assertionUUID,
		); err != nil {
			return errors.WriteFailuref(err, "index used assertion %s", assertionUUID)
		}
	}
	for _, conceptID := range lego.ConceptIdentifiers() {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO lego_concepts (lego_unique_id, concept_id) VALUES (?, ?)",
			uniqueID, conceptID,
		); err != nil {
			return errors.WriteFailuref(err, "index concept %s", conceptID)
		}
	}

	_, err = tx.Exec(
		"INSERT INTO lego_list_members (list_uuid, lego_unique_id) VALUES (?, ?)",
		listUUID, uniqueID,
	)
	if err != nil {
		return errors.WriteFailuref(err, "add lego %s to list %s", uniqueID, listUUID)
	}
	return nil
}

// deleteLegoVersionTx removes one Lego version inside tx: list membership,
// the exclusively-owned Stamp (unconditionally), the secondary-index rows,
// the lego row itself, and finally the shared Pncs row if no other Lego
// still references its key.
//
// The reference count is computed by index scan inside the same transaction,
// after the lego row is deleted, so the scan observes this transaction's own
// pending delete and cannot race a concurrent delete of a sibling Lego into
// a false "still in use" answer.
func (s *Store) deleteLegoVersionTx(tx *sql.Tx, listUUID, uniqueID string) error {
	var pncsKey string
	err := tx.QueryRow("SELECT pncs_key FROM legos WHERE unique_id = ?", uniqueID).Scan(&pncsKey)
	if err == sql.ErrNoRows {
		// Membership row without a lego row should not happen; clean up the
		// membership and move on.
		pncsKey = ""
	} else if err != nil {
		return errors.WriteFailuref(err, "read lego %s", uniqueID)
	}

	if _, err := tx.Exec(
		"DELETE FROM lego_list_members WHERE list_uuid = ? AND lego_unique_id = ?",
		listUUID, uniqueID,
	); err != nil {
		return errors.WriteFailuref(err, "remove %s from list %s", uniqueID, listUUID)
	}

	// Stamp is exclusively owned: delete unconditionally, no usage check.
	if _, err := tx.Exec("DELETE FROM stamps WHERE lego_unique_id = ?", uniqueID); err != nil {
		return errors.WriteFailuref(err, "delete stamp of %s", uniqueID)
	}

	if _, err := tx.Exec("DELETE FROM lego_assertions WHERE lego_unique_id = ?", uniqueID); err != nil {
		return errors.WriteFailuref(err, "unindex assertions of %s", uniqueID)
	}
	if _, err := tx.Exec("DELETE FROM lego_concepts WHERE lego_unique_id = ?", uniqueID); err != nil {
		return errors.WriteFailuref(err, "unindex concepts of %s", uniqueID)
	}

	if _, err := tx.Exec("DELETE FROM legos WHERE unique_id = ?", uniqueID); err != nil {
		return errors.WriteFailuref(err, "delete lego %s", uniqueID)
	}

	if pncsKey != "" {
		var remaining int
		if err := tx.QueryRow(
			"SELECT COUNT(*) FROM legos WHERE pncs_key = ?", pncsKey,
		).Scan(&remaining); err != nil {
			return errors.WriteFailuref(err, "count pncs references %s", pncsKey)
		}
		if remaining == 0 {
			if _, err := tx.Exec("DELETE FROM pncs WHERE key = ?", pncsKey); err != nil {
				return errors.WriteFailuref(err, "delete pncs %s", pncsKey)
			}
			if s.logger != nil {
				s.logger.Debugw("Deleted orphaned pncs",
					"symbol", sym.Pncs,
					"pncs_key", pncsKey,
				)
			}
		}
	}
	return nil
}

// GetLego returns the exact Lego version identified by (legoUUID,
// stampUUID), or nil if absent.
func (s *Store) GetLego(legoUUID, stampUUID string) (*types.Lego, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	uniqueID := types.LegoUniqueID(legoUUID, stampUUID)
	var payload string
	err := s.db.QueryRow("SELECT payload FROM legos WHERE unique_id = ?", uniqueID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "lookup lego %s", uniqueID)
	}
	return unmarshalLego(payload)
}

// GetLegos returns every stamped version of the Lego, possibly empty.
func (s *Store) GetLegos(legoUUID string) ([]*types.Lego, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.queryLegos("SELECT payload FROM legos WHERE lego_uuid = ?", legoUUID)
}

// GetLegosContainingAssertion returns every Lego defining the assertion,
// de-duplicated by uniqueId.
func (s *Store) GetLegosContainingAssertion(assertionUUID string) ([]*types.Lego, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.queryLegos(
		`SELECT DISTINCT l.payload FROM legos l
		 JOIN lego_assertions a ON a.lego_unique_id = l.unique_id
		 WHERE a.assertion_uuid = ? AND a.role = 'defines'`, assertionUUID)
}

// GetLegosUsingAssertion returns every Lego whose assertion components
// reference the assertion, de-duplicated by uniqueId.
func (s *Store) GetLegosUsingAssertion(assertionUUID string) ([]*types.Lego, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.queryLegos(
		`SELECT DISTINCT l.payload FROM legos l
		 JOIN lego_assertions a ON a.lego_unique_id = l.unique_id
		 WHERE a.assertion_uuid = ? AND a.role = 'uses'`, assertionUUID)
}

// GetLegosForPncsID returns every Lego referencing any Pncs row with the
// given numeric id, de-duplicated.
func (s *Store) GetLegosForPncsID(id int64) ([]*types.Lego, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.queryLegos(
		`SELECT DISTINCT l.payload FROM legos l
		 JOIN pncs p ON p.key = l.pncs_key
		 WHERE p.id = ?`, id)
}

// GetLegosForPncs returns every Lego referencing the exact Pncs (id, value)
// pair, de-duplicated.
func (s *Store) GetLegosForPncs(id int64, value string) ([]*types.Lego, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.queryLegos("SELECT payload FROM legos WHERE pncs_key = ?", types.PncsKey(id, value))
}

// GetLegosContainingConceptIdentifiers returns every Lego mentioning any of
// the given concept identifiers anywhere in its document, de-duplicated.
func (s *Store) GetLegosContainingConceptIdentifiers(conceptIDs ...string) ([]*types.Lego, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if len(conceptIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(conceptIDs)), ",")
	args := make([]interface{}, len(conceptIDs))
	for i, id := range conceptIDs {
		args[i] = id
	}
	return s.queryLegos(
		`SELECT DISTINCT l.payload FROM legos l
		 JOIN lego_concepts c ON c.lego_unique_id = l.unique_id
		 WHERE c.concept_id IN (`+placeholders+`)`, args...)
}

// queryLegos runs a payload query and materializes the results,
// de-duplicating by uniqueId: a multi-valued index may yield several index
// entries per logical record.
func (s *Store) queryLegos(query string, args ...interface{}) ([]*types.Lego, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query legos")
	}
	defer rows.Close()

	seen := make(map[string]bool)
	var legos []*types.Lego
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, "scan lego payload")
		}
		lego, err := unmarshalLego(payload)
		if err != nil {
			return nil, err
		}
		uniqueID := lego.UniqueID()
		if seen[uniqueID] {
			continue
		}
		seen[uniqueID] = true
		legos = append(legos, lego)
	}
	return legos, rows.Err()
}

func unmarshalLego(payload string) (*types.Lego, error) {
	var lego types.Lego
	if err := json.Unmarshal([]byte(payload), &lego); err != nil {
		return nil, errors.Wrap(err, "unmarshal lego payload")
	}
	return &lego, nil
}
