package store

import (
	"database/sql"

	"github.com/openterm/legostore/errors"
	"github.com/openterm/legostore/sym"
	"github.com/openterm/legostore/types"
)

// ListMetadataUpdate carries a partial LegoList metadata update. Nil fields
// are left unchanged.
type ListMetadataUpdate struct {
	GroupName   *string
	Description *string
	Comments    *string
}

// CreateLegoList creates a new, empty LegoList. Fails with ErrNameCollision
// if another list already uses groupName.
func (s *Store) CreateLegoList(listUUID, groupName, description, comments string) (*types.LegoList, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	list := &types.LegoList{
		UUID:        listUUID,
		GroupName:   groupName,
		Description: description,
		Comments:    comments,
	}

	err := s.inTx(func(tx *sql.Tx) error {
		taken, err := s.listNameTakenTx(tx, groupName, "")
		if err != nil {
			return err
		}
		if taken {
			return errors.Wrapf(errors.ErrNameCollision, "create lego list %q", groupName)
		}
		_, err = tx.Exec(
			"INSERT INTO lego_lists (uuid, group_name, description, comments) VALUES (?, ?, ?, ?)",
			listUUID, groupName, description, comments,
		)
		if err != nil {
			return errors.WriteFailuref(err, "insert lego list %q", groupName)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Infow("Created lego list",
			"symbol", sym.List,
			"list_uuid", listUUID,
			"group_name", groupName,
		)
	}
	return list, nil
}

// ImportLegoList writes a complete LegoList and every contained Lego, Stamp,
// and Pncs as one all-or-nothing transaction. Fails with ErrDuplicateImport
// if a list with the same id or name exists, or if any contained Lego
// version pre-exists in the store.
func (s *Store) ImportLegoList(list *types.LegoList) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if list == nil {
		return errors.WriteFailure(errors.New("list is nil"), "import lego list")
	}

	err := s.inTx(func(tx *sql.Tx) error {
		exists, err := s.listExistsTx(tx, list.UUID)
		if err != nil {
			return err
		}
		if exists {
			return errors.Wrapf(errors.ErrDuplicateImport, "list id %s already exists", list.UUID)
		}
		taken, err := s.listNameTakenTx(tx, list.GroupName, "")
		if err != nil {
			return err
		}
		if taken {
			return errors.Wrapf(errors.ErrDuplicateImport, "list name %q already exists", list.GroupName)
		}
		for _, lego := range list.Legos {
			uniqueID := lego.UniqueID()
			if uniqueID == "" {
				return errors.WriteFailuref(errors.New("lego has no stamp"), "import lego %s", lego.UUID)
			}
			var n int
			if err := tx.QueryRow("SELECT COUNT(*) FROM legos WHERE unique_id = ?", uniqueID).Scan(&n); err != nil {
				return errors.WriteFailuref(err, "check lego %s", uniqueID)
			}
			if n > 0 {
				return errors.Wrapf(errors.ErrDuplicateImport, "lego version %s already exists", uniqueID)
			}
		}

		_, err = tx.Exec(
			"INSERT INTO lego_lists (uuid, group_name, description, comments) VALUES (?, ?, ?, ?)",
			list.UUID, list.GroupName, list.Description, list.Comments,
		)
		if err != nil {
			return errors.WriteFailuref(err, "insert lego list %q", list.GroupName)
		}
		for _, lego := range list.Legos {
			if err := s.insertLegoTx(tx, lego, list.UUID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Infow("Imported lego list",
			"symbol", sym.List,
			"list_uuid", list.UUID,
			"group_name", list.GroupName,
			"lego_count", len(list.Legos),
		)
	}
	return nil
}

// UpdateLegoListMetadata applies a partial metadata update to an existing
// list. Fails with ErrMissingList if the list does not exist and with
// ErrNameCollision if the requested new name belongs to another list.
func (s *Store) UpdateLegoListMetadata(listUUID string, upd ListMetadataUpdate) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	return s.inTx(func(tx *sql.Tx) error {
		exists, err := s.listExistsTx(tx, listUUID)
		if err != nil {
			return err
		}
		if !exists {
			return errors.Wrapf(errors.ErrMissingList, "update list %s", listUUID)
		}
		if upd.GroupName != nil {
			taken, err := s.listNameTakenTx(tx, *upd.GroupName, listUUID)
			if err != nil {
				return err
			}
			if taken {
				return errors.Wrapf(errors.ErrNameCollision, "rename list to %q", *upd.GroupName)
			}
			if _, err := tx.Exec("UPDATE lego_lists SET group_name = ? WHERE uuid = ?", *upd.GroupName, listUUID); err != nil {
				return errors.WriteFailuref(err, "update list %s name", listUUID)
			}
		}
		if upd.Description != nil {
			if _, err := tx.Exec("UPDATE lego_lists SET description = ? WHERE uuid = ?", *upd.Description, listUUID); err != nil {
				return errors.WriteFailuref(err, "update list %s description", listUUID)
			}
		}
		if upd.Comments != nil {
			if _, err := tx.Exec("UPDATE lego_lists SET comments = ? WHERE uuid = ?", *upd.Comments, listUUID); err != nil {
				return errors.WriteFailuref(err, "update list %s comments", listUUID)
			}
		}
		return nil
	})
}

// DeleteLegoList deletes a list and cascades the deletion of every contained
// Lego version (including Stamps, and Pncs rows no longer referenced
// elsewhere) as one transaction. No-op if the list is absent.
func (s *Store) DeleteLegoList(listUUID string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	return s.inTx(func(tx *sql.Tx) error {
		exists, err := s.listExistsTx(tx, listUUID)
		if err != nil {
			return err
		}
		if !exists {
			return nil
		}

		rows, err := tx.Query("SELECT lego_unique_id FROM lego_list_members WHERE list_uuid = ?", listUUID)
		if err != nil {
			return errors.WriteFailuref(err, "list members of %s", listUUID)
		}
		var members []string
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return errors.WriteFailuref(err, "scan member of %s", listUUID)
			}
			members = append(members, id)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return errors.WriteFailuref(err, "iterate members of %s", listUUID)
		}
		rows.Close()

		for _, uniqueID := range members {
			if err := s.deleteLegoVersionTx(tx, listUUID, uniqueID); err != nil {
				return err
			}
		}
		if _, err := tx.Exec("DELETE FROM lego_lists WHERE uuid = ?", listUUID); err != nil {
			return errors.WriteFailuref(err, "delete list %s", listUUID)
		}

		if s.logger != nil {
			s.logger.Infow("Deleted lego list",
				"symbol", sym.List,
				"list_uuid", listUUID,
				"lego_count", len(members),
			)
		}
		return nil
	})
}

// GetLegoListByName returns the full list (including contained Legos) with
// the given group name, or nil if absent.
func (s *Store) GetLegoListByName(groupName string) (*types.LegoList, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	var uuid string
	err := s.db.QueryRow("SELECT uuid FROM lego_lists WHERE group_name = ?", groupName).Scan(&uuid)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "lookup list name %q", groupName)
	}
	return s.GetLegoListByID(uuid)
}

// GetLegoListByID returns the full list (including contained Legos) with the
// given id, or nil if absent.
func (s *Store) GetLegoListByID(listUUID string) (*types.LegoList, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	list := &types.LegoList{}
	err := s.db.QueryRow(
		"SELECT uuid, group_name, description, comments FROM lego_lists WHERE uuid = ?", listUUID,
	).Scan(&list.UUID, &list.GroupName, &list.Description, &list.Comments)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "lookup list %s", listUUID)
	}

	legos, err := s.queryLegos(
		`SELECT l.payload FROM legos l
		 JOIN lego_list_members m ON m.lego_unique_id = l.unique_id
		 WHERE m.list_uuid = ?`, listUUID)
	if err != nil {
		return nil, err
	}
	list.Legos = legos
	return list, nil
}

// GetLegoLists returns a streaming iterator over all lists. The iterator
// yields list records with metadata only; use GetLegoListByID to load a
// list's contained Legos.
func (s *Store) GetLegoLists() (*Iterator[*types.LegoList], error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query("SELECT uuid, group_name, description, comments FROM lego_lists ORDER BY group_name")
	if err != nil {
		return nil, errors.Wrap(err, "query lego lists")
	}
	return newIterator(s, rows, func(r *sql.Rows) (*types.LegoList, error) {
		list := &types.LegoList{}
		if err := r.Scan(&list.UUID, &list.GroupName, &list.Description, &list.Comments); err != nil {
			return nil, errors.Wrap(err, "scan lego list")
		}
		return list, nil
	}), nil
}

// GetLegoListNames returns all group names in index order.
func (s *Store) GetLegoListNames() ([]string, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query("SELECT group_name FROM lego_lists ORDER BY group_name")
	if err != nil {
		return nil, errors.Wrap(err, "query list names")
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scan list name")
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetLegoListByLego returns every list containing any version of the given
// Lego, de-duplicated, metadata only.
func (s *Store) GetLegoListByLego(legoUUID string) ([]*types.LegoList, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		`SELECT DISTINCT ll.uuid, ll.group_name, ll.description, ll.comments
		 FROM lego_lists ll
		 JOIN lego_list_members m ON m.list_uuid = ll.uuid
		 JOIN legos l ON l.unique_id = m.lego_unique_id
		 WHERE l.lego_uuid = ?`, legoUUID)
	if err != nil {
		return nil, errors.Wrapf(err, "query lists containing lego %s", legoUUID)
	}
	defer rows.Close()
	var lists []*types.LegoList
	for rows.Next() {
		list := &types.LegoList{}
		if err := rows.Scan(&list.UUID, &list.GroupName, &list.Description, &list.Comments); err != nil {
			return nil, errors.Wrap(err, "scan lego list")
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

// listNameTakenTx reports whether groupName is used by a list other than
// excludeUUID.
func (s *Store) listNameTakenTx(tx *sql.Tx, groupName, excludeUUID string) (bool, error) {
	var n int
	err := tx.QueryRow(
		"SELECT COUNT(*) FROM lego_lists WHERE group_name = ? AND uuid != ?",
		groupName, excludeUUID,
	).Scan(&n)
	if err != nil {
		return false, errors.WriteFailuref(err, "check name %q", groupName)
	}
	return n > 0, nil
}

func (s *Store) listExistsTx(tx *sql.Tx, listUUID string) (bool, error) {
	var n int
	if err := tx.QueryRow("SELECT COUNT(*) FROM lego_lists WHERE uuid = ?", listUUID).Scan(&n); err != nil {
		return false, errors.WriteFailuref(err, "check list %s", listUUID)
	}
	return n > 0, nil
}
