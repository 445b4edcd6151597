package store

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/openterm/legostore/errors"
	"github.com/openterm/legostore/store/testutil"
	"github.com/openterm/legostore/types"
)

// Injected engine failure mid-transaction must roll back before the error
// surfaces, and surface as a write failure carrying the cause.
func TestCommitLego_RollsBackOnEngineFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	s := New(db, StampDefaults{}, nil)
	defer s.Shutdown()

	cause := errors.New("disk I/O error")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM lego_lists WHERE uuid = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO legos`).WillReturnError(cause)
	mock.ExpectRollback()

	lego := testutil.NewLego("lego-1", 1, "a")
	_, err = s.CommitLego(lego, "list-1")
	if err == nil {
		t.Fatal("CommitLego() succeeded despite injected engine failure")
	}
	if !errors.IsWriteFailure(err) {
		t.Errorf("error = %v, want a write failure", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, does not carry the underlying cause", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations not met: %v", err)
	}
}

func TestDeleteLegoList_RollsBackOnEngineFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	s := New(db, StampDefaults{}, nil)
	defer s.Shutdown()

	cause := errors.New("database table is locked")

	memberID := types.LegoUniqueID("lego-1", "stamp-1")
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM lego_lists WHERE uuid = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT lego_unique_id FROM lego_list_members`).
		WillReturnRows(sqlmock.NewRows([]string{"lego_unique_id"}).AddRow(memberID))
	mock.ExpectQuery(`SELECT pncs_key FROM legos WHERE unique_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"pncs_key"}).AddRow("pncs-key-1"))
	mock.ExpectExec(`DELETE FROM lego_list_members`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM stamps`).WillReturnError(cause)
	mock.ExpectRollback()

	err = s.DeleteLegoList("list-1")
	if err == nil {
		t.Fatal("DeleteLegoList() succeeded despite injected engine failure")
	}
	if !errors.IsWriteFailure(err) {
		t.Errorf("error = %v, want a write failure", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("transaction expectations not met: %v", err)
	}
}

func TestGetStats(t *testing.T) {
	s := newTestStore(t)

	listUUID := "00000000-0000-0000-0000-000000000001"
	if _, err := s.CreateLegoList(listUUID, "stats", "", ""); err != nil {
		t.Fatal(err)
	}
	lego := testutil.NewLego("00000000-0000-0000-0000-000000000002", 1, "a")
	if _, err := s.CommitLego(lego, listUUID); err != nil {
		t.Fatal(err)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	want := Stats{LegoLists: 1, Legos: 1, Stamps: 1, Pncs: 1}
	if stats != want {
		t.Errorf("GetStats() = %+v, want %+v", stats, want)
	}
}
