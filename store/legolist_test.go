package store

import (
	"testing"

	"github.com/google/uuid"

	"github.com/openterm/legostore/errors"
	"github.com/openterm/legostore/store/testutil"
	"github.com/openterm/legostore/types"
)

func newTestStore(t *testing.T) *Store {
	db := testutil.SetupTestDB(t)
	s := New(db, StampDefaults{
		Status: "status-default",
		Author: "author-default",
		Module: "module-default",
		Path:   "path-default",
	}, nil)
	t.Cleanup(func() { s.Shutdown() })
	return s
}

func TestCreateLegoList(t *testing.T) {
	s := newTestStore(t)

	list, err := s.CreateLegoList(uuid.NewString(), "cardiology", "heart legos", "")
	if err != nil {
		t.Fatalf("CreateLegoList() error: %v", err)
	}
	if list.GroupName != "cardiology" {
		t.Errorf("GroupName = %q, want %q", list.GroupName, "cardiology")
	}

	got, err := s.GetLegoListByName("cardiology")
	if err != nil {
		t.Fatalf("GetLegoListByName() error: %v", err)
	}
	if got == nil || got.UUID != list.UUID {
		t.Errorf("GetLegoListByName() = %+v, want list %s", got, list.UUID)
	}
}

func TestCreateLegoList_NameCollision(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateLegoList(uuid.NewString(), "dup", "", ""); err != nil {
		t.Fatalf("first CreateLegoList() error: %v", err)
	}
	_, err := s.CreateLegoList(uuid.NewString(), "dup", "", "")
	if !errors.Is(err, errors.ErrNameCollision) {
		t.Errorf("second CreateLegoList() error = %v, want ErrNameCollision", err)
	}
	if !errors.IsWriteFailure(err) {
		t.Error("name collision should classify as a write failure")
	}

	// No two live lists share a group name
	names, err := s.GetLegoListNames()
	if err != nil {
		t.Fatalf("GetLegoListNames() error: %v", err)
	}
	if len(names) != 1 {
		t.Errorf("GetLegoListNames() = %v, want exactly one entry", names)
	}
}

func TestGetLegoList_Absent(t *testing.T) {
	s := newTestStore(t)

	list, err := s.GetLegoListByName("nope")
	if err != nil || list != nil {
		t.Errorf("GetLegoListByName(absent) = (%v, %v), want (nil, nil)", list, err)
	}
	list, err = s.GetLegoListByID(uuid.NewString())
	if err != nil || list != nil {
		t.Errorf("GetLegoListByID(absent) = (%v, %v), want (nil, nil)", list, err)
	}
}

func TestUpdateLegoListMetadata(t *testing.T) {
	s := newTestStore(t)

	listUUID := uuid.NewString()
	if _, err := s.CreateLegoList(listUUID, "old-name", "old-desc", "old-comments"); err != nil {
		t.Fatalf("CreateLegoList() error: %v", err)
	}

	newName := "new-name"
	if err := s.UpdateLegoListMetadata(listUUID, ListMetadataUpdate{GroupName: &newName}); err != nil {
		t.Fatalf("UpdateLegoListMetadata() error: %v", err)
	}

	got, err := s.GetLegoListByID(listUUID)
	if err != nil {
		t.Fatalf("GetLegoListByID() error: %v", err)
	}
	if got.GroupName != "new-name" {
		t.Errorf("GroupName = %q, want %q", got.GroupName, "new-name")
	}
	// Nil fields are per-field no-ops
	if got.Description != "old-desc" || got.Comments != "old-comments" {
		t.Errorf("partial update touched unset fields: %+v", got)
	}
}

func TestUpdateLegoListMetadata_MissingList(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateLegoListMetadata(uuid.NewString(), ListMetadataUpdate{})
	if !errors.Is(err, errors.ErrMissingList) {
		t.Errorf("UpdateLegoListMetadata(absent) error = %v, want ErrMissingList", err)
	}
}

func TestUpdateLegoListMetadata_NameCollision(t *testing.T) {
	s := newTestStore(t)

	aUUID := uuid.NewString()
	if _, err := s.CreateLegoList(aUUID, "alpha", "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateLegoList(uuid.NewString(), "beta", "", ""); err != nil {
		t.Fatal(err)
	}

	taken := "beta"
	err := s.UpdateLegoListMetadata(aUUID, ListMetadataUpdate{GroupName: &taken})
	if !errors.Is(err, errors.ErrNameCollision) {
		t.Errorf("rename to taken name error = %v, want ErrNameCollision", err)
	}

	// Renaming a list to its own current name is allowed
	keep := "alpha"
	if err := s.UpdateLegoListMetadata(aUUID, ListMetadataUpdate{GroupName: &keep}); err != nil {
		t.Errorf("rename to own name error = %v, want nil", err)
	}
}

func TestImportLegoList(t *testing.T) {
	s := newTestStore(t)

	lego := testutil.NewLego(uuid.NewString(), 1, "a")
	lego.Stamp = &types.Stamp{UUID: uuid.NewString(), Author: "importer", Time: now()}

	list := &types.LegoList{
		UUID:      uuid.NewString(),
		GroupName: "imported",
		Legos:     []*types.Lego{lego},
	}
	if err := s.ImportLegoList(list); err != nil {
		t.Fatalf("ImportLegoList() error: %v", err)
	}

	got, err := s.GetLegoListByID(list.UUID)
	if err != nil {
		t.Fatalf("GetLegoListByID() error: %v", err)
	}
	if got == nil || len(got.Legos) != 1 {
		t.Fatalf("imported list = %+v, want one contained lego", got)
	}
	if got.Legos[0].UniqueID() != lego.UniqueID() {
		t.Errorf("imported lego uniqueId = %s, want %s", got.Legos[0].UniqueID(), lego.UniqueID())
	}

	// Contained Pncs was written too
	p, err := s.GetPncs(1, "a")
	if err != nil || p == nil {
		t.Errorf("GetPncs(1, a) = (%v, %v), want row present", p, err)
	}
}

func TestImportLegoList_DuplicateRejectedAtomically(t *testing.T) {
	s := newTestStore(t)

	existing := testutil.NewLego(uuid.NewString(), 2, "b")
	existing.Stamp = &types.Stamp{UUID: uuid.NewString(), Time: now()}
	first := &types.LegoList{UUID: uuid.NewString(), GroupName: "first", Legos: []*types.Lego{existing}}
	if err := s.ImportLegoList(first); err != nil {
		t.Fatalf("first import error: %v", err)
	}

	fresh := testutil.NewLego(uuid.NewString(), 3, "c")
	fresh.Stamp = &types.Stamp{UUID: uuid.NewString(), Time: now()}
	second := &types.LegoList{
		UUID:      uuid.NewString(),
		GroupName: "second",
		// fresh would be written first; the duplicate aborts the transaction
		Legos: []*types.Lego{fresh, existing},
	}
	err := s.ImportLegoList(second)
	if !errors.Is(err, errors.ErrDuplicateImport) {
		t.Fatalf("duplicate import error = %v, want ErrDuplicateImport", err)
	}

	// No trace of the aborted import is visible
	if got, _ := s.GetLegoListByName("second"); got != nil {
		t.Error("aborted import left the list behind")
	}
	if legos, _ := s.GetLegos(fresh.UUID); len(legos) != 0 {
		t.Error("aborted import left a lego behind")
	}
	if p, _ := s.GetPncs(3, "c"); p != nil {
		t.Error("aborted import left a pncs row behind")
	}
}

func TestImportLegoList_DuplicateName(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateLegoList(uuid.NewString(), "taken", "", ""); err != nil {
		t.Fatal(err)
	}
	err := s.ImportLegoList(&types.LegoList{UUID: uuid.NewString(), GroupName: "taken"})
	if !errors.Is(err, errors.ErrDuplicateImport) {
		t.Errorf("import with taken name error = %v, want ErrDuplicateImport", err)
	}
}

func TestDeleteLegoList_Cascades(t *testing.T) {
	s := newTestStore(t)

	listUUID := uuid.NewString()
	if _, err := s.CreateLegoList(listUUID, "doomed", "", ""); err != nil {
		t.Fatal(err)
	}
	lego := testutil.NewLego(uuid.NewString(), 4, "d")
	stamp, err := s.CommitLego(lego, listUUID)
	if err != nil {
		t.Fatalf("CommitLego() error: %v", err)
	}

	if err := s.DeleteLegoList(listUUID); err != nil {
		t.Fatalf("DeleteLegoList() error: %v", err)
	}

	if got, _ := s.GetLegoListByID(listUUID); got != nil {
		t.Error("list survived deletion")
	}
	if got, _ := s.GetLego(lego.UUID, stamp.UUID); got != nil {
		t.Error("contained lego survived cascade")
	}
	if p, _ := s.GetPncs(4, "d"); p != nil {
		t.Error("orphaned pncs survived cascade")
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Stamps != 0 {
		t.Errorf("stamps remaining after cascade = %d, want 0", stats.Stamps)
	}
}

func TestDeleteLegoList_AbsentIsNoOp(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteLegoList(uuid.NewString()); err != nil {
		t.Errorf("DeleteLegoList(absent) error = %v, want nil", err)
	}
}

func TestGetLegoListByLego(t *testing.T) {
	s := newTestStore(t)

	listUUID := uuid.NewString()
	if _, err := s.CreateLegoList(listUUID, "holder", "", ""); err != nil {
		t.Fatal(err)
	}
	lego := testutil.NewLego(uuid.NewString(), 5, "e")
	if _, err := s.CommitLego(lego, listUUID); err != nil {
		t.Fatal(err)
	}

	lists, err := s.GetLegoListByLego(lego.UUID)
	if err != nil {
		t.Fatalf("GetLegoListByLego() error: %v", err)
	}
	if len(lists) != 1 || lists[0].UUID != listUUID {
		t.Errorf("GetLegoListByLego() = %+v, want the holder list", lists)
	}
}
