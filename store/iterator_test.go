package store

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/openterm/legostore/errors"
	"github.com/openterm/legostore/store/testutil"
)

func seedLists(t *testing.T, s *Store, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := s.CreateLegoList(uuid.NewString(), fmt.Sprintf("list-%02d", i), "", ""); err != nil {
			t.Fatalf("CreateLegoList(%d) error: %v", i, err)
		}
	}
}

func TestIterator_StreamsAllRecords(t *testing.T) {
	s := newTestStore(t)
	seedLists(t, s, 5)

	it, err := s.GetLegoLists()
	if err != nil {
		t.Fatalf("GetLegoLists() error: %v", err)
	}

	var names []string
	for it.Next() {
		names = append(names, it.Value().GroupName)
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iterator error: %v", err)
	}
	if err := it.Close(); err != nil {
		t.Errorf("Close() after exhaustion error: %v", err)
	}
	if len(names) != 5 {
		t.Errorf("iterated %d lists, want 5", len(names))
	}
	// Index order: by group name
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("names out of index order: %v", names)
			break
		}
	}
}

func TestIterator_NextAfterCloseFails(t *testing.T) {
	s := newTestStore(t)
	seedLists(t, s, 3)

	it, err := s.GetLegoLists()
	if err != nil {
		t.Fatal(err)
	}

	// Partially consume, then abandon
	if !it.Next() {
		t.Fatalf("first Next() = false, err: %v", it.Err())
	}
	if err := it.Close(); err != nil {
		t.Errorf("Close() on partially-consumed iterator error: %v", err)
	}

	if it.Next() {
		t.Error("Next() after Close returned true")
	}
	if !errors.IsIteratorClosed(it.Err()) {
		t.Errorf("Err() after use-after-close = %v, want ErrIteratorClosed", it.Err())
	}

	// Double close never throws
	if err := it.Close(); err != nil {
		t.Errorf("double Close() error: %v", err)
	}
}

func TestIterator_Collect(t *testing.T) {
	s := newTestStore(t)
	seedLists(t, s, 4)

	it, err := s.GetLegoLists()
	if err != nil {
		t.Fatal(err)
	}
	lists, err := it.Collect()
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(lists) != 4 {
		t.Errorf("Collect() = %d lists, want 4", len(lists))
	}
}

func TestIterator_ShutdownMidIteration(t *testing.T) {
	s := newTestStore(t)
	seedLists(t, s, 3)

	it, err := s.GetLegoLists()
	if err != nil {
		t.Fatal(err)
	}
	if !it.Next() {
		t.Fatalf("first Next() = false, err: %v", it.Err())
	}

	if err := s.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error: %v", err)
	}

	// Iteration after shutdown surfaces the store-closed error
	if it.Next() {
		t.Error("Next() after shutdown returned true")
	}
	if !errors.IsStoreClosed(it.Err()) {
		t.Errorf("Err() after shutdown = %v, want ErrStoreClosed", it.Err())
	}
	// Close after shutdown never throws
	if err := it.Close(); err != nil {
		t.Errorf("Close() after shutdown error: %v", err)
	}
}

func TestPncsIterator(t *testing.T) {
	s := newTestStore(t)

	listUUID := uuid.NewString()
	if _, err := s.CreateLegoList(listUUID, "pncs-holder", "", ""); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		lego := testutil.NewLego(uuid.NewString(), int64(i), fmt.Sprintf("v%d", i))
		if _, err := s.CommitLego(lego, listUUID); err != nil {
			t.Fatal(err)
		}
	}

	it, err := s.GetPncsIterator()
	if err != nil {
		t.Fatal(err)
	}
	rows, err := it.Collect()
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("pncs iterator yielded %d rows, want 3", len(rows))
	}
}
