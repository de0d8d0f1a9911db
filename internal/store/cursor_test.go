package store

import (
	"path/filepath"
	"testing"

	"trade-bridge/internal/types"
)

func openTestStore(t *testing.T, path string) *CursorStore {
	t.Helper()
	cs, err := OpenCursorStore(path)
	if err != nil {
		t.Fatal(err)
	}
	return cs
}

func TestCursorFirstRun(t *testing.T) {
	cs := openTestStore(t, filepath.Join(t.TempDir(), "bridge.db"))

	_, ok, err := cs.Read()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("fresh store must report no cursor")
	}
}

func TestCursorWriteRead(t *testing.T) {
	cs := openTestStore(t, filepath.Join(t.TempDir(), "bridge.db"))

	if err := cs.Write(101); err != nil {
		t.Fatal(err)
	}
	id, ok, err := cs.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !ok || id != 101 {
		t.Fatalf("expected cursor 101, got %d (exists=%v)", id, ok)
	}

	if err := cs.Write(105); err != nil {
		t.Fatal(err)
	}
	id, _, _ = cs.Read()
	if id != 105 {
		t.Fatalf("expected cursor 105, got %d", id)
	}
}

func TestCursorSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.db")

	cs := openTestStore(t, path)
	if err := cs.Write(42); err != nil {
		t.Fatal(err)
	}

	reopened := openTestStore(t, path)
	id, ok, err := reopened.Read()
	if err != nil {
		t.Fatal(err)
	}
	if !ok || id != 42 {
		t.Fatalf("expected cursor 42 after reopen, got %d (exists=%v)", id, ok)
	}
}

func TestCursorRejectsRegression(t *testing.T) {
	cs := openTestStore(t, filepath.Join(t.TempDir(), "bridge.db"))

	if err := cs.Write(100); err != nil {
		t.Fatal(err)
	}
	if err := cs.Write(99); err == nil {
		t.Fatal("expected a regression write to be rejected")
	}
	id, _, _ := cs.Read()
	if id != 100 {
		t.Fatalf("cursor moved backwards to %d", id)
	}
}

func TestDeadLetters(t *testing.T) {
	cs := openTestStore(t, filepath.Join(t.TempDir(), "bridge.db"))

	ideas := []types.TradeIdea{
		{ID: 7, Symbol: "SPX", Action: "X"},
		{ID: 9, Symbol: "SPX", Action: "B"},
	}
	if err := cs.RecordDeadLetter(ideas[0], "unresolvable action"); err != nil {
		t.Fatal(err)
	}
	if err := cs.RecordDeadLetter(ideas[1], "price unavailable"); err != nil {
		t.Fatal(err)
	}

	got, reasons, err := cs.DeadLetters(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 dead letters, got %d", len(got))
	}
	// Newest first.
	if got[0].ID != 9 || reasons[0] != "price unavailable" {
		t.Fatalf("unexpected first dead letter: %+v / %q", got[0], reasons[0])
	}
}
