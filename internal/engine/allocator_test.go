package engine

import (
	"errors"
	"testing"
)

func TestAllocatorFailsBeforeSeed(t *testing.T) {
	a := NewAllocator()

	if a.Seeded() {
		t.Fatal("fresh allocator must not report seeded")
	}
	if _, err := a.Next(); !errors.Is(err, ErrAllocatorUnseeded) {
		t.Fatalf("expected ErrAllocatorUnseeded, got %v", err)
	}
}

func TestAllocatorMonotonic(t *testing.T) {
	a := NewAllocator()
	if err := a.Seed(1000); err != nil {
		t.Fatal(err)
	}

	prev := int64(-1)
	for i := 0; i < 100; i++ {
		id, err := a.Next()
		if err != nil {
			t.Fatal(err)
		}
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}
	if prev != 1099 {
		t.Fatalf("expected last id 1099, got %d", prev)
	}
}

func TestAllocatorSeedOnce(t *testing.T) {
	a := NewAllocator()
	if err := a.Seed(5); err != nil {
		t.Fatal(err)
	}
	if err := a.Seed(50); !errors.Is(err, ErrAllocatorSeeded) {
		t.Fatalf("expected ErrAllocatorSeeded on second seed, got %v", err)
	}

	// The original seed survives a rejected reseed.
	id, err := a.Next()
	if err != nil {
		t.Fatal(err)
	}
	if id != 5 {
		t.Fatalf("expected first id 5, got %d", id)
	}
}
