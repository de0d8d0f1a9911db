package engine

import "sync"

// Allocator hands out broker order ids for the lifetime of one
// connected session. It is seeded exactly once from the broker's
// next-available-id and never reset mid-session; ids never repeat.
// The coordinator owns the allocator and passes it by handle into the
// bracket builder.
type Allocator struct {
	mu     sync.Mutex
	next   int64
	seeded bool
}

func NewAllocator() *Allocator {
	return &Allocator{}
}

// Seed initialises the sequence. Calling it twice is an error: a fresh
// seed mid-session could reissue ids already on the wire.
func (a *Allocator) Seed(initial int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.seeded {
		return ErrAllocatorSeeded
	}
	a.next = initial
	a.seeded = true
	return nil
}

// Seeded reports whether Seed has been called.
func (a *Allocator) Seeded() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.seeded
}

// Next returns the next order id. Using the allocator before seeding is
// a programming error and fails fast.
func (a *Allocator) Next() (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.seeded {
		return 0, ErrAllocatorUnseeded
	}
	id := a.next
	a.next++
	return id, nil
}
