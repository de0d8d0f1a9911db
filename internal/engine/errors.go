package engine

import "errors"

var (
	// ErrPriceUnavailable means the oracle exhausted its retries without
	// seeing a positive last or close price. Per-idea fatal.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrInvalidAction means the feed's action code could not be mapped
	// to a side. Per-idea fatal; never defaulted.
	ErrInvalidAction = errors.New("invalid action")

	// ErrThrottled means the open-order ceiling was reached on at least
	// one side of the contract. The idea is skipped, not queued.
	ErrThrottled = errors.New("open order ceiling reached")

	// ErrAllocatorUnseeded means Next was called before Seed. This is a
	// programming error and session-fatal.
	ErrAllocatorUnseeded = errors.New("order id allocator used before seeding")

	// ErrAllocatorSeeded means Seed was called twice in one session.
	ErrAllocatorSeeded = errors.New("order id allocator already seeded")
)
