package interfaces

import "trade-bridge/internal/types"

// CursorStore persists the highest feed id already acted on. Write must
// be durable before it returns; Read is called fresh at the start of
// every polling cycle so an externally edited value is honoured.
type CursorStore interface {
	// Read returns the watermark and whether one exists yet.
	Read() (int64, bool, error)
	Write(id int64) error
}

// DeadLetterStore records ideas that were deliberately skipped so an
// operator can review them; skipping still advances the cursor.
type DeadLetterStore interface {
	RecordDeadLetter(idea types.TradeIdea, reason string) error
}
