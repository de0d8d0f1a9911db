package interfaces

import (
	"context"

	"trade-bridge/internal/types"
)

// Feed fetches the current batch of trade ideas. A transport failure is
// reported as an error; callers treat it the same as an empty batch and
// try again next cycle.
type Feed interface {
	FetchBatch(ctx context.Context) ([]types.TradeIdea, error)
}
