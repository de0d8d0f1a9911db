package engine

import (
	"context"

	"trade-bridge/internal/interfaces"
	"trade-bridge/internal/logger"
	"trade-bridge/internal/types"
)

// Throttle caps the number of simultaneously open orders per side for
// one contract. It queries a fresh open-order snapshot on every check;
// capacity is never cached or reserved.
type Throttle struct {
	broker  interfaces.Broker
	ceiling int
}

func NewThrottle(broker interfaces.Broker, ceiling int) *Throttle {
	return &Throttle{broker: broker, ceiling: ceiling}
}

// CheckCapacity reports whether a new bracket may be submitted for the
// contract. A bracket opens orders on both sides, so the check fails
// when either side is at or above the ceiling.
func (t *Throttle) CheckCapacity(ctx context.Context, c types.Contract, side types.Side) (bool, error) {
	open, err := t.broker.OpenOrders(ctx)
	if err != nil {
		return false, err
	}

	buy, sell := 0, 0
	for _, o := range open {
		if o.Symbol != c.Spec.Symbol || o.Expiry != c.Spec.Expiry {
			continue
		}
		switch o.Action {
		case "BUY":
			buy++
		case "SELL":
			sell++
		}
	}

	logger.Debug(ctx, "Open order counts",
		"symbol", c.Spec.Symbol,
		"buy", buy,
		"sell", sell,
		"ceiling", t.ceiling,
		"side", string(side),
	)

	return buy < t.ceiling && sell < t.ceiling, nil
}
