package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"trade-bridge/internal/interfaces"
	"trade-bridge/internal/logger"
	"trade-bridge/internal/types"
)

// RetryPolicy bounds how the oracle waits for quote data to populate.
type RetryPolicy struct {
	Attempts int
	Pause    time.Duration
}

// DefaultRetryPolicy matches the feed handoff window the gateway needs
// to populate a fresh market data subscription.
var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Pause: 2 * time.Second}

// Oracle resolves the current tradable price for a contract: prefer a
// positive last-trade price, fall back to a positive close, otherwise
// retry. Exhaustion is per-idea fatal, not loop-fatal.
type Oracle struct {
	broker interfaces.Broker
	policy RetryPolicy
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewOracle(broker interfaces.Broker, policy RetryPolicy) *Oracle {
	if policy.Attempts <= 0 {
		policy = DefaultRetryPolicy
	}
	return &Oracle{broker: broker, policy: policy, sleep: sleepCtx}
}

func (o *Oracle) ResolvePrice(ctx context.Context, c types.Contract) (decimal.Decimal, error) {
	for attempt := 1; attempt <= o.policy.Attempts; attempt++ {
		q, err := o.broker.Quote(ctx, c)
		if err == nil {
			if q.Last.IsPositive() {
				return q.Last, nil
			}
			if q.Close.IsPositive() {
				return q.Close, nil
			}
		} else {
			logger.Warn(ctx, "Quote request failed", "symbol", c.Spec.Symbol, "attempt", attempt, "error", err)
		}

		if attempt < o.policy.Attempts {
			logger.Debug(ctx, "Retrying market price fetch",
				"symbol", c.Spec.Symbol,
				"attempt", attempt,
				"max_attempts", o.policy.Attempts,
			)
			if err := o.sleep(ctx, o.policy.Pause); err != nil {
				return decimal.Zero, err
			}
		}
	}
	return decimal.Zero, fmt.Errorf("%w for %s after %d attempts", ErrPriceUnavailable, c.Spec.Symbol, o.policy.Attempts)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
