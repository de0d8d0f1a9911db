package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"trade-bridge/internal/interfaces"
	"trade-bridge/internal/store"
)

// New builds a coordinator from its dependencies.
func New(d Deps) (interfaces.Coordinator, error) {
	return NewCoordinator(d)
}

func newBuilderFromConfig(cfg *store.Config) (*Builder, error) {
	var policy PricingPolicy
	switch cfg.Order.Policy {
	case store.PolicyEntryLimit:
		policy = PolicyEntryLimit
	case store.PolicyStopEntry:
		policy = PolicyStopEntry
	default:
		return nil, fmt.Errorf("unknown pricing policy %q", cfg.Order.Policy)
	}

	offsets := Offsets{
		Entry:      decimal.NewFromFloat(cfg.Order.EntryOffset),
		Stop:       decimal.NewFromFloat(cfg.Order.StopOffset),
		Limit:      decimal.NewFromFloat(cfg.Order.LimitOffset),
		StopLoss:   decimal.NewFromFloat(cfg.Order.StopLossOffset),
		TakeProfit: decimal.NewFromFloat(cfg.Order.TakeProfitOffset),
	}
	return NewBuilder(policy, offsets, cfg.Order.Quantity)
}
