package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"trade-bridge/internal/types"
)

// PricingPolicy selects how the entry leg is priced off the reference
// price. Both policies exist in production configs and must stay
// supported side by side.
type PricingPolicy string

const (
	// PolicyEntryLimit enters with a plain limit order at
	// reference±entryOffset; the protective legs hang off that entry
	// price.
	PolicyEntryLimit PricingPolicy = "ENTRY_LIMIT"

	// PolicyStopEntry enters with a stop-limit order
	// (stop=reference±stopOffset, limit=reference±limitOffset); the
	// protective legs hang off the stop price, not the reference.
	PolicyStopEntry PricingPolicy = "STOP_ENTRY"
)

// Offsets are price distances in instrument points. All values are
// magnitudes; the builder applies the sign for the side being traded.
type Offsets struct {
	Entry      decimal.Decimal // ENTRY_LIMIT: distance of the entry limit from reference
	Stop       decimal.Decimal // STOP_ENTRY: distance of the entry stop trigger
	Limit      decimal.Decimal // STOP_ENTRY: distance of the entry limit cap
	StopLoss   decimal.Decimal // distance of the protective stop below/above entry
	TakeProfit decimal.Decimal // distance of the profit target above/below entry
}

// Builder constructs bracket orders. It is pure: no I/O, no broker
// calls; the only state it touches is the allocator it is handed.
type Builder struct {
	policy   PricingPolicy
	offsets  Offsets
	quantity int
}

func NewBuilder(policy PricingPolicy, offsets Offsets, quantity int) (*Builder, error) {
	switch policy {
	case PolicyEntryLimit, PolicyStopEntry:
	default:
		return nil, fmt.Errorf("unknown pricing policy %q", policy)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}
	return &Builder{policy: policy, offsets: offsets.abs(), quantity: quantity}, nil
}

func (o Offsets) abs() Offsets {
	return Offsets{
		Entry:      o.Entry.Abs(),
		Stop:       o.Stop.Abs(),
		Limit:      o.Limit.Abs(),
		StopLoss:   o.StopLoss.Abs(),
		TakeProfit: o.TakeProfit.Abs(),
	}
}

// Build creates the three-legged bracket for one trade idea. The legs
// consume exactly three consecutive ids from the allocator in the order
// entry, take-profit, stop-loss.
//
// Sign convention: for Long every favourable offset is added to the
// reference and the stop-loss is subtracted; for Short every sign
// inverts. The invariants are symmetric both ways.
func (b *Builder) Build(alloc *Allocator, side types.Side, referencePrice decimal.Decimal) (types.BracketOrder, error) {
	// dir is +1 for Long, -1 for Short.
	dir := decimal.NewFromInt(1)
	if side == types.Short {
		dir = decimal.NewFromInt(-1)
	}

	var entry types.OrderLeg
	var anchor decimal.Decimal // price the protective legs are computed from

	entryID, err := alloc.Next()
	if err != nil {
		return types.BracketOrder{}, err
	}

	switch b.policy {
	case PolicyEntryLimit:
		entryPrice := referencePrice.Add(dir.Mul(b.offsets.Entry))
		anchor = entryPrice
		entry = types.OrderLeg{
			OrderID:    entryID,
			Role:       types.RoleEntry,
			Action:     side.OrderAction(),
			Quantity:   b.quantity,
			Kind:       types.KindLimit,
			LimitPrice: entryPrice,
			Transmit:   false,
		}
	case PolicyStopEntry:
		stopPrice := referencePrice.Add(dir.Mul(b.offsets.Stop))
		limitPrice := referencePrice.Add(dir.Mul(b.offsets.Limit))
		anchor = stopPrice
		entry = types.OrderLeg{
			OrderID:    entryID,
			Role:       types.RoleEntry,
			Action:     side.OrderAction(),
			Quantity:   b.quantity,
			Kind:       types.KindStopLimit,
			StopPrice:  stopPrice,
			LimitPrice: limitPrice,
			Transmit:   false,
		}
	}

	tpID, err := alloc.Next()
	if err != nil {
		return types.BracketOrder{}, err
	}
	slID, err := alloc.Next()
	if err != nil {
		return types.BracketOrder{}, err
	}

	takeProfit := types.OrderLeg{
		OrderID:    tpID,
		ParentID:   entryID,
		Role:       types.RoleTakeProfit,
		Action:     side.Inverse().OrderAction(),
		Quantity:   b.quantity,
		Kind:       types.KindLimit,
		LimitPrice: anchor.Add(dir.Mul(b.offsets.TakeProfit)),
		Transmit:   false,
	}

	// The stop-loss leg is submitted last and carries transmit=true,
	// which releases the whole chain at the broker in one shot.
	stopLoss := types.OrderLeg{
		OrderID:   slID,
		ParentID:  entryID,
		Role:      types.RoleStopLoss,
		Action:    side.Inverse().OrderAction(),
		Quantity:  b.quantity,
		Kind:      types.KindStop,
		StopPrice: anchor.Sub(dir.Mul(b.offsets.StopLoss)),
		Transmit:  true,
	}

	return types.BracketOrder{Entry: entry, TakeProfit: takeProfit, StopLoss: stopLoss}, nil
}
