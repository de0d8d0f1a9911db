package brokerobs

import (
	"context"

	"trade-bridge/internal/interfaces"
	"trade-bridge/internal/logger"
	"trade-bridge/internal/trace"
	"trade-bridge/internal/types"
)

// observableBroker wraps a Broker with observability (logging & tracing)
type observableBroker struct {
	broker interfaces.Broker
}

// Compile-time interface check
var _ interfaces.Broker = (*observableBroker)(nil)

// Wrap wraps a broker with observability middleware
func Wrap(broker interfaces.Broker) interfaces.Broker {
	return &observableBroker{broker: broker}
}

func (ob *observableBroker) QualifyContract(ctx context.Context, spec types.ContractSpec) (types.Contract, error) {
	ctx, span := trace.StartSpan(ctx, "broker.QualifyContract")
	defer span.End()

	c, err := ob.broker.QualifyContract(ctx, spec)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to qualify contract", err, "symbol", spec.Symbol, "expiry", spec.Expiry)
		return types.Contract{}, err
	}
	logger.Debug(ctx, "Contract qualified", "symbol", spec.Symbol, "con_id", c.ConID)
	return c, nil
}

func (ob *observableBroker) Quote(ctx context.Context, c types.Contract) (types.Quote, error) {
	ctx, span := trace.StartSpan(ctx, "broker.Quote")
	defer span.End()

	q, err := ob.broker.Quote(ctx, c)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch quote", err, "symbol", c.Spec.Symbol)
		return types.Quote{}, err
	}
	logger.Debug(ctx, "Quote fetched", "symbol", c.Spec.Symbol, "last", q.Last.String(), "close", q.Close.String())
	return q, nil
}

func (ob *observableBroker) OpenOrders(ctx context.Context) ([]types.OpenOrder, error) {
	ctx, span := trace.StartSpan(ctx, "broker.OpenOrders")
	defer span.End()

	orders, err := ob.broker.OpenOrders(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch open orders", err)
		return nil, err
	}
	logger.Debug(ctx, "Open orders fetched", "count", len(orders))
	return orders, nil
}

func (ob *observableBroker) PlaceOrder(ctx context.Context, c types.Contract, leg types.OrderLeg) error {
	ctx, span := trace.StartSpan(ctx, "broker.PlaceOrder")
	defer span.End()

	if err := ob.broker.PlaceOrder(ctx, c, leg); err != nil {
		logger.ErrorWithErr(ctx, "Failed to place order", err,
			"symbol", c.Spec.Symbol,
			"role", string(leg.Role),
			"order_id", leg.OrderID,
		)
		return err
	}
	return nil
}

func (ob *observableBroker) NextOrderID(ctx context.Context) (int64, error) {
	ctx, span := trace.StartSpan(ctx, "broker.NextOrderID")
	defer span.End()

	id, err := ob.broker.NextOrderID(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch next order id", err)
		return 0, err
	}
	logger.Info(ctx, "Order id sequence seeded from broker", "first_id", id)
	return id, nil
}
