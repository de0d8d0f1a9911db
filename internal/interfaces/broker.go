package interfaces

import (
	"context"

	"trade-bridge/internal/types"
)

// Broker is the session with the execution venue. One connection per
// process; connection loss is fatal and a restart is the recovery path.
type Broker interface {
	QualifyContract(ctx context.Context, spec types.ContractSpec) (types.Contract, error)
	Quote(ctx context.Context, c types.Contract) (types.Quote, error)
	OpenOrders(ctx context.Context) ([]types.OpenOrder, error)
	PlaceOrder(ctx context.Context, c types.Contract, leg types.OrderLeg) error
	NextOrderID(ctx context.Context) (int64, error)
}
