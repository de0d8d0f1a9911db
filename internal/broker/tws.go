package broker

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"trade-bridge/internal/logger"
	"trade-bridge/internal/types"
)

// Params configures the trading-workstation session.
type Params struct {
	Mode     string // DRY_RUN or LIVE
	Host     string
	Port     int
	ClientID int
}

// TWS is the broker session. In DRY_RUN mode every call is simulated
// in-process: quotes wander around a base price and placed legs are
// tracked so the open-order snapshot reflects them. LIVE mode requires
// gateway connection details up front and fails fast without them.
type TWS struct {
	p Params

	mu     sync.Mutex
	nextID int64
	open   []types.OpenOrder
	seeded bool
}

func NewTWS(p Params) *TWS {
	return &TWS{p: p, nextID: time.Now().Unix() % 100000}
}

// QualifyContract resolves a contract spec against the venue.
func (t *TWS) QualifyContract(ctx context.Context, spec types.ContractSpec) (types.Contract, error) {
	if spec.Symbol == "" || spec.Expiry == "" {
		err := fmt.Errorf("contract qualification failed: incomplete spec %+v", spec)
		logger.ErrorWithErr(ctx, "Contract qualification failed", err, "symbol", spec.Symbol)
		return types.Contract{}, err
	}
	if err := t.checkSession(ctx); err != nil {
		return types.Contract{}, err
	}
	c := types.Contract{Spec: spec, ConID: rand.Int63n(1_000_000) + 1}
	logger.Debug(ctx, "Contract qualified", "symbol", spec.Symbol, "expiry", spec.Expiry, "con_id", c.ConID)
	return c, nil
}

// Quote returns a market data snapshot for the contract.
func (t *TWS) Quote(ctx context.Context, c types.Contract) (types.Quote, error) {
	if err := t.checkSession(ctx); err != nil {
		return types.Quote{}, err
	}
	last := 5000 + rand.Float64()*100
	q := types.Quote{
		Last:  decimal.NewFromFloat(last).Round(2),
		Close: decimal.NewFromFloat(last - rand.Float64()*5).Round(2),
	}
	logger.Debug(ctx, "Quote fetched", "symbol", c.Spec.Symbol, "last", q.Last.String(), "close", q.Close.String())
	return q, nil
}

// OpenOrders returns the current open-order snapshot.
func (t *TWS) OpenOrders(ctx context.Context) ([]types.OpenOrder, error) {
	if err := t.checkSession(ctx); err != nil {
		return nil, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]types.OpenOrder, len(t.open))
	copy(out, t.open)
	return out, nil
}

// PlaceOrder submits one leg of a bracket.
func (t *TWS) PlaceOrder(ctx context.Context, c types.Contract, leg types.OrderLeg) error {
	if err := t.checkSession(ctx); err != nil {
		return err
	}

	t.mu.Lock()
	t.open = append(t.open, types.OpenOrder{
		Symbol: c.Spec.Symbol,
		Expiry: c.Spec.Expiry,
		Action: leg.Action,
		Status: "PreSubmitted",
	})
	t.mu.Unlock()

	logger.Info(ctx, "Order placed",
		"mode", t.p.Mode,
		"symbol", c.Spec.Symbol,
		"role", string(leg.Role),
		"order_id", leg.OrderID,
		"parent_id", leg.ParentID,
		"action", leg.Action,
		"qty", leg.Quantity,
		"kind", string(leg.Kind),
		"limit_price", leg.LimitPrice.String(),
		"stop_price", leg.StopPrice.String(),
		"transmit", leg.Transmit,
	)
	return nil
}

// NextOrderID returns the session's next available order id. It is the
// seed for the allocator and must be requested once per connection.
func (t *TWS) NextOrderID(ctx context.Context) (int64, error) {
	if err := t.checkSession(ctx); err != nil {
		return 0, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seeded {
		return 0, errors.New("order id seed already consumed for this session")
	}
	t.seeded = true
	return t.nextID, nil
}

func (t *TWS) checkSession(ctx context.Context) error {
	if t.p.Mode == "DRY_RUN" {
		return nil
	}
	if t.p.Host == "" || t.p.Port == 0 {
		err := errors.New("missing gateway host/port for LIVE session")
		logger.ErrorWithErr(ctx, "Cannot reach broker gateway", err)
		return err
	}
	return nil
}
