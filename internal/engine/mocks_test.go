package engine

import (
	"context"

	"github.com/stretchr/testify/mock"

	"trade-bridge/internal/types"
)

type MockBroker struct {
	mock.Mock
}

func (m *MockBroker) QualifyContract(ctx context.Context, spec types.ContractSpec) (types.Contract, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(types.Contract), args.Error(1)
}

func (m *MockBroker) Quote(ctx context.Context, c types.Contract) (types.Quote, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(types.Quote), args.Error(1)
}

func (m *MockBroker) OpenOrders(ctx context.Context) ([]types.OpenOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.OpenOrder), args.Error(1)
}

func (m *MockBroker) PlaceOrder(ctx context.Context, c types.Contract, leg types.OrderLeg) error {
	args := m.Called(ctx, c, leg)
	return args.Error(0)
}

func (m *MockBroker) NextOrderID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// memCursor is an in-memory cursor and dead-letter store for tests.
type memCursor struct {
	id     int64
	exists bool
	writes []int64
	dead   []string
}

func (c *memCursor) Read() (int64, bool, error) { return c.id, c.exists, nil }

func (c *memCursor) Write(id int64) error {
	c.id, c.exists = id, true
	c.writes = append(c.writes, id)
	return nil
}

func (c *memCursor) RecordDeadLetter(idea types.TradeIdea, reason string) error {
	c.dead = append(c.dead, reason)
	return nil
}

// stubFeed returns a fixed batch (or error) on every fetch.
type stubFeed struct {
	batch []types.TradeIdea
	err   error
	calls int
}

func (f *stubFeed) FetchBatch(ctx context.Context) ([]types.TradeIdea, error) {
	f.calls++
	return f.batch, f.err
}
