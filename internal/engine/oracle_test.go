package engine

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trade-bridge/internal/types"
)

func noSleep(o *Oracle) *Oracle {
	o.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return o
}

func TestOraclePrefersLast(t *testing.T) {
	brk := new(MockBroker)
	brk.On("Quote", mock.Anything, mock.Anything).Return(types.Quote{
		Last:  dec(5001.25),
		Close: dec(4990),
	}, nil)

	o := noSleep(NewOracle(brk, RetryPolicy{Attempts: 3, Pause: time.Millisecond}))
	price, err := o.ResolvePrice(context.Background(), mesContract())
	require.NoError(t, err)
	assert.True(t, price.Equal(dec(5001.25)))
	brk.AssertNumberOfCalls(t, "Quote", 1)
}

func TestOracleFallsBackToClose(t *testing.T) {
	brk := new(MockBroker)
	brk.On("Quote", mock.Anything, mock.Anything).Return(types.Quote{
		Last:  decimal.Zero,
		Close: dec(4990.5),
	}, nil)

	o := noSleep(NewOracle(brk, RetryPolicy{Attempts: 3, Pause: time.Millisecond}))
	price, err := o.ResolvePrice(context.Background(), mesContract())
	require.NoError(t, err)
	assert.True(t, price.Equal(dec(4990.5)))
}

func TestOracleRetriesUntilPopulated(t *testing.T) {
	brk := new(MockBroker)
	empty := types.Quote{Last: decimal.Zero, Close: decimal.Zero}
	brk.On("Quote", mock.Anything, mock.Anything).Return(empty, nil).Twice()
	brk.On("Quote", mock.Anything, mock.Anything).Return(types.Quote{Last: dec(5000)}, nil).Once()

	o := noSleep(NewOracle(brk, RetryPolicy{Attempts: 3, Pause: time.Millisecond}))
	price, err := o.ResolvePrice(context.Background(), mesContract())
	require.NoError(t, err)
	assert.True(t, price.Equal(dec(5000)))
	brk.AssertNumberOfCalls(t, "Quote", 3)
}

func TestOracleExhaustsRetries(t *testing.T) {
	brk := new(MockBroker)
	brk.On("Quote", mock.Anything, mock.Anything).Return(types.Quote{}, nil)

	o := noSleep(NewOracle(brk, RetryPolicy{Attempts: 3, Pause: time.Millisecond}))
	_, err := o.ResolvePrice(context.Background(), mesContract())
	assert.ErrorIs(t, err, ErrPriceUnavailable)
	brk.AssertNumberOfCalls(t, "Quote", 3)
}
