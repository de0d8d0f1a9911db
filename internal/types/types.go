package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Side is the direction of a trade idea as published by the feed.
type Side string

const (
	Long  Side = "LONG"
	Short Side = "SHORT"
)

// ParseSide maps the feed's action codes onto a Side. The feed has used
// several spellings over time; anything unrecognised is rejected rather
// than defaulted.
func ParseSide(action string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(action)) {
	case "L", "LONG", "B", "BUY":
		return Long, nil
	case "S", "SHORT", "SELL":
		return Short, nil
	default:
		return "", fmt.Errorf("unresolvable action code %q", action)
	}
}

// Inverse returns the opposite side, used for protective legs.
func (s Side) Inverse() Side {
	if s == Long {
		return Short
	}
	return Long
}

// OrderAction is the broker-facing BUY/SELL for one leg.
func (s Side) OrderAction() string {
	if s == Long {
		return "BUY"
	}
	return "SELL"
}

// TradeIdea is one record from the alert feed. Immutable once fetched;
// IDs are feed-assigned, strictly increasing but not contiguous.
type TradeIdea struct {
	ID        int64  `json:"id"`
	Symbol    string `json:"symbol"`
	Action    string `json:"action"`
	SourceTag string `json:"source_tag,omitempty"`
}

// ContractSpec describes the instrument to trade, taken from config.
type ContractSpec struct {
	Symbol   string
	Expiry   string
	Exchange string
	Currency string
}

// Contract is a broker-qualified instrument.
type Contract struct {
	Spec  ContractSpec
	ConID int64
}

// Quote is a point-in-time market data snapshot for a contract.
type Quote struct {
	Last  decimal.Decimal
	Close decimal.Decimal
}

// LegRole identifies the position of a leg within a bracket.
type LegRole string

const (
	RoleEntry      LegRole = "ENTRY"
	RoleTakeProfit LegRole = "TAKE_PROFIT"
	RoleStopLoss   LegRole = "STOP_LOSS"
)

// PriceKind is the broker order type of a leg.
type PriceKind string

const (
	KindLimit     PriceKind = "LMT"
	KindStop      PriceKind = "STP"
	KindStopLimit PriceKind = "STP LMT"
)

// OrderLeg is one order within a bracket.
type OrderLeg struct {
	OrderID    int64
	ParentID   int64 // 0 for the entry leg
	Role       LegRole
	Action     string // BUY or SELL
	Quantity   int
	Kind       PriceKind
	LimitPrice decimal.Decimal // set for LMT and STP LMT
	StopPrice  decimal.Decimal // set for STP and STP LMT
	Transmit   bool
}

// BracketOrder is an ordered triple of legs: entry, take-profit,
// stop-loss. Submission order matters: only the final leg carries
// transmit=true, which releases the whole chain at the broker.
type BracketOrder struct {
	Entry      OrderLeg
	TakeProfit OrderLeg
	StopLoss   OrderLeg
}

// Legs returns the legs in submission order.
func (b BracketOrder) Legs() []OrderLeg {
	return []OrderLeg{b.Entry, b.TakeProfit, b.StopLoss}
}

// OpenOrder is one entry from the broker's open-order snapshot.
type OpenOrder struct {
	Symbol string
	Expiry string
	Action string // BUY or SELL
	Status string
}
