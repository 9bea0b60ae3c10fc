// Package domain defines the core types shared across the platform: bars,
// orders, trades, signals, positions, and backtest results.
package domain

import "time"

// Side is the direction of an order or trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderStatus is the lifecycle state of an order. The only legal transitions
// are PENDING → FILLED and PENDING → REJECTED; a terminal order is never
// mutated again.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusRejected  OrderStatus = "REJECTED"
)

// SignalAction is the decision a strategy emits for a bar.
type SignalAction string

const (
	ActionBuy  SignalAction = "BUY"
	ActionSell SignalAction = "SELL"
	ActionHold SignalAction = "HOLD"
)

// Bar is one OHLCV observation for one trading session. Volume is in shares
// and Amount in currency units.
type Bar struct {
	Symbol string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
	Amount float64
}

// Signal is a strategy's per-bar output. The price is advisory; fills happen
// at the bar close. Confidence is in [0, 1].
type Signal struct {
	Action     SignalAction
	Symbol     string
	Price      float64
	Quantity   int64
	Timestamp  time.Time
	Reason     string
	Confidence float64
}

// Order is a limit order submitted to the simulated broker. It is created by
// the broker on submission and mutated only by the broker's fill path.
type Order struct {
	ID             string
	Symbol         string
	Side           Side
	Quantity       int64
	Price          float64
	Status         OrderStatus
	FilledQuantity int64
	FilledPrice    float64
	Commission     float64
	CreatedAt      time.Time
	FilledAt       time.Time
}

// Filled reports whether the order reached the FILLED state.
func (o *Order) Filled() bool {
	return o.Status == OrderStatusFilled
}

// FilledAmount returns the executed notional, excluding commission.
func (o *Order) FilledAmount() float64 {
	return float64(o.FilledQuantity) * o.FilledPrice
}

// Trade is the immutable record of one fill. Price is the executed price
// after slippage.
type Trade struct {
	ID         string
	OrderID    string
	Symbol     string
	Side       Side
	Quantity   int64
	Price      float64
	Commission float64
	Timestamp  time.Time
}

// Amount returns the trade notional, excluding commission.
func (t *Trade) Amount() float64 {
	return float64(t.Quantity) * t.Price
}

// TotalCost returns the trade notional including commission.
func (t *Trade) TotalCost() float64 {
	return t.Amount() + t.Commission
}
