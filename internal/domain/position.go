package domain

import (
	"fmt"
	"time"
)

// Position is the per-symbol holding ledger: share count, weighted-average
// cost basis, and the latest mark price. Quantity never goes negative.
//
// Derived values (market value, cost basis, unrealized P&L) are always
// recomputed from the three stored fields rather than cached, so they can
// never go stale.
type Position struct {
	Symbol       string
	Quantity     int64
	AvgCost      float64
	CurrentPrice float64
	LastUpdated  time.Time
}

// NewPosition creates an empty position for symbol marked at price.
func NewPosition(symbol string, price float64) *Position {
	return &Position{
		Symbol:       symbol,
		CurrentPrice: price,
		LastUpdated:  time.Now(),
	}
}

// MarketValue returns quantity × current price.
func (p *Position) MarketValue() float64 {
	return float64(p.Quantity) * p.CurrentPrice
}

// CostBasis returns quantity × average cost.
func (p *Position) CostBasis() float64 {
	return float64(p.Quantity) * p.AvgCost
}

// UnrealizedPNL returns market value minus cost basis.
func (p *Position) UnrealizedPNL() float64 {
	return p.MarketValue() - p.CostBasis()
}

// UnrealizedPNLPct returns the unrealized P&L as a percentage of cost basis,
// or 0 for an empty position.
func (p *Position) UnrealizedPNLPct() float64 {
	cb := p.CostBasis()
	if cb == 0 {
		return 0
	}
	return p.UnrealizedPNL() / cb * 100
}

// UpdatePrice remarks the position to price. Cost and quantity are untouched.
func (p *Position) UpdatePrice(price float64) {
	p.CurrentPrice = price
	p.LastUpdated = time.Now()
}

// Add increases the position by quantity shares bought at price, updating the
// weighted-average cost: newAvg = (oldCostBasis + quantity×price) / newQty.
func (p *Position) Add(quantity int64, price float64) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: add quantity %d", ErrInvalidPosition, quantity)
	}
	totalCost := p.CostBasis() + float64(quantity)*price
	p.Quantity += quantity
	p.AvgCost = totalCost / float64(p.Quantity)
	p.LastUpdated = time.Now()
	return nil
}

// Reduce decreases the position by quantity shares and returns the realized
// P&L at the current mark price. The average cost per share is left unchanged
// by a partial sale; only the total cost basis shrinks proportionally. It
// fails without mutating state when quantity exceeds the held amount.
func (p *Position) Reduce(quantity int64) (float64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("%w: reduce quantity %d", ErrInvalidPosition, quantity)
	}
	if quantity > p.Quantity {
		return 0, fmt.Errorf("%w: cannot reduce %d shares, only have %d",
			ErrInvalidPosition, quantity, p.Quantity)
	}
	realized := float64(quantity) * (p.CurrentPrice - p.AvgCost)
	p.Quantity -= quantity
	p.LastUpdated = time.Now()
	return realized, nil
}
