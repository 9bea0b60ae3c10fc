// Package broker simulates order execution against a cash account: order
// validation, commission and stamp-tax computation, and fill simulation with
// slippage.
package broker

import (
	"fmt"
	"log/slog"
	"time"

	"quantbt/internal/config"
	"quantbt/internal/domain"
	"quantbt/internal/util"
)

// Simulator is the simulated broker. It exclusively owns the cash balance
// and the order/trade history; both are mutated only through SubmitOrder and
// FillOrder.
type Simulator struct {
	initialCapital float64
	cash           float64

	commissionRate float64
	minCommission  float64
	stampTaxRate   float64
	slippage       float64

	orders []*domain.Order
	trades []*domain.Trade

	log *slog.Logger
}

// NewSimulator creates a Simulator funded with cfg.InitialCapital.
func NewSimulator(cfg config.Backtest) *Simulator {
	return &Simulator{
		initialCapital: cfg.InitialCapital,
		cash:           cfg.InitialCapital,
		commissionRate: cfg.CommissionRate,
		minCommission:  cfg.MinCommission,
		stampTaxRate:   cfg.StampTaxRate,
		slippage:       cfg.Slippage,
		log:            slog.Default().With("component", "broker"),
	}
}

// SubmitOrder validates and records a new limit order in PENDING state.
//
// A non-positive quantity or price fails with ErrInvalidOrder. A BUY whose
// total cost (notional plus commission) exceeds the available cash is
// recorded with status REJECTED for audit and the call fails with
// ErrInsufficientFunds.
func (s *Simulator) SubmitOrder(symbol string, side domain.Side, quantity int64, price float64) (*domain.Order, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity %d", domain.ErrInvalidOrder, quantity)
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: price %v", domain.ErrInvalidOrder, price)
	}

	order := &domain.Order{
		ID:        util.NewID(),
		Symbol:    symbol,
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now(),
	}

	if side == domain.SideBuy {
		totalCost := s.buyCost(quantity, price)
		if totalCost > s.cash {
			order.Status = domain.OrderStatusRejected
			s.orders = append(s.orders, order)
			s.log.Warn("order rejected: insufficient funds",
				"symbol", symbol, "need", totalCost, "have", s.cash)
			return nil, fmt.Errorf("%w: need %.2f, have %.2f",
				domain.ErrInsufficientFunds, totalCost, s.cash)
		}
	}

	s.orders = append(s.orders, order)
	s.log.Debug("order submitted",
		"id", order.ID, "symbol", symbol, "side", side, "qty", quantity, "price", price)

	return order, nil
}

// FillOrder executes a PENDING order and returns the resulting trade. A
// fillPrice ≤ 0 means "fill at the order's limit price".
//
// The effective price carries the slippage adjustment, always against the
// trader: BUY pays price×(1+slippage), SELL receives price×(1−slippage).
// Commission is max(notional × rate, minimum). Sells additionally pay stamp
// tax on the notional. The cash balance is updated atomically with the fill.
func (s *Simulator) FillOrder(order *domain.Order, fillPrice float64) (*domain.Trade, error) {
	if order.Status != domain.OrderStatusPending {
		return nil, fmt.Errorf("%w: order %s is not pending (%s)",
			domain.ErrInvalidOrder, order.ID, order.Status)
	}

	if fillPrice <= 0 {
		fillPrice = order.Price
	}

	var actualPrice float64
	if order.Side == domain.SideBuy {
		actualPrice = fillPrice * (1 + s.slippage)
	} else {
		actualPrice = fillPrice * (1 - s.slippage)
	}

	commission := s.commission(order.Quantity, actualPrice)

	order.FilledQuantity = order.Quantity
	order.FilledPrice = actualPrice
	order.Commission = commission
	order.Status = domain.OrderStatusFilled
	order.FilledAt = time.Now()

	if order.Side == domain.SideBuy {
		totalCost := order.FilledAmount() + commission
		s.cash -= totalCost
		s.log.Debug("buy filled", "id", order.ID, "cost", totalCost, "cash", s.cash)
	} else {
		stampTax := order.FilledAmount() * s.stampTaxRate
		totalReceived := order.FilledAmount() - commission - stampTax
		s.cash += totalReceived
		s.log.Debug("sell filled", "id", order.ID, "received", totalReceived, "cash", s.cash)
	}

	trade := &domain.Trade{
		ID:         util.NewID(),
		OrderID:    order.ID,
		Symbol:     order.Symbol,
		Side:       order.Side,
		Quantity:   order.FilledQuantity,
		Price:      actualPrice,
		Commission: commission,
		Timestamp:  order.FilledAt,
	}
	s.trades = append(s.trades, trade)

	s.log.Info("trade executed",
		"id", trade.ID, "symbol", trade.Symbol, "side", trade.Side,
		"qty", trade.Quantity, "price", trade.Price, "commission", commission)

	return trade, nil
}

// commission returns max(notional × rate, minimum commission).
func (s *Simulator) commission(quantity int64, price float64) float64 {
	c := float64(quantity) * price * s.commissionRate
	if c < s.minCommission {
		c = s.minCommission
	}
	return c
}

// buyCost returns the cash needed to buy quantity shares at price, including
// commission.
func (s *Simulator) buyCost(quantity int64, price float64) float64 {
	return float64(quantity)*price + s.commission(quantity, price)
}

// Cash returns the current cash balance.
func (s *Simulator) Cash() float64 { return s.cash }

// InitialCapital returns the starting cash balance.
func (s *Simulator) InitialCapital() float64 { return s.initialCapital }

// TotalCommission returns the sum of commissions over all executed trades.
func (s *Simulator) TotalCommission() float64 {
	var total float64
	for _, t := range s.trades {
		total += t.Commission
	}
	return total
}

// TradeCount returns the number of executed trades.
func (s *Simulator) TradeCount() int { return len(s.trades) }

// Orders returns the full order history, including rejected orders.
func (s *Simulator) Orders() []*domain.Order {
	out := make([]*domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Trades returns the full trade history.
func (s *Simulator) Trades() []*domain.Trade {
	out := make([]*domain.Trade, len(s.trades))
	copy(out, s.trades)
	return out
}
