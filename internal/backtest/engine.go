package backtest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"quantbt/internal/broker"
	"quantbt/internal/config"
	"quantbt/internal/domain"
	"quantbt/internal/strategy"
)

// ErrNoData is returned when a run is attempted over an empty bar series.
var ErrNoData = errors.New("backtest: no bar data")

// Engine drives a single-symbol, bar-by-bar backtest: it feeds bars to
// the strategy, routes signals through the simulated broker, and keeps
// the daily portfolio value series.
type Engine struct {
	cfg       config.Backtest
	broker    *broker.Simulator
	positions map[string]*domain.Position
	values    []float64
	dates     []time.Time
	metrics   *MetricsCalculator
	log       *slog.Logger
}

func NewEngine(cfg config.Backtest) *Engine {
	return &Engine{
		cfg:       cfg,
		broker:    broker.NewSimulator(cfg),
		positions: make(map[string]*domain.Position),
		metrics:   NewMetricsCalculator(cfg.RiskFreeRate),
		log:       slog.Default().With("component", "engine"),
	}
}

// Run executes the strategy over the bar series and returns the
// assembled result. Order-level failures (rejected buys, oversized
// sells) are logged and skipped; only empty input or a strategy Init
// failure aborts the run.
func (e *Engine) Run(ctx context.Context, strat strategy.Strategy, bars []domain.Bar, symbol string) (*domain.BacktestResult, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	if err := strat.Init(bars); err != nil {
		return nil, fmt.Errorf("init strategy %s: %w", strat.Name(), err)
	}

	e.log.Info("backtest start",
		"strategy", strat.Name(),
		"symbol", symbol,
		"bars", len(bars),
		"capital", e.cfg.InitialCapital)

	for _, bar := range bars {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if pos, ok := e.positions[bar.Symbol]; ok {
			pos.UpdatePrice(bar.Close)
		}

		if sig := strat.Next(bar); sig != nil {
			e.processSignal(strat, sig, bar)
		}

		e.values = append(e.values, e.portfolioValue())
		e.dates = append(e.dates, bar.Date)
	}

	returns := pctChange(e.values)
	result := &domain.BacktestResult{
		StrategyName:    strat.Name(),
		Symbol:          symbol,
		StartDate:       bars[0].Date,
		EndDate:         bars[len(bars)-1].Date,
		InitialCapital:  e.cfg.InitialCapital,
		FinalCapital:    e.values[len(e.values)-1],
		Dates:           e.dates,
		PortfolioValues: e.values,
		Returns:         returns,
		Orders:          e.broker.Orders(),
		Trades:          e.broker.Trades(),
		Metrics:         e.metrics.CalculateAll(e.values, returns),
	}

	e.log.Info("backtest done",
		"strategy", strat.Name(),
		"symbol", symbol,
		"final", result.FinalCapital,
		"trades", len(result.Trades))
	return result, nil
}

// Reset discards all broker and position state so the engine can run
// again from the initial capital.
func (e *Engine) Reset() {
	e.broker = broker.NewSimulator(e.cfg)
	e.positions = make(map[string]*domain.Position)
	e.values = nil
	e.dates = nil
}

func (e *Engine) processSignal(strat strategy.Strategy, sig *domain.Signal, bar domain.Bar) {
	switch sig.Action {
	case domain.ActionBuy:
		e.executeBuy(strat, sig, bar)
	case domain.ActionSell:
		e.executeSell(strat, sig, bar)
	}
}

func (e *Engine) executeBuy(strat strategy.Strategy, sig *domain.Signal, bar domain.Bar) {
	order, err := e.broker.SubmitOrder(bar.Symbol, domain.SideBuy, sig.Quantity, bar.Close)
	if err != nil {
		e.log.Warn("buy rejected", "symbol", bar.Symbol, "date", bar.Date, "error", err)
		return
	}
	trade, err := e.broker.FillOrder(order, bar.Close)
	if err != nil {
		e.log.Warn("buy fill failed", "symbol", bar.Symbol, "date", bar.Date, "error", err)
		return
	}

	pos, ok := e.positions[bar.Symbol]
	if !ok {
		pos = domain.NewPosition(bar.Symbol, trade.Price)
		e.positions[bar.Symbol] = pos
	}
	if err := pos.Add(trade.Quantity, trade.Price); err != nil {
		e.log.Error("position update failed", "symbol", bar.Symbol, "error", err)
		return
	}
	strat.OnOrderFilled(order)
	e.log.Debug("buy filled",
		"symbol", bar.Symbol, "date", bar.Date,
		"qty", trade.Quantity, "price", trade.Price, "reason", sig.Reason)
}

func (e *Engine) executeSell(strat strategy.Strategy, sig *domain.Signal, bar domain.Bar) {
	pos, ok := e.positions[bar.Symbol]
	if !ok || pos.Quantity == 0 {
		e.log.Debug("sell dropped, no position", "symbol", bar.Symbol, "date", bar.Date)
		return
	}

	// Clamp to the held quantity. A non-positive signal quantity falls
	// through to the broker, which rejects it.
	qty := sig.Quantity
	if qty > pos.Quantity {
		qty = pos.Quantity
	}

	order, err := e.broker.SubmitOrder(bar.Symbol, domain.SideSell, qty, bar.Close)
	if err != nil {
		e.log.Warn("sell rejected", "symbol", bar.Symbol, "date", bar.Date, "error", err)
		return
	}
	trade, err := e.broker.FillOrder(order, bar.Close)
	if err != nil {
		e.log.Warn("sell fill failed", "symbol", bar.Symbol, "date", bar.Date, "error", err)
		return
	}

	realized, err := pos.Reduce(trade.Quantity)
	if err != nil {
		e.log.Error("position reduce failed", "symbol", bar.Symbol, "error", err)
		return
	}
	if pos.Quantity == 0 {
		delete(e.positions, bar.Symbol)
	}
	strat.OnOrderFilled(order)
	e.log.Debug("sell filled",
		"symbol", bar.Symbol, "date", bar.Date,
		"qty", trade.Quantity, "price", trade.Price,
		"realized", realized, "reason", sig.Reason)
}

// portfolioValue is cash plus the market value of all open positions.
func (e *Engine) portfolioValue() float64 {
	total := e.broker.Cash()
	for _, pos := range e.positions {
		total += pos.MarketValue()
	}
	return total
}

// pctChange mirrors a simple daily return series: the first element is
// 0, each subsequent one is the fractional change from the prior value.
func pctChange(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	returns := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			returns[i] = values[i]/values[i-1] - 1
		}
	}
	return returns
}
