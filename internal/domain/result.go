package domain

import "time"

// BacktestResult is the immutable summary of one backtest run: the portfolio
// value series with its parallel date series, the per-bar return series, the
// full order and trade history, and the computed metrics. It is assembled
// once at the end of a run and read-only thereafter.
type BacktestResult struct {
	StrategyName   string
	Symbol         string
	StartDate      time.Time
	EndDate        time.Time
	InitialCapital float64
	FinalCapital   float64

	Dates           []time.Time
	PortfolioValues []float64
	Returns         []float64

	Orders []*Order
	Trades []*Trade

	Metrics map[string]float64
}

// TotalReturn returns (final − initial) / initial.
func (r *BacktestResult) TotalReturn() float64 {
	if r.InitialCapital == 0 {
		return 0
	}
	return (r.FinalCapital - r.InitialCapital) / r.InitialCapital
}

// TotalReturnPct returns the total return as a percentage.
func (r *BacktestResult) TotalReturnPct() float64 {
	return r.TotalReturn() * 100
}
