package backtest

import "math"

// TradingDaysPerYear is the annualization factor for A-share daily bars.
const TradingDaysPerYear = 252

// MetricsCalculator derives performance metrics from a daily portfolio
// value series and its simple returns.
type MetricsCalculator struct {
	riskFreeRate float64
}

func NewMetricsCalculator(riskFreeRate float64) *MetricsCalculator {
	return &MetricsCalculator{riskFreeRate: riskFreeRate}
}

// CalculateAll computes every supported metric in one pass. Degenerate
// inputs (empty series, zero variance) produce 0 for the affected
// metrics rather than NaN or Inf.
func (m *MetricsCalculator) CalculateAll(values, returns []float64) map[string]float64 {
	total := m.TotalReturn(values)
	annual := m.AnnualReturn(total, len(values))
	maxDD := m.MaxDrawdown(values)

	return map[string]float64{
		"total_return":  total,
		"annual_return": annual,
		"volatility":    m.Volatility(returns),
		"max_drawdown":  maxDD,
		"sharpe_ratio":  m.SharpeRatio(returns),
		"sortino_ratio": m.SortinoRatio(returns),
		"calmar_ratio":  m.CalmarRatio(annual, maxDD),
		"trading_days":  float64(len(values)),
	}
}

// TotalReturn is the fractional change from the first to the last value.
func (m *MetricsCalculator) TotalReturn(values []float64) float64 {
	if len(values) == 0 || values[0] == 0 {
		return 0
	}
	return values[len(values)-1]/values[0] - 1
}

// AnnualReturn compounds the total return over the observed span to a
// 252-day year.
func (m *MetricsCalculator) AnnualReturn(totalReturn float64, days int) float64 {
	if days == 0 || totalReturn <= -1 {
		return 0
	}
	return math.Pow(1+totalReturn, TradingDaysPerYear/float64(days)) - 1
}

// Volatility is the annualized sample standard deviation of daily
// returns. Fewer than two observations yields 0.
func (m *MetricsCalculator) Volatility(returns []float64) float64 {
	sd := sampleStd(returns)
	if sd == 0 {
		return 0
	}
	return sd * math.Sqrt(TradingDaysPerYear)
}

// MaxDrawdown is the largest peak-to-trough decline, as a positive
// fraction of the peak.
func (m *MetricsCalculator) MaxDrawdown(values []float64) float64 {
	var peak, maxDD float64
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// SharpeRatio is the annualized excess return over the daily risk-free
// rate divided by return volatility. Zero-variance series yields 0.
func (m *MetricsCalculator) SharpeRatio(returns []float64) float64 {
	sd := sampleStd(returns)
	if sd == 0 {
		return 0
	}
	excess := mean(returns) - m.riskFreeRate/TradingDaysPerYear
	return excess / sd * math.Sqrt(TradingDaysPerYear)
}

// SortinoRatio uses only downside deviation in the denominator. A
// series with no negative returns yields 0.
func (m *MetricsCalculator) SortinoRatio(returns []float64) float64 {
	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}
	sd := sampleStd(downside)
	if sd == 0 {
		return 0
	}
	excess := mean(returns) - m.riskFreeRate/TradingDaysPerYear
	return excess / sd * math.Sqrt(TradingDaysPerYear)
}

// CalmarRatio is annual return over max drawdown, 0 when there was no
// drawdown.
func (m *MetricsCalculator) CalmarRatio(annualReturn, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return 0
	}
	return annualReturn / maxDrawdown
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStd is the n−1 standard deviation, matching how daily return
// volatility is conventionally estimated. Fewer than two observations
// yields 0.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mu := mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
