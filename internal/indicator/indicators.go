// Package indicator wraps the talib routines the built-in strategies
// use, working on plain float64 series extracted from bars.
package indicator

import (
	"github.com/markcheno/go-talib"

	"quantbt/internal/domain"
)

// Closes extracts the close price series from a bar slice.
func Closes(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volume series as float64.
func Volumes(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = float64(b.Volume)
	}
	return out
}

// MA is the simple moving average. Values before the warmup window are 0.
func MA(values []float64, period int) []float64 {
	if len(values) < period {
		return make([]float64, len(values))
	}
	return talib.Sma(values, period)
}

// EMA is the exponential moving average.
func EMA(values []float64, period int) []float64 {
	if len(values) < period {
		return make([]float64, len(values))
	}
	return talib.Ema(values, period)
}

// RSI is the relative strength index over the given lookback.
func RSI(values []float64, period int) []float64 {
	if len(values) <= period {
		return make([]float64, len(values))
	}
	return talib.Rsi(values, period)
}

// MACD returns the macd line, signal line, and histogram.
func MACD(values []float64, fast, slow, signal int) (macd, sig, hist []float64) {
	if len(values) < slow+signal {
		n := len(values)
		return make([]float64, n), make([]float64, n), make([]float64, n)
	}
	return talib.Macd(values, fast, slow, signal)
}

// BollingerBands returns the upper, middle, and lower bands.
func BollingerBands(values []float64, period int, width float64) (upper, middle, lower []float64) {
	if len(values) < period {
		n := len(values)
		return make([]float64, n), make([]float64, n), make([]float64, n)
	}
	return talib.BBands(values, period, width, width, talib.SMA)
}

// ATR is the average true range over high/low/close series.
func ATR(bars []domain.Bar, period int) []float64 {
	if len(bars) <= period {
		return make([]float64, len(bars))
	}
	high := make([]float64, len(bars))
	low := make([]float64, len(bars))
	closes := make([]float64, len(bars))
	for i, b := range bars {
		high[i] = b.High
		low[i] = b.Low
		closes[i] = b.Close
	}
	return talib.Atr(high, low, closes, period)
}

// Crossover marks where fast crosses slow: +1 on the bar where fast
// moves above slow, -1 where it moves below, 0 elsewhere. The first bar
// and any bar where either input is still in warmup (zero) stay 0.
func Crossover(fast, slow []float64) []int {
	n := len(fast)
	if len(slow) < n {
		n = len(slow)
	}
	out := make([]int, n)
	for i := 1; i < n; i++ {
		if fast[i] == 0 || slow[i] == 0 || fast[i-1] == 0 || slow[i-1] == 0 {
			continue
		}
		switch {
		case fast[i-1] <= slow[i-1] && fast[i] > slow[i]:
			out[i] = 1
		case fast[i-1] >= slow[i-1] && fast[i] < slow[i]:
			out[i] = -1
		}
	}
	return out
}
