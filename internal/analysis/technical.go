// Package analysis summarizes a bar series through the standard
// technical indicators and derives a composite buy/sell/hold signal.
package analysis

import (
	"errors"
	"fmt"
	"time"

	"quantbt/internal/domain"
	"quantbt/internal/indicator"
)

// ErrInsufficientData is returned when the series is too short to
// compute the indicator set.
var ErrInsufficientData = errors.New("analysis: insufficient data")

// minBars is the shortest series the analyzer accepts; the 20-day
// moving average and Bollinger bands need at least this much.
const minBars = 20

// Cross marks a fast/slow crossover state on the latest bar.
type Cross string

const (
	CrossGolden Cross = "golden"
	CrossDeath  Cross = "death"
	CrossNone   Cross = "none"
)

// MALine is one moving-average reading relative to the latest close.
type MALine struct {
	Period      int
	Value       float64
	Above       bool    // close above the average
	DistancePct float64 // (close − ma) / ma × 100
}

// MAResult covers the tracked moving averages plus the ma5/ma20 cross.
type MAResult struct {
	Lines []MALine
	Cross Cross
}

// MACDResult carries the latest MACD readings. Bullish means the
// histogram is positive.
type MACDResult struct {
	Value     float64
	Signal    float64
	Histogram float64
	Bullish   bool
	Cross     Cross
}

// RSIStatus classifies the latest RSI reading.
type RSIStatus string

const (
	RSIOverbought RSIStatus = "overbought"
	RSIOversold   RSIStatus = "oversold"
	RSINormal     RSIStatus = "normal"
)

type RSIResult struct {
	Value  float64
	Status RSIStatus
}

// BandPosition locates the latest close relative to the Bollinger bands.
type BandPosition string

const (
	BandAboveUpper BandPosition = "above_upper"
	BandBelowLower BandPosition = "below_lower"
	BandWithin     BandPosition = "within"
)

type BollingerResult struct {
	Upper    float64
	Middle   float64
	Lower    float64
	Position BandPosition
}

// Report is the full technical read on a symbol as of its latest bar.
// MACD is nil when the series is too short for the slow EMA plus the
// signal line.
type Report struct {
	Symbol    string
	Date      time.Time
	Close     float64
	MA        *MAResult
	MACD      *MACDResult
	RSI       *RSIResult
	Bollinger *BollingerResult
	Signal    domain.SignalAction
}

// Analyzer computes indicator verdicts over daily bars.
type Analyzer struct {
	maPeriods  []int
	macdFast   int
	macdSlow   int
	macdSignal int
	rsiPeriod  int
	overbought float64
	oversold   float64
	bbPeriod   int
	bbWidth    float64
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		maPeriods:  []int{5, 10, 20, 60},
		macdFast:   12,
		macdSlow:   26,
		macdSignal: 9,
		rsiPeriod:  14,
		overbought: 70,
		oversold:   30,
		bbPeriod:   20,
		bbWidth:    2.0,
	}
}

// Analyze computes every indicator section and the composite signal.
func (a *Analyzer) Analyze(bars []domain.Bar) (*Report, error) {
	if len(bars) < minBars {
		return nil, fmt.Errorf("%w: have %d bars, need %d", ErrInsufficientData, len(bars), minBars)
	}

	closes := indicator.Closes(bars)
	last := bars[len(bars)-1]

	report := &Report{
		Symbol:    last.Symbol,
		Date:      last.Date,
		Close:     last.Close,
		MA:        a.analyzeMA(closes),
		RSI:       a.analyzeRSI(closes),
		Bollinger: a.analyzeBollinger(closes),
	}
	if len(closes) >= a.macdSlow+a.macdSignal {
		report.MACD = a.analyzeMACD(closes)
	}
	report.Signal = a.compositeSignal(report)
	return report, nil
}

func (a *Analyzer) analyzeMA(closes []float64) *MAResult {
	price := closes[len(closes)-1]
	result := &MAResult{Cross: CrossNone}

	for _, period := range a.maPeriods {
		if len(closes) < period {
			continue
		}
		ma := indicator.MA(closes, period)
		value := ma[len(ma)-1]
		result.Lines = append(result.Lines, MALine{
			Period:      period,
			Value:       value,
			Above:       price > value,
			DistancePct: (price - value) / value * 100,
		})
	}

	fast := indicator.MA(closes, 5)
	slow := indicator.MA(closes, 20)
	result.Cross = latestCross(fast, slow)
	return result
}

func (a *Analyzer) analyzeMACD(closes []float64) *MACDResult {
	macd, sig, hist := indicator.MACD(closes, a.macdFast, a.macdSlow, a.macdSignal)
	n := len(macd)

	result := &MACDResult{
		Value:     macd[n-1],
		Signal:    sig[n-1],
		Histogram: hist[n-1],
		Bullish:   hist[n-1] > 0,
		Cross:     latestCross(macd, sig),
	}
	return result
}

func (a *Analyzer) analyzeRSI(closes []float64) *RSIResult {
	rsi := indicator.RSI(closes, a.rsiPeriod)
	value := rsi[len(rsi)-1]

	status := RSINormal
	if value > a.overbought {
		status = RSIOverbought
	} else if value < a.oversold {
		status = RSIOversold
	}
	return &RSIResult{Value: value, Status: status}
}

func (a *Analyzer) analyzeBollinger(closes []float64) *BollingerResult {
	upper, middle, lower := indicator.BollingerBands(closes, a.bbPeriod, a.bbWidth)
	n := len(closes)
	price := closes[n-1]

	position := BandWithin
	if price > upper[n-1] {
		position = BandAboveUpper
	} else if price < lower[n-1] {
		position = BandBelowLower
	}
	return &BollingerResult{
		Upper:    upper[n-1],
		Middle:   middle[n-1],
		Lower:    lower[n-1],
		Position: position,
	}
}

// compositeSignal weighs the sections: crossovers count double, trend
// and threshold readings count once. Buy needs a lead of more than one
// point over sell, and vice versa; anything closer is a hold.
func (a *Analyzer) compositeSignal(r *Report) domain.SignalAction {
	var buy, sell int

	switch r.MA.Cross {
	case CrossGolden:
		buy += 2
	case CrossDeath:
		sell += 2
	}

	if r.MACD != nil {
		switch r.MACD.Cross {
		case CrossGolden:
			buy += 2
		case CrossDeath:
			sell += 2
		}
		if r.MACD.Bullish {
			buy++
		} else {
			sell++
		}
	}

	switch r.RSI.Status {
	case RSIOversold:
		buy++
	case RSIOverbought:
		sell++
	}

	switch r.Bollinger.Position {
	case BandBelowLower:
		buy++
	case BandAboveUpper:
		sell++
	}

	switch {
	case buy > sell+1:
		return domain.ActionBuy
	case sell > buy+1:
		return domain.ActionSell
	default:
		return domain.ActionHold
	}
}

// latestCross compares the last two readings of two series: golden when
// fast moved above slow on the latest bar, death when it moved below.
func latestCross(fast, slow []float64) Cross {
	n := len(fast)
	if n < 2 || len(slow) < 2 {
		return CrossNone
	}
	switch {
	case fast[n-2] <= slow[n-2] && fast[n-1] > slow[n-1]:
		return CrossGolden
	case fast[n-2] >= slow[n-2] && fast[n-1] < slow[n-1]:
		return CrossDeath
	default:
		return CrossNone
	}
}
