package builtins

import (
	"fmt"

	"quantbt/internal/domain"
	"quantbt/internal/indicator"
	"quantbt/internal/strategy"
)

func init() {
	strategy.Register("rsi", func() strategy.Strategy {
		return NewRSIReversion(14, 30, 70, 100)
	})
}

// RSIReversion is a mean-reversion strategy: it buys when RSI drops
// below the oversold line and exits when RSI rises above overbought.
type RSIReversion struct {
	strategy.Base
	period     int
	oversold   float64
	overbought float64
	lotSize    int64
	rsi        []float64
}

func NewRSIReversion(period int, oversold, overbought float64, lotSize int64) *RSIReversion {
	return &RSIReversion{
		period:     period,
		oversold:   oversold,
		overbought: overbought,
		lotSize:    lotSize,
	}
}

func (s *RSIReversion) Name() string {
	return fmt.Sprintf("rsi_%d", s.period)
}

func (s *RSIReversion) Init(bars []domain.Bar) error {
	if s.oversold >= s.overbought {
		return fmt.Errorf("oversold %.0f must be below overbought %.0f", s.oversold, s.overbought)
	}
	if err := s.Base.Init(bars); err != nil {
		return err
	}
	s.rsi = indicator.RSI(indicator.Closes(bars), s.period)
	return nil
}

func (s *RSIReversion) Next(bar domain.Bar) *domain.Signal {
	i := s.Advance()
	if i <= s.period || i >= len(s.rsi) {
		return nil
	}

	switch {
	case s.rsi[i] < s.oversold && s.Position() == 0:
		return s.signal(domain.ActionBuy, bar, s.lotSize)
	case s.rsi[i] > s.overbought && s.Position() > 0:
		return s.signal(domain.ActionSell, bar, s.Position())
	}
	return nil
}

func (s *RSIReversion) signal(action domain.SignalAction, bar domain.Bar, qty int64) *domain.Signal {
	return &domain.Signal{
		Action:    action,
		Symbol:    bar.Symbol,
		Price:     bar.Close,
		Quantity:  qty,
		Timestamp: bar.Date,
		Reason:    fmt.Sprintf("rsi %.1f", s.rsi[s.Index()]),
	}
}

var _ strategy.Strategy = (*RSIReversion)(nil)
