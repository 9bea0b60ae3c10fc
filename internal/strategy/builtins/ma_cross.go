// Package builtins registers the strategies that ship with the CLI.
package builtins

import (
	"fmt"

	"quantbt/internal/domain"
	"quantbt/internal/indicator"
	"quantbt/internal/strategy"
)

func init() {
	strategy.Register("ma_cross", func() strategy.Strategy {
		return NewMACross(5, 20, 100)
	})
}

// MACross buys a fixed lot on a golden cross of two moving averages and
// sells the whole position on a death cross.
type MACross struct {
	strategy.Base
	fastPeriod int
	slowPeriod int
	lotSize    int64
	cross      []int
}

func NewMACross(fast, slow int, lotSize int64) *MACross {
	return &MACross{fastPeriod: fast, slowPeriod: slow, lotSize: lotSize}
}

func (s *MACross) Name() string {
	return fmt.Sprintf("ma_cross_%d_%d", s.fastPeriod, s.slowPeriod)
}

func (s *MACross) Init(bars []domain.Bar) error {
	if s.fastPeriod >= s.slowPeriod {
		return fmt.Errorf("fast period %d must be below slow period %d", s.fastPeriod, s.slowPeriod)
	}
	if err := s.Base.Init(bars); err != nil {
		return err
	}
	closes := indicator.Closes(bars)
	fast := indicator.MA(closes, s.fastPeriod)
	slow := indicator.MA(closes, s.slowPeriod)
	s.cross = indicator.Crossover(fast, slow)
	return nil
}

func (s *MACross) Next(bar domain.Bar) *domain.Signal {
	i := s.Advance()
	if i < s.slowPeriod || i >= len(s.cross) {
		return nil
	}

	switch {
	case s.cross[i] == 1 && s.Position() == 0:
		return s.signal(domain.ActionBuy, bar, s.lotSize, "golden cross")
	case s.cross[i] == -1 && s.Position() > 0:
		return s.signal(domain.ActionSell, bar, s.Position(), "death cross")
	}
	return nil
}

func (s *MACross) signal(action domain.SignalAction, bar domain.Bar, qty int64, reason string) *domain.Signal {
	return &domain.Signal{
		Action:    action,
		Symbol:    bar.Symbol,
		Price:     bar.Close,
		Quantity:  qty,
		Timestamp: bar.Date,
		Reason:    fmt.Sprintf("%s ma%d/ma%d", reason, s.fastPeriod, s.slowPeriod),
	}
}

var _ strategy.Strategy = (*MACross)(nil)
