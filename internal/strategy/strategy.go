// Package strategy defines the contract a trading strategy implements
// and a registry the CLI uses to look strategies up by name.
package strategy

import (
	"fmt"
	"sort"
	"sync"

	"quantbt/internal/domain"
)

// Strategy is the hook surface a backtest run drives. Init sees the full
// bar series before the run so indicators can be precomputed; Next is
// called once per bar in order and may emit a signal; OnOrderFilled is
// called after the broker fills an order the strategy's signal caused.
type Strategy interface {
	Name() string
	Init(bars []domain.Bar) error
	Next(bar domain.Bar) *domain.Signal
	OnOrderFilled(order *domain.Order)
}

// Base carries the bookkeeping every strategy needs: the bar series, a
// cursor advanced once per Next call, and the net position built up
// from fills. Embed it and call Advance at the top of Next.
type Base struct {
	bars     []domain.Bar
	idx      int
	position int64
}

func (b *Base) Init(bars []domain.Bar) error {
	b.bars = bars
	b.idx = -1
	b.position = 0
	return nil
}

// Advance moves the cursor to the next bar and returns its index.
func (b *Base) Advance() int {
	b.idx++
	return b.idx
}

func (b *Base) Index() int         { return b.idx }
func (b *Base) Bars() []domain.Bar { return b.bars }
func (b *Base) Position() int64    { return b.position }

func (b *Base) OnOrderFilled(order *domain.Order) {
	if order.Side == domain.SideBuy {
		b.position += order.FilledQuantity
	} else {
		b.position -= order.FilledQuantity
	}
}

// Factory builds a fresh strategy instance per backtest run.
type Factory func() Strategy

var (
	mu       sync.RWMutex
	registry = make(map[string]Factory)
)

// Register makes a strategy available under its name. Later
// registrations with the same name win.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = f
}

// New builds a registered strategy by name.
func New(name string) (Strategy, error) {
	mu.RLock()
	f, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("strategy %q not registered", name)
	}
	return f(), nil
}

// List returns the registered strategy names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
