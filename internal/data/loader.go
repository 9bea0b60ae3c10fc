package data

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"quantbt/internal/domain"
	"quantbt/internal/store"
	"quantbt/internal/util"
)

// Loader serves bars cache-first: the store is consulted before the
// provider, and freshly fetched bars are written back.
type Loader struct {
	store    store.BarStore
	provider Provider
	log      *slog.Logger
}

func NewLoader(s store.BarStore, p Provider) *Loader {
	return &Loader{
		store:    s,
		provider: p,
		log:      slog.Default().With("component", "loader"),
	}
}

// Load returns bars for the symbol within [start, end]. Cached bars are
// used when they cover the range; otherwise the provider is called and
// the result persisted before being returned.
func (l *Loader) Load(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error) {
	symbol = l.provider.NormalizeSymbol(symbol)

	cached, err := l.store.ReadBars(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("reading cached bars for %s: %w", symbol, err)
	}
	if l.covers(cached, start, end) {
		l.log.Debug("cache hit", "symbol", symbol, "bars", len(cached))
		return cached, nil
	}

	l.log.Info("fetching bars", "symbol", symbol, "provider", l.provider.Name(),
		"start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"))
	fetched, err := l.provider.DailyBars(ctx, symbol, start, end)
	if err != nil {
		// Stale cache still beats nothing.
		if len(cached) > 0 {
			l.log.Warn("fetch failed, serving cached bars", "symbol", symbol, "error", err)
			return cached, nil
		}
		return nil, err
	}

	if err := l.store.WriteBars(ctx, fetched); err != nil {
		return nil, fmt.Errorf("caching bars for %s: %w", symbol, err)
	}
	return fetched, nil
}

// covers reports whether the cached series spans the request: the first
// bar must fall on or before the first trading day of the range and the
// last bar on or after the last trading day.
func (l *Loader) covers(bars []domain.Bar, start, end time.Time) bool {
	if len(bars) == 0 {
		return false
	}
	firstDay := start
	if !util.IsTradingDay(firstDay) {
		firstDay = util.NextTradingDay(firstDay)
	}
	lastDay := end
	if !util.IsTradingDay(lastDay) {
		lastDay = util.PrevTradingDay(lastDay)
	}
	if lastDay.Before(firstDay) {
		return true
	}
	return !bars[0].Date.After(firstDay) &&
		!bars[len(bars)-1].Date.Before(lastDay)
}
