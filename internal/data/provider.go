// Package data fetches daily bars from market-data vendors and keeps a
// local store warm so backtests never hit the network twice.
package data

import (
	"context"
	"errors"
	"time"

	"quantbt/internal/domain"
)

// ErrNoData is returned when a provider has no bars for the requested
// symbol and range.
var ErrNoData = errors.New("data: no bars returned")

// Provider fetches daily bars from a market-data vendor.
type Provider interface {
	Name() string

	// DailyBars returns bars for the symbol within [start, end], sorted
	// by date ascending.
	DailyBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error)

	// NormalizeSymbol converts user input into the vendor's canonical
	// symbol form.
	NormalizeSymbol(symbol string) string
}
