// Package store persists daily bar data. Two backends exist: Parquet
// files for bulk history and a SQLite database for single-file setups.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quantbt/internal/config"
	"quantbt/internal/domain"
)

// ErrUnknownBackend is returned by Open for a backend name it does not
// recognize.
var ErrUnknownBackend = errors.New("store: unknown backend")

// BarStore persists and retrieves OHLCV bar data.
type BarStore interface {
	// WriteBars persists a batch of bars, replacing any bars already
	// stored for the same symbol and date.
	WriteBars(ctx context.Context, bars []domain.Bar) error

	// ReadBars returns bars for the symbol within [start, end], sorted
	// by date ascending.
	ReadBars(ctx context.Context, symbol string, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all distinct symbols with stored bars.
	ListSymbols(ctx context.Context) ([]string, error)
}

// Open builds the BarStore named by the storage config.
func Open(cfg config.Storage) (BarStore, error) {
	switch cfg.Backend {
	case "parquet":
		return NewParquetStore(cfg.DataDir), nil
	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
