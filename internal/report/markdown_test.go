package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quantbt/internal/domain"
)

func sampleResult() *domain.BacktestResult {
	return &domain.BacktestResult{
		StrategyName:   "ma_cross_5_20",
		Symbol:         "600519.SH",
		StartDate:      time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
		InitialCapital: 100000,
		FinalCapital:   112000,
		Trades: []*domain.Trade{
			{Symbol: "600519.SH", Side: domain.SideBuy, Quantity: 100, Price: 10.0,
				Commission: 5, Timestamp: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		},
		Metrics: map[string]float64{
			"annual_return": 0.25,
			"volatility":    0.18,
			"max_drawdown":  0.08,
			"sharpe_ratio":  1.3,
			"sortino_ratio": 1.8,
			"calmar_ratio":  3.1,
		},
	}
}

func TestRender(t *testing.T) {
	md := Render(sampleResult())

	for _, want := range []string{
		"# Backtest Report: ma_cross_5_20",
		"| Symbol | 600519.SH |",
		"| Period | 2024-01-02 to 2024-06-28 |",
		"| Total Return | 12.00% |",
		"| Max Drawdown | 8.00% |",
		"| Sharpe Ratio | 1.30 |",
		"| 2024-02-01 | BUY | 100 | 10.00 | 5.00 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestRenderNoTrades(t *testing.T) {
	r := sampleResult()
	r.Trades = nil
	if strings.Contains(Render(r), "## Trades") {
		t.Error("trade section rendered for a result with no trades")
	}
}

func TestWriteCreatesReportAndLatest(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	path, err := w.Write(sampleResult())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("report written to %s, want inside %s", path, dir)
	}

	report, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	latest, err := os.ReadFile(filepath.Join(dir, "latest.md"))
	if err != nil {
		t.Fatalf("reading latest.md: %v", err)
	}
	if string(report) != string(latest) {
		t.Error("latest.md differs from the report file")
	}
}
