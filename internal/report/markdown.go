// Package report renders backtest results as markdown files.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quantbt/internal/domain"
)

// Writer renders results into an output directory. Each report gets a
// timestamped filename and latest.md always points at the newest one.
type Writer struct {
	OutputDir string
}

func NewWriter(outputDir string) *Writer {
	return &Writer{OutputDir: outputDir}
}

// Write renders the result and returns the path of the report file.
func (w *Writer) Write(result *domain.BacktestResult) (string, error) {
	if err := os.MkdirAll(w.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}

	content := Render(result)
	name := fmt.Sprintf("%s_%s_%s.md",
		result.StrategyName,
		strings.ReplaceAll(result.Symbol, ".", "_"),
		time.Now().Format("20060102_150405"))
	path := filepath.Join(w.OutputDir, name)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.OutputDir, "latest.md"), []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing latest.md: %w", err)
	}
	return path, nil
}

// Render produces the markdown body for a result.
func Render(result *domain.BacktestResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Backtest Report: %s\n\n", result.StrategyName)
	fmt.Fprintf(&b, "Generated %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Item | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Symbol | %s |\n", result.Symbol)
	fmt.Fprintf(&b, "| Period | %s to %s |\n",
		result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "| Initial Capital | %.2f |\n", result.InitialCapital)
	fmt.Fprintf(&b, "| Final Capital | %.2f |\n", result.FinalCapital)
	fmt.Fprintf(&b, "| Total Return | %.2f%% |\n", result.TotalReturnPct())
	fmt.Fprintf(&b, "| Trades | %d |\n", len(result.Trades))
	b.WriteString("\n")

	b.WriteString("## Performance\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	writeMetricPct(&b, result, "annual_return", "Annual Return")
	writeMetricPct(&b, result, "volatility", "Volatility")
	writeMetricPct(&b, result, "max_drawdown", "Max Drawdown")
	writeMetric(&b, result, "sharpe_ratio", "Sharpe Ratio")
	writeMetric(&b, result, "sortino_ratio", "Sortino Ratio")
	writeMetric(&b, result, "calmar_ratio", "Calmar Ratio")
	b.WriteString("\n")

	if len(result.Trades) > 0 {
		b.WriteString("## Trades\n\n")
		b.WriteString("| Date | Side | Quantity | Price | Commission |\n|---|---|---|---|---|\n")
		for _, tr := range result.Trades {
			fmt.Fprintf(&b, "| %s | %s | %d | %.2f | %.2f |\n",
				tr.Timestamp.Format("2006-01-02"), tr.Side, tr.Quantity, tr.Price, tr.Commission)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeMetric(b *strings.Builder, result *domain.BacktestResult, key, label string) {
	fmt.Fprintf(b, "| %s | %.2f |\n", label, result.Metrics[key])
}

func writeMetricPct(b *strings.Builder, result *domain.BacktestResult, key, label string) {
	fmt.Fprintf(b, "| %s | %.2f%% |\n", label, result.Metrics[key]*100)
}
