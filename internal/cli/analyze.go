package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"quantbt/internal/analysis"
	"quantbt/internal/data"
	"quantbt/internal/store"
)

var (
	anSymbol   string
	anLookback int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Print a technical indicator summary for a symbol",
	RunE: func(cmd *cobra.Command, args []string) error {
		barStore, err := store.Open(cfg.Storage)
		if err != nil {
			return err
		}
		provider, err := newProvider()
		if err != nil {
			return err
		}
		loader := data.NewLoader(barStore, provider)

		end := time.Now().UTC().Truncate(24 * time.Hour)
		start := end.AddDate(0, 0, -anLookback)
		bars, err := loader.Load(cmd.Context(), anSymbol, start, end)
		if err != nil {
			return err
		}

		report, err := analysis.NewAnalyzer().Analyze(bars)
		if err != nil {
			return err
		}
		printAnalysis(report)
		return nil
	},
}

func printAnalysis(r *analysis.Report) {
	fmt.Printf("%s  %s  close %.2f\n\n", r.Symbol, r.Date.Format("2006-01-02"), r.Close)

	fmt.Println("moving averages:")
	for _, line := range r.MA.Lines {
		rel := "below"
		if line.Above {
			rel = "above"
		}
		fmt.Printf("  ma%-3d %10.2f  close %s (%+.2f%%)\n", line.Period, line.Value, rel, line.DistancePct)
	}
	fmt.Printf("  ma5/ma20 cross: %s\n\n", r.MA.Cross)

	if r.MACD != nil {
		trend := "bearish"
		if r.MACD.Bullish {
			trend = "bullish"
		}
		fmt.Printf("macd: %.4f  signal %.4f  histogram %.4f  (%s, cross %s)\n",
			r.MACD.Value, r.MACD.Signal, r.MACD.Histogram, trend, r.MACD.Cross)
	}
	fmt.Printf("rsi:  %.1f (%s)\n", r.RSI.Value, r.RSI.Status)
	fmt.Printf("boll: upper %.2f  middle %.2f  lower %.2f  (%s)\n\n",
		r.Bollinger.Upper, r.Bollinger.Middle, r.Bollinger.Lower, r.Bollinger.Position)

	fmt.Printf("composite signal: %s\n", r.Signal)
}

func init() {
	analyzeCmd.Flags().StringVarP(&anSymbol, "symbol", "s", "", "symbol to analyze")
	analyzeCmd.Flags().IntVar(&anLookback, "lookback", 180, "calendar days of history to load")
	analyzeCmd.MarkFlagRequired("symbol")
	rootCmd.AddCommand(analyzeCmd)
}
