package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"quantbt/internal/backtest"
	"quantbt/internal/data"
	"quantbt/internal/report"
	"quantbt/internal/store"
	"quantbt/internal/strategy"
	_ "quantbt/internal/strategy/builtins"
)

var (
	btSymbol   string
	btStrategy string
	btStart    string
	btEnd      string
	btCapital  float64
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a strategy over historical bars and write a report",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, end, err := parseDateRange(btStart, btEnd)
		if err != nil {
			return err
		}

		strat, err := strategy.New(btStrategy)
		if err != nil {
			return fmt.Errorf("available strategies: %v: %w", strategy.List(), err)
		}

		barStore, err := store.Open(cfg.Storage)
		if err != nil {
			return err
		}
		provider, err := newProvider()
		if err != nil {
			return err
		}
		loader := data.NewLoader(barStore, provider)

		ctx := cmd.Context()
		bars, err := loader.Load(ctx, btSymbol, start, end)
		if err != nil {
			return err
		}

		btCfg := cfg.Backtest
		if btCapital > 0 {
			btCfg.InitialCapital = btCapital
		}
		engine := backtest.NewEngine(btCfg)
		result, err := engine.Run(ctx, strat, bars, provider.NormalizeSymbol(btSymbol))
		if err != nil {
			return err
		}

		path, err := report.NewWriter(cfg.Report.OutputDir).Write(result)
		if err != nil {
			return err
		}

		fmt.Printf("strategy:      %s\n", result.StrategyName)
		fmt.Printf("period:        %s to %s\n",
			result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"))
		fmt.Printf("final capital: %.2f\n", result.FinalCapital)
		fmt.Printf("total return:  %.2f%%\n", result.TotalReturnPct())
		fmt.Printf("max drawdown:  %.2f%%\n", result.Metrics["max_drawdown"]*100)
		fmt.Printf("sharpe:        %.2f\n", result.Metrics["sharpe_ratio"])
		fmt.Printf("trades:        %d\n", len(result.Trades))
		fmt.Printf("report:        %s\n", path)
		return nil
	},
}

func newProvider() (data.Provider, error) {
	switch cfg.Data.Provider {
	case "tushare", "":
		return data.NewTushareProvider(cfg.Data.Tushare), nil
	case "alpaca":
		return data.NewAlpacaProvider(cfg.Data.Alpaca), nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", cfg.Data.Provider)
	}
}

func parseDateRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing start date %q: %w", startStr, err)
	}
	end := time.Now().UTC().Truncate(24 * time.Hour)
	if endStr != "" {
		end, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing end date %q: %w", endStr, err)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s before start date %s", endStr, startStr)
	}
	return start, end, nil
}

func init() {
	backtestCmd.Flags().StringVarP(&btSymbol, "symbol", "s", "", "symbol to backtest, e.g. 600519 or 600519.SH")
	backtestCmd.Flags().StringVar(&btStrategy, "strategy", "ma_cross", "registered strategy name")
	backtestCmd.Flags().StringVar(&btStart, "start", "", "start date, YYYY-MM-DD")
	backtestCmd.Flags().StringVar(&btEnd, "end", "", "end date, YYYY-MM-DD (default today)")
	backtestCmd.Flags().Float64Var(&btCapital, "capital", 0, "override initial capital")
	backtestCmd.MarkFlagRequired("symbol")
	backtestCmd.MarkFlagRequired("start")
	rootCmd.AddCommand(backtestCmd)
}
