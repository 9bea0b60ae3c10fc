package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"quantbt/internal/store"
)

var (
	fetchSymbol string
	fetchStart  string
	fetchEnd    string
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage the local bar store",
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch daily bars from the configured provider into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, end, err := parseDateRange(fetchStart, fetchEnd)
		if err != nil {
			return err
		}

		barStore, err := store.Open(cfg.Storage)
		if err != nil {
			return err
		}
		provider, err := newProvider()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		symbol := provider.NormalizeSymbol(fetchSymbol)
		bars, err := provider.DailyBars(ctx, symbol, start, end)
		if err != nil {
			return err
		}
		if err := barStore.WriteBars(ctx, bars); err != nil {
			return err
		}
		fmt.Printf("stored %d bars for %s\n", len(bars), symbol)
		return nil
	},
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List symbols with stored bars",
	RunE: func(cmd *cobra.Command, args []string) error {
		barStore, err := store.Open(cfg.Storage)
		if err != nil {
			return err
		}
		symbols, err := barStore.ListSymbols(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range symbols {
			fmt.Println(s)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchSymbol, "symbol", "s", "", "symbol to fetch")
	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "start date, YYYY-MM-DD")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", "", "end date, YYYY-MM-DD (default today)")
	fetchCmd.MarkFlagRequired("symbol")
	fetchCmd.MarkFlagRequired("start")

	dataCmd.AddCommand(fetchCmd, symbolsCmd)
	rootCmd.AddCommand(dataCmd)
}
