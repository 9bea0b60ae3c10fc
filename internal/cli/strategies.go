package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"quantbt/internal/strategy"
	_ "quantbt/internal/strategy/builtins"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List registered strategies",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range strategy.List() {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}
