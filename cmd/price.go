package cmd

import (
	"context"
	"fmt"
	"time"

	"coinpulse/internal/coinex"

	"github.com/spf13/cobra"
)

// priceCmd fetches and prints the 24h price context for a symbol.
var priceCmd = &cobra.Command{
	Use:   "price <symbol>",
	Short: "Print the 24h price context for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		client := coinex.NewClient(cfg.Price.BaseURL)

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		pc := client.PriceContext(ctx, args[0])
		if pc == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "no price data available")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s $%.6f 24h %+.2f%% (%s) volume $%.0f\n",
			pc.Symbol, pc.PriceUSD, pc.ChangeRate*100, coinex.MovementLabel(pc.ChangeRate), pc.VolumeUSD)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(priceCmd)
}
