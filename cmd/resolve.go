package cmd

import (
	"context"
	"fmt"
	"time"

	"coinpulse/internal/resolver"
	"coinpulse/internal/twitterapi"

	"github.com/spf13/cobra"
)

// resolveCmd probes the search backend and prints the token chosen for a
// symbol.
var resolveCmd = &cobra.Command{
	Use:   "resolve <symbol>",
	Short: "Show which search token variant is used for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		search := twitterapi.NewClient(cfg.Search)
		r := resolver.New(search)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		token := r.Resolve(ctx, args[0])
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
