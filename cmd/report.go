package cmd

import (
	"context"
	"fmt"
	"time"

	"coinpulse/internal/redisclient"
	"coinpulse/internal/storage"

	"github.com/spf13/cobra"
)

// reportCmd prints the latest cached analysis for a symbol without
// re-running the pipeline.
var reportCmd = &cobra.Command{
	Use:   "report <symbol>",
	Short: "Print the latest cached analysis for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		store := storage.NewRedisStore(rdb)

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		result, err := store.LatestResult(ctx, args[0])
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("no cached result for %s", args[0])
		}
		printResult(cmd, result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
