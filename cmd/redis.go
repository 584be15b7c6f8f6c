package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"coinpulse/internal/redisclient"
	"coinpulse/internal/storage"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Result cache utilities",
}

var redisPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the Redis connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res)
		return nil
	},
}

var redisSymbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List symbols with cached analysis results, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		symbols, err := storage.NewRedisStore(rdb).RecentSymbols(ctx, 50)
		if err != nil {
			return err
		}
		if len(symbols) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no cached results")
			return nil
		}
		for _, s := range symbols {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

func init() {
	redisCmd.AddCommand(redisPingCmd, redisSymbolsCmd)
	rootCmd.AddCommand(redisCmd)
}
