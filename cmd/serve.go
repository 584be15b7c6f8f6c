package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinpulse/internal/redisclient"
	"coinpulse/internal/storage"
	"coinpulse/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the periodic analysis workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if len(cfg.Serve.Symbols) == 0 {
			return fmt.Errorf("serve: no symbols configured")
		}

		interval, err := time.ParseDuration(cfg.Serve.Interval)
		if err != nil {
			return fmt.Errorf("invalid serve interval: %w", err)
		}
		ttl, err := time.ParseDuration(cfg.Serve.ResultTTL)
		if err != nil {
			return fmt.Errorf("invalid result_ttl: %w", err)
		}

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		store := storage.NewRedisStore(rdb)

		analyzer, err := newAnalyzer(cfg)
		if err != nil {
			return err
		}

		runner := &worker.AnalysisRunner{
			Analyzer:  analyzer,
			Store:     store,
			Symbols:   cfg.Serve.Symbols,
			Days:      cfg.Analysis.TargetDays,
			Interval:  interval,
			ResultTTL: ttl,
		}

		slog.Info("starting analysis runner", "symbols", cfg.Serve.Symbols, "interval", interval)
		mgr := worker.NewManager(runner)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			log.Printf("received signal: %s, shutting down", s)
			cancel()
		}()

		return mgr.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
