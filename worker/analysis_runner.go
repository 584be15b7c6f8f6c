package worker

import (
	"context"
	"log/slog"
	"time"

	"coinpulse/internal/analyze"
	"coinpulse/internal/storage"
)

// AnalysisRunner periodically runs the analysis pipeline for a symbol list
// and caches each aggregate for the report surface.
type AnalysisRunner struct {
	Analyzer  *analyze.Analyzer
	Store     *storage.RedisStore
	Symbols   []string
	Days      int
	Interval  time.Duration
	ResultTTL time.Duration
}

func (w *AnalysisRunner) Name() string { return "analysis-runner" }

func (w *AnalysisRunner) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = time.Hour
	}
	if w.ResultTTL <= 0 {
		w.ResultTTL = 7 * 24 * time.Hour
	}

	// initial run
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *AnalysisRunner) runOnce(ctx context.Context) {
	for _, symbol := range w.Symbols {
		if ctx.Err() != nil {
			return
		}
		result, err := w.Analyzer.Run(ctx, symbol, w.Days)
		if err != nil {
			slog.Error("analysis-runner: run failed", "symbol", symbol, "error", err)
			continue
		}
		if err := w.Store.SaveResult(ctx, result, w.ResultTTL); err != nil {
			slog.Error("analysis-runner: store error", "symbol", symbol, "error", err)
			continue
		}
		slog.Info("analysis-runner: completed for symbol", "symbol", symbol,
			"retained", result.RetainedPosts, "no_analyzable", result.NoAnalyzable)
	}
}
