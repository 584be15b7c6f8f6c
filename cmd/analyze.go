package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"coinpulse/internal/ai"
	"coinpulse/internal/analyze"
	"coinpulse/internal/coinex"
	"coinpulse/internal/collector"
	"coinpulse/internal/config"
	"coinpulse/internal/model"
	"coinpulse/internal/registry"
	"coinpulse/internal/resolver"
	"coinpulse/internal/score"
	"coinpulse/internal/twitterapi"

	"github.com/spf13/cobra"
)

var (
	analyzeDays int
	analyzeJSON bool
)

// analyzeCmd runs one analysis batch for a symbol and prints the aggregate.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <symbol>",
	Short: "Collect and analyze posts for a crypto asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := args[0]
		cfg := GetConfig()

		analyzer, err := newAnalyzer(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Minute)
		defer cancel()

		result, err := analyzer.Run(ctx, symbol, analyzeDays)
		if err != nil {
			return err
		}
		if analyzeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		printResult(cmd, result)
		return nil
	},
}

// newAnalyzer wires the pipeline from configuration. The LLM, price, and
// team-registry collaborators are all optional.
func newAnalyzer(cfg config.Config) (*analyze.Analyzer, error) {
	search := twitterapi.NewClient(cfg.Search)

	delay, err := time.ParseDuration(cfg.Analysis.WindowDelay)
	if err != nil {
		return nil, fmt.Errorf("invalid window_delay: %w", err)
	}

	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		// degraded, not fatal: run without team filtering
		slog.Warn("team registry unavailable, continuing without it", "error", err)
		reg = registry.Empty()
	}

	var llm ai.Analyzer
	if cfg.OpenAI.APIKey != "" {
		llm = ai.NewOpenAI(ai.Config{APIKey: cfg.OpenAI.APIKey, Model: cfg.OpenAI.Model, BaseURL: cfg.OpenAI.BaseURL})
	} else {
		slog.Warn("no OpenAI key configured, using keyword-only classification")
	}

	return &analyze.Analyzer{
		Resolver:  resolver.New(search),
		Collector: collector.New(search, cfg.Analysis.MaxPagesPerWindow, delay),
		Price:     coinex.NewClient(cfg.Price.BaseURL),
		AI:        llm,
		Registry:  reg,
		Scorer:    score.NewEngine(cfg.Scoring),
		Analysis:  cfg.Analysis,
		Scoring:   cfg.Scoring,
	}, nil
}

func printResult(cmd *cobra.Command, r *model.AnalysisResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s, last %d days)\n", r.Symbol, r.SearchToken, r.Days)
	fmt.Fprintf(out, "  collected %d, retained %d (dedup removed %d)\n",
		r.CollectedPosts, r.RetainedPosts, r.Filter.DedupRemoved)
	if r.NoAnalyzable {
		fmt.Fprintln(out, "  no analyzable content")
		return
	}
	fmt.Fprintf(out, "  sentiment: +%d / -%d / =%d, total weighted impact %.2f\n",
		r.Sentiment[model.SentimentPositive], r.Sentiment[model.SentimentNegative],
		r.Sentiment[model.SentimentNeutral], r.TotalWeightedImpact)
	fmt.Fprintf(out, "  filtered: news %d, team %d, spam %d, ai-spam %d, ai-informative %d\n",
		r.Filter.NewsAccounts, r.Filter.TeamAccounts, r.Filter.BasicSpam,
		r.Filter.AiSpam, r.Filter.AiInformative)
	fmt.Fprintf(out, "  high influence %d, viral %d\n", len(r.HighInfluence), len(r.Viral))
	for i, t := range r.Topics {
		if i >= 5 {
			break
		}
		fmt.Fprintf(out, "  topic %-12s %d posts (%.0f%% pos, %.0f%% neg)\n",
			t.Topic, t.Total, t.PositivePct, t.NegativePct)
	}
	if r.Price != nil {
		fmt.Fprintf(out, "  price $%.6f (24h %+.2f%%)\n", r.Price.PriceUSD, r.Price.ChangeRate*100)
	}
	if r.Summary != "" {
		fmt.Fprintf(out, "  summary: %s\n", r.Summary)
	}
	fmt.Fprintf(out, "  tokens used: %d\n", r.TokensUsed)
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeDays, "days", 0, "days of history to collect (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full aggregate as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
